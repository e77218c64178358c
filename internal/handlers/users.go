package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/sicea/console/internal/api"
	"github.com/sicea/console/internal/session"
)

type UsersHandler struct {
	API      *api.Client
	Sessions *session.Manager
}

func NewUsersHandler(client *api.Client, sessions *session.Manager) *UsersHandler {
	return &UsersHandler{API: client, Sessions: sessions}
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	st := state(r)
	data := pageData(w, r, st)
	users, err := h.API.ListUsers(r.Context(), st.Token)
	if err != nil {
		if handleUnauthorized(h.Sessions, w, r, st, err) {
			return
		}
		data["Error"] = "Error al obtener usuarios"
		render(w, "users.html", data)
		return
	}
	data["Users"] = users
	render(w, "users.html", data)
}

func adminUserInput(r *http.Request) api.AdminUserInput {
	isActive := r.FormValue("is_active") != ""
	isStaff := r.FormValue("is_staff") != ""
	return api.AdminUserInput{
		Email:     strings.TrimSpace(r.FormValue("email")),
		FirstName: strings.TrimSpace(r.FormValue("first_name")),
		LastName:  strings.TrimSpace(r.FormValue("last_name")),
		Password:  r.FormValue("password"),
		IsActive:  &isActive,
		IsStaff:   &isStaff,
	}
}

// Create adds a user. Backend validation errors come back as a field map and
// re-render the list with inline messages next to the form inputs.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	st := state(r)
	if err := r.ParseForm(); err != nil {
		setFlash(w, "Formulario inválido")
		http.Redirect(w, r, "/gestion-usuarios", http.StatusSeeOther)
		return
	}
	in := adminUserInput(r)
	if _, err := h.API.CreateUser(r.Context(), st.Token, in); err != nil {
		if handleUnauthorized(h.Sessions, w, r, st, err) {
			return
		}
		h.renderWithFormError(w, r, st, in, err)
		return
	}
	setFlash(w, "Usuario creado")
	http.Redirect(w, r, "/gestion-usuarios", http.StatusSeeOther)
}

// renderWithFormError re-renders the users page keeping the submitted values
// and splitting the error into per-field messages when available.
func (h *UsersHandler) renderWithFormError(w http.ResponseWriter, r *http.Request, st *session.State, in api.AdminUserInput, err error) {
	data := pageData(w, r, st)
	users, lerr := h.API.ListUsers(r.Context(), st.Token)
	if lerr == nil {
		data["Users"] = users
	}
	data["FormValues"] = in
	data["ShowForm"] = true
	if apiErr, ok := err.(*api.Error); ok && apiErr.HasFields() {
		data["FieldErrors"] = apiErr.Fields
	} else {
		data["Error"] = apiErrorMessage(err)
	}
	render(w, "users.html", data)
}

func (h *UsersHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	st := state(r)
	id := mux.Vars(r)["id"]
	users, err := h.API.ListUsers(r.Context(), st.Token)
	if err != nil {
		if handleUnauthorized(h.Sessions, w, r, st, err) {
			return
		}
		setFlash(w, "Error al obtener usuarios")
		http.Redirect(w, r, "/gestion-usuarios", http.StatusSeeOther)
		return
	}
	for _, u := range users {
		if u.ID == id {
			data := pageData(w, r, st)
			data["EditUser"] = u
			render(w, "user_edit.html", data)
			return
		}
	}
	setFlash(w, "Usuario no encontrado")
	http.Redirect(w, r, "/gestion-usuarios", http.StatusSeeOther)
}

// Edit PATCHes a user; the password is only sent when the form filled it.
func (h *UsersHandler) Edit(w http.ResponseWriter, r *http.Request) {
	st := state(r)
	id := mux.Vars(r)["id"]
	if err := r.ParseForm(); err != nil {
		setFlash(w, "Formulario inválido")
		http.Redirect(w, r, "/gestion-usuarios", http.StatusSeeOther)
		return
	}
	in := adminUserInput(r)
	if _, err := h.API.UpdateUser(r.Context(), st.Token, id, in); err != nil {
		if handleUnauthorized(h.Sessions, w, r, st, err) {
			return
		}
		if apiErr, ok := err.(*api.Error); ok && apiErr.HasFields() {
			data := pageData(w, r, st)
			data["EditUser"] = map[string]any{"ID": id, "Email": in.Email, "FirstName": in.FirstName, "LastName": in.LastName, "IsActive": *in.IsActive, "IsStaff": *in.IsStaff}
			data["FieldErrors"] = apiErr.Fields
			render(w, "user_edit.html", data)
			return
		}
		setFlash(w, apiErrorMessage(err))
		http.Redirect(w, r, "/gestion-usuarios", http.StatusSeeOther)
		return
	}
	setFlash(w, "Usuario actualizado")
	http.Redirect(w, r, "/gestion-usuarios", http.StatusSeeOther)
}

func (h *UsersHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	st := state(r)
	id := mux.Vars(r)["id"]
	data := pageData(w, r, st)
	data["Title"] = "Eliminar usuario"
	data["Message"] = "¿Estás seguro de que deseas eliminar este usuario?"
	data["Action"] = "/gestion-usuarios/" + id + "/eliminar"
	data["CancelURL"] = "/gestion-usuarios"
	render(w, "confirm.html", data)
}

func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	st := state(r)
	id := mux.Vars(r)["id"]
	if err := h.API.DeleteUser(r.Context(), st.Token, id); err != nil {
		if handleUnauthorized(h.Sessions, w, r, st, err) {
			return
		}
		setFlash(w, apiErrorMessage(err))
	} else {
		setFlash(w, "Usuario eliminado")
	}
	http.Redirect(w, r, "/gestion-usuarios", http.StatusSeeOther)
}
