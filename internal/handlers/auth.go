package handlers

import (
	"net/http"
	"strings"

	"github.com/sicea/console/internal/session"
	"github.com/sicea/console/internal/upload"
)

type AuthHandler struct {
	Sessions *session.Manager
	Batches  *upload.Manager
}

func NewAuthHandler(sessions *session.Manager, batches *upload.Manager) *AuthHandler {
	return &AuthHandler{Sessions: sessions, Batches: batches}
}

// Login renders the form on GET and exchanges credentials on POST. Failed
// attempts re-render with the backend's message and leave no session behind.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		render(w, "login.html", nil)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "método no permitido", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		render(w, "login.html", map[string]any{"Error": "Formulario inválido"})
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		render(w, "login.html", map[string]any{"Error": "Correo y contraseña son obligatorios", "Email": email})
		return
	}
	if _, err := h.Sessions.Login(r.Context(), w, email, password); err != nil {
		render(w, "login.html", map[string]any{"Error": apiErrorMessage(err), "Email": email})
		return
	}
	// Post-login always lands on the home view.
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout destroys the session and any pending upload batch.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	st := state(r)
	h.Batches.Clear(st.SessionID)
	h.Sessions.Logout(r.Context(), w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
