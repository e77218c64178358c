package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/sicea/console/internal/api"
	"github.com/sicea/console/internal/models"
	"github.com/sicea/console/internal/session"
)

type MetersHandler struct {
	API      *api.Client
	Sessions *session.Manager
}

func NewMetersHandler(client *api.Client, sessions *session.Manager) *MetersHandler {
	return &MetersHandler{API: client, Sessions: sessions}
}

// List shows all meters, optionally narrowed by type. Filtering is local;
// the listing endpoint has no parameters.
func (h *MetersHandler) List(w http.ResponseWriter, r *http.Request) {
	st := state(r)
	data := pageData(w, r, st)
	typeFilter := r.URL.Query().Get("tipo")
	if typeFilter != models.MeterTypeWater && typeFilter != models.MeterTypeElectricity {
		typeFilter = ""
	}
	data["TypeFilter"] = typeFilter

	meters, err := h.API.ListMeters(r.Context(), st.Token)
	if err != nil {
		if handleUnauthorized(h.Sessions, w, r, st, err) {
			return
		}
		data["Error"] = "Error al cargar medidores."
		render(w, "meters.html", data)
		return
	}
	if typeFilter != "" {
		filtered := meters[:0]
		for _, m := range meters {
			if m.MeterType == typeFilter {
				filtered = append(filtered, m)
			}
		}
		meters = filtered
	}
	data["Meters"] = meters
	render(w, "meters.html", data)
}

func meterInput(r *http.Request) api.MeterInput {
	meterType := r.FormValue("meter_type")
	if meterType != models.MeterTypeElectricity {
		meterType = models.MeterTypeWater
	}
	return api.MeterInput{
		Name:         strings.TrimSpace(r.FormValue("name")),
		ClientNumber: strings.TrimSpace(r.FormValue("client_number")),
		MeterType:    meterType,
		Coverage:     strings.TrimSpace(r.FormValue("coverage")),
	}
}

func (h *MetersHandler) Create(w http.ResponseWriter, r *http.Request) {
	st := state(r)
	if err := r.ParseForm(); err != nil {
		setFlash(w, "Formulario inválido")
		http.Redirect(w, r, "/medidores", http.StatusSeeOther)
		return
	}
	in := meterInput(r)
	if in.Name == "" || in.ClientNumber == "" {
		setFlash(w, "Nombre y número de cliente son obligatorios")
		http.Redirect(w, r, "/medidores", http.StatusSeeOther)
		return
	}
	if _, err := h.API.CreateMeter(r.Context(), st.Token, in); err != nil {
		if handleUnauthorized(h.Sessions, w, r, st, err) {
			return
		}
		setFlash(w, "Error al agregar el medidor.")
	} else {
		setFlash(w, "Medidor agregado")
	}
	http.Redirect(w, r, "/medidores", http.StatusSeeOther)
}

// EditForm prefills the edit view for one meter.
func (h *MetersHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	st := state(r)
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	meters, err := h.API.ListMeters(r.Context(), st.Token)
	if err != nil {
		if handleUnauthorized(h.Sessions, w, r, st, err) {
			return
		}
		setFlash(w, "Error al cargar medidores.")
		http.Redirect(w, r, "/medidores", http.StatusSeeOther)
		return
	}
	for _, m := range meters {
		if m.ID == id {
			data := pageData(w, r, st)
			data["Meter"] = m
			render(w, "meter_edit.html", data)
			return
		}
	}
	setFlash(w, "Medidor no encontrado")
	http.Redirect(w, r, "/medidores", http.StatusSeeOther)
}

func (h *MetersHandler) Edit(w http.ResponseWriter, r *http.Request) {
	st := state(r)
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := r.ParseForm(); err != nil {
		setFlash(w, "Formulario inválido")
		http.Redirect(w, r, "/medidores", http.StatusSeeOther)
		return
	}
	if err := h.API.UpdateMeter(r.Context(), st.Token, id, meterInput(r)); err != nil {
		if handleUnauthorized(h.Sessions, w, r, st, err) {
			return
		}
		setFlash(w, "Error al editar el medidor.")
	} else {
		setFlash(w, "Medidor actualizado")
	}
	http.Redirect(w, r, "/medidores", http.StatusSeeOther)
}

// ConfirmDelete warns about the backend cascade before anything is deleted:
// removing a meter removes every bill tied to it.
func (h *MetersHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	st := state(r)
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	data := pageData(w, r, st)
	data["Title"] = "Eliminar medidor"
	data["Message"] = "Al eliminar este medidor se eliminarán también todas sus facturas asociadas. ¿Deseas continuar?"
	data["Action"] = "/medidores/" + strconv.Itoa(id) + "/eliminar"
	data["CancelURL"] = "/medidores"
	render(w, "confirm.html", data)
}

func (h *MetersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	st := state(r)
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.API.DeleteMeter(r.Context(), st.Token, id); err != nil {
		if handleUnauthorized(h.Sessions, w, r, st, err) {
			return
		}
		setFlash(w, "Error al eliminar el medidor.")
	} else {
		setFlash(w, "Medidor eliminado")
	}
	http.Redirect(w, r, "/medidores", http.StatusSeeOther)
}
