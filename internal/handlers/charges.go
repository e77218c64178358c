package handlers

import (
	"net/http"

	"github.com/sicea/console/internal/api"
	"github.com/sicea/console/internal/session"
)

type ChargesHandler struct {
	API      *api.Client
	Sessions *session.Manager
}

func NewChargesHandler(client *api.Client, sessions *session.Manager) *ChargesHandler {
	return &ChargesHandler{API: client, Sessions: sessions}
}

// List renders the flat charge listing.
func (h *ChargesHandler) List(w http.ResponseWriter, r *http.Request) {
	st := state(r)
	data := pageData(w, r, st)
	charges, err := h.API.ListCharges(r.Context(), st.Token)
	if err != nil {
		if handleUnauthorized(h.Sessions, w, r, st, err) {
			return
		}
		data["Error"] = "Error al cargar cargos"
		render(w, "charges.html", data)
		return
	}
	data["Charges"] = charges
	render(w, "charges.html", data)
}
