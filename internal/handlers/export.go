package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sicea/console/internal/api"
	"github.com/sicea/console/internal/session"
)

type ExportHandler struct {
	API      *api.Client
	Sessions *session.Manager
}

func NewExportHandler(client *api.Client, sessions *session.Manager) *ExportHandler {
	return &ExportHandler{API: client, Sessions: sessions}
}

// Form renders the export selection view.
func (h *ExportHandler) Form(w http.ResponseWriter, r *http.Request) {
	st := state(r)
	data := pageData(w, r, st)
	data["CurrentYear"] = time.Now().Year()
	render(w, "export.html", data)
}

// Download requests the spreadsheet and streams it to the browser. ALL takes
// no period range; every other mode requires a complete one.
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	st := state(r)
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, st, "Formulario inválido")
		return
	}
	mode := r.FormValue("meter_type")
	if !api.ValidExportMode(mode) {
		h.renderError(w, r, st, "Por favor, completa todos los campos.")
		return
	}
	var start, end api.MonthYear
	if mode != api.ExportAll {
		startMonth, _ := strconv.Atoi(r.FormValue("start_month"))
		startYear, _ := strconv.Atoi(r.FormValue("start_year"))
		endMonth, _ := strconv.Atoi(r.FormValue("end_month"))
		endYear, _ := strconv.Atoi(r.FormValue("end_year"))
		if startMonth < 1 || startMonth > 12 || endMonth < 1 || endMonth > 12 || startYear <= 0 || endYear <= 0 {
			h.renderError(w, r, st, "Por favor, completa todos los campos.")
			return
		}
		start = api.MonthYear{Month: startMonth, Year: startYear}
		end = api.MonthYear{Month: endMonth, Year: endYear}
	}
	body, filename, err := h.API.ExportExcel(r.Context(), st.Token, mode, start, end)
	if err != nil {
		if handleUnauthorized(h.Sessions, w, r, st, err) {
			return
		}
		h.renderError(w, r, st, apiErrorMessage(err))
		return
	}
	defer body.Close()
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if _, err := io.Copy(w, body); err != nil {
		_ = err
	}
}

func (h *ExportHandler) renderError(w http.ResponseWriter, r *http.Request, st *session.State, msg string) {
	data := pageData(w, r, st)
	data["Error"] = msg
	data["CurrentYear"] = time.Now().Year()
	render(w, "export.html", data)
}
