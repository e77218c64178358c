package handlers

import (
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/sicea/console/internal/api"
	"github.com/sicea/console/internal/models"
	"github.com/sicea/console/internal/session"
)

type BillsHandler struct {
	API      *api.Client
	Sessions *session.Manager
}

func NewBillsHandler(client *api.Client, sessions *session.Manager) *BillsHandler {
	return &BillsHandler{API: client, Sessions: sessions}
}

// billFilterForm carries the raw filter inputs so the form re-renders with
// what the user typed, valid or not.
type billFilterForm struct {
	MeterType  string
	MeterID    int
	StartMonth string
	StartYear  string
	EndMonth   string
	EndYear    string
	SortKey    string
	SortDir    string
}

func parseBillForm(r *http.Request) billFilterForm {
	q := r.URL.Query()
	f := billFilterForm{
		MeterType:  q.Get("tipo"),
		StartMonth: q.Get("mes_inicio"),
		StartYear:  q.Get("anio_inicio"),
		EndMonth:   q.Get("mes_fin"),
		EndYear:    q.Get("anio_fin"),
		SortKey:    q.Get("orden"),
		SortDir:    q.Get("dir"),
	}
	if f.MeterType != models.MeterTypeWater && f.MeterType != models.MeterTypeElectricity {
		f.MeterType = ""
	}
	f.MeterID, _ = strconv.Atoi(q.Get("medidor"))
	if f.SortDir != "desc" {
		f.SortDir = "asc"
	}
	return f
}

func monthYear(month, year string) (api.MonthYear, bool) {
	if month == "" || year == "" {
		return api.MonthYear{}, true
	}
	m, merr := strconv.Atoi(month)
	y, yerr := strconv.Atoi(year)
	if merr != nil || yerr != nil || m < 1 || m > 12 || y < 0 {
		return api.MonthYear{}, false
	}
	return api.MonthYear{Month: m, Year: y}, true
}

// List renders the bills page: server-side filtering, local sorting, and the
// lazy charges expansion for one selected bill.
func (h *BillsHandler) List(w http.ResponseWriter, r *http.Request) {
	st := state(r)
	form := parseBillForm(r)
	data := pageData(w, r, st)
	data["Form"] = form

	meters, err := h.API.ListMeters(r.Context(), st.Token)
	if err != nil {
		if handleUnauthorized(h.Sessions, w, r, st, err) {
			return
		}
		data["Error"] = "Error al cargar medidores."
		render(w, "bills.html", data)
		return
	}
	data["Meters"] = meterOptions(meters, form.MeterType)

	filter := api.BillFilter{MeterType: form.MeterType}
	var ok bool
	if filter.Start, ok = monthYear(form.StartMonth, form.StartYear); !ok {
		data["Error"] = "Fecha de inicio inválida."
		render(w, "bills.html", data)
		return
	}
	if filter.End, ok = monthYear(form.EndMonth, form.EndYear); !ok {
		data["Error"] = "Fecha de fin inválida."
		render(w, "bills.html", data)
		return
	}
	// Reject an inverted range locally, before any bills request goes out.
	if err := filter.Normalize(time.Now()); err != nil {
		data["Error"] = err.Error()
		render(w, "bills.html", data)
		return
	}
	if form.MeterID != 0 {
		// The backend filters by client number; resolve it from the id.
		for _, m := range meters {
			if m.ID == form.MeterID {
				filter.ClientNumber = m.ClientNumber
				break
			}
		}
	}

	list, err := h.API.ListBills(r.Context(), st.Token, filter)
	if err != nil {
		if handleUnauthorized(h.Sessions, w, r, st, err) {
			return
		}
		data["Error"] = apiErrorMessage(err)
		render(w, "bills.html", data)
		return
	}
	bills := sortBills(list.Results, form.SortKey, form.SortDir)
	data["Bills"] = bills
	data["Total"] = list.Count

	if expanded, _ := strconv.Atoi(r.URL.Query().Get("cargos")); expanded != 0 {
		charges, cerr := h.API.BillCharges(r.Context(), st.Token, expanded)
		if cerr == nil {
			data["ExpandedID"] = expanded
			data["Charges"] = charges
		}
	}
	render(w, "bills.html", data)
}

// meterOption narrows the meter select to the chosen type.
type meterOption struct {
	ID           int
	Name         string
	ClientNumber string
}

func meterOptions(meters []models.Meter, meterType string) []meterOption {
	out := make([]meterOption, 0, len(meters))
	for _, m := range meters {
		if meterType != "" && m.MeterType != meterType {
			continue
		}
		out = append(out, meterOption{ID: m.ID, Name: m.Name, ClientNumber: m.ClientNumber})
	}
	return out
}

// sortBills orders a fetched page without touching the backend. Sorting the
// same key ascending then descending yields the exact reverse sequence.
func sortBills(bills []models.Bill, key, dir string) []models.Bill {
	if key == "" {
		return bills
	}
	sorted := make([]models.Bill, len(bills))
	copy(sorted, bills)
	less := func(a, b models.Bill) bool { return a.ID < b.ID }
	switch key {
	case "meter":
		less = func(a, b models.Bill) bool {
			return strings.ToLower(a.Meter) < strings.ToLower(b.Meter)
		}
	case "month", "year":
		less = func(a, b models.Bill) bool { return a.Period() < b.Period() }
	case "total_to_pay":
		less = func(a, b models.Bill) bool {
			av, _ := strconv.ParseFloat(a.TotalToPay, 64)
			bv, _ := strconv.ParseFloat(b.TotalToPay, 64)
			return av < bv
		}
	default:
		return bills
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if dir == "desc" {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	return sorted
}

// Edit updates a bill's period and total. Staff only.
func (h *BillsHandler) Edit(w http.ResponseWriter, r *http.Request) {
	st := state(r)
	if !st.User.IsStaff {
		http.Redirect(w, r, "/facturas", http.StatusSeeOther)
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := r.ParseForm(); err != nil {
		setFlash(w, "Formulario inválido")
		http.Redirect(w, r, "/facturas", http.StatusSeeOther)
		return
	}
	month, _ := strconv.Atoi(r.FormValue("month"))
	year, _ := strconv.Atoi(r.FormValue("year"))
	total := strings.TrimSpace(r.FormValue("total_to_pay"))
	if month < 1 || month > 12 || year < 0 || total == "" {
		setFlash(w, "Datos de factura inválidos")
		http.Redirect(w, r, "/facturas", http.StatusSeeOther)
		return
	}
	update := api.BillUpdate{Month: month, Year: year, TotalToPay: total}
	if _, err := h.API.UpdateBill(r.Context(), st.Token, id, update); err != nil {
		if handleUnauthorized(h.Sessions, w, r, st, err) {
			return
		}
		setFlash(w, apiErrorMessage(err))
	} else {
		setFlash(w, "Factura actualizada")
	}
	http.Redirect(w, r, "/facturas", http.StatusSeeOther)
}

// ConfirmDelete renders the confirmation view. The delete endpoint is only
// ever called from the confirmed POST, never from this initial click.
func (h *BillsHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	st := state(r)
	if !st.User.IsStaff {
		http.Redirect(w, r, "/facturas", http.StatusSeeOther)
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	data := pageData(w, r, st)
	data["Title"] = "Confirmar eliminación"
	data["Message"] = "¿Estás seguro de que deseas eliminar esta factura?"
	data["Action"] = "/facturas/" + strconv.Itoa(id) + "/eliminar"
	data["CancelURL"] = "/facturas"
	render(w, "confirm.html", data)
}

func (h *BillsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	st := state(r)
	if !st.User.IsStaff {
		http.Redirect(w, r, "/facturas", http.StatusSeeOther)
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.API.DeleteBill(r.Context(), st.Token, id); err != nil {
		if handleUnauthorized(h.Sessions, w, r, st, err) {
			return
		}
		setFlash(w, apiErrorMessage(err))
	} else {
		setFlash(w, "Factura eliminada")
	}
	http.Redirect(w, r, "/facturas", http.StatusSeeOther)
}

// Download proxies the bill's PDF to the browser as an attachment.
func (h *BillsHandler) Download(w http.ResponseWriter, r *http.Request) {
	st := state(r)
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	body, filename, err := h.API.DownloadBill(r.Context(), st.Token, id)
	if err != nil {
		if handleUnauthorized(h.Sessions, w, r, st, err) {
			return
		}
		setFlash(w, "Error al descargar el archivo PDF.")
		http.Redirect(w, r, "/facturas", http.StatusSeeOther)
		return
	}
	defer body.Close()
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if _, err := io.Copy(w, body); err != nil {
		// Headers already sent; nothing left to surface.
		_ = err
	}
}
