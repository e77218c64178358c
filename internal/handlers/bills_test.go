package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sicea/console/internal/api"
	"github.com/sicea/console/internal/middleware"
	"github.com/sicea/console/internal/models"
	"github.com/sicea/console/internal/session"
)

func staffState() *session.State {
	return &session.State{
		SessionID: "s1",
		Token:     "tok",
		User:      &models.UserProfile{ID: "u1", Email: "admin@sicea.cl", IsStaff: true},
	}
}

func withState(r *http.Request, st *session.State) *http.Request {
	return r.WithContext(middleware.WithState(r.Context(), st))
}

func sampleBills() []models.Bill {
	return []models.Bill{
		{ID: 1, Meter: "casa (111)", Month: 12, Year: 2024, TotalToPay: "30000"},
		{ID: 2, Meter: "Bodega (222)", Month: 1, Year: 2025, TotalToPay: "9500.50"},
		{ID: 3, Meter: "anexo (333)", Month: 6, Year: 2024, TotalToPay: "120000"},
	}
}

func TestSortBillsByMeterIsCaseInsensitive(t *testing.T) {
	sorted := sortBills(sampleBills(), "meter", "asc")
	got := []string{sorted[0].Meter, sorted[1].Meter, sorted[2].Meter}
	want := []string{"anexo (333)", "Bodega (222)", "casa (111)"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSortBillsByPeriodAndTotal(t *testing.T) {
	byPeriod := sortBills(sampleBills(), "month", "asc")
	if byPeriod[0].ID != 3 || byPeriod[1].ID != 1 || byPeriod[2].ID != 2 {
		t.Fatalf("period order = %d,%d,%d", byPeriod[0].ID, byPeriod[1].ID, byPeriod[2].ID)
	}
	byTotal := sortBills(sampleBills(), "total_to_pay", "asc")
	if byTotal[0].ID != 2 || byTotal[2].ID != 3 {
		t.Fatalf("total order = %d,%d,%d", byTotal[0].ID, byTotal[1].ID, byTotal[2].ID)
	}
}

func TestSortBillsDescReversesAsc(t *testing.T) {
	for _, key := range []string{"meter", "month", "year", "total_to_pay"} {
		asc := sortBills(sampleBills(), key, "asc")
		desc := sortBills(sampleBills(), key, "desc")
		for i := range asc {
			if asc[i].ID != desc[len(desc)-1-i].ID {
				t.Fatalf("key %s: desc is not the reverse of asc", key)
			}
		}
	}
}

func TestSortBillsUnknownKeyKeepsOrder(t *testing.T) {
	bills := sampleBills()
	sorted := sortBills(bills, "bogus", "asc")
	for i := range bills {
		if sorted[i].ID != bills[i].ID {
			t.Fatal("unknown key changed the order")
		}
	}
}

func TestListRejectsInvertedRangeLocally(t *testing.T) {
	billRequests := 0
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/reader/meters/":
			_, _ = w.Write([]byte(`[]`))
		case "/reader/bills/":
			billRequests++
			_, _ = w.Write([]byte(`[]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer backend.Close()

	h := NewBillsHandler(api.New(backend.URL), nil)
	req := httptest.NewRequest(http.MethodGet, "/facturas?mes_inicio=6&anio_inicio=2025&mes_fin=1&anio_fin=2025", nil)
	req = withState(req, staffState())
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if billRequests != 0 {
		t.Fatalf("bills endpoint hit %d times for an inverted range", billRequests)
	}
	if !strings.Contains(rec.Body.String(), "La fecha inicial debe ser menor o igual a la fecha final.") {
		t.Fatal("inverted range message not rendered")
	}
}

func TestListRendersBillsAndTotal(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/reader/meters/":
			_, _ = w.Write([]byte(`[{"id":1,"name":"Casa","client_number":"111","meter_type":"WATER"}]`))
		case "/reader/bills/":
			_, _ = w.Write([]byte(`{"count":2,"results":[{"id":1,"meter":"Casa (111)","month":2,"year":2025,"total_to_pay":"45000"},{"id":2,"meter":"Casa (111)","month":3,"year":2025,"total_to_pay":"47000"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer backend.Close()

	h := NewBillsHandler(api.New(backend.URL), nil)
	req := httptest.NewRequest(http.MethodGet, "/facturas", nil)
	req = withState(req, staffState())
	rec := httptest.NewRecorder()
	h.List(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "Total: 2 facturas") {
		t.Fatalf("total line missing:\n%s", body)
	}
	if !strings.Contains(body, "$45.000") {
		t.Fatal("formatted amount missing")
	}
	if !strings.Contains(body, "Febrero") {
		t.Fatal("month name missing")
	}
}

func TestEditRejectsNonStaff(t *testing.T) {
	backendHits := 0
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendHits++
	}))
	defer backend.Close()

	h := NewBillsHandler(api.New(backend.URL), nil)
	st := staffState()
	st.User.IsStaff = false
	req := httptest.NewRequest(http.MethodPost, "/facturas/1/editar", strings.NewReader("month=2&year=2025&total_to_pay=100"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = withState(req, st)
	rec := httptest.NewRecorder()
	h.Edit(rec, req)

	if backendHits != 0 {
		t.Fatal("non-staff edit reached the backend")
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
}
