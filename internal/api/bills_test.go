package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestBillFilterNormalize(t *testing.T) {
	now := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)

	t.Run("empty end defaults to current month", func(t *testing.T) {
		f := BillFilter{Start: MonthYear{Month: 5, Year: 2024}}
		if err := f.Normalize(now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.End != (MonthYear{Month: 3, Year: 2025}) {
			t.Fatalf("end = %+v", f.End)
		}
	})

	t.Run("inverted range rejected", func(t *testing.T) {
		f := BillFilter{Start: MonthYear{Month: 6, Year: 2025}, End: MonthYear{Month: 5, Year: 2025}}
		err := f.Normalize(now)
		if err != ErrRangeInverted {
			t.Fatalf("err = %v, want ErrRangeInverted", err)
		}
		if err.Error() != "La fecha inicial debe ser menor o igual a la fecha final." {
			t.Fatalf("message = %q", err.Error())
		}
	})

	t.Run("equal bounds accepted", func(t *testing.T) {
		f := BillFilter{Start: MonthYear{Month: 5, Year: 2025}, End: MonthYear{Month: 5, Year: 2025}}
		if err := f.Normalize(now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("no bounds is a no-op", func(t *testing.T) {
		f := BillFilter{}
		if err := f.Normalize(now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !f.Start.IsZero() || !f.End.IsZero() {
			t.Fatalf("bounds changed: %+v", f)
		}
	})
}

func TestBillListDecodesBothShapes(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		var l BillList
		if err := json.Unmarshal([]byte(`[{"id":1,"meter":"Casa (123)","month":2,"year":2025,"total_to_pay":"10000"}]`), &l); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(l.Results) != 1 || l.Count != 1 {
			t.Fatalf("results=%d count=%d", len(l.Results), l.Count)
		}
	})
	t.Run("envelope", func(t *testing.T) {
		var l BillList
		if err := json.Unmarshal([]byte(`{"count":42,"results":[{"id":1},{"id":2}]}`), &l); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(l.Results) != 2 || l.Count != 42 {
			t.Fatalf("results=%d count=%d", len(l.Results), l.Count)
		}
	})
}

func TestListBillsQueryAndAuth(t *testing.T) {
	var gotQuery url.Values
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reader/bills/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":1,"results":[{"id":7,"meter":"Casa (123)","month":5,"year":2024,"total_to_pay":"12345"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	filter := BillFilter{
		MeterType:    "WATER",
		ClientNumber: "123",
		Start:        MonthYear{Month: 5, Year: 2024},
		End:          MonthYear{Month: 7, Year: 2024},
	}
	list, err := c.ListBills(context.Background(), "tok123", filter)
	if err != nil {
		t.Fatalf("ListBills: %v", err)
	}
	if list.Count != 1 || list.Results[0].ID != 7 {
		t.Fatalf("unexpected list: %+v", list)
	}
	if gotAuth != "Token tok123" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	wants := map[string]string{
		"meter_type":    "WATER",
		"client_number": "123",
		"start_date":    "2024-05",
		"end_date":      "2024-07",
	}
	for k, v := range wants {
		if got := gotQuery.Get(k); got != v {
			t.Fatalf("query %s = %q, want %q", k, got, v)
		}
	}
}

func TestListBillsOmitsIncompleteRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("start_date") || r.URL.Query().Has("end_date") {
			t.Errorf("range params sent for incomplete range: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.ListBills(context.Background(), "tok", BillFilter{Start: MonthYear{Month: 2, Year: 2025}}); err != nil {
		t.Fatalf("ListBills: %v", err)
	}
}

func TestDownloadBillFilename(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	body, filename, err := c.DownloadBill(context.Background(), "tok", 33)
	if err != nil {
		t.Fatalf("DownloadBill: %v", err)
	}
	defer body.Close()
	if filename != "factura_33.pdf" {
		t.Fatalf("filename = %q", filename)
	}
}

func TestListChargesDecodesBothShapes(t *testing.T) {
	bodies := []string{
		`[{"id":1,"name":"Cargo fijo","value":"1200","value_type":"CLP","charge":9}]`,
		`{"results":[{"id":1,"name":"Cargo fijo","value":"1200","value_type":"CLP","charge":9}]}`,
	}
	for _, body := range bodies {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		}))
		c := New(srv.URL)
		charges, err := c.ListCharges(context.Background(), "tok")
		srv.Close()
		if err != nil {
			t.Fatalf("ListCharges(%s): %v", body, err)
		}
		if len(charges) != 1 || charges[0].Name != "Cargo fijo" {
			t.Fatalf("charges = %+v", charges)
		}
	}
}
