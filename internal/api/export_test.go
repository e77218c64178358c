package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExportFilename(t *testing.T) {
	start := MonthYear{Month: 1, Year: 2024}
	end := MonthYear{Month: 6, Year: 2024}
	cases := []struct {
		mode string
		want string
	}{
		{ExportAll, "Facturas_Historico_Completo.xlsx"},
		{ExportWater, "Facturas_AguasAndinas_2024-01_a_2024-06.xlsx"},
		{ExportElectricity, "Facturas_Enel_2024-01_a_2024-06.xlsx"},
		{ExportBoth, "Facturas_Completas_2024-01_a_2024-06.xlsx"},
	}
	for _, tc := range cases {
		if got := ExportFilename(tc.mode, start, end); got != tc.want {
			t.Errorf("ExportFilename(%s) = %q, want %q", tc.mode, got, tc.want)
		}
	}
}

func TestExportExcelAllSendsNoRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/writer/export-excel/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("meter_type") != ExportAll {
			t.Errorf("meter_type = %q", q.Get("meter_type"))
		}
		if q.Has("start_date") || q.Has("end_date") {
			t.Errorf("range params sent for ALL: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		_, _ = w.Write([]byte("PK"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	body, filename, err := c.ExportExcel(context.Background(), "tok", ExportAll, MonthYear{}, MonthYear{})
	if err != nil {
		t.Fatalf("ExportExcel: %v", err)
	}
	defer body.Close()
	if filename != "Facturas_Historico_Completo.xlsx" {
		t.Fatalf("filename = %q", filename)
	}
}

func TestExportExcelValidatesBeforeRequest(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()
	c := New(srv.URL)

	if _, _, err := c.ExportExcel(context.Background(), "tok", "BOGUS", MonthYear{}, MonthYear{}); err == nil {
		t.Fatal("expected error for invalid mode")
	}
	if _, _, err := c.ExportExcel(context.Background(), "tok", ExportWater, MonthYear{}, MonthYear{Month: 2, Year: 2024}); err == nil {
		t.Fatal("expected error for missing start bound")
	}
	start := MonthYear{Month: 6, Year: 2024}
	end := MonthYear{Month: 1, Year: 2024}
	if _, _, err := c.ExportExcel(context.Background(), "tok", ExportBoth, start, end); err != ErrRangeInverted {
		t.Fatalf("err = %v, want ErrRangeInverted", err)
	}
	if requests != 0 {
		t.Fatalf("validation failures reached the backend %d times", requests)
	}
}

func TestValidExportMode(t *testing.T) {
	for _, mode := range []string{ExportWater, ExportElectricity, ExportBoth, ExportAll} {
		if !ValidExportMode(mode) {
			t.Errorf("ValidExportMode(%s) = false", mode)
		}
	}
	if ValidExportMode("") || ValidExportMode("water") {
		t.Error("invalid modes accepted")
	}
}
