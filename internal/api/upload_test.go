package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sicea/console/internal/models"
)

func TestValidateBatchSendsFilesField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reader/validate-batch-bills/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		parts := r.MultipartForm.File["files"]
		if len(parts) != 2 {
			t.Fatalf("got %d parts, want 2", len(parts))
		}
		if parts[0].Filename != "enero.pdf" || parts[1].Filename != "febrero.pdf" {
			t.Fatalf("filenames = %s, %s", parts[0].Filename, parts[1].Filename)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"file":"enero.pdf","status":"correct"},{"file":"febrero.pdf","status":"in_db"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	files := []UploadFile{
		{Name: "enero.pdf", Reader: strings.NewReader("%PDF-1.4 a")},
		{Name: "febrero.pdf", Reader: strings.NewReader("%PDF-1.4 b")},
	}
	results, err := c.ValidateBatch(context.Background(), "tok", files)
	if err != nil {
		t.Fatalf("ValidateBatch: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Status != models.StatusCorrect || results[1].Status != models.StatusInDB {
		t.Fatalf("statuses = %s, %s", results[0].Status, results[1].Status)
	}
}

func TestProcessBatchSurfacesBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Lote inválido"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.ProcessBatch(context.Background(), "tok", []UploadFile{{Name: "x.pdf", Reader: strings.NewReader("x")}})
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr, ok := err.(*Error)
	if !ok || apiErr.Message != "Lote inválido" {
		t.Fatalf("err = %v", err)
	}
}
