package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSONWritesStatusAndBody(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type = %q", ct)
	}
	if got := rec.Body.String(); got != `{"status":"degraded"}` {
		t.Fatalf("body = %q", got)
	}
}

func TestJSONRejectsUnencodablePayload(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, func() {})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}
