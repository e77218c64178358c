// Package httpx holds the small JSON helper behind the console's health
// endpoints. Page views render templates instead.
package httpx

import (
	"encoding/json"
	"net/http"
)

// JSON writes payload as a JSON response with the given status. Encoding
// failures fall back to a plain 500 so a probe never sees a partial body.
func JSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"status":"error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// nothing left to do once the header is out
		_ = err
	}
}
