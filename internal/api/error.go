package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Error is the single error variant every client call produces. It is either
// a plain message or a field-name-to-messages map mirroring the backend's
// validation responses, so views can render per-field errors.
type Error struct {
	Message    string
	Fields     map[string][]string
	StatusCode int
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], " ")))
		}
		return strings.Join(parts, "; ")
	}
	return "error desconocido"
}

// HasFields reports whether the error carries per-field messages.
func (e *Error) HasFields() bool { return len(e.Fields) > 0 }

// Unauthorized reports whether the backend rejected the credentials, which
// callers treat as "session is dead".
func (e *Error) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsUnauthorized reports whether err is an *Error with an auth status.
func IsUnauthorized(err error) bool {
	apiErr, ok := err.(*Error)
	return ok && apiErr.Unauthorized()
}

func connectionError(err error) *Error {
	_ = err // the underlying cause is not user-facing
	return &Error{Message: "Error de conexión con el servidor"}
}

// parseError extracts a useful error from whichever shape the backend
// returned. Priority: message > detail > non_field_errors > field error map.
// Unparseable bodies fall back to a generic per-status message.
func parseError(resp *http.Response) *Error {
	out := &Error{StatusCode: resp.StatusCode}
	var payload map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || len(payload) == 0 {
		out.Message = genericMessage(resp.StatusCode)
		return out
	}

	if msg, ok := asString(payload["message"]); ok && msg != "" {
		out.Message = msg
		return out
	}
	if raw, ok := payload["detail"]; ok {
		if msg, ok := asString(raw); ok && msg != "" {
			out.Message = msg
			return out
		}
		if list, ok := asStringList(raw); ok && len(list) > 0 {
			out.Message = strings.Join(list, " ")
			return out
		}
	}
	if list, ok := asStringList(payload["non_field_errors"]); ok && len(list) > 0 {
		out.Message = strings.Join(list, " ")
		return out
	}

	// Remaining array-valued entries are field validation errors.
	fields := map[string][]string{}
	for k, raw := range payload {
		if list, ok := asStringList(raw); ok && len(list) > 0 {
			fields[k] = list
		}
	}
	if len(fields) > 0 {
		out.Fields = fields
		return out
	}
	out.Message = genericMessage(resp.StatusCode)
	return out
}

func asString(raw json.RawMessage) (string, bool) {
	if raw == nil {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func asStringList(raw json.RawMessage) ([]string, bool) {
	if raw == nil {
		return nil, false
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, false
	}
	return list, true
}

func genericMessage(status int) string {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "No autorizado"
	case status == http.StatusNotFound:
		return "Recurso no encontrado"
	case status >= 500:
		return "Error interno del servidor"
	default:
		return "Error en la solicitud"
	}
}
