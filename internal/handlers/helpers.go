// Package handlers contains the console's page views. Each handler owns its
// form parsing and template data, calls the typed API clients, and follows
// post/redirect/get with a flash cookie for mutations.
package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sicea/console/internal/api"
	"github.com/sicea/console/internal/middleware"
	"github.com/sicea/console/internal/session"
	"github.com/sicea/console/internal/view"
)

func render(w http.ResponseWriter, name string, data map[string]any) {
	if err := view.Render(w, name, data); err != nil {
		slog.Error("template render", "template", name, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		if _, werr := w.Write([]byte("template error")); werr != nil {
			_ = werr
		}
	}
}

// pageData seeds the common template data for an authenticated page and
// consumes any pending flash message.
func pageData(w http.ResponseWriter, r *http.Request, st *session.State) map[string]any {
	data := map[string]any{"User": st.User}
	if msg, ok := popFlash(w, r); ok {
		data["Flash"] = msg
	}
	return data
}

// state pulls the verified session injected by the route guard.
func state(r *http.Request) *session.State {
	st, ok := middleware.StateFrom(r.Context())
	if !ok {
		// Guarded routes always carry state; reaching here is a wiring bug.
		panic("handlers: missing session state")
	}
	return st
}

func setFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{Name: "flash", Value: url.QueryEscape(msg), Path: "/"})
}

func popFlash(w http.ResponseWriter, r *http.Request) (string, bool) {
	c, err := r.Cookie("flash")
	if err != nil || c.Value == "" {
		return "", false
	}
	http.SetCookie(w, &http.Cookie{Name: "flash", Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1})
	msg, derr := url.QueryUnescape(c.Value)
	if derr != nil {
		msg = c.Value
	}
	return msg, true
}

// apiErrorMessage renders an API failure for the banner. Authorization
// failures instead destroy the session and redirect; callers check the bool.
func apiErrorMessage(err error) string {
	if apiErr, ok := err.(*api.Error); ok {
		return apiErr.Error()
	}
	return "Error de conexión con el servidor"
}

// handleUnauthorized clears the session and bounces to login when the
// backend rejected the stored token mid-session. Returns true when handled.
func handleUnauthorized(mgr *session.Manager, w http.ResponseWriter, r *http.Request, st *session.State, err error) bool {
	if !api.IsUnauthorized(err) {
		return false
	}
	mgr.Destroy(w, st.SessionID)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
	return true
}
