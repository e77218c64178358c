package handlers

import (
	"net/http"
)

type HomeHandler struct{}

func NewHomeHandler() *HomeHandler { return &HomeHandler{} }

// Home is the landing view: profile summary plus navigation to every page.
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	st := state(r)
	render(w, "home.html", pageData(w, r, st))
}
