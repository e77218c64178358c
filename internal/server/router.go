package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sicea/console/internal/api"
	"github.com/sicea/console/internal/handlers"
	"github.com/sicea/console/internal/httpx"
	"github.com/sicea/console/internal/middleware"
	"github.com/sicea/console/internal/session"
	"github.com/sicea/console/internal/upload"
)

// Deps bundles everything the router wires into handlers. All dependencies
// are injected explicitly; nothing is looked up globally.
type Deps struct {
	API      *api.Client
	Sessions *session.Manager
	Batches  *upload.Manager
	Store    *session.Store
}

// New constructs the root handler: public login and health endpoints, the
// guarded page views, and any unmatched path redirected home.
func New(d Deps) http.Handler {
	r := mux.NewRouter()

	authH := handlers.NewAuthHandler(d.Sessions, d.Batches)
	homeH := handlers.NewHomeHandler()
	billsH := handlers.NewBillsHandler(d.API, d.Sessions)
	chargesH := handlers.NewChargesHandler(d.API, d.Sessions)
	metersH := handlers.NewMetersHandler(d.API, d.Sessions)
	usersH := handlers.NewUsersHandler(d.API, d.Sessions)
	uploadH := handlers.NewUploadHandler(d.API, d.Sessions, d.Batches)
	exportH := handlers.NewExportHandler(d.API, d.Sessions)

	// Public endpoints.
	r.HandleFunc("/login", authH.Login).Methods(http.MethodGet, http.MethodPost)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if d.Store != nil {
			if err := d.Store.Ping(); err != nil {
				httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// Static assets.
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// Guarded pages.
	guard := middleware.RequireSession(d.Sessions)
	pages := r.NewRoute().Subrouter()
	pages.Use(guard)
	pages.HandleFunc("/", homeH.Home).Methods(http.MethodGet)
	pages.HandleFunc("/logout", authH.Logout).Methods(http.MethodGet, http.MethodPost)

	pages.HandleFunc("/facturas", billsH.List).Methods(http.MethodGet)
	pages.HandleFunc("/facturas/{id:[0-9]+}/editar", billsH.Edit).Methods(http.MethodPost)
	pages.HandleFunc("/facturas/{id:[0-9]+}/eliminar", billsH.ConfirmDelete).Methods(http.MethodGet)
	pages.HandleFunc("/facturas/{id:[0-9]+}/eliminar", billsH.Delete).Methods(http.MethodPost)
	pages.HandleFunc("/facturas/{id:[0-9]+}/descargar", billsH.Download).Methods(http.MethodGet)

	pages.HandleFunc("/cargos", chargesH.List).Methods(http.MethodGet)

	pages.HandleFunc("/medidores", metersH.List).Methods(http.MethodGet)
	pages.HandleFunc("/medidores", metersH.Create).Methods(http.MethodPost)
	pages.HandleFunc("/medidores/{id:[0-9]+}/editar", metersH.EditForm).Methods(http.MethodGet)
	pages.HandleFunc("/medidores/{id:[0-9]+}/editar", metersH.Edit).Methods(http.MethodPost)
	pages.HandleFunc("/medidores/{id:[0-9]+}/eliminar", metersH.ConfirmDelete).Methods(http.MethodGet)
	pages.HandleFunc("/medidores/{id:[0-9]+}/eliminar", metersH.Delete).Methods(http.MethodPost)

	pages.HandleFunc("/gestion-usuarios", usersH.List).Methods(http.MethodGet)
	pages.HandleFunc("/gestion-usuarios", usersH.Create).Methods(http.MethodPost)
	pages.HandleFunc("/gestion-usuarios/{id}/editar", usersH.EditForm).Methods(http.MethodGet)
	pages.HandleFunc("/gestion-usuarios/{id}/editar", usersH.Edit).Methods(http.MethodPost)
	pages.HandleFunc("/gestion-usuarios/{id}/eliminar", usersH.ConfirmDelete).Methods(http.MethodGet)
	pages.HandleFunc("/gestion-usuarios/{id}/eliminar", usersH.Delete).Methods(http.MethodPost)

	pages.HandleFunc("/subir-facturas", uploadH.Page).Methods(http.MethodGet)
	pages.HandleFunc("/subir-facturas/agregar", uploadH.Add).Methods(http.MethodPost)
	pages.HandleFunc("/subir-facturas/validar", uploadH.Validate).Methods(http.MethodPost)
	pages.HandleFunc("/subir-facturas/quitar", uploadH.Remove).Methods(http.MethodPost)
	pages.HandleFunc("/subir-facturas/guardar", uploadH.Submit).Methods(http.MethodPost)

	pages.HandleFunc("/exportar", exportH.Form).Methods(http.MethodGet)
	pages.HandleFunc("/exportar", exportH.Download).Methods(http.MethodPost)

	// Any unmatched path lands on the home view.
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/", http.StatusSeeOther)
	})

	return middleware.Metrics(middleware.Logging(middleware.Recover(r)))
}
