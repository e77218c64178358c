package handlers

import (
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/sicea/console/internal/api"
	"github.com/sicea/console/internal/session"
	"github.com/sicea/console/internal/upload"
)

// Batch uploads are capped well below the backend's own limits.
const maxUploadBytes = 64 << 20

type UploadHandler struct {
	API      *api.Client
	Sessions *session.Manager
	Batches  *upload.Manager
}

func NewUploadHandler(client *api.Client, sessions *session.Manager, batches *upload.Manager) *UploadHandler {
	return &UploadHandler{API: client, Sessions: sessions, Batches: batches}
}

// Page renders the current batch: selected files, validation results and the
// commit gate.
func (h *UploadHandler) Page(w http.ResponseWriter, r *http.Request) {
	st := state(r)
	h.renderPage(w, r, st, "", "")
}

func (h *UploadHandler) renderPage(w http.ResponseWriter, r *http.Request, st *session.State, errMsg, successMsg string) {
	batch := h.Batches.Get(st.SessionID)
	data := pageData(w, r, st)
	data["Batch"] = batch
	data["CanSubmit"] = batch.CanSubmit()
	data["CorrectCount"] = batch.CorrectCount()
	if errMsg != "" {
		data["Error"] = errMsg
	}
	if successMsg != "" {
		data["Success"] = successMsg
	}
	render(w, "upload.html", data)
}

// Add buffers the selected PDFs into the batch. Any change to the selection
// resets previous validation results.
func (h *UploadHandler) Add(w http.ResponseWriter, r *http.Request) {
	st := state(r)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.renderPage(w, r, st, "No se pudieron leer los archivos.", "")
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		h.renderPage(w, r, st, "Selecciona archivos para subir.", "")
		return
	}
	for _, fh := range files {
		if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
			h.renderPage(w, r, st, "Solo se aceptan archivos PDF.", "")
			return
		}
	}
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			h.renderPage(w, r, st, "No se pudieron leer los archivos.", "")
			return
		}
		addErr := h.Batches.Add(st.SessionID, fh.Filename, src)
		src.Close()
		if addErr != nil {
			h.renderPage(w, r, st, "No se pudieron guardar los archivos.", "")
			return
		}
	}
	http.Redirect(w, r, "/subir-facturas", http.StatusSeeOther)
}

// Remove drops one file (and its validation entry) by position.
func (h *UploadHandler) Remove(w http.ResponseWriter, r *http.Request) {
	st := state(r)
	if err := r.ParseForm(); err == nil {
		if idx, convErr := strconv.Atoi(r.FormValue("index")); convErr == nil {
			h.Batches.Remove(st.SessionID, idx)
		}
	}
	http.Redirect(w, r, "/subir-facturas", http.StatusSeeOther)
}

// Validate sends the whole batch for dry-run validation and records one
// status per file. The commit button enables only when all are correct.
func (h *UploadHandler) Validate(w http.ResponseWriter, r *http.Request) {
	st := state(r)
	batch := h.Batches.Get(st.SessionID)
	if len(batch.Files) == 0 {
		h.renderPage(w, r, st, "Selecciona archivos para validar.", "")
		return
	}
	files, cleanup, err := openBatchFiles(batch)
	if err != nil {
		h.renderPage(w, r, st, "No se pudieron leer los archivos del lote.", "")
		return
	}
	defer cleanup()
	results, err := h.API.ValidateBatch(r.Context(), st.Token, files)
	if err != nil {
		if handleUnauthorized(h.Sessions, w, r, st, err) {
			return
		}
		h.renderPage(w, r, st, "Error al validar archivos", "")
		return
	}
	h.Batches.SetResults(st.SessionID, results)
	updated := h.Batches.Get(st.SessionID)
	if !updated.AllCorrect() {
		h.renderPage(w, r, st, "Existen archivos no válidos o duplicados. Corrige antes de guardar.", "")
		return
	}
	h.renderPage(w, r, st, "", "")
}

// Submit commits a fully validated batch. Success clears the selection;
// failure leaves it intact so the user can retry.
func (h *UploadHandler) Submit(w http.ResponseWriter, r *http.Request) {
	st := state(r)
	batch := h.Batches.Get(st.SessionID)
	if !batch.CanSubmit() {
		h.renderPage(w, r, st, "Valida los archivos antes de guardar.", "")
		return
	}
	files, cleanup, err := openBatchFiles(batch)
	if err != nil {
		h.renderPage(w, r, st, "No se pudieron leer los archivos del lote.", "")
		return
	}
	defer cleanup()
	if err := h.API.ProcessBatch(r.Context(), st.Token, files); err != nil {
		if handleUnauthorized(h.Sessions, w, r, st, err) {
			return
		}
		h.renderPage(w, r, st, "Error al subir archivos", "")
		return
	}
	h.Batches.Clear(st.SessionID)
	h.renderPage(w, r, st, "", "Archivos subidos correctamente.")
}

// openBatchFiles opens every buffered file for a multipart request. The
// cleanup closes whatever was opened.
func openBatchFiles(batch upload.Batch) ([]api.UploadFile, func(), error) {
	handles := make([]*os.File, 0, len(batch.Files))
	cleanup := func() {
		for _, f := range handles {
			f.Close()
		}
	}
	out := make([]api.UploadFile, 0, len(batch.Files))
	for _, f := range batch.Files {
		fh, err := os.Open(f.Path)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		handles = append(handles, fh)
		out = append(out, api.UploadFile{Name: f.Name, Reader: fh})
	}
	return out, cleanup, nil
}
