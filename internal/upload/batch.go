// Package upload keeps the per-session validate-then-commit batch state.
// Files are buffered on disk until the batch is committed or discarded; the
// commit gate opens only when every file validated as correct.
package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/sicea/console/internal/models"
)

// Phase of a batch. Selecting or removing a file always resets to
// PhaseSelected, discarding previous validation results.
type Phase string

const (
	PhaseSelected  Phase = "selected"
	PhaseValidated Phase = "validated"
)

// File is one buffered selection.
type File struct {
	Name string
	Size int64
	Path string
}

// Batch is the mutable per-session state. Results align with Files by
// position once validated.
type Batch struct {
	Phase   Phase
	Files   []File
	Results []models.ValidationResult
}

// AllCorrect reports whether every recorded status equals correct.
func (b *Batch) AllCorrect() bool {
	if len(b.Results) == 0 {
		return false
	}
	for _, r := range b.Results {
		if r.Status != models.StatusCorrect {
			return false
		}
	}
	return true
}

// CanSubmit is the commit gate: a non-empty, fully validated batch where
// every file is correct.
func (b *Batch) CanSubmit() bool {
	return len(b.Files) > 0 && b.Phase == PhaseValidated && len(b.Results) == len(b.Files) && b.AllCorrect()
}

// CorrectCount returns how many files validated as correct.
func (b *Batch) CorrectCount() int {
	n := 0
	for _, r := range b.Results {
		if r.Status == models.StatusCorrect {
			n++
		}
	}
	return n
}

// Manager holds one batch per session id behind a single lock; handler
// requests for different sessions never share a batch.
type Manager struct {
	mu      sync.Mutex
	dir     string
	batches map[string]*Batch
}

// NewManager buffers batch files under dir (created on demand).
func NewManager(dir string) *Manager {
	return &Manager{dir: dir, batches: map[string]*Batch{}}
}

func (m *Manager) batch(sessionID string) *Batch {
	b, ok := m.batches[sessionID]
	if !ok {
		b = &Batch{Phase: PhaseSelected}
		m.batches[sessionID] = b
	}
	return b
}

// Get returns a copy of the session's batch for rendering.
func (m *Manager) Get(sessionID string) Batch {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.batch(sessionID)
	out := Batch{Phase: b.Phase}
	out.Files = append(out.Files, b.Files...)
	out.Results = append(out.Results, b.Results...)
	return out
}

// Add buffers a newly selected file and resets validation state. Selections
// duplicated by name and size are silently skipped, matching how repeated
// picks of the same file behave.
func (m *Manager) Add(sessionID, name string, src io.Reader) error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("batch dir: %w", err)
	}
	path := filepath.Join(m.dir, uuid.NewString()+".pdf")
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("buffer file: %w", err)
	}
	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("buffer file: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.batch(sessionID)
	for _, f := range b.Files {
		if f.Name == name && f.Size == size {
			os.Remove(path)
			m.reset(b)
			return nil
		}
	}
	b.Files = append(b.Files, File{Name: name, Size: size, Path: path})
	m.reset(b)
	return nil
}

// Remove drops the file at index and, when validation already ran, its
// result entry at the same position, then recomputes the gate.
func (m *Manager) Remove(sessionID string, index int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.batch(sessionID)
	if index < 0 || index >= len(b.Files) {
		return
	}
	os.Remove(b.Files[index].Path)
	b.Files = append(b.Files[:index], b.Files[index+1:]...)
	if index < len(b.Results) {
		b.Results = append(b.Results[:index], b.Results[index+1:]...)
	}
	if len(b.Files) == 0 {
		m.reset(b)
		return
	}
	if b.Phase == PhaseValidated && len(b.Results) != len(b.Files) {
		// A file added after validation was removed out of order; force
		// re-validation rather than guessing the alignment.
		m.reset(b)
	}
}

// SetResults records the validation outcome, one result per file in order.
func (m *Manager) SetResults(sessionID string, results []models.ValidationResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.batch(sessionID)
	b.Results = results
	b.Phase = PhaseValidated
}

// Clear discards the batch and its buffered files. Called after a successful
// commit and on logout; a failed commit leaves the batch untouched so the
// user can retry.
func (m *Manager) Clear(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.batch(sessionID)
	for _, f := range b.Files {
		os.Remove(f.Path)
	}
	delete(m.batches, sessionID)
}

func (m *Manager) reset(b *Batch) {
	b.Results = nil
	b.Phase = PhaseSelected
}
