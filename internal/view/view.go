package view

import (
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	baseDir string
	once    sync.Once

	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}
)

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

func detectBase() {
	// Templates resolve whether running from repo root or a package dir
	// (tests execute with the package as cwd).
	candidates := []string{"templates", "../templates", "../../templates", "../../../templates"}
	for _, c := range candidates {
		if fi, err := os.Stat(filepath.Clean(c)); err == nil && fi.IsDir() {
			baseDir = filepath.Clean(c)
			return
		}
	}
	baseDir = "templates"
}

// MonthName returns the Spanish month name, or N/A outside 1..12.
func MonthName(m int) string {
	if m < 1 || m > 12 {
		return "N/A"
	}
	return monthNames[m-1]
}

// Money renders a decimal-as-string amount as Chilean pesos: $1.234.567.
// Unparseable or empty input renders N/A.
func Money(amount string) string {
	if strings.TrimSpace(amount) == "" {
		return "N/A"
	}
	f, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return "N/A"
	}
	neg := f < 0
	if neg {
		f = -f
	}
	digits := strconv.FormatFloat(f, 'f', 0, 64)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	out := "$" + b.String()
	if neg {
		out = "-" + out
	}
	return out
}

// Funcs is the shared template func map.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"monthName": MonthName,
		"money":     Money,
		"year":      func() int { return time.Now().Year() },
		"add":       func(a, b int) int { return a + b },
		"deref": func(b *bool) bool {
			if b == nil {
				return false
			}
			return *b
		},
	}
}

// Render executes templates/<name> inside layout.html with the shared funcs.
// Parsed templates are cached except when DEV=1.
func Render(w http.ResponseWriter, name string, data map[string]any) error {
	once.Do(detectBase)
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Year"]; !exists {
		data["Year"] = time.Now().Year()
	}
	devMode := os.Getenv("DEV") == "1"
	if !devMode {
		tplCache.RLock()
		t, ok := tplCache.m[name]
		tplCache.RUnlock()
		if ok && t != nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			return t.Execute(w, data)
		}
	}
	layout := filepath.Join(baseDir, "layout.html")
	page := filepath.Join(baseDir, name)
	t, err := template.New("layout.html").Funcs(Funcs()).ParseFiles(layout, page)
	if err != nil {
		return err
	}
	if !devMode {
		tplCache.Lock()
		tplCache.m[name] = t
		tplCache.Unlock()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return t.Execute(w, data)
}
