package handlers

import (
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/santoshkumarshah266-jpg/storeadmin/internal/dashboard"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/models"
)

//go:embed templates/*.html
var TemplateFS embed.FS

//go:embed static
var StaticFS embed.FS

const partialsFile = "partials.html"

// TemplateCache holds parsed templates
type TemplateCache struct {
	cache map[string]*template.Template
	mu    sync.RWMutex
	funcs template.FuncMap
}

func NewTemplateCache() *TemplateCache {
	return &TemplateCache{
		cache: make(map[string]*template.Template),
		funcs: template.FuncMap{
			"money": dashboard.FormatMoney,
			"join":  strings.Join,
			"title": func(s models.OrderStatus) string {
				if s == "" {
					return ""
				}
				return strings.ToUpper(string(s[:1])) + string(s[1:])
			},
			"itemCount": func(o models.Order) int {
				n := 0
				for _, it := range o.Items {
					n += it.Quantity
				}
				return n
			},
		},
	}
}

// Load parses every page under dir in fsys together with the shared
// partials file.
func (tc *TemplateCache) Load(fsys fs.FS, dir string) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	files, err := fs.Glob(fsys, path.Join(dir, "*.html"))
	if err != nil {
		return err
	}
	partials := path.Join(dir, partialsFile)
	for _, file := range files {
		name := path.Base(file)
		if name == partialsFile {
			continue
		}
		tmpl, err := template.New(name).Funcs(tc.funcs).ParseFS(fsys, partials, file)
		if err != nil {
			slog.Error("Failed to parse template", "file", file, "error", err)
			return err
		}
		tc.cache[name] = tmpl
		slog.Debug("Cached template", "name", name)
	}
	return nil
}

func (tc *TemplateCache) Get(name string) *template.Template {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.cache[name]
}
