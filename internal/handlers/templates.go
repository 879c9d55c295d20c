package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"path"
	"sync"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/alextreichler/gizmogrid/internal/cart"
	"github.com/alextreichler/gizmogrid/internal/models"
)

const layoutFile = "layout.html"

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
			"truncate":   truncate,
			"money":      money,
			"lineTotal":  func(it models.CartItem) string { return money(cart.LineTotal(it)) },
			"thumb":      func(src string) string { return src },
			"fieldError": func(errs FieldErrors, field string) string { return errs[field] },
		},
	}
}

func (tc *TemplateCache) AddFunc(name string, fn interface{}) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.funcs[name] = fn
}

// Load parses every page in dir together with the shared layout.
func (tc *TemplateCache) Load(fsys fs.FS, dir string) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	files, err := fs.Glob(fsys, path.Join(dir, "*.html"))
	if err != nil {
		return err
	}
	layout := path.Join(dir, layoutFile)
	for _, file := range files {
		name := path.Base(file)
		if name == layoutFile {
			continue
		}
		tmpl, err := template.New(name).Funcs(tc.funcs).ParseFS(fsys, layout, file)
		if err != nil {
			slog.Error("Failed to parse template", "file", file, "error", err)
			return err
		}
		tc.cache[name] = tmpl
		slog.Debug("Cached template", "name", name)
	}
	if len(tc.cache) == 0 {
		return fmt.Errorf("no templates found in %s", dir)
	}
	return nil
}

func (tc *TemplateCache) Get(name string) *template.Template {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.cache[name]
}

// truncate cuts s to n runes and marks the cut with "...".
func truncate(n int, s string) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func money(v interface{}) string {
	switch x := v.(type) {
	case decimal.Decimal:
		return "$" + x.StringFixed(2)
	case float64:
		return "$" + decimal.NewFromFloat(x).StringFixed(2)
	case int:
		return "$" + decimal.NewFromInt(int64(x)).StringFixed(2)
	default:
		return fmt.Sprintf("$%v", v)
	}
}
