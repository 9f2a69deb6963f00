package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/carpenike/catalogsync/internal/audit"
	"github.com/carpenike/catalogsync/internal/middleware"
)

// TemplateCache holds parsed page template sets and the shared partials.
// Each page set contains the base layout, every partial and one page.
type TemplateCache struct {
	pages    map[string]*template.Template
	partials *template.Template
}

var templateFuncs = template.FuncMap{
	"assetKinds": func(kinds []audit.AssetKind) string {
		s := make([]string, len(kinds))
		for i, k := range kinds {
			s[i] = string(k)
		}
		return strings.Join(s, ", ")
	},
}

// NewTemplateCache parses all templates from fsys, which must contain
// templates/layouts/base.html, templates/partials/*.html and
// templates/pages/*.html.
func NewTemplateCache(fsys fs.FS) (*TemplateCache, error) {
	tc := &TemplateCache{pages: map[string]*template.Template{}}

	partials, err := fs.Glob(fsys, "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("handlers: glob partial templates: %w", err)
	}
	if len(partials) > 0 {
		tc.partials, err = template.New("partials").Funcs(templateFuncs).ParseFS(fsys, partials...)
		if err != nil {
			return nil, fmt.Errorf("handlers: parse partials: %w", err)
		}
	}

	pages, err := fs.Glob(fsys, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("handlers: glob page templates: %w", err)
	}

	for _, page := range pages {
		name := filepath.Base(page)
		files := append([]string{"templates/layouts/base.html"}, partials...)
		files = append(files, page)

		ts, err := template.New(name).Funcs(templateFuncs).ParseFS(fsys, files...)
		if err != nil {
			return nil, fmt.Errorf("handlers: parse %s with layout: %w", name, err)
		}
		tc.pages[name] = ts
	}

	return tc, nil
}

// Render executes a page template with the base layout and a 200 status.
// The CSRF token is injected for forms. For non-boosted htmx requests only
// the content block is returned.
func (tc *TemplateCache) Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	return tc.RenderStatus(w, r, http.StatusOK, name, data)
}

// RenderStatus is Render with an explicit status code. An error means
// nothing was written, so the caller may still send an error response.
func (tc *TemplateCache) RenderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) error {
	ts, ok := tc.pages[name]
	if !ok {
		return fmt.Errorf("handlers: template %q not found in cache", name)
	}

	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["CSRFToken"]; !exists {
		data["CSRFToken"] = middleware.CSRFTokenFromContext(r.Context())
	}

	block := "base"
	if r.Header.Get("HX-Request") == "true" && r.Header.Get("HX-Boosted") != "true" {
		block = "content"
	}

	// Render into a buffer so a template error does not leave a half-written page.
	var buf bytes.Buffer
	if err := ts.ExecuteTemplate(&buf, block, data); err != nil {
		return fmt.Errorf("handlers: execute %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("handlers: write %s: %v", name, err)
	}
	return nil
}

// RenderPartial executes a single named partial, such as the option list
// swapped into the product dropdown.
func (tc *TemplateCache) RenderPartial(w http.ResponseWriter, name string, data any) error {
	if tc.partials == nil || tc.partials.Lookup(name) == nil {
		return fmt.Errorf("handlers: partial %q not found", name)
	}

	var buf bytes.Buffer
	if err := tc.partials.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("handlers: execute partial %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

// NotFound renders the not-found page with a 404 status.
func (tc *TemplateCache) NotFound(w http.ResponseWriter, r *http.Request) {
	if err := tc.RenderStatus(w, r, http.StatusNotFound, "not_found.html", nil); err != nil {
		log.Printf("handlers: not found template: %v", err)
		http.Error(w, "Not found", http.StatusNotFound)
	}
}
