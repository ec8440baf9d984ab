// Package handler holds the template renderer and HTTP error helpers
// shared by the storefront and admin handler packages.
package handler

import (
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// Renderer manages template parsing and rendering with isolated template sets
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses the storefront and admin layouts and clones one
// template set per page so page blocks never collide.
func NewRenderer(templatesDir string) (*Renderer, error) {
	templates := make(map[string]*template.Template)

	baseTmpl, err := template.New("base").Funcs(TemplateFuncs()).
		ParseFiles(filepath.Join(templatesDir, "layout.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	adminBaseTmpl, err := template.New("admin_base").Funcs(TemplateFuncs()).
		ParseFiles(filepath.Join(templatesDir, "admin", "layout.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse admin layout: %w", err)
	}

	storefrontPages, err := filepath.Glob(filepath.Join(templatesDir, "storefront", "*.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob storefront templates: %w", err)
	}

	for _, page := range storefrontPages {
		pageTmpl, err := baseTmpl.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone template for %s: %w", page, err)
		}

		pageTmpl, err = pageTmpl.ParseFiles(page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", page, err)
		}

		templates["storefront/"+pageName(page)] = pageTmpl
	}

	adminPages, err := filepath.Glob(filepath.Join(templatesDir, "admin", "*.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob admin templates: %w", err)
	}

	for _, page := range adminPages {
		if filepath.Base(page) == "layout.html" {
			continue
		}

		pageTmpl, err := adminBaseTmpl.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone template for %s: %w", page, err)
		}

		pageTmpl, err = pageTmpl.ParseFiles(page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", page, err)
		}

		templates["admin/"+pageName(page)] = pageTmpl
	}

	return &Renderer{templates: templates}, nil
}

func pageName(page string) string {
	name := filepath.Base(page)
	return name[:len(name)-len(filepath.Ext(name))]
}

// Execute returns the named template set.
func (r *Renderer) Execute(name string) (*template.Template, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	return tmpl, nil
}

// Render executes a named template and writes to an io.Writer
func (r *Renderer) Render(w io.Writer, name string, data interface{}) error {
	tmpl, err := r.Execute(name)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, data)
}

// RenderHTTP renders to an http.ResponseWriter with error handling
func (r *Renderer) RenderHTTP(w http.ResponseWriter, name string, data interface{}) {
	tmpl, err := r.Execute(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "template error: %v\n", err)
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	execName := "base"
	if len(name) >= 6 && name[:6] == "admin/" {
		execName = "admin_base"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, execName, data); err != nil {
		fmt.Fprintf(os.Stderr, "render error: %v\n", err)
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}
}
