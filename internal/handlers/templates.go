package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// ParseTemplates parses every storefront screen. Each page is looked up by
// its file name, e.g. "cart.html".
func ParseTemplates() (*template.Template, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// render executes the named page, logging and replying 500 on failure
func render(w http.ResponseWriter, log *zap.Logger, tmpl *template.Template, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Error("Error rendering template", zap.String("template", name), zap.Error(err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}
