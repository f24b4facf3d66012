package http

import (
	"embed"
	"html/template"
	"time"

	"github.com/breathify/backend/pkg/utils"
)

//go:embed templates/*
var templateFS embed.FS

// newTemplates parses the page templates; timestamps render in loc.
func newTemplates(loc *time.Location) *template.Template {
	funcs := template.FuncMap{
		"deref": func(f *float64) float64 {
			if f == nil {
				return 0
			}
			return *f
		},
		"round1": func(f float64) float64 {
			return utils.RoundTo(f, 1)
		},
		"timestamp": func(t time.Time) string {
			return utils.FormatTimestamp(t, loc)
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}
