package http

import (
	"embed"
	"html/template"

	"github.com/Masterminds/sprig/v3"
)

//go:embed templates/*.html
var templateFS embed.FS

func mustParseTemplates() *template.Template {
	return template.Must(
		template.New("pages").
			Funcs(sprig.FuncMap()).
			ParseFS(templateFS, "templates/*.html"),
	)
}
