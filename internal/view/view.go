// Package view renders the planner's HTML fragments. Renderers are pure:
// state in, markup out, no mutation of plan data.
package view

import (
	"embed"
	"html/template"
	"strings"

	"outfit-planner/internal/outfit"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("view").Funcs(template.FuncMap{
	"label":    func(it outfit.Item) string { return it.Label() },
	"itemIcon": itemIcon,
}).ParseFS(templateFS, "templates/*.tmpl"))

func render(name string, data any) (string, error) {
	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func itemIcon(it outfit.Item) string {
	if it.Icon != "" {
		return it.Icon
	}
	return outfit.RoleIcon(it.Role)
}
