// Package ui renders the presentational components shared by the pages.
// Components are plain values; handlers build them from request data and
// call Render inside page templates.
package ui

import (
	"bytes"
	"html/template"
)

var components = template.Must(template.New("ui").Parse(dropdownTemplate + searchBarTemplate + ratingBadgeTemplate + buttonTemplate))

func render(name string, data interface{}) (template.HTML, error) {
	var buf bytes.Buffer
	if err := components.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Component is anything a page template can embed.
type Component interface {
	Render() (template.HTML, error)
}

// Funcs exposes the components to page templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"component": func(c Component) (template.HTML, error) {
			return c.Render()
		},
	}
}

const dropdownTemplate = `{{define "dropdown"}}<select name="{{.Name}}" onchange="this.form.submit()" class="rounded-md border border-gray-300 bg-white px-3 py-2 text-sm">
{{- range .Options}}
  <option value="{{.Value}}"{{if eq .Value $.Value}} selected{{end}}>{{.Label}}</option>
{{- end}}
</select>{{end}}`

const searchBarTemplate = `{{define "searchbar"}}<div class="flex gap-2">
  <input type="search" name="{{.Name}}" value="{{.Query}}" placeholder="{{.Placeholder}}" class="w-full rounded-md border border-gray-300 px-3 py-2 text-sm">
  {{.SubmitButton}}
</div>{{end}}`

const ratingBadgeTemplate = `{{define "ratingbadge"}}<span class="inline-flex items-center rounded-full border px-2.5 py-0.5 text-xs font-semibold {{.Classes}}">Rating {{.Rating}}</span>{{end}}`

const buttonTemplate = `{{define "button"}}<button type="{{.Type}}" class="{{.Classes}}"{{if .Disabled}} disabled{{end}}{{range .Attrs}} {{.}}{{end}}>{{.Label}}</button>{{end}}`
