package web

import (
	"fmt"
	"html/template"
	"math"
	"strconv"

	"golang.org/x/text/message"

	"estatehub/internal/config"
	"estatehub/internal/i18n"
	"estatehub/internal/models"
	"estatehub/internal/ui"
)

type pageSource struct {
	layout string
	body   string
}

var pageSources = map[string]pageSource{
	"home":               {"layout", homeTemplate},
	"properties":         {"layout", propertiesTemplate},
	"property":           {"layout", propertyTemplate},
	"property_not_found": {"layout", notFoundTemplate},
	"property_error":     {"layout", errorTemplate},
	"complexes":          {"layout", complexesTemplate},
	"complex":            {"layout", complexTemplate},
	"complex_not_found":  {"layout", notFoundTemplate},
	"complex_error":      {"layout", errorTemplate},
	"agents":             {"layout", agentsTemplate},
	"agent":              {"layout", agentTemplate},
	"profile":            {"layout", profileTemplate},
	"admin_recent":       {"layout", adminRecentTemplate},
	"not_found":          {"layout", notFoundTemplate},
	"error":              {"layout", errorTemplate},
	"login":              {"auth_layout", loginTemplate},
	"register":           {"auth_layout", registerTemplate},
}

type compiledPage struct {
	layout string
	tmpl   *template.Template
}

func templateFuncs(images *config.ImagePolicy) template.FuncMap {
	funcs := ui.Funcs()
	funcs["img"] = func(src string) string {
		if src == "" || !images.Allowed(src) {
			return ""
		}
		return src
	}
	funcs["badge"] = func(r models.Rating) ui.RatingBadge {
		return ui.RatingBadge{Rating: r}
	}
	funcs["mapButton"] = func(l i18n.Localizer, p models.Property) ui.MapButton {
		return ui.MapButton{Locale: l, Attrs: map[string]string{
			"data-lat": strconv.FormatFloat(p.Latitude, 'f', -1, 64),
			"data-lng": strconv.FormatFloat(p.Longitude, 'f', -1, 64),
		}}
	}
	funcs["submit"] = func(label string, variant ui.Variant) ui.Button {
		return ui.Button{Label: label, Variant: variant, Type: "submit"}
	}
	funcs["price"] = func(l i18n.Localizer, v float64) string {
		p := message.NewPrinter(l.Tag())
		if v == math.Trunc(v) {
			return p.Sprintf("%d", int64(v))
		}
		return p.Sprintf("%.2f", v)
	}
	funcs["rating"] = func(v float64) string {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return funcs
}

// parsePages compiles every page. Pages that fail to parse are reported in
// errs and left out of the result.
func parsePages(funcs template.FuncMap, sources map[string]pageSource) (map[string]compiledPage, map[string]error) {
	base := template.Must(template.New("base").Funcs(funcs).Parse(layoutTemplate + authLayoutTemplate + partialsTemplate))

	pages := make(map[string]compiledPage, len(sources))
	errs := make(map[string]error)
	for name, src := range sources {
		t, err := template.Must(base.Clone()).Parse(src.body)
		if err != nil {
			errs[name] = fmt.Errorf("page %s: %w", name, err)
			continue
		}
		pages[name] = compiledPage{layout: src.layout, tmpl: t}
	}
	return pages, errs
}

const layoutTemplate = `{{define "layout"}}<!DOCTYPE html>
<html lang="{{.L.Lang}}">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}} · EstateHub</title>
  <link rel="icon" href="/icon.png" type="image/png">
  <script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="min-h-screen bg-gray-50 text-gray-900">
  <header class="border-b bg-white">
    <nav class="mx-auto flex max-w-6xl items-center gap-6 px-4 py-3 text-sm">
      <a href="/" class="font-semibold">EstateHub</a>
      <a href="/properties">{{.L.T "properties"}}</a>
      <a href="/complexes">{{.L.T "complexes"}}</a>
      <a href="/agents">{{.L.T "agents"}}</a>
      <span class="ml-auto flex items-center gap-4">
      {{- if .User}}
        {{if .User.IsAdmin}}<a href="/admin/recent">{{.L.T "recent_listings"}}</a>{{end}}
        <a href="/profile">{{.User.Name}}</a>
        <form method="post" action="/logout">{{component (submit (.L.T "logout") "ghost")}}</form>
      {{- else}}
        <a href="/login">{{.L.T "login"}}</a>
        <a href="/register">{{.L.T "register"}}</a>
      {{- end}}
      </span>
    </nav>
  </header>
  <main class="mx-auto max-w-6xl px-4 py-8">{{template "content" .}}</main>
</body>
</html>{{end}}`

const authLayoutTemplate = `{{define "auth_layout"}}<!DOCTYPE html>
<html lang="{{.L.Lang}}">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}} · EstateHub</title>
  <link rel="icon" href="/icon.png" type="image/png">
  <script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="flex min-h-screen items-center justify-center bg-gray-100">
  <div class="w-full max-w-md rounded-lg bg-white p-8 shadow">
    <a href="/" class="mb-6 block text-center text-xl font-semibold">EstateHub</a>
    {{template "content" .}}
  </div>
</body>
</html>{{end}}`

const partialsTemplate = `{{define "card"}}<a href="/properties/{{.ID}}" class="block overflow-hidden rounded-lg border bg-white">
  {{with img .Cover}}<img src="{{.}}" alt="" class="h-48 w-full object-cover">{{else}}<div class="h-48 w-full bg-gray-200"></div>{{end}}
  <div class="space-y-1 p-4">
    <h3 class="font-semibold">{{.Title}}</h3>
    <p class="text-sm text-gray-600">{{.City}}{{with .Address}}, {{.}}{{end}}</p>
    {{component (badge .Rating)}}
  </div>
</a>{{end}}
{{define "grid"}}{{if .}}<div class="grid gap-6 sm:grid-cols-2 lg:grid-cols-3">{{range .}}{{template "card" .}}{{end}}</div>{{else}}<p class="text-gray-500">No listings yet.</p>{{end}}{{end}}`

const homeTemplate = `{{define "content"}}
<h1 class="mb-6 text-2xl font-bold">{{.L.T "featured"}}</h1>
{{template "grid" .Data}}
{{end}}`

const propertiesTemplate = `{{define "content"}}
<h1 class="mb-6 text-2xl font-bold">{{.L.T "properties"}}</h1>
<form method="get" action="/properties" class="mb-6 flex flex-col gap-3 sm:flex-row">
  {{component .Data.SearchBar}}
  {{component .Data.Sort}}
</form>
{{template "grid" .Data.Results}}
{{end}}`

const propertyTemplate = `{{define "content"}}{{with .Data}}
<article class="space-y-6">
  <div class="flex items-start justify-between gap-4">
    <div>
      <h1 class="text-2xl font-bold">{{.Property.Title}}</h1>
      <p class="text-gray-600">{{.Property.City}}{{with .Property.Address}}, {{.}}{{end}}</p>
      {{with .Property.Complex}}<a href="/complexes/{{.ID}}" class="text-sm text-blue-700">{{.Name}}</a>{{end}}
    </div>
    <div class="text-right">
      <p class="text-xl font-semibold">{{price $.L .Property.Price}}</p>
      {{component (badge .Property.Rating)}}
    </div>
  </div>
  {{if not .Property.Published}}<p class="rounded bg-yellow-50 p-2 text-sm">{{if .Property.Rejected}}{{$.L.T "rejected"}}{{else}}{{$.L.T "pending"}}{{end}}</p>{{end}}
  <div class="grid gap-4 sm:grid-cols-2">
    {{range .Property.Images}}{{with img .URL}}<img src="{{.}}" alt="" class="w-full rounded-lg object-cover">{{end}}{{end}}
  </div>
  <p>{{.Property.Description}}</p>
  <div class="flex gap-3">
    {{if .Property.HasLocation}}{{component (mapButton $.L .Property)}}{{end}}
    {{if $.User}}
      {{if .Favorite}}
      <form method="post" action="/favorites/{{.Property.ID}}/delete">{{component (submit ($.L.T "remove_favorite") "outline")}}</form>
      {{else}}
      <form method="post" action="/favorites/{{.Property.ID}}">{{component (submit ($.L.T "add_favorite") "primary")}}</form>
      {{end}}
    {{end}}
  </div>
  {{if .CanUpload}}
  <form method="post" action="/properties/{{.Property.ID}}/images" enctype="multipart/form-data" class="flex gap-3">
    <input type="file" name="image" accept="image/*" required>
    {{component (submit ($.L.T "upload_image") "outline")}}
  </form>
  {{end}}
  {{with .Property.Owner}}
  <div class="flex items-center gap-3 border-t pt-4">
    {{with img .Image}}<img src="{{.}}" alt="" class="h-10 w-10 rounded-full">{{end}}
    <span>{{.Name}}</span>
  </div>
  {{end}}
</article>
{{end}}{{end}}`

const complexesTemplate = `{{define "content"}}
<h1 class="mb-6 text-2xl font-bold">{{.L.T "complexes"}}</h1>
{{if .Data}}<ul class="divide-y rounded-lg border bg-white">
  {{range .Data}}<li class="p-4"><a href="/complexes/{{.ID}}" class="font-semibold">{{.Name}}</a> <span class="text-sm text-gray-600">{{.City}}</span></li>{{end}}
</ul>{{else}}<p class="text-gray-500">{{.L.T "empty"}}</p>{{end}}
{{end}}`

const complexTemplate = `{{define "content"}}{{with .Data}}
<h1 class="text-2xl font-bold">{{.Name}}</h1>
<p class="mb-2 text-gray-600">{{.City}}{{with .Address}}, {{.}}{{end}}</p>
<p class="mb-6">{{.Description}}</p>
{{template "grid" .Properties}}
{{end}}{{end}}`

const agentsTemplate = `{{define "content"}}
<h1 class="mb-6 text-2xl font-bold">{{.L.T "agents"}}</h1>
{{if .Data}}<div class="grid gap-6 sm:grid-cols-2 lg:grid-cols-3">
  {{range .Data}}<a href="/agents/{{.ID}}" class="flex items-center gap-4 rounded-lg border bg-white p-4">
    {{with img .Image}}<img src="{{.}}" alt="" class="h-12 w-12 rounded-full">{{end}}
    <div>
      <p class="font-semibold">{{.Name}}</p>
      <p class="text-sm text-gray-600">{{with .Agency}}{{.}} · {{end}}{{rating .Rating}} ({{.ReviewCount}} {{$.L.T "reviews"}})</p>
    </div>
  </a>{{end}}
</div>{{else}}<p class="text-gray-500">{{.L.T "empty"}}</p>{{end}}
{{end}}`

const agentTemplate = `{{define "content"}}{{with .Data}}
<div class="mb-6 flex items-center gap-4">
  {{with img .Agent.Image}}<img src="{{.}}" alt="" class="h-16 w-16 rounded-full">{{end}}
  <div>
    <h1 class="text-2xl font-bold">{{.Agent.Name}}</h1>
    <p class="text-sm text-gray-600">{{.Agent.Agency}}{{with .Agent.LicenseNumber}} · {{.}}{{end}}{{if .Agent.ExperienceYears}} · {{.Agent.ExperienceYears}}y{{end}}</p>
    <p class="text-sm">{{rating .Agent.Rating}} ({{.Agent.ReviewCount}} {{$.L.T "reviews"}})</p>
    <p class="text-sm">{{.Agent.Email}}{{with .Agent.Phone}} · {{.}}{{end}}</p>
  </div>
</div>
{{template "grid" .Listings}}
{{end}}{{end}}`

const profileTemplate = `{{define "content"}}
<h1 class="mb-6 text-2xl font-bold">{{.User.Name}}</h1>
<section class="mb-10">
  <h2 class="mb-4 text-xl font-semibold">{{.L.T "my_properties"}}</h2>
  {{if .Data.Owned}}<ul class="divide-y rounded-lg border bg-white">
    {{range .Data.Owned}}<li class="flex items-center justify-between p-4">
      <a href="/properties/{{.ID}}">{{.Title}}</a>
      <span class="text-sm text-gray-600">{{if .Published}}{{component (badge .Rating)}}{{else if .Rejected}}{{$.L.T "rejected"}}{{else}}{{$.L.T "pending"}}{{end}}</span>
    </li>{{end}}
  </ul>{{else}}<p class="text-gray-500">{{.L.T "empty"}}</p>{{end}}
</section>
<section>
  <h2 class="mb-4 text-xl font-semibold">{{.L.T "favorites"}}</h2>
  {{template "grid" .Data.Favorites}}
</section>
{{end}}`

const adminRecentTemplate = `{{define "content"}}
<h1 class="mb-6 text-2xl font-bold">{{.L.T "recent_listings"}}</h1>
<table class="w-full rounded-lg border bg-white text-sm">
  {{range .Data}}<tr class="border-b">
    <td class="p-3"><a href="/properties/{{.ID}}">{{.Title}}</a></td>
    <td class="p-3">{{with .Owner}}{{.Name}}{{end}}</td>
    <td class="p-3">{{if .Published}}✓{{else if .Rejected}}{{$.L.T "rejected"}}{{else}}{{$.L.T "pending"}}{{end}}</td>
  </tr>{{end}}
</table>
{{end}}`

const notFoundTemplate = `{{define "content"}}
<div class="py-16 text-center">
  <h1 class="mb-4 text-2xl font-bold">{{.Data.Heading}}</h1>
  <a href="{{.Data.Link}}" class="text-blue-700 underline">{{.Data.LinkLabel}}</a>
</div>
{{end}}`

const errorTemplate = `{{define "content"}}
<div class="py-16 text-center">
  <h1 class="text-2xl font-bold">{{.Data.Heading}}</h1>
</div>
{{end}}`

const loginTemplate = `{{define "content"}}
<h1 class="mb-4 text-lg font-semibold">{{.L.T "login"}}</h1>
{{with .Data.Error}}<p class="mb-4 rounded bg-red-50 p-2 text-sm text-red-700">{{.}}</p>{{end}}
<form method="post" action="/login" class="space-y-4">
  <input type="hidden" name="next" value="{{.Data.Next}}">
  <input type="email" name="email" value="{{.Data.Email}}" placeholder="Email" required class="w-full rounded-md border px-3 py-2">
  <input type="password" name="password" placeholder="Password" required class="w-full rounded-md border px-3 py-2">
  {{component (submit (.L.T "login") "primary")}}
</form>
<p class="mt-4 text-center text-sm"><a href="/register" class="text-blue-700">{{.L.T "register"}}</a></p>
{{end}}`

const registerTemplate = `{{define "content"}}
<h1 class="mb-4 text-lg font-semibold">{{.L.T "register"}}</h1>
{{with .Data.Error}}<p class="mb-4 rounded bg-red-50 p-2 text-sm text-red-700">{{.}}</p>{{end}}
<form method="post" action="/register" class="space-y-4">
  <input type="text" name="name" value="{{.Data.Name}}" placeholder="Name" required class="w-full rounded-md border px-3 py-2">
  <input type="email" name="email" value="{{.Data.Email}}" placeholder="Email" required class="w-full rounded-md border px-3 py-2">
  <input type="password" name="password" placeholder="Password" required minlength="8" class="w-full rounded-md border px-3 py-2">
  {{component (submit (.L.T "register") "primary")}}
</form>
<p class="mt-4 text-center text-sm"><a href="/login" class="text-blue-700">{{.L.T "login"}}</a></p>
{{end}}`
