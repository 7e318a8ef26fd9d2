package main

import (
	"bytes"
	"context"
	"html/template"

	"github.com/3-lines-studio/semkit"
)

var funcs = template.FuncMap{
	"safe": func(s string) template.HTML { return template.HTML(s) },
}

const partials = `
{{define "card"}}
<article data-class="card" class="rounded-lg border border-gray-200 p-6 shadow-sm">
  <p data-class="card-meta" class="text-xs uppercase tracking-wide text-gray-500">{{.Date}}</p>
  <h2 data-class="card-title" class="mt-2 text-xl font-semibold"><a href="/posts/{{.Slug}}">{{.Title}}</a></h2>
  <p data-class="card-excerpt" class="mt-2 text-gray-600">{{.Excerpt}}</p>
</article>
{{end}}
{{define "list"}}
<div data-class="post-list" class="grid gap-6">{{range .}}{{template "card" .}}{{end}}</div>
{{end}}
{{define "heading"}}
<header data-class="page-header" class="mb-8">
  <h1 data-class="page-title" class="text-3xl font-bold tracking-tight">{{.Title}}</h1>
  {{with .Subtitle}}<p data-class="page-subtitle" class="mt-2 text-lg text-gray-600">{{.}}</p>{{end}}
</header>
{{end}}
`

type pageData struct {
	Props  map[string]any
	Params map[string]string
	Body   template.HTML
}

func mustTemplate(name, src string) *template.Template {
	t := template.Must(template.New(name).Funcs(funcs).Parse(partials))
	return template.Must(t.Parse(src))
}

func page(name, src string) semkit.Component {
	tmpl := mustTemplate(name, src)
	return func(ctx context.Context, req semkit.RenderRequest) (string, error) {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, pageData{Props: req.Props, Params: req.Params}); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
}

func layout(name, src string) semkit.Layout {
	tmpl := mustTemplate(name, src)
	return func(ctx context.Context, req semkit.RenderRequest, body string) (string, error) {
		var buf bytes.Buffer
		data := pageData{Props: req.Props, Params: req.Params, Body: template.HTML(body)}
		if err := tmpl.Execute(&buf, data); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
}

// Components registers every component named in routes.yaml.
func Components() *semkit.Registry {
	return semkit.NewRegistry().
		MustRegisterLayout("App", layout("App", `
<div data-class="site-shell" class="flex min-h-screen flex-col">
  <header data-class="site-header" class="flex items-center justify-between border-b px-6 py-4">
    <a href="/" data-class="site-logo" class="text-xl font-bold">{{.Props.site.Title}}</a>
    <nav data-class="site-nav" class="flex gap-4 text-sm">
      {{range .Props.site.Menu}}<a href="{{.URL}}" data-class="nav-link" class="text-gray-600 hover:text-gray-900">{{.Label}}</a>{{end}}
    </nav>
  </header>
  <main data-class="site-main" class="mx-auto w-full max-w-3xl flex-1 px-6 py-10">{{.Body}}</main>
  <footer data-class="site-footer" class="border-t px-6 py-4 text-sm text-gray-500">{{.Props.site.Description}}</footer>
</div>`)).
		MustRegister("Home", page("Home", `
{{with index .Props.pages "home"}}{{template "heading" .}}
<section data-class="prose" class="prose max-w-none">{{safe .HTML}}</section>{{end}}
<h2 data-class="section-title" class="mb-4 mt-10 text-xl font-semibold">Latest</h2>
{{template "list" .Props.posts}}`)).
		MustRegister("About", page("About", `
{{with index .Props.pages "about"}}{{template "heading" .}}
<section data-class="prose" class="prose max-w-none">{{safe .HTML}}</section>{{end}}`)).
		MustRegister("Blog", page("Blog", `
<header data-class="page-header" class="mb-8"><h1 data-class="page-title" class="text-3xl font-bold tracking-tight">Blog</h1></header>
{{template "list" .Props.posts}}`)).
		MustRegister("Post", page("Post", `
{{with .Props.post}}
<article data-class="post" class="space-y-6">
  <header data-class="page-header" class="mb-8">
    <h1 data-class="page-title" class="text-3xl font-bold tracking-tight">{{.Title}}</h1>
    <p data-class="post-meta" class="text-sm text-gray-500">{{.Date}}{{with .Author}} · {{.Name}}{{end}}</p>
  </header>
  <div data-class="prose" class="prose max-w-none">{{safe .HTML}}</div>
  <ul data-class="tag-list" class="flex flex-wrap gap-2">
    {{range .Tags}}<li><a href="/tag/{{.Slug}}" data-class="tag" class="rounded bg-gray-100 px-2 py-1 text-xs">{{.Name}}</a></li>{{end}}
  </ul>
</article>
{{end}}`)).
		MustRegister("Category", page("Category", termPage)).
		MustRegister("Tag", page("Tag", termPage)).
		MustRegister("NotFound", page("NotFound", `
<h1 data-class="page-title" class="text-3xl font-bold tracking-tight">Not found</h1>`))
}

const termPage = `
{{with .Props.term}}<header data-class="page-header" class="mb-8">
  <h1 data-class="page-title" class="text-3xl font-bold tracking-tight">{{.Name}}</h1>
  <p data-class="page-subtitle" class="mt-2 text-lg text-gray-600">{{.Count}} posts</p>
</header>{{end}}
{{template "list" .Props.posts}}`
