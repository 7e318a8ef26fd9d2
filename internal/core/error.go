package core

import (
	"bytes"
	"html/template"
)

// ErrorPage is what the preview server shows when it cannot serve a path.
type ErrorPage struct {
	Status  int
	Title   string
	Path    string
	Message string
	IsDev   bool
}

var errorPageTemplate = template.Must(template.New("error").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Status}} {{.Title}}</title>
  <style>
    body { font-family: system-ui, sans-serif; max-width: 720px; margin: 48px auto; padding: 0 20px; color: #1f2937; }
    h1 { color: #b91c1c; }
    code, pre { background: #f3f4f6; border-radius: 4px; }
    pre { padding: 12px; overflow-x: auto; }
  </style>
</head>
<body>
  <h1>{{.Status}} {{.Title}}</h1>
  {{if .IsDev}}
  <p>Path: <code>{{.Path}}</code></p>
  <pre>{{.Message}}</pre>
  {{if eq .Status 404}}<p>Run <code>semkit generate</code> if this route was added after the last build.</p>{{end}}
  {{else}}
  <p>The requested page could not be served.</p>
  {{end}}
</body>
</html>`))

func RenderErrorPage(page ErrorPage) ([]byte, error) {
	var buf bytes.Buffer
	if err := errorPageTemplate.Execute(&buf, page); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
