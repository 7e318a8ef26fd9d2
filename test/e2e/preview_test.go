package e2e

import (
	"context"
	"strings"
	"testing"
)

func TestMarkupStarter_BuildAndPreview(t *testing.T) {
	p, _ := newStarter(t, "markup")

	if _, err := p.Build(context.Background()); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	server := startPreview(t, p)

	resp, html := server.get(t, "/")
	assertHTTPStatus(t, resp, 200)
	if !strings.Contains(html, `<h1 class="page-title">Welcome</h1>`) {
		t.Errorf("home page was not rewritten:\n%s", html)
	}
	if strings.Contains(html, "data-class") {
		t.Errorf("home page still carries data-class attributes:\n%s", html)
	}

	resp, html = server.get(t, "/about")
	assertHTTPStatus(t, resp, 200)
	if !strings.Contains(html, "<title>About</title>") {
		t.Errorf("about page title missing:\n%s", html)
	}

	resp, css := server.get(t, "/input.css")
	assertHTTPStatus(t, resp, 200)
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/css") {
		t.Errorf("input.css content type = %q", ct)
	}
	for _, rule := range []string{
		".page-title { @apply font-bold text-3xl; }",
		"{ @apply mt-4 text-gray-600 text-lg; }",
	} {
		if !strings.Contains(css, rule) {
			t.Errorf("input.css missing %q:\n%s", rule, css)
		}
	}

	resp, _ = server.get(t, "/assets/css/styles.css")
	assertHTTPStatus(t, resp, 200)

	resp, _ = server.get(t, "/missing")
	assertHTTPStatus(t, resp, 404)
}

func TestMarkupStarter_AnalyzeRewriteRoute(t *testing.T) {
	p, dir := newStarter(t, "markup")
	ctx := context.Background()

	if _, err := p.Generate(ctx, "/about"); err != nil {
		t.Fatalf("Generate(/about) error = %v", err)
	}
	if _, err := p.Analyze(ctx, "/about"); err != nil {
		t.Fatalf("Analyze(/about) error = %v", err)
	}

	result, err := p.Rewrite("/about")
	if err != nil {
		t.Fatalf("Rewrite(/about) error = %v", err)
	}
	if result.Skipped {
		t.Fatal("Rewrite(/about) skipped a route with a report")
	}
	if len(result.Stylesheets) != 1 || !strings.HasPrefix(result.Stylesheets[0], dir) {
		t.Errorf("stylesheets = %v, want one below %s", result.Stylesheets, dir)
	}
}
