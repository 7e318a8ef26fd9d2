package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3-lines-studio/semkit/internal/adapters/fs"
	"github.com/3-lines-studio/semkit/internal/config"
	"github.com/3-lines-studio/semkit/internal/core"
	"github.com/3-lines-studio/semkit/internal/routes"
)

const routeManifest = `
routes:
  - index: true
    component: Home
  - path: about
    component: About
  - path: posts/:slug
    component: Post
  - path: "*"
    component: NotFound
`

type fakeRenderer struct {
	bodies   map[string]string
	failures map[string]bool
	requests []core.RenderRequest
}

func (r *fakeRenderer) Render(_ context.Context, req core.RenderRequest) (core.RenderedPage, error) {
	r.requests = append(r.requests, req)
	if r.failures[req.Component] {
		return core.RenderedPage{}, fmt.Errorf("component %s exploded", req.Component)
	}
	body, ok := r.bodies[req.Component]
	if !ok {
		return core.RenderedPage{}, fmt.Errorf("unknown component %s", req.Component)
	}
	return core.RenderedPage{Body: strings.ReplaceAll(body, "{slug}", req.Params["slug"])}, nil
}

type fakeData map[string][]string

func (d fakeData) Slugs(pattern string) []string { return d[pattern] }

func (d fakeData) Props(pattern, slug string) map[string]any {
	return map[string]any{"slug": slug}
}

type quietCLI struct{}

func (quietCLI) PrintHeader(string) {}
func (quietCLI) PrintStep(string, string, ...any) {}
func (quietCLI) PrintSuccess(string, ...any) {}
func (quietCLI) PrintWarning(string, ...any) {}
func (quietCLI) PrintError(string, ...any) {}
func (quietCLI) PrintFile(string) {}
func (quietCLI) PrintDone(string) {}
func (quietCLI) Green(text string) string { return text }
func (quietCLI) Yellow(text string) string { return text }
func (quietCLI) Red(text string) string { return text }
func (quietCLI) Gray(text string) string { return text }
func (quietCLI) Stdout() io.Writer { return io.Discard }
func (quietCLI) Stderr() io.Writer { return io.Discard }

type fixture struct {
	dir      string
	renderer *fakeRenderer
	project  *Project
	targets  []config.Target
	reports  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	table, err := routes.ParseManifest([]byte(routeManifest))
	require.NoError(t, err)

	dir := t.TempDir()
	cssDir := filepath.Join(dir, "css")
	require.NoError(t, os.MkdirAll(cssDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cssDir, "styles.css"), []byte("body{}"), 0644))

	renderer := &fakeRenderer{
		bodies: map[string]string{
			"Home":  `<h1>Home</h1><div data-class="hero-box" class="p-4">hi</div>`,
			"About": `<h1>About us</h1><section data-class="about-box" class="p-4"><p data-class="card" class="text-sm">x</p></section>`,
			"Post":  `<h1>{slug}</h1><p class="text-lg">body</p>`,
		},
		failures: map[string]bool{},
	}

	return &fixture{
		dir:      dir,
		renderer: renderer,
		project: &Project{
			Table:    table,
			Renderer: renderer,
			Data:     fakeData{"/posts/:slug": {"hello", "world"}},
		},
		targets: []config.Target{{
			Name:           "site",
			OutputDir:      filepath.Join(dir, "dist"),
			CSSSources:     []string{filepath.Join(dir, "missing.css"), cssDir},
			Title:          "Fallback",
			StylesheetHref: "/assets/css/styles.css",
		}},
		reports: filepath.Join(dir, "reports"),
	}
}

func (f *fixture) generate(t *testing.T) GenerateOutput {
	t.Helper()
	svc := NewGenerateService(f.project, fs.NewOSFileSystem(), quietCLI{}, discardLogger())
	return svc.Generate(context.Background(), GenerateInput{Targets: f.targets, ReportsDir: f.reports})
}

func (f *fixture) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.dir, rel))
	require.NoError(t, err)
	return string(data)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProjectPagesExpandsDynamicRoutes(t *testing.T) {
	f := newFixture(t)

	var paths []string
	for _, p := range f.project.Pages(discardLogger()) {
		paths = append(paths, p.Path)
	}
	assert.Equal(t, []string{"/", "/about", "/posts/hello", "/posts/world"}, paths)
}

func TestProjectPagesSkipsDynamicRoutesWithoutData(t *testing.T) {
	f := newFixture(t)
	f.project.Data = nil

	var paths []string
	for _, p := range f.project.Pages(discardLogger()) {
		paths = append(paths, p.Path)
	}
	assert.Equal(t, []string{"/", "/about"}, paths)
}

func TestProjectRequestCarriesSlugAndTheme(t *testing.T) {
	f := newFixture(t)
	f.project.Theme = core.Theme{Name: "sky", Dark: true}
	entry, err := f.project.Table.Match("/posts/hello")
	require.NoError(t, err)

	req, err := f.project.Request(entry, "/posts/hello", true)
	require.NoError(t, err)

	assert.Equal(t, "/posts/:slug", req.Pattern)
	assert.Equal(t, map[string]string{"slug": "hello"}, req.Params)
	assert.Equal(t, core.Theme{Name: "sky", Dark: true}, req.Theme)
	assert.Equal(t, "hello", req.Props["slug"])
}

func TestAnalyzeWritesReport(t *testing.T) {
	f := newFixture(t)
	svc := NewAnalyzeService(f.project, fs.NewOSFileSystem(), quietCLI{}, discardLogger())

	out := svc.Analyze(context.Background(), AnalyzeInput{Route: "about", ReportsDir: f.reports})
	require.NoError(t, out.Error)

	assert.Equal(t, "/about", out.Route)
	assert.Equal(t, filepath.Join(f.reports, "about.json"), out.ReportPath)
	require.Len(t, out.Records, 2)
	assert.Equal(t, "about-box", out.Records[0].DataClass)
	assert.Equal(t, "card-iyw1ix", out.Records[1].DataClass)

	data, err := os.ReadFile(out.ReportPath)
	require.NoError(t, err)
	records, err := core.DecodeReport(data)
	require.NoError(t, err)
	assert.Equal(t, out.Records, records)
}

func TestAnalyzeDynamicRoute(t *testing.T) {
	f := newFixture(t)
	svc := NewAnalyzeService(f.project, fs.NewOSFileSystem(), quietCLI{}, discardLogger())

	out := svc.Analyze(context.Background(), AnalyzeInput{Route: "/posts/draft", ReportsDir: f.reports})
	require.NoError(t, out.Error)

	assert.Equal(t, "/posts/:slug", out.Pattern)
	assert.Equal(t, filepath.Join(f.reports, "posts-draft.json"), out.ReportPath)
	assert.Equal(t, "draft", f.renderer.requests[0].Params["slug"])
}

func TestAnalyzeFailures(t *testing.T) {
	tests := map[string]struct {
		route string
		fail  string
		want  error
	}{
		"unknown route":  {route: "/missing", want: core.ErrRouteNotFound},
		"render failure": {route: "/about", fail: "About", want: core.ErrRenderFailed},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			if tt.fail != "" {
				f.renderer.failures[tt.fail] = true
			}
			svc := NewAnalyzeService(f.project, fs.NewOSFileSystem(), quietCLI{}, discardLogger())

			out := svc.Analyze(context.Background(), AnalyzeInput{Route: tt.route, ReportsDir: f.reports})
			assert.True(t, errors.Is(out.Error, tt.want), "got %v", out.Error)
			assert.NoFileExists(t, filepath.Join(f.reports, core.ReportFileBase(tt.route)+".json"))
		})
	}
}

func TestGenerateWritesPagesReportsAndManifest(t *testing.T) {
	f := newFixture(t)

	out := f.generate(t)
	require.NoError(t, out.Error)
	assert.Equal(t, 4, out.Pages)
	assert.Zero(t, out.Failed)

	home := f.read(t, "dist/index.html")
	assert.Contains(t, home, "<title>Home</title>")
	assert.Contains(t, home, `<link rel="stylesheet" href="/assets/css/styles.css">`)
	assert.Contains(t, f.read(t, "dist/posts/world/index.html"), "<h1>world</h1>")
	assert.Equal(t, "body{}", f.read(t, "dist/assets/css/styles.css"))

	for _, name := range []string{"index", "about", "posts-hello", "posts-world"} {
		assert.FileExists(t, filepath.Join(f.reports, name+".json"))
	}

	manifest, err := core.ParseManifest([]byte(f.read(t, "dist/manifest.json")))
	require.NoError(t, err)
	assert.Equal(t, "site", manifest.Target)
	assert.Equal(t, []string{"index", "about", "posts-hello", "posts-world"}, manifest.ReportNames())
	page, ok := manifest.FindPage("/posts/hello")
	require.True(t, ok)
	assert.Equal(t, "/posts/:slug", page.Pattern)
	assert.Equal(t, "posts/hello/index.html", page.HTML)
}

func TestGenerateIsolatesRenderFailures(t *testing.T) {
	f := newFixture(t)
	f.renderer.failures["About"] = true

	out := f.generate(t)
	require.NoError(t, out.Error)
	assert.Equal(t, 3, out.Pages)
	assert.Equal(t, 1, out.Failed)
	assert.NoFileExists(t, filepath.Join(f.dir, "dist", "about", "index.html"))
	assert.FileExists(t, filepath.Join(f.dir, "dist", "posts", "hello", "index.html"))
}

func TestGenerateFailsWhenNothingRenders(t *testing.T) {
	f := newFixture(t)
	for _, c := range []string{"Home", "About", "Post"} {
		f.renderer.failures[c] = true
	}

	out := f.generate(t)
	assert.True(t, errors.Is(out.Error, core.ErrNoPagesGenerated), "got %v", out.Error)
	assert.Equal(t, 4, out.Failed)
}

func TestGenerateSingleRoute(t *testing.T) {
	f := newFixture(t)
	svc := NewGenerateService(f.project, fs.NewOSFileSystem(), quietCLI{}, discardLogger())

	out := svc.Generate(context.Background(), GenerateInput{
		Targets:    f.targets,
		ReportsDir: f.reports,
		Route:      "/posts/:slug",
	})
	require.NoError(t, out.Error)
	assert.Equal(t, 2, out.Pages)
	assert.NoFileExists(t, filepath.Join(f.dir, "dist", "index.html"))
}

func TestGenerateUsesFallbackTitle(t *testing.T) {
	f := newFixture(t)
	f.renderer.bodies["Home"] = `<div class="p-4">no heading</div>`

	require.NoError(t, f.generate(t).Error)
	assert.Contains(t, f.read(t, "dist/index.html"), "<title>Fallback</title>")
}

func TestRewriteRouteUsesOwnReport(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.generate(t).Error)

	svc := NewRewriteService(f.project, fs.NewOSFileSystem(), quietCLI{}, discardLogger())
	out := svc.Rewrite(RewriteInput{Route: "/about", Targets: f.targets, ReportsDir: f.reports})
	require.NoError(t, out.Error)

	about := f.read(t, "dist/about/index.html")
	assert.Contains(t, about, `<section class="about-box">`)
	assert.Contains(t, about, `<p class="card-iyw1ix">`)
	assert.NotContains(t, about, "data-class")

	css := f.read(t, "dist/about/input.css")
	assert.Equal(t, "@layer components {\n  .about-box { @apply p-4; }\n  .card-iyw1ix { @apply text-sm; }\n}", css)

	assert.Contains(t, f.read(t, "dist/index.html"), `data-class="hero-box"`, "other routes stay untouched")
}

func TestRewriteRouteWithoutReportIsSkipped(t *testing.T) {
	f := newFixture(t)

	svc := NewRewriteService(f.project, fs.NewOSFileSystem(), quietCLI{}, discardLogger())
	out := svc.Rewrite(RewriteInput{Route: "/about", Targets: f.targets, ReportsDir: f.reports})
	require.NoError(t, out.Error)
	assert.True(t, out.Skipped)
	assert.Empty(t, out.Rewritten)
}

func TestRewriteRouteWithoutPageFails(t *testing.T) {
	f := newFixture(t)
	analyze := NewAnalyzeService(f.project, fs.NewOSFileSystem(), quietCLI{}, discardLogger())
	require.NoError(t, analyze.Analyze(context.Background(), AnalyzeInput{Route: "/about", ReportsDir: f.reports}).Error)

	svc := NewRewriteService(f.project, fs.NewOSFileSystem(), quietCLI{}, discardLogger())
	out := svc.Rewrite(RewriteInput{Route: "/about", Targets: f.targets, ReportsDir: f.reports})
	assert.ErrorContains(t, out.Error, "index.html not found for route /about")
}

func TestRewriteSiteFirstWriterWins(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.generate(t).Error)

	svc := NewRewriteService(f.project, fs.NewOSFileSystem(), quietCLI{}, discardLogger())
	out := svc.Rewrite(RewriteInput{Targets: f.targets, ReportsDir: f.reports})
	require.NoError(t, out.Error)
	assert.Len(t, out.Rewritten, 4)

	// "/" is generated first, so its token owns the shared p-4 signature.
	assert.Contains(t, f.read(t, "dist/index.html"), `<div class="hero-box">`)
	assert.Contains(t, f.read(t, "dist/about/index.html"), `<section class="hero-box">`)

	css := f.read(t, "dist/input.css")
	assert.True(t, strings.HasPrefix(css, "@layer components {\n  .hero-box { @apply p-4; }\n"), css)
	assert.Contains(t, css, ".about-box { @apply p-4; }")
}

func TestRewriteSiteIsIdempotent(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.generate(t).Error)
	svc := NewRewriteService(f.project, fs.NewOSFileSystem(), quietCLI{}, discardLogger())

	require.NoError(t, svc.Rewrite(RewriteInput{Targets: f.targets, ReportsDir: f.reports}).Error)
	first := f.read(t, "dist/about/index.html")

	require.NoError(t, svc.Rewrite(RewriteInput{Route: "/", Targets: f.targets, ReportsDir: f.reports}).Error)
	assert.Equal(t, first, f.read(t, "dist/about/index.html"))
}

// A single-route generate rewrites the manifest with that route alone; the
// next site rewrite must still aggregate in declaration order.
func TestRewriteSiteAfterSingleRouteGenerate(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.generate(t).Error)

	generate := NewGenerateService(f.project, fs.NewOSFileSystem(), quietCLI{}, discardLogger())
	require.NoError(t, generate.Generate(context.Background(), GenerateInput{
		Targets:    f.targets,
		ReportsDir: f.reports,
		Route:      "/about",
	}).Error)

	svc := NewRewriteService(f.project, fs.NewOSFileSystem(), quietCLI{}, discardLogger())
	require.NoError(t, svc.Rewrite(RewriteInput{Targets: f.targets, ReportsDir: f.reports}).Error)

	assert.Contains(t, f.read(t, "dist/index.html"), `<div class="hero-box">hi</div>`)
	assert.Contains(t, f.read(t, "dist/about/index.html"), `<section class="hero-box">`)
}

func TestReportOrderFollowsRouteDeclaration(t *testing.T) {
	f := newFixture(t)
	osfs := fs.NewOSFileSystem()

	analyze := NewAnalyzeService(f.project, osfs, quietCLI{}, discardLogger())
	for _, route := range []string{"/about", "/"} {
		require.NoError(t, analyze.Analyze(context.Background(), AnalyzeInput{Route: route, ReportsDir: f.reports}).Error)
	}
	_, err := writeReport(osfs, f.reports, "/archive", nil)
	require.NoError(t, err)

	tests := []struct {
		name    string
		project *Project
		want    []string
	}{
		{"declaration order then leftovers", f.project, []string{"index", "about", "archive"}},
		{"report names without a project", nil, []string{"about", "archive", "index"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewRewriteService(tt.project, osfs, quietCLI{}, discardLogger())
			names, err := svc.reportOrder(RewriteInput{Targets: f.targets, ReportsDir: f.reports})
			require.NoError(t, err)
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestBuild(t *testing.T) {
	f := newFixture(t)
	svc := NewBuildService(f.project, fs.NewOSFileSystem(), quietCLI{}, discardLogger())

	out := svc.Build(context.Background(), BuildInput{Targets: f.targets, ReportsDir: f.reports})
	require.NoError(t, out.Error)

	assert.NotEmpty(t, out.RunID)
	assert.Equal(t, 4, out.Generate.Pages)
	assert.Len(t, out.Rewrite.Stylesheets, 1)
	assert.NotContains(t, f.read(t, "dist/about/index.html"), "data-class")
}
