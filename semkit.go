// Package semkit renders a site's routes to static pages and rewrites their
// utility classes into semantic class names backed by a generated
// stylesheet.
package semkit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/3-lines-studio/semkit/internal/adapters/cli"
	"github.com/3-lines-studio/semkit/internal/adapters/env"
	"github.com/3-lines-studio/semkit/internal/adapters/fs"
	"github.com/3-lines-studio/semkit/internal/adapters/http"
	"github.com/3-lines-studio/semkit/internal/adapters/registry"
	"github.com/3-lines-studio/semkit/internal/config"
	"github.com/3-lines-studio/semkit/internal/core"
	"github.com/3-lines-studio/semkit/internal/routes"
	"github.com/3-lines-studio/semkit/internal/sitedata"
	"github.com/3-lines-studio/semkit/internal/usecase"
)

type (
	Config        = config.Config
	Target        = config.Target
	RenderRequest = core.RenderRequest
	RenderedPage  = core.RenderedPage
	Theme         = core.Theme
	Registry      = registry.Registry
	Component     = registry.Component
	Layout        = registry.Layout
	SiteData      = sitedata.Data

	AnalyzeResult  = usecase.AnalyzeOutput
	ClassesResult  = usecase.ClassesOutput
	GenerateResult = usecase.GenerateOutput
	RewriteResult  = usecase.RewriteOutput
	BuildResult    = usecase.BuildOutput
)

// Renderer turns a route's component into markup.
type Renderer interface {
	Render(ctx context.Context, req RenderRequest) (RenderedPage, error)
}

var (
	ErrRouteTableMalformed = core.ErrRouteTableMalformed
	ErrUnresolvedImport    = core.ErrUnresolvedImport
	ErrRouteNotFound       = core.ErrRouteNotFound
	ErrReportMissing       = core.ErrReportMissing
	ErrRenderFailed        = core.ErrRenderFailed
	ErrNoPagesGenerated    = core.ErrNoPagesGenerated
)

func NewRegistry() *Registry {
	return registry.New()
}

// LoadConfig reads a semkit.yaml with SEMKIT_* environment overrides. A
// missing file yields the defaults when optional is set.
func LoadConfig(path string, optional bool) (*Config, error) {
	return config.Load(fs.NewOSFileSystem(), path, optional, env.Lookup)
}

type options struct {
	registry *Registry
	renderer Renderer
	data     *SiteData
	logger   *slog.Logger
	stdout   io.Writer
	stderr   io.Writer
	debug    bool
}

type Option func(*options)

// WithRegistry renders from Go components and resolves component names
// against the registry instead of import specifiers.
func WithRegistry(r *Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithRenderer overrides the renderer chosen by the config.
func WithRenderer(r Renderer) Option {
	return func(o *options) { o.renderer = r }
}

// WithSiteData supplies dynamic-route data directly instead of loading
// the config's data_file.
func WithSiteData(d *SiteData) Option {
	return func(o *options) { o.data = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithOutput sends user-facing output to the given writers, uncolored.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(o *options) {
		o.stdout = stdout
		o.stderr = stderr
	}
}

// WithDebug shows error detail on preview error pages.
func WithDebug(debug bool) Option {
	return func(o *options) { o.debug = debug }
}

type Pipeline struct {
	cfg      *Config
	fs       *fs.OSFileSystem
	cli      *cli.Output
	logger   *slog.Logger
	project  *usecase.Project
	table    *routes.Table
	renderer *renderer
	debug    bool
}

// New loads the route table and site data named by cfg and selects the
// renderer. Renderers backed by a child process start on first use.
func New(cfg *Config, opts ...Option) (*Pipeline, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	p := &Pipeline{
		cfg:    cfg,
		fs:     fs.NewOSFileSystem(),
		cli:    cli.NewOutput(),
		logger: o.logger,
		debug:  o.debug,
	}
	if o.stdout != nil {
		p.cli = cli.NewWriterOutput(o.stdout, o.stderr)
	}

	entry := cfg.Path(cfg.RouterEntry)
	src, err := p.fs.ReadFile(entry)
	if err != nil {
		return nil, fmt.Errorf("read route table: %w", err)
	}
	table, err := routes.Load(entry, src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", entry, err)
	}
	p.table = table
	p.logger.Debug("route table loaded", "entry", entry, "routes", len(table.Entries), "layout", table.Layout)

	project := &usecase.Project{Table: table, Theme: cfg.Theme}

	data := o.data
	if data == nil && cfg.DataFile != "" {
		raw, err := p.fs.ReadFile(cfg.Path(cfg.DataFile))
		if err != nil {
			return nil, fmt.Errorf("read site data: %w", err)
		}
		data, err = sitedata.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.DataFile, err)
		}
	}
	if data != nil {
		project.Data = data
	}

	r, err := p.selectRenderer(o, entry)
	if err != nil {
		return nil, err
	}
	p.renderer = r
	project.Renderer = r
	project.Resolver = r.resolver

	p.project = project
	return p, nil
}

func (p *Pipeline) Config() *Config { return p.cfg }

// Patterns lists the declared route patterns in declaration order.
func (p *Pipeline) Patterns() []string { return p.table.Patterns() }

// RoutesTree renders the route table for terminal output.
func (p *Pipeline) RoutesTree() string { return p.table.Tree() }

func (p *Pipeline) targets() []config.Target {
	out := make([]config.Target, len(p.cfg.Targets))
	for i, t := range p.cfg.Targets {
		t.OutputDir = p.cfg.Path(t.OutputDir)
		sources := make([]string, len(t.CSSSources))
		for j, s := range t.CSSSources {
			sources[j] = p.cfg.Path(s)
		}
		t.CSSSources = sources
		out[i] = t
	}
	return out
}

func (p *Pipeline) reportsDir() string {
	return p.cfg.Path(p.cfg.ReportsDir)
}

// Analyze renders one route and writes its report.
func (p *Pipeline) Analyze(ctx context.Context, route string) (AnalyzeResult, error) {
	svc := usecase.NewAnalyzeService(p.project, p.fs, p.cli, p.logger)
	out := svc.Analyze(ctx, usecase.AnalyzeInput{
		Route:      route,
		ReportsDir: p.reportsDir(),
		UseLayout:  p.cfg.UseLayout,
	})
	return out, out.Error
}

// AnalyzeClasses renders every page and writes the sorted class set of
// each tracked namespace to the configured classes directory.
func (p *Pipeline) AnalyzeClasses(ctx context.Context) (ClassesResult, error) {
	svc := usecase.NewClassesService(p.project, p.fs, p.cli, p.logger)
	out := svc.Collect(ctx, usecase.ClassesInput{
		OutputDir:  p.cfg.Path(p.cfg.Classes.OutputDir),
		Scope:      p.cfg.Classes.Scope,
		Namespaces: p.cfg.Classes.Namespaces,
		UseLayout:  p.cfg.UseLayout,
	})
	return out, out.Error
}

// Generate writes every page of every target, or only those of route when
// it is set.
func (p *Pipeline) Generate(ctx context.Context, route string) (GenerateResult, error) {
	svc := usecase.NewGenerateService(p.project, p.fs, p.cli, p.logger)
	out := svc.Generate(ctx, usecase.GenerateInput{
		Targets:    p.targets(),
		ReportsDir: p.reportsDir(),
		BodyClass:  p.cfg.BodyClass,
		Route:      route,
	})
	return out, out.Error
}

// Rewrite rewrites one route's page, or the whole site when route is ""
// or "/".
func (p *Pipeline) Rewrite(route string) (RewriteResult, error) {
	svc := usecase.NewRewriteService(p.project, p.fs, p.cli, p.logger)
	out := svc.Rewrite(usecase.RewriteInput{
		Route:      route,
		Targets:    p.targets(),
		ReportsDir: p.reportsDir(),
	})
	return out, out.Error
}

// Build generates and rewrites the whole site.
func (p *Pipeline) Build(ctx context.Context) (BuildResult, error) {
	svc := usecase.NewBuildService(p.project, p.fs, p.cli, p.logger)
	out := svc.Build(ctx, usecase.BuildInput{
		Targets:    p.targets(),
		ReportsDir: p.reportsDir(),
		BodyClass:  p.cfg.BodyClass,
	})
	return out, out.Error
}

// Preview serves the first target's output directory on addr until ctx is
// done. An empty addr uses the configured preview address.
func (p *Pipeline) Preview(ctx context.Context, addr string) error {
	if addr == "" {
		addr = p.cfg.PreviewAddr
	}
	targets := p.targets()
	if len(targets) == 0 {
		return fmt.Errorf("nothing to preview: no targets configured")
	}
	root := targets[0].OutputDir
	if !p.fs.IsDir(root) {
		return fmt.Errorf("nothing to preview: %s does not exist, run generate first", root)
	}

	site := http.NewSiteHandler(p.fs, root, p.debug, p.logger)
	p.cli.PrintSuccess("Serving %s on %s", filepath.Clean(root), addr)
	return http.Serve(ctx, addr, http.NewRouter(site, p.logger))
}

// Close stops the render process, if one was started.
func (p *Pipeline) Close() error {
	if p.renderer == nil {
		return nil
	}
	return p.renderer.stop()
}
