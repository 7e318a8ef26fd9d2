package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/3-lines-studio/semkit/internal/adapters/cli"
	"github.com/3-lines-studio/semkit/internal/config"
	"github.com/3-lines-studio/semkit/internal/core"
	"github.com/3-lines-studio/semkit/internal/extract"
	"github.com/3-lines-studio/semkit/internal/markup"
)

// StylesheetPath is where a target's compiled CSS is copied, relative to
// its output directory.
var StylesheetPath = filepath.Join("assets", "css", "styles.css")

type GenerateInput struct {
	// Targets carry resolved output directories and CSS sources.
	Targets    []config.Target
	ReportsDir string
	BodyClass  string
	// Route limits generation to one route (a concrete path or a pattern).
	Route string
}

type GenerateOutput struct {
	Pages     int
	Failed    int
	Manifests []*core.Manifest
	Error     error
}

type GenerateService struct {
	project *Project
	fs      FileSystem
	cli     CLIOutput
	logger  *slog.Logger
}

func NewGenerateService(project *Project, fs FileSystem, cli CLIOutput, logger *slog.Logger) *GenerateService {
	return &GenerateService{
		project: project,
		fs:      fs,
		cli:     cli,
		logger:  logger,
	}
}

type generatedPage struct {
	page     Page
	rendered core.RenderedPage
	seo      markup.SEO
	report   string
}

// Generate renders every page once, writes its report, then writes the
// document for every target. A page that fails to render is reported and
// skipped; the run only fails when no page renders at all.
func (s *GenerateService) Generate(ctx context.Context, input GenerateInput) GenerateOutput {
	s.cli.PrintHeader("semkit generate")

	pages, err := s.selectPages(input.Route)
	if err != nil {
		return GenerateOutput{Error: err}
	}

	outputDirs := make([]string, 0, len(input.Targets))
	for _, t := range input.Targets {
		outputDirs = append(outputDirs, t.OutputDir)
	}
	report := cli.NewBuildReport(s.cli, strings.Join(outputDirs, ", "))
	report.SetPageCount(len(pages))

	out := GenerateOutput{}

	stepRender := report.StartStep("Rendering pages")
	var generated []generatedPage
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			out.Error = err
			return out
		}

		g, err := s.renderPage(ctx, page, input.ReportsDir)
		if err != nil {
			out.Failed++
			s.logger.Warn("page failed", "route", page.Path, "error", err)
			report.AddError(page.Path, "Render failed", []string{err.Error()})
			continue
		}
		generated = append(generated, g)
	}
	report.EndStep(stepRender, out.Failed == 0, "")

	if len(generated) == 0 {
		report.Render()
		out.Error = fmt.Errorf("%w: %d of %d pages failed", core.ErrNoPagesGenerated, out.Failed, len(pages))
		return out
	}
	out.Pages = len(generated)

	for _, target := range input.Targets {
		step := report.StartStep(fmt.Sprintf("Writing target %s", target.Name))
		manifest, err := s.writeTarget(target, generated, input.BodyClass, report)
		if err != nil {
			s.logger.Warn("target failed", "target", target.Name, "error", err)
			report.AddError(target.Name, "Target failed", []string{err.Error()})
			report.EndStep(step, false, err.Error())
			continue
		}
		out.Manifests = append(out.Manifests, manifest)
		report.EndStep(step, true, "")
	}

	report.Render()
	return out
}

func (s *GenerateService) selectPages(route string) ([]Page, error) {
	pages := s.project.Pages(s.logger)
	if route == "" {
		return pages, nil
	}

	route = core.NormalizePath(core.SanitizeRouteArg(route))
	var selected []Page
	for _, p := range pages {
		if p.Path == route || p.Entry.Pattern == route {
			selected = append(selected, p)
		}
	}
	if len(selected) > 0 {
		return selected, nil
	}

	entry, err := s.project.Table.Match(route)
	if err != nil {
		return nil, err
	}
	if !entry.IsStatic() {
		return nil, &core.RouteNotFoundError{Path: route, Patterns: s.project.Table.Patterns()}
	}
	return []Page{{Entry: entry, Path: route}}, nil
}

func (s *GenerateService) renderPage(ctx context.Context, page Page, reportsDir string) (generatedPage, error) {
	rendered, err := s.project.Render(ctx, page.Entry, page.Path, true)
	if err != nil {
		return generatedPage{}, err
	}

	doc, err := markup.Parse(rendered.Body)
	if err != nil {
		return generatedPage{}, err
	}

	if _, err := writeReport(s.fs, reportsDir, page.Path, extract.Report(doc)); err != nil {
		return generatedPage{}, err
	}

	return generatedPage{
		page:     page,
		rendered: rendered,
		seo:      markup.ExtractSEO(doc),
		report:   core.ReportFileBase(page.Path),
	}, nil
}

func (s *GenerateService) writeTarget(target config.Target, generated []generatedPage, bodyClass string, report *cli.BuildReport) (*core.Manifest, error) {
	if err := s.fs.MkdirAll(target.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	manifest := &core.Manifest{Target: target.Name}
	for _, g := range generated {
		title := g.seo.Title
		if title == "" {
			title = target.Title
		}
		doc := core.RenderDocument(core.DocumentData{
			Title:          title,
			Description:    g.seo.Description,
			Head:           g.rendered.Head,
			Body:           g.rendered.Body,
			StylesheetHref: target.StylesheetHref,
			BodyClass:      bodyClass,
			Theme:          s.project.Theme,
		})

		htmlPath := core.PageHTMLPath(target.OutputDir, g.page.Path)
		if err := s.fs.WriteFile(htmlPath, []byte(doc), 0644); err != nil {
			report.AddError(g.page.Path, "Failed to write page", []string{err.Error()})
			continue
		}
		s.logger.Debug("page written", "target", target.Name, "route", g.page.Path, "path", htmlPath)

		rel, err := filepath.Rel(target.OutputDir, htmlPath)
		if err != nil {
			rel = htmlPath
		}
		manifest.Pages = append(manifest.Pages, core.ManifestPage{
			Route:     g.page.Path,
			Pattern:   g.page.Entry.Pattern,
			Component: g.page.Entry.Component,
			HTML:      filepath.ToSlash(rel),
			Report:    g.report,
		})
	}

	if err := s.copyStylesheet(target); err != nil {
		report.AddWarning(target.Name, "No stylesheet copied", []string{err.Error()})
	}

	data, err := core.EncodeManifest(manifest)
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := s.fs.WriteFile(filepath.Join(target.OutputDir, core.ManifestFile), data, 0644); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}
	return manifest, nil
}

var errNoCSSSource = errors.New("no usable CSS source")

func (s *GenerateService) copyStylesheet(target config.Target) error {
	src, err := firstCSSSource(s.fs, target.CSSSources)
	if err != nil {
		return err
	}
	dst := filepath.Join(target.OutputDir, StylesheetPath)
	if err := s.fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	if err := s.fs.CopyFile(src, dst); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	s.logger.Debug("stylesheet copied", "target", target.Name, "from", src, "to", dst)
	return nil
}

// firstCSSSource picks the first source that is a .css file, or a directory
// containing one (its first .css file by name).
func firstCSSSource(fs FileSystem, sources []string) (string, error) {
	for _, src := range sources {
		if fs.IsDir(src) {
			entries, err := fs.ReadDir(src)
			if err != nil {
				continue
			}
			for _, e := range entries {
				if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".css") {
					return filepath.Join(src, e.Name()), nil
				}
			}
			continue
		}
		if strings.EqualFold(filepath.Ext(src), ".css") && fs.FileExists(src) {
			return src, nil
		}
	}
	if len(sources) == 0 {
		return "", fmt.Errorf("%w: none configured", errNoCSSSource)
	}
	return "", fmt.Errorf("%w: tried %s", errNoCSSSource, strings.Join(sources, ", "))
}
