package usecase

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/3-lines-studio/semkit/internal/config"
	"github.com/3-lines-studio/semkit/internal/core"
	"github.com/3-lines-studio/semkit/internal/rewrite"
	"github.com/3-lines-studio/semkit/internal/stylesheet"
)

type RewriteInput struct {
	// Route selects a single route; "" or "/" rewrites the whole site.
	Route      string
	Targets    []config.Target
	ReportsDir string
}

type RewriteOutput struct {
	Rewritten   []string
	Stylesheets []string
	Tokens      int
	Skipped     bool
	Error       error
}

type RewriteService struct {
	project *Project
	fs      FileSystem
	cli     CLIOutput
	logger  *slog.Logger
}

// NewRewriteService builds a rewrite service. project fixes the whole-site
// aggregation order; without one only the manifest and report names do.
func NewRewriteService(project *Project, fs FileSystem, cli CLIOutput, logger *slog.Logger) *RewriteService {
	return &RewriteService{
		project: project,
		fs:      fs,
		cli:     cli,
		logger:  logger,
	}
}

func (s *RewriteService) Rewrite(input RewriteInput) RewriteOutput {
	route := core.NormalizePath(core.SanitizeRouteArg(input.Route))
	if input.Route == "" || route == "/" {
		return s.rewriteSite(input)
	}
	return s.rewriteRoute(route, input)
}

// rewriteRoute rewrites the first target page found for route using only
// that route's report, and writes the route's stylesheet beside it.
func (s *RewriteService) rewriteRoute(route string, input RewriteInput) RewriteOutput {
	out := RewriteOutput{}

	records, err := readReport(s.fs, input.ReportsDir, core.ReportFileBase(route))
	if errors.Is(err, core.ErrReportMissing) {
		s.logger.Warn("no report for route, skipping", "route", route, "error", err)
		s.cli.PrintWarning("No report for %s, run analyze first. Skipping.", route)
		out.Skipped = true
		return out
	}
	if err != nil {
		out.Error = err
		return out
	}

	var htmlPath string
	for _, t := range input.Targets {
		candidate := core.PageHTMLPath(t.OutputDir, route)
		if s.fs.FileExists(candidate) {
			htmlPath = candidate
			break
		}
	}
	if htmlPath == "" {
		out.Error = fmt.Errorf("index.html not found for route %s", route)
		return out
	}

	tm := core.Aggregate(records)
	out.Tokens = tm.Len()
	if err := s.rewriteFile(htmlPath, tm); err != nil {
		out.Error = err
		return out
	}
	out.Rewritten = append(out.Rewritten, htmlPath)
	s.cli.PrintSuccess("Rewrote: %s", htmlPath)

	cssPath := filepath.Join(filepath.Dir(htmlPath), stylesheet.FileName)
	if err := s.fs.WriteFile(cssPath, []byte(stylesheet.Emit(tm.Rules())), 0644); err != nil {
		out.Error = fmt.Errorf("write stylesheet: %w", err)
		return out
	}
	out.Stylesheets = append(out.Stylesheets, cssPath)
	s.cli.PrintSuccess("CSS: %s", cssPath)
	return out
}

// rewriteSite aggregates every report into one map, writes a shared
// stylesheet at each target root and rewrites every page below it.
func (s *RewriteService) rewriteSite(input RewriteInput) RewriteOutput {
	out := RewriteOutput{}

	names, err := s.reportOrder(input)
	if err != nil {
		out.Error = err
		return out
	}

	reports := make([][]core.PageRecord, 0, len(names))
	for _, name := range names {
		records, err := readReport(s.fs, input.ReportsDir, name)
		if err != nil {
			s.logger.Warn("report skipped", "report", name, "error", err)
			s.cli.PrintWarning("Skipping report %s: %v", name, err)
			continue
		}
		reports = append(reports, records)
	}

	tm := core.Aggregate(reports...)
	out.Tokens = tm.Len()
	css := stylesheet.Emit(tm.Rules())
	s.logger.Debug("token map aggregated", "reports", len(reports), "signatures", tm.Len())

	for _, t := range input.Targets {
		if !s.fs.IsDir(t.OutputDir) {
			s.logger.Warn("target has no output, skipping", "target", t.Name, "dir", t.OutputDir)
			continue
		}

		cssPath := filepath.Join(t.OutputDir, stylesheet.FileName)
		if err := s.fs.WriteFile(cssPath, []byte(css), 0644); err != nil {
			out.Error = fmt.Errorf("write stylesheet: %w", err)
			return out
		}
		out.Stylesheets = append(out.Stylesheets, cssPath)

		pages, err := s.findPages(t.OutputDir)
		if err != nil {
			out.Error = fmt.Errorf("scan %s: %w", t.OutputDir, err)
			return out
		}
		for _, page := range pages {
			if err := s.rewriteFile(page, tm); err != nil {
				out.Error = err
				return out
			}
			out.Rewritten = append(out.Rewritten, page)
			s.cli.PrintSuccess("Rewrote: %s", page)
		}
	}
	return out
}

// reportOrder fixes aggregation order: the project's pages in route
// declaration order, then pages the first target's manifest adds, then any
// other report files by name.
func (s *RewriteService) reportOrder(input RewriteInput) ([]string, error) {
	var names []string
	seen := map[string]bool{}
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	if s.project != nil {
		for _, page := range s.project.Pages(s.logger) {
			if s.fs.FileExists(reportPath(input.ReportsDir, page.Path)) {
				add(core.ReportFileBase(page.Path))
			}
		}
	}

	if len(input.Targets) > 0 {
		manifestPath := filepath.Join(input.Targets[0].OutputDir, core.ManifestFile)
		if s.fs.FileExists(manifestPath) {
			data, err := s.fs.ReadFile(manifestPath)
			if err != nil {
				return nil, fmt.Errorf("read manifest: %w", err)
			}
			manifest, err := core.ParseManifest(data)
			if err != nil {
				return nil, fmt.Errorf("parse manifest %s: %w", manifestPath, err)
			}
			for _, name := range manifest.ReportNames() {
				add(name)
			}
		}
	}

	if !s.fs.IsDir(input.ReportsDir) {
		return names, nil
	}
	entries, err := s.fs.ReadDir(input.ReportsDir)
	if err != nil {
		return nil, fmt.Errorf("read reports dir: %w", err)
	}
	var rest []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".json")
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...), nil
}

func (s *RewriteService) findPages(root string) ([]string, error) {
	var pages []string
	err := s.fs.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == "index.html" {
			pages = append(pages, path)
		}
		return nil
	})
	return pages, err
}

func (s *RewriteService) rewriteFile(path string, tm *core.TokenMap) error {
	src, err := s.fs.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	rewritten, n, err := rewrite.Rewrite(src, tm)
	if err != nil {
		return fmt.Errorf("rewrite %s: %w", path, err)
	}
	if err := s.fs.WriteFile(path, rewritten, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	s.logger.Debug("page rewritten", "path", path, "elements", n)
	return nil
}
