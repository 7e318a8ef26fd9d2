package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/3-lines-studio/semkit/internal/core"
	"github.com/3-lines-studio/semkit/internal/routes"
)

// Project is everything the services need to render a route: the route
// table, how to find and render components, and the data behind dynamic
// segments.
type Project struct {
	Table    *routes.Table
	Renderer Renderer
	// Resolver is optional; renderers that look components up by name do
	// not need module paths.
	Resolver ComponentResolver
	// Data is optional; without it dynamic routes expand to no pages.
	Data  SiteData
	Theme core.Theme
}

// Page is one concrete path to generate.
type Page struct {
	Entry core.RouteEntry
	Path  string
}

// Pages expands the table's static entries into concrete pages, in
// declaration order and then data order for dynamic entries.
func (p *Project) Pages(logger *slog.Logger) []Page {
	var out []Page
	for _, e := range p.Table.StaticEntries() {
		if !e.IsDynamic() {
			out = append(out, Page{Entry: e, Path: e.Pattern})
			continue
		}

		var slugs []string
		if p.Data != nil {
			slugs = p.Data.Slugs(e.Pattern)
		}
		if len(slugs) == 0 {
			logger.Warn("dynamic route has no data, skipping", "pattern", e.Pattern)
			continue
		}
		for _, slug := range slugs {
			out = append(out, Page{Entry: e, Path: core.NormalizePath(core.ExpandPattern(e.Pattern, slug))})
		}
	}
	return out
}

// Request builds the render request for one concrete path of entry.
func (p *Project) Request(entry core.RouteEntry, concrete string, withLayout bool) (core.RenderRequest, error) {
	req := core.RenderRequest{
		Pattern:   entry.Pattern,
		Path:      core.NormalizePath(concrete),
		Component: entry.Component,
		Theme:     p.Theme,
	}

	slug := core.SlugParam(entry.Pattern, concrete)
	if slug != "" {
		req.Params = map[string]string{"slug": slug}
	}

	if p.Resolver != nil {
		module, err := p.Resolver.Resolve(entry.Component)
		if err != nil {
			return req, err
		}
		req.ComponentModule = module
	}

	if withLayout && p.Table.Layout != "" {
		req.Layout = p.Table.Layout
		if p.Resolver != nil {
			module, err := p.Resolver.Resolve(p.Table.Layout)
			if err != nil {
				return req, err
			}
			req.LayoutModule = module
		}
	}

	if p.Data != nil {
		req.Props = p.Data.Props(entry.Pattern, slug)
	}
	return req, nil
}

// Render resolves and renders one concrete path. Resolution failures come
// back as they are; renderer failures wrap core.ErrRenderFailed.
func (p *Project) Render(ctx context.Context, entry core.RouteEntry, concrete string, withLayout bool) (core.RenderedPage, error) {
	req, err := p.Request(entry, concrete, withLayout)
	if err != nil {
		return core.RenderedPage{}, err
	}

	page, err := p.Renderer.Render(ctx, req)
	if err != nil {
		return core.RenderedPage{}, fmt.Errorf("%w: %s: %v", core.ErrRenderFailed, req.Path, err)
	}
	return page, nil
}

func reportPath(reportsDir, route string) string {
	return filepath.Join(reportsDir, core.ReportFileBase(route)+".json")
}

func writeReport(fs FileSystem, reportsDir, route string, records []core.PageRecord) (string, error) {
	data, err := core.EncodeReport(records)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	path := reportPath(reportsDir, route)
	if err := fs.MkdirAll(reportsDir, 0755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}
	if err := fs.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// readReport loads the report for a route base name. A missing file wraps
// core.ErrReportMissing.
func readReport(fs FileSystem, reportsDir, base string) ([]core.PageRecord, error) {
	path := filepath.Join(reportsDir, base+".json")
	if !fs.FileExists(path) {
		return nil, fmt.Errorf("%w: %s", core.ErrReportMissing, path)
	}
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	records, err := core.DecodeReport(data)
	if err != nil {
		return nil, fmt.Errorf("decode report %s: %w", path, err)
	}
	return records, nil
}
