package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/3-lines-studio/semkit/internal/core"
	"github.com/3-lines-studio/semkit/internal/extract"
	"github.com/3-lines-studio/semkit/internal/markup"
)

type AnalyzeInput struct {
	Route      string
	ReportsDir string
	// UseLayout renders the route inside the table's layout component.
	UseLayout bool
}

type AnalyzeOutput struct {
	Route      string
	Pattern    string
	ReportPath string
	Records    []core.PageRecord
	Error      error
}

type AnalyzeService struct {
	project *Project
	fs      FileSystem
	cli     CLIOutput
	logger  *slog.Logger
}

func NewAnalyzeService(project *Project, fs FileSystem, cli CLIOutput, logger *slog.Logger) *AnalyzeService {
	return &AnalyzeService{
		project: project,
		fs:      fs,
		cli:     cli,
		logger:  logger,
	}
}

// Analyze renders one route and persists its deduplicated report. Every
// failure is fatal for the invocation.
func (s *AnalyzeService) Analyze(ctx context.Context, input AnalyzeInput) AnalyzeOutput {
	route := core.NormalizePath(core.SanitizeRouteArg(input.Route))
	out := AnalyzeOutput{Route: route}

	entry, err := s.project.Table.Match(route)
	if err != nil {
		out.Error = err
		return out
	}
	out.Pattern = entry.Pattern
	s.logger.Debug("route matched", "route", route, "pattern", entry.Pattern, "component", entry.Component)

	page, err := s.project.Render(ctx, entry, route, input.UseLayout)
	if err != nil {
		out.Error = err
		return out
	}

	doc, err := markup.Parse(page.Body)
	if err != nil {
		out.Error = fmt.Errorf("analyze %s: %w", route, err)
		return out
	}
	out.Records = extract.Report(doc)

	path, err := writeReport(s.fs, input.ReportsDir, route, out.Records)
	if err != nil {
		out.Error = err
		return out
	}
	out.ReportPath = path

	s.logger.Debug("report written", "route", route, "records", len(out.Records), "path", path)
	s.cli.PrintSuccess("Wrote report: %s (%d records)", path, len(out.Records))
	return out
}
