package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/3-lines-studio/semkit/internal/core"
	"github.com/3-lines-studio/semkit/internal/extract"
	"github.com/3-lines-studio/semkit/internal/markup"
)

// DefaultNamespace collects every class when no namespace is tracked.
const DefaultNamespace = "site"

type ClassesInput struct {
	OutputDir string
	// Scope is the package scope namespaces are read from.
	Scope string
	// Namespaces overrides inference from the route entry's imports.
	Namespaces []string
	UseLayout  bool
}

type ClassesOutput struct {
	// Classes maps each namespace to its sorted class set.
	Classes map[string][]string
	Files   []string
	Pages   int
	Failed  int
	Error   error
}

type ClassesService struct {
	project *Project
	fs      FileSystem
	cli     CLIOutput
	logger  *slog.Logger
}

func NewClassesService(project *Project, fs FileSystem, cli CLIOutput, logger *slog.Logger) *ClassesService {
	return &ClassesService{
		project: project,
		fs:      fs,
		cli:     cli,
		logger:  logger,
	}
}

// Collect renders every page and writes, per namespace, the sorted set of
// utility classes those pages use. A page whose component is imported from
// a namespace only counts toward that namespace; other pages count toward
// all of them.
func (s *ClassesService) Collect(ctx context.Context, input ClassesInput) ClassesOutput {
	s.cli.PrintHeader("semkit analyze -classes")

	namespaces := input.Namespaces
	if len(namespaces) == 0 {
		namespaces = s.project.Table.Namespaces(input.Scope)
	}
	if len(namespaces) == 0 {
		namespaces = []string{DefaultNamespace}
	}
	s.logger.Debug("tracking namespaces", "scope", input.Scope, "namespaces", namespaces)

	sets := make(map[string]map[string]bool, len(namespaces))
	for _, ns := range namespaces {
		sets[ns] = map[string]bool{}
	}

	out := ClassesOutput{}
	pages := s.project.Pages(s.logger)
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			out.Error = err
			return out
		}

		classes, err := s.pageClasses(ctx, page, input.UseLayout)
		if err != nil {
			out.Failed++
			s.logger.Warn("page failed", "route", page.Path, "error", err)
			s.cli.PrintWarning("Failed analyzing route %s: %v", page.Path, err)
			continue
		}
		out.Pages++

		targets := namespaces
		if ns, ok := s.project.Table.ComponentNamespace(page.Entry.Component, input.Scope); ok {
			targets = []string{ns}
		}
		for _, ns := range targets {
			set, ok := sets[ns]
			if !ok {
				continue
			}
			for _, c := range classes {
				set[c] = true
			}
		}
	}

	if out.Pages == 0 && len(pages) > 0 {
		out.Error = fmt.Errorf("%w: %d of %d pages failed", core.ErrNoPagesGenerated, out.Failed, len(pages))
		return out
	}

	if err := s.fs.MkdirAll(input.OutputDir, 0755); err != nil {
		out.Error = fmt.Errorf("create classes dir: %w", err)
		return out
	}

	out.Classes = make(map[string][]string, len(sets))
	for _, ns := range namespaces {
		list := sortedKeys(sets[ns])
		out.Classes[ns] = list

		data, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			out.Error = fmt.Errorf("encode %s classes: %w", ns, err)
			return out
		}
		path := filepath.Join(input.OutputDir, ns+".json")
		if err := s.fs.WriteFile(path, append(data, '\n'), 0644); err != nil {
			out.Error = fmt.Errorf("write %s classes: %w", ns, err)
			return out
		}
		out.Files = append(out.Files, path)
		s.cli.PrintSuccess("Wrote %s classes: %s (%d)", ns, path, len(list))
	}
	return out
}

func (s *ClassesService) pageClasses(ctx context.Context, page Page, withLayout bool) ([]string, error) {
	rendered, err := s.project.Render(ctx, page.Entry, page.Path, withLayout)
	if err != nil {
		return nil, err
	}
	doc, err := markup.Parse(rendered.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", page.Path, err)
	}
	return extract.Classes(doc), nil
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
