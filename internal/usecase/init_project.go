package usecase

import (
	"fmt"
	iofs "io/fs"
	"path/filepath"

	"github.com/3-lines-studio/semkit/internal/config"
	"github.com/3-lines-studio/semkit/internal/templates"
)

// StarterSource hands out starter project trees by name.
type StarterSource interface {
	Starter(name string) (iofs.FS, error)
}

type InitInput struct {
	ProjectDir string
	Template   string
}

type InitOutput struct {
	Files []string
	Error error
}

type InitService struct {
	fs       FileSystem
	starters StarterSource
	cli      CLIOutput
}

func NewInitService(fs FileSystem, starters StarterSource, cli CLIOutput) *InitService {
	return &InitService{
		fs:       fs,
		starters: starters,
		cli:      cli,
	}
}

// InitProject writes a starter project into an empty or missing directory.
func (s *InitService) InitProject(input InitInput) InitOutput {
	s.cli.PrintHeader("semkit init")

	if s.fs.FileExists(input.ProjectDir) {
		entries, err := s.fs.ReadDir(input.ProjectDir)
		if err != nil {
			return InitOutput{Error: fmt.Errorf("failed to read directory: %w", err)}
		}
		if len(entries) > 0 {
			return InitOutput{Error: fmt.Errorf("directory '%s' already exists and is not empty", input.ProjectDir)}
		}
	}

	starter, err := s.starters.Starter(input.Template)
	if err != nil {
		return InitOutput{Error: err}
	}

	data := templates.TemplateData{Name: templates.DeriveName(input.ProjectDir)}
	var out InitOutput

	err = iofs.WalkDir(starter, ".", func(path string, d iofs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		content, err := iofs.ReadFile(starter, path)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", path, err)
		}

		name, isTemplate := templates.ProcessFilename(path)
		target := filepath.Join(input.ProjectDir, filepath.FromSlash(name))
		if err := s.fs.WriteFile(target, templates.ProcessContent(content, isTemplate, data), 0644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", target, err)
		}

		s.cli.PrintFile(target)
		out.Files = append(out.Files, name)
		return nil
	})
	if err != nil {
		out.Error = err
		return out
	}

	keep, err := ensureReportsDir(s.fs, input.ProjectDir)
	if err != nil {
		out.Error = err
		return out
	}
	out.Files = append(out.Files, keep)

	s.cli.PrintDone(fmt.Sprintf("Created %d files", len(out.Files)))
	s.cli.PrintStep("", "Next: cd %s && semkit build", input.ProjectDir)
	return out
}

// ensureReportsDir creates the default reports directory with a .gitkeep.
func ensureReportsDir(fs FileSystem, projectDir string) (string, error) {
	rel := filepath.Join(config.Default().ReportsDir, ".gitkeep")
	path := filepath.Join(projectDir, rel)
	if fs.FileExists(path) {
		return filepath.ToSlash(rel), nil
	}
	if err := fs.WriteFile(path, nil, 0644); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	return filepath.ToSlash(rel), nil
}
