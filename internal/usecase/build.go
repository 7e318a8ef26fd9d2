package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/3-lines-studio/semkit/internal/config"
)

type BuildInput struct {
	Targets    []config.Target
	ReportsDir string
	BodyClass  string
}

type BuildOutput struct {
	RunID    string
	Generate GenerateOutput
	Rewrite  RewriteOutput
	Error    error
}

type BuildService struct {
	project *Project
	fs      FileSystem
	cli     CLIOutput
	logger  *slog.Logger
}

func NewBuildService(project *Project, fs FileSystem, cli CLIOutput, logger *slog.Logger) *BuildService {
	return &BuildService{
		project: project,
		fs:      fs,
		cli:     cli,
		logger:  logger,
	}
}

// Build generates every target and then rewrites the whole site from the
// reports written in the same run.
func (s *BuildService) Build(ctx context.Context, input BuildInput) BuildOutput {
	runID := uuid.NewString()
	logger := s.logger.With("run", runID)
	logger.Info("build started", "targets", len(input.Targets))

	out := BuildOutput{RunID: runID}

	generate := NewGenerateService(s.project, s.fs, s.cli, logger)
	out.Generate = generate.Generate(ctx, GenerateInput{
		Targets:    input.Targets,
		ReportsDir: input.ReportsDir,
		BodyClass:  input.BodyClass,
	})
	if out.Generate.Error != nil {
		out.Error = out.Generate.Error
		return out
	}

	rewrite := NewRewriteService(s.project, s.fs, s.cli, logger)
	out.Rewrite = rewrite.Rewrite(RewriteInput{
		Targets:    input.Targets,
		ReportsDir: input.ReportsDir,
	})
	if out.Rewrite.Error != nil {
		out.Error = out.Rewrite.Error
		return out
	}

	logger.Info("build finished",
		"pages", out.Generate.Pages,
		"failed", out.Generate.Failed,
		"tokens", out.Rewrite.Tokens,
	)
	return out
}
