// Command example builds a small blog from Go components and rewrites its
// utility classes into a semantic stylesheet.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/3-lines-studio/semkit"
)

func main() {
	configPath := flag.String("config", "example/semkit.yaml", "path to semkit.yaml")
	preview := flag.Bool("preview", false, "serve the site after building")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := run(*configPath, *preview, logger); err != nil {
		logger.Error("example failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, preview bool, logger *slog.Logger) error {
	cfg, err := semkit.LoadConfig(configPath, false)
	if err != nil {
		return err
	}

	p, err := semkit.New(cfg, semkit.WithRegistry(Components()), semkit.WithLogger(logger))
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := p.Build(ctx); err != nil {
		return err
	}
	if !preview {
		return nil
	}
	return p.Preview(ctx, "")
}
