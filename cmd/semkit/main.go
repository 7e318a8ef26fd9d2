package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/3-lines-studio/semkit"
	"github.com/3-lines-studio/semkit/internal/adapters"
	"github.com/3-lines-studio/semkit/internal/adapters/cli"
	"github.com/3-lines-studio/semkit/internal/adapters/env"
	osfs "github.com/3-lines-studio/semkit/internal/adapters/fs"
	"github.com/3-lines-studio/semkit/internal/config"
	"github.com/3-lines-studio/semkit/internal/templates"
	"github.com/3-lines-studio/semkit/internal/usecase"
)

const usage = `Usage: semkit [-config semkit.yaml] [-v] <command> [args]

Commands:
  init [-template markup] [dir]  write a starter project
  analyze [route]                render one route and write its report (default "/")
  analyze -classes               write the class set of every tracked namespace
  rewrite [route]                rewrite one route, or all routes when route is "/" or omitted
  generate [route]               render pages for all routes (or one)
  build                          generate + rewrite all
  routes [-tree]                 print the parsed route table
  preview [-addr]                serve the first target's output directory
`

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("semkit", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { _, _ = fmt.Fprint(stderr, usage) }
	configPath := global.String("config", config.DefaultFile, "path to semkit.yaml")
	verbose := global.Bool("v", false, "debug logging")

	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if global.NArg() == 0 {
		global.Usage()
		return exitUsage
	}

	explicit := false
	global.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})

	debug := *verbose || env.DetectDebug()
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	output := cli.NewOutput()
	opts := []semkit.Option{semkit.WithLogger(logger), semkit.WithDebug(debug)}
	if stdout != os.Stdout {
		output = cli.NewWriterOutput(stdout, stderr)
		opts = append(opts, semkit.WithOutput(stdout, stderr))
	}

	name, rest := global.Arg(0), global.Args()[1:]
	if name == "init" {
		return initProject(rest, output)
	}

	cmd, ok := commands[name]
	if !ok {
		output.PrintError("unknown command %q", name)
		global.Usage()
		return exitUsage
	}

	cfg, err := semkit.LoadConfig(*configPath, !explicit)
	if err != nil {
		output.PrintError("%v", err)
		return exitError
	}

	p, err := semkit.New(cfg, opts...)
	if err != nil {
		output.PrintError("%v", err)
		return exitError
	}
	defer func() {
		if err := p.Close(); err != nil {
			logger.Warn("failed to stop renderer", "error", err)
		}
	}()

	if err := cmd(ctx, p, rest, stdout); err != nil {
		if errors.Is(err, errUsage) {
			return exitUsage
		}
		output.PrintError("%v", err)
		return exitError
	}
	return exitOK
}

var errUsage = errors.New("usage")

func initProject(args []string, output *cli.Output) int {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(output.Stderr())
	starter := fs.String("template", templates.Default, "starter: "+strings.Join(templates.Names, " or "))
	dir, err := parse(fs, args, ".")
	if errors.Is(err, errUsage) {
		return exitUsage
	}
	if err != nil {
		output.PrintError("%v", err)
		return exitError
	}

	svc := usecase.NewInitService(osfs.NewOSFileSystem(), adapters.NewStarterSource(), output)
	if out := svc.InitProject(usecase.InitInput{ProjectDir: dir, Template: *starter}); out.Error != nil {
		output.PrintError("%v", out.Error)
		return exitError
	}
	return exitOK
}

type command func(ctx context.Context, p *semkit.Pipeline, args []string, stdout io.Writer) error

var commands = map[string]command{
	"analyze":  analyze,
	"rewrite":  rewrite,
	"generate": generate,
	"build":    build,
	"routes":   routes,
	"preview":  preview,
}

// parse parses a subcommand's flags and returns its optional route
// argument, or fallback when none was given.
func parse(fs *flag.FlagSet, args []string, fallback string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", errUsage
	}
	switch fs.NArg() {
	case 0:
		return fallback, nil
	case 1:
		return fs.Arg(0), nil
	default:
		return "", fmt.Errorf("%s takes at most one route, got %s", fs.Name(), strings.Join(fs.Args(), " "))
	}
}

func analyze(ctx context.Context, p *semkit.Pipeline, args []string, _ io.Writer) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	classes := fs.Bool("classes", false, "collect classes per namespace for all routes")
	route, err := parse(fs, args, "/")
	if err != nil {
		return err
	}
	if *classes {
		if fs.NArg() > 0 {
			return fmt.Errorf("analyze -classes covers every route, got %s", route)
		}
		_, err = p.AnalyzeClasses(ctx)
		return err
	}
	_, err = p.Analyze(ctx, route)
	return err
}

func rewrite(_ context.Context, p *semkit.Pipeline, args []string, _ io.Writer) error {
	route, err := parse(flag.NewFlagSet("rewrite", flag.ContinueOnError), args, "/")
	if err != nil {
		return err
	}
	_, err = p.Rewrite(route)
	return err
}

func generate(ctx context.Context, p *semkit.Pipeline, args []string, _ io.Writer) error {
	route, err := parse(flag.NewFlagSet("generate", flag.ContinueOnError), args, "")
	if err != nil {
		return err
	}
	_, err = p.Generate(ctx, route)
	return err
}

func build(ctx context.Context, p *semkit.Pipeline, args []string, _ io.Writer) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	if _, err := parse(fs, args, ""); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("build takes no arguments")
	}
	_, err := p.Build(ctx)
	return err
}

func routes(_ context.Context, p *semkit.Pipeline, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("routes", flag.ContinueOnError)
	tree := fs.Bool("tree", false, "print the table as a tree")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if *tree {
		_, err := fmt.Fprint(stdout, p.RoutesTree())
		return err
	}
	for _, pattern := range p.Patterns() {
		if _, err := fmt.Fprintln(stdout, pattern); err != nil {
			return err
		}
	}
	return nil
}

func preview(ctx context.Context, p *semkit.Pipeline, args []string, _ io.Writer) error {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	addr := fs.String("addr", "", "listen address (defaults to preview_addr)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return p.Preview(ctx, *addr)
}
