package usecase

import (
	"context"
	"io"

	"github.com/3-lines-studio/semkit/internal/adapters/fs"
	"github.com/3-lines-studio/semkit/internal/core"
)

// Renderer turns a route's component into markup. The pipeline treats it as
// a black box.
type Renderer interface {
	Render(ctx context.Context, req core.RenderRequest) (core.RenderedPage, error)
}

// ComponentResolver maps a component name to the module that defines it.
type ComponentResolver interface {
	Resolve(component string) (string, error)
}

// SiteData supplies the concrete values for dynamic segments and the props
// of each concrete page.
type SiteData interface {
	Slugs(pattern string) []string
	Props(pattern, slug string) map[string]any
}

type CLIOutput interface {
	PrintHeader(msg string)
	PrintStep(emoji, msg string, args ...any)
	PrintSuccess(msg string, args ...any)
	PrintWarning(msg string, args ...any)
	PrintError(msg string, args ...any)
	PrintFile(path string)
	PrintDone(msg string)
	Green(text string) string
	Yellow(text string) string
	Red(text string) string
	Gray(text string) string
	Stdout() io.Writer
	Stderr() io.Writer
}

type FileSystem = fs.FileSystem
