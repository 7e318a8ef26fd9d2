// Package file serves pre-rendered markup from a directory, one file per
// route.
package file

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/3-lines-studio/semkit/internal/core"
)

type Reader interface {
	ReadFile(path string) ([]byte, error)
	FileExists(path string) bool
}

type Renderer struct {
	fs  Reader
	dir string
}

func NewRenderer(fs Reader, dir string) *Renderer {
	return &Renderer{fs: fs, dir: dir}
}

// Candidates lists the files tried for a request: the route's own file
// ("/" is index.html, "/a/b" is a-b.html), then one named after the
// component.
func (r *Renderer) Candidates(req core.RenderRequest) []string {
	out := []string{filepath.Join(r.dir, core.ReportFileBase(req.Path)+".html")}
	if req.Component != "" {
		out = append(out, filepath.Join(r.dir, req.Component+".html"))
	}
	return out
}

func (r *Renderer) Render(ctx context.Context, req core.RenderRequest) (core.RenderedPage, error) {
	if err := ctx.Err(); err != nil {
		return core.RenderedPage{}, err
	}

	candidates := r.Candidates(req)
	for _, path := range candidates {
		if !r.fs.FileExists(path) {
			continue
		}
		data, err := r.fs.ReadFile(path)
		if err != nil {
			return core.RenderedPage{}, fmt.Errorf("read markup: %w", err)
		}
		return core.RenderedPage{Body: string(data)}, nil
	}
	return core.RenderedPage{}, fmt.Errorf("no markup for %s (tried %v)", req.Path, candidates)
}
