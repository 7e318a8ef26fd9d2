package semkit

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/3-lines-studio/semkit/internal/adapters/file"
	"github.com/3-lines-studio/semkit/internal/adapters/process"
	"github.com/3-lines-studio/semkit/internal/config"
	"github.com/3-lines-studio/semkit/internal/routes"
	"github.com/3-lines-studio/semkit/internal/usecase"
)

// renderer starts its backend on first use so commands that never render
// (routes, rewrite, preview) never spawn a process.
type renderer struct {
	start    func() (Renderer, func() error, error)
	resolver usecase.ComponentResolver

	once    sync.Once
	backend Renderer
	stopFn  func() error
	err     error
}

func (r *renderer) Render(ctx context.Context, req RenderRequest) (RenderedPage, error) {
	r.once.Do(func() {
		r.backend, r.stopFn, r.err = r.start()
	})
	if r.err != nil {
		return RenderedPage{}, r.err
	}
	return r.backend.Render(ctx, req)
}

func (r *renderer) stop() error {
	if r.stopFn == nil {
		return nil
	}
	return r.stopFn()
}

func ready(backend Renderer) func() (Renderer, func() error, error) {
	return func() (Renderer, func() error, error) {
		return backend, nil, nil
	}
}

func (p *Pipeline) selectRenderer(o options, entry string) (*renderer, error) {
	switch {
	case o.renderer != nil:
		return &renderer{start: ready(o.renderer)}, nil
	case o.registry != nil:
		return &renderer{start: ready(o.registry), resolver: o.registry}, nil
	}

	switch p.cfg.Renderer.Kind {
	case config.RendererRegistry:
		return nil, fmt.Errorf("%w: renderer %q needs a component registry (semkit.WithRegistry)",
			config.ErrInvalid, config.RendererRegistry)

	case config.RendererFile:
		dir := p.cfg.Path(p.cfg.Renderer.MarkupDir)
		return &renderer{start: ready(file.NewRenderer(p.fs, dir))}, nil

	default:
		return &renderer{
			resolver: routes.NewResolver(p.fs, p.table.Imports, filepath.Dir(entry),
				p.cfg.AliasPrefix, p.cfg.Path(p.cfg.AliasRoot)),
			start: func() (Renderer, func() error, error) {
				p.logger.Debug("starting render process", "dir", p.cfg.Root)
				r, err := process.NewRenderer(process.Options{Dir: p.cfg.Root})
				if err != nil {
					return nil, nil, err
				}
				return r, r.Stop, nil
			},
		}, nil
	}
}
