// Package registry renders components registered by name at startup.
package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/3-lines-studio/semkit/internal/core"
)

// Component renders the markup of one page.
type Component func(ctx context.Context, req core.RenderRequest) (string, error)

// Layout wraps a page's rendered markup.
type Layout func(ctx context.Context, req core.RenderRequest, body string) (string, error)

const modulePrefix = "registry:"

type Registry struct {
	components map[string]Component
	layouts    map[string]Layout
}

func New() *Registry {
	return &Registry{
		components: make(map[string]Component),
		layouts:    make(map[string]Layout),
	}
}

func (r *Registry) Register(name string, c Component) error {
	if name == "" || c == nil {
		return fmt.Errorf("register %q: name and component are required", name)
	}
	if _, ok := r.components[name]; ok {
		return fmt.Errorf("component %s already registered", name)
	}
	r.components[name] = c
	return nil
}

func (r *Registry) RegisterLayout(name string, l Layout) error {
	if name == "" || l == nil {
		return fmt.Errorf("register layout %q: name and layout are required", name)
	}
	if _, ok := r.layouts[name]; ok {
		return fmt.Errorf("layout %s already registered", name)
	}
	r.layouts[name] = l
	return nil
}

// MustRegister is Register for package-level setup.
func (r *Registry) MustRegister(name string, c Component) *Registry {
	if err := r.Register(name, c); err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) MustRegisterLayout(name string, l Layout) *Registry {
	if err := r.RegisterLayout(name, l); err != nil {
		panic(err)
	}
	return r
}

// Resolve lets the registry stand in for import resolution: a registered
// name resolves to itself.
func (r *Registry) Resolve(component string) (string, error) {
	if _, ok := r.components[component]; ok {
		return modulePrefix + component, nil
	}
	if _, ok := r.layouts[component]; ok {
		return modulePrefix + component, nil
	}
	return "", &core.UnresolvedImportError{
		Component:  component,
		Reason:     "component is not registered",
		Candidates: r.Names(),
	}
}

func (r *Registry) Render(ctx context.Context, req core.RenderRequest) (core.RenderedPage, error) {
	c, ok := r.components[req.Component]
	if !ok {
		return core.RenderedPage{}, fmt.Errorf("component %s is not registered", req.Component)
	}
	body, err := c(ctx, req)
	if err != nil {
		return core.RenderedPage{}, err
	}

	if req.Layout != "" {
		l, ok := r.layouts[req.Layout]
		if !ok {
			return core.RenderedPage{}, fmt.Errorf("layout %s is not registered", req.Layout)
		}
		body, err = l(ctx, req, body)
		if err != nil {
			return core.RenderedPage{}, err
		}
	}
	return core.RenderedPage{Body: body}, nil
}

// Names lists registered components and layouts, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.components)+len(r.layouts))
	for name := range r.components {
		names = append(names, name)
	}
	for name := range r.layouts {
		if _, dup := r.components[name]; !dup {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
