package core

// RouteEntry is one declared route. Built once per route-table source and
// never mutated afterwards.
type RouteEntry struct {
	Pattern    string
	Component  string
	IsIndex    bool
	IsWildcard bool
}

// IsDynamic reports whether the pattern carries a dynamic segment.
func (e RouteEntry) IsDynamic() bool {
	return HasDynamicSegment(e.Pattern)
}

// IsStatic reports whether the entry takes part in static generation.
func (e RouteEntry) IsStatic() bool {
	return !e.IsWildcard
}

// ClassSignature is the canonical form of a class attribute value.
type ClassSignature string

// SemanticToken names a signature in rewritten markup and the stylesheet.
type SemanticToken string

// RenderRequest asks a renderer for the markup of one concrete path.
// Modules are resolved file paths; they stay empty for renderers that look
// components up by name.
type RenderRequest struct {
	Pattern         string            `json:"pattern"`
	Path            string            `json:"path"`
	Params          map[string]string `json:"params,omitempty"`
	Component       string            `json:"component"`
	ComponentModule string            `json:"componentModule,omitempty"`
	Layout          string            `json:"layout,omitempty"`
	LayoutModule    string            `json:"layoutModule,omitempty"`
	Props           map[string]any    `json:"props,omitempty"`
	Theme           Theme             `json:"theme"`
}

type RenderedPage struct {
	Body string
	Head string
}

// Theme is passed explicitly into every render call.
type Theme struct {
	Name string `yaml:"name" json:"name"`
	Dark bool   `yaml:"dark" json:"dark"`
}

const (
	// IdentifierAttr carries an author-supplied semantic identifier.
	IdentifierAttr = "data-class"
	// ClassAttr carries utility classes.
	ClassAttr = "class"
)
