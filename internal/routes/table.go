// Package routes builds the ordered route table from route-declaration
// source or a YAML route manifest, resolves component imports to files and
// matches concrete paths against declared patterns.
package routes

import (
	"sort"
	"strings"

	"github.com/xlab/treeprint"

	"github.com/3-lines-studio/semkit/internal/core"
)

// knownPrefixes are tried before the generic dynamic-segment scan.
var knownPrefixes = []string{"/posts/", "/category/", "/tag/", "/author/"}

// Table is the ordered path → component mapping plus the layout that wraps
// every page, if any.
type Table struct {
	Entries []core.RouteEntry
	Layout  string
	Imports map[string]string
	// Modules lists every statically imported module once, in source order.
	Modules []string

	index     map[string]int
	fromChild []bool
}

func newTable(imports map[string]string) *Table {
	if imports == nil {
		imports = make(map[string]string)
	}
	return &Table{
		Imports: imports,
		index:   make(map[string]int),
	}
}

func buildTable(nodes []routeNode, imports map[string]string) *Table {
	t := newTable(imports)
	for _, n := range nodes {
		if n.hasChildren && n.element != "" {
			t.Layout = n.element
			break
		}
	}
	for _, n := range nodes {
		t.addNode(n, "/", true)
	}
	return t
}

func (t *Table) addNode(n routeNode, parent string, top bool) {
	pattern := parent
	if n.hasPath {
		pattern = core.JoinRoutePath(parent, n.path)
	}

	relayout := top && t.Layout != "" && n.element == t.Layout
	if n.element != "" && (n.hasPath || n.index) && !relayout {
		t.set(core.RouteEntry{
			Pattern:    pattern,
			Component:  n.element,
			IsIndex:    n.index,
			IsWildcard: strings.Contains(pattern, "*"),
		}, !top)
	}

	for _, c := range n.children {
		t.addNode(c, pattern, false)
	}
}

// set inserts or replaces the entry for e.Pattern. Replacement keeps the
// original position; a top-level entry never replaces a child entry.
func (t *Table) set(e core.RouteEntry, child bool) {
	if i, ok := t.index[e.Pattern]; ok {
		if t.fromChild[i] && !child {
			return
		}
		t.Entries[i] = e
		t.fromChild[i] = child
		return
	}
	t.index[e.Pattern] = len(t.Entries)
	t.Entries = append(t.Entries, e)
	t.fromChild = append(t.fromChild, child)
}

func (t *Table) Lookup(pattern string) (core.RouteEntry, bool) {
	i, ok := t.index[pattern]
	if !ok {
		return core.RouteEntry{}, false
	}
	return t.Entries[i], true
}

// Patterns lists declared patterns in declaration order.
func (t *Table) Patterns() []string {
	out := make([]string, len(t.Entries))
	for i, e := range t.Entries {
		out[i] = e.Pattern
	}
	return out
}

// StaticEntries returns the entries that take part in static generation.
func (t *Table) StaticEntries() []core.RouteEntry {
	var out []core.RouteEntry
	for _, e := range t.Entries {
		if e.IsStatic() {
			out = append(out, e)
		}
	}
	return out
}

// Match finds the entry serving a concrete path: an exact pattern first,
// then the known dynamic prefixes, then any /:slug pattern whose static
// prefix the path starts with.
func (t *Table) Match(concrete string) (core.RouteEntry, error) {
	path := core.NormalizePath(concrete)
	if e, ok := t.Lookup(path); ok {
		return e, nil
	}

	for _, prefix := range knownPrefixes {
		if len(path) > len(prefix) && strings.HasPrefix(path, prefix) {
			if e, ok := t.Lookup(prefix + ":slug"); ok {
				return e, nil
			}
		}
	}

	for _, e := range t.Entries {
		i := strings.Index(e.Pattern, core.DynamicSlug)
		if i < 0 {
			continue
		}
		static := e.Pattern[:i+1]
		if len(path) > len(static) && strings.HasPrefix(path, static) {
			return e, nil
		}
	}

	return core.RouteEntry{}, &core.RouteNotFoundError{Path: path, Patterns: t.Patterns()}
}

// Tree renders the table for terminal output.
func (t *Table) Tree() string {
	root := "routes"
	if t.Layout != "" {
		root = t.Layout
	}
	tree := treeprint.NewWithRoot(root)
	for _, e := range t.Entries {
		meta := e.Component
		if specifier, ok := t.Imports[e.Component]; ok {
			meta += " ← " + specifier
		}
		switch {
		case e.IsWildcard:
			meta += " (wildcard)"
		case e.IsDynamic():
			meta += " (dynamic)"
		}
		tree.AddMetaNode(meta, e.Pattern)
	}

	if len(t.Imports) > 0 {
		names := make([]string, 0, len(t.Imports))
		for name := range t.Imports {
			names = append(names, name)
		}
		sort.Strings(names)
		imports := tree.AddBranch("imports")
		for _, name := range names {
			imports.AddMetaNode(name, t.Imports[name])
		}
	}
	return tree.String()
}
