package routes

import (
	"sort"
	"strings"
)

func (t *Table) setModules(modules []string) {
	seen := make(map[string]bool, len(modules))
	t.Modules = t.Modules[:0]
	for _, m := range modules {
		if !seen[m] {
			seen[m] = true
			t.Modules = append(t.Modules, m)
		}
	}
}

// ScopeNamespace returns the package name of specifier inside scope:
// "@ui8kit/core/button" in scope "@ui8kit" is namespace "core".
func ScopeNamespace(specifier, scope string) (string, bool) {
	if scope == "" {
		return "", false
	}
	rest, ok := strings.CutPrefix(specifier, strings.TrimSuffix(scope, "/")+"/")
	if !ok {
		return "", false
	}
	ns, _, _ := strings.Cut(rest, "/")
	return ns, ns != ""
}

// Namespaces lists, sorted, the namespaces of scope that the route source
// imports from.
func (t *Table) Namespaces(scope string) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range t.Modules {
		if ns, ok := ScopeNamespace(m, scope); ok && !seen[ns] {
			seen[ns] = true
			out = append(out, ns)
		}
	}
	sort.Strings(out)
	return out
}

// ComponentNamespace reports the namespace a route component is imported
// from, when it comes from a package inside scope.
func (t *Table) ComponentNamespace(component, scope string) (string, bool) {
	specifier, ok := t.Imports[component]
	if !ok {
		return "", false
	}
	return ScopeNamespace(specifier, scope)
}
