package routes

import (
	"path/filepath"
	"strings"

	"github.com/3-lines-studio/semkit/internal/core"
)

var (
	moduleExtensions = []string{".tsx", ".ts", ".jsx", ".js"}
	indexFiles       = []string{"index.tsx", "index.ts", "index.jsx", "index.js"}
)

type FileChecker interface {
	FileExists(path string) bool
}

// Resolver maps component names to module files through the table's
// default imports.
type Resolver struct {
	fs          FileChecker
	imports     map[string]string
	entryDir    string
	aliasPrefix string
	aliasRoot   string
}

// NewResolver resolves relative specifiers against entryDir and aliased
// ones (aliasPrefix, usually "@/") against aliasRoot. An empty aliasRoot
// falls back to entryDir.
func NewResolver(fs FileChecker, imports map[string]string, entryDir, aliasPrefix, aliasRoot string) *Resolver {
	if aliasRoot == "" {
		aliasRoot = entryDir
	}
	return &Resolver{
		fs:          fs,
		imports:     imports,
		entryDir:    entryDir,
		aliasPrefix: aliasPrefix,
		aliasRoot:   aliasRoot,
	}
}

func (r *Resolver) Resolve(component string) (string, error) {
	specifier, ok := r.imports[component]
	if !ok {
		return "", &core.UnresolvedImportError{Component: component}
	}

	var base string
	switch {
	case r.aliasPrefix != "" && strings.HasPrefix(specifier, r.aliasPrefix):
		base = filepath.Join(r.aliasRoot, filepath.FromSlash(strings.TrimPrefix(specifier, r.aliasPrefix)))
	case strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../"):
		base = filepath.Join(r.entryDir, filepath.FromSlash(specifier))
	default:
		return "", &core.UnresolvedImportError{
			Component: component,
			Specifier: specifier,
			Reason:    "package imports cannot be resolved to a route component",
		}
	}

	candidates := Candidates(base)
	for _, c := range candidates {
		if r.fs.FileExists(c) {
			return c, nil
		}
	}
	return "", &core.UnresolvedImportError{
		Component:  component,
		Specifier:  specifier,
		Candidates: candidates,
	}
}

// Candidates lists the files tried for an extensionless module path, in
// lookup order.
func Candidates(base string) []string {
	out := make([]string, 0, len(moduleExtensions)+len(indexFiles))
	for _, ext := range moduleExtensions {
		out = append(out, base+ext)
	}
	for _, name := range indexFiles {
		out = append(out, filepath.Join(base, name))
	}
	return out
}
