package routes

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/3-lines-studio/semkit/internal/core"
)

type manifestRoute struct {
	Path      string          `yaml:"path"`
	Index     bool            `yaml:"index"`
	Component string          `yaml:"component"`
	Children  []manifestRoute `yaml:"children"`
}

type manifestFile struct {
	Layout  string            `yaml:"layout"`
	Imports map[string]string `yaml:"imports"`
	Routes  []manifestRoute   `yaml:"routes"`
}

// ParseManifest builds a table from a declarative YAML route manifest:
//
//	layout: App
//	imports:
//	  App: "@/App"
//	  Home: "@/routes/Home"
//	routes:
//	  - index: true
//	    component: Home
//	  - path: posts/:slug
//	    component: Post
//
// A layout wraps every top-level route, like a root route with children.
func ParseManifest(data []byte) (*Table, error) {
	var mf manifestFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrRouteTableMalformed, err)
	}
	if len(mf.Routes) == 0 {
		return nil, fmt.Errorf("%w: manifest declares no routes", core.ErrRouteTableMalformed)
	}

	nodes := toNodes(mf.Routes)
	if mf.Layout != "" {
		nodes = []routeNode{{
			path:        "/",
			hasPath:     true,
			element:     mf.Layout,
			children:    nodes,
			hasChildren: true,
		}}
	}
	t := buildTable(nodes, mf.Imports)
	modules := make([]string, 0, len(mf.Imports))
	for _, module := range mf.Imports {
		modules = append(modules, module)
	}
	sort.Strings(modules)
	t.setModules(modules)
	return t, nil
}

func toNodes(routes []manifestRoute) []routeNode {
	out := make([]routeNode, 0, len(routes))
	for _, r := range routes {
		out = append(out, routeNode{
			path:        r.Path,
			hasPath:     r.Path != "",
			index:       r.Index,
			element:     r.Component,
			children:    toNodes(r.Children),
			hasChildren: len(r.Children) > 0,
		})
	}
	return out
}

// Load picks the parser by file extension: YAML manifests for .yaml/.yml,
// route-declaration source for everything else.
func Load(name string, data []byte) (*Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return ParseManifest(data)
	default:
		return Parse(string(data))
	}
}
