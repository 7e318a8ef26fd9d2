// Package config loads semkit.yaml, fills in defaults and applies SEMKIT_*
// environment overrides.
package config

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/3-lines-studio/semkit/internal/core"
)

const DefaultFile = "semkit.yaml"

const (
	RendererProcess  = "process"
	RendererRegistry = "registry"
	RendererFile     = "file"
)

var ErrInvalid = errors.New("invalid config")

// Target is one output site. Every target receives the full set of pages.
type Target struct {
	Name           string   `yaml:"name"`
	OutputDir      string   `yaml:"output_dir"`
	CSSSources     []string `yaml:"css_sources"`
	Title          string   `yaml:"title"`
	StylesheetHref string   `yaml:"stylesheet_href"`
}

type Renderer struct {
	// Kind selects the markup renderer: process (bun), registry (Go
	// components) or file (pre-rendered markup).
	Kind      string `yaml:"kind"`
	MarkupDir string `yaml:"markup_dir"`
}

// Classes configures the per-namespace class inventory written by
// analyze -classes.
type Classes struct {
	OutputDir string `yaml:"output_dir"`
	// Scope is the package scope namespaces live under, e.g. "@ui8kit".
	Scope string `yaml:"scope"`
	// Namespaces are tracked explicitly; empty infers them from the scoped
	// imports of the route entry.
	Namespaces []string `yaml:"namespaces"`
}

type Config struct {
	RouterEntry string     `yaml:"router_entry"`
	AliasPrefix string     `yaml:"alias_prefix"`
	AliasRoot   string     `yaml:"alias_root"`
	ReportsDir  string     `yaml:"reports_dir"`
	UseLayout   bool       `yaml:"use_layout"`
	DataFile    string     `yaml:"data_file"`
	Theme       core.Theme `yaml:"theme"`
	BodyClass   string     `yaml:"body_class"`
	Renderer    Renderer   `yaml:"renderer"`
	Targets     []Target   `yaml:"targets"`
	PreviewAddr string     `yaml:"preview_addr"`
	Classes     Classes    `yaml:"classes"`

	// Root is the directory relative paths are resolved against.
	Root string `yaml:"-"`
}

type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load reads path, applies defaults and environment overrides, then
// validates. A missing file is fine when optional is set; the result is
// then the defaults plus overrides.
func Load(fs FileReader, path string, optional bool, lookup LookupFunc) (*Config, error) {
	cfg := &Config{}
	data, err := fs.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case optional && errors.Is(err, iofs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg.Root = filepath.Dir(path)
	if lookup != nil {
		if err := cfg.applyEnv(lookup); err != nil {
			return nil, err
		}
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{Root: "."}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Root == "" {
		c.Root = "."
	}
	if c.RouterEntry == "" {
		c.RouterEntry = "src/main.tsx"
	}
	if c.AliasPrefix == "" {
		c.AliasPrefix = "@/"
	}
	if c.AliasRoot == "" {
		c.AliasRoot = filepath.Dir(c.RouterEntry)
	}
	if c.ReportsDir == "" {
		c.ReportsDir = filepath.Join(".semkit", "reports")
	}
	if c.Renderer.Kind == "" {
		c.Renderer.Kind = RendererProcess
	}
	if c.Renderer.Kind == RendererFile && c.Renderer.MarkupDir == "" {
		c.Renderer.MarkupDir = "markup"
	}
	if c.PreviewAddr == "" {
		c.PreviewAddr = ":3000"
	}
	if c.Classes.OutputDir == "" {
		c.Classes.OutputDir = filepath.Join(".semkit", "classes")
	}
	if c.Classes.Scope == "" {
		c.Classes.Scope = "@ui8kit"
	}
	if len(c.Targets) == 0 {
		c.Targets = []Target{{Name: "site"}}
	}
	for i := range c.Targets {
		t := &c.Targets[i]
		if t.Name == "" {
			t.Name = fmt.Sprintf("target-%d", i+1)
		}
		if t.OutputDir == "" {
			t.OutputDir = filepath.Join("dist", t.Name)
			if len(c.Targets) == 1 {
				t.OutputDir = "dist"
			}
		}
		if t.StylesheetHref == "" {
			t.StylesheetHref = "/assets/css/styles.css"
		}
	}
}

func (c *Config) applyEnv(lookup LookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("SEMKIT_ROUTER_ENTRY", &c.RouterEntry)
	str("SEMKIT_ALIAS_ROOT", &c.AliasRoot)
	str("SEMKIT_REPORTS_DIR", &c.ReportsDir)
	str("SEMKIT_DATA_FILE", &c.DataFile)
	str("SEMKIT_RENDERER", &c.Renderer.Kind)
	str("SEMKIT_MARKUP_DIR", &c.Renderer.MarkupDir)
	str("SEMKIT_THEME", &c.Theme.Name)
	str("SEMKIT_PREVIEW_ADDR", &c.PreviewAddr)
	str("SEMKIT_CLASSES_DIR", &c.Classes.OutputDir)

	if v, ok := lookup("SEMKIT_OUTPUT_DIR"); ok && v != "" {
		if len(c.Targets) == 0 {
			c.Targets = []Target{{Name: "site"}}
		}
		c.Targets[0].OutputDir = v
	}

	for key, dst := range map[string]*bool{
		"SEMKIT_DARK":       &c.Theme.Dark,
		"SEMKIT_USE_LAYOUT": &c.UseLayout,
	} {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalid, key, v)
		}
		*dst = b
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Renderer.Kind {
	case RendererProcess, RendererRegistry, RendererFile:
	default:
		return fmt.Errorf("%w: unknown renderer %q (want %s, %s or %s)",
			ErrInvalid, c.Renderer.Kind, RendererProcess, RendererRegistry, RendererFile)
	}

	for _, ns := range c.Classes.Namespaces {
		if ns == "" || strings.ContainsAny(ns, `/\`) {
			return fmt.Errorf("%w: classes namespace %q must be a plain name", ErrInvalid, ns)
		}
	}

	seen := make(map[string]bool, len(c.Targets))
	for _, t := range c.Targets {
		if seen[t.Name] {
			return fmt.Errorf("%w: duplicate target %q", ErrInvalid, t.Name)
		}
		seen[t.Name] = true
		if err := core.ValidateRoutePath(t.StylesheetHref); err != nil {
			return fmt.Errorf("%w: target %s stylesheet_href: %v", ErrInvalid, t.Name, err)
		}
	}
	return nil
}

// Path resolves p against the config root unless it is absolute.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

func (c *Config) Target(name string) (Target, bool) {
	for _, t := range c.Targets {
		if t.Name == name {
			return t, true
		}
	}
	return Target{}, false
}
