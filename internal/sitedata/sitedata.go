// Package sitedata loads the content that feeds dynamic routes: posts and
// the categories, tags and authors derived from them.
package sitedata

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/3-lines-studio/semkit/internal/core"
)

type Term struct {
	ID    int    `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Slug  string `yaml:"slug" json:"slug"`
	Count int    `yaml:"-" json:"count"`
}

type Post struct {
	ID         int    `yaml:"id" json:"id"`
	Slug       string `yaml:"slug" json:"slug"`
	Title      string `yaml:"title" json:"title"`
	Excerpt    string `yaml:"excerpt" json:"excerpt"`
	Date       string `yaml:"date" json:"date"`
	Image      string `yaml:"image" json:"image,omitempty"`
	Body       string `yaml:"body" json:"-"`
	HTML       string `yaml:"-" json:"html"`
	Categories []Term `yaml:"categories" json:"categories"`
	Tags       []Term `yaml:"tags" json:"tags"`
	Author     *Term  `yaml:"author" json:"author,omitempty"`
}

type MenuItem struct {
	Label string `yaml:"label" json:"label"`
	URL   string `yaml:"url" json:"url"`
}

type Site struct {
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description" json:"description"`
	URL         string     `yaml:"url" json:"url"`
	Menu        []MenuItem `yaml:"menu" json:"menu"`
}

// Page is static copy for a named page (home, about, blog).
type Page struct {
	Title    string `yaml:"title" json:"title"`
	Subtitle string `yaml:"subtitle" json:"subtitle"`
	Body     string `yaml:"body" json:"-"`
	HTML     string `yaml:"-" json:"html"`
}

type Data struct {
	Site       Site            `yaml:"site" json:"site"`
	Pages      map[string]Page `yaml:"pages" json:"pages"`
	Posts      []Post          `yaml:"posts" json:"posts"`
	Categories []Term          `yaml:"-" json:"categories"`
	Tags       []Term          `yaml:"-" json:"tags"`
	Authors    []Term          `yaml:"-" json:"authors"`
}

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	policy   = bluemonday.UGCPolicy()
)

// Parse reads site data, renders markdown bodies to sanitized HTML and
// derives the term lists with per-term post counts.
func Parse(data []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse site data: %w", err)
	}

	seen := make(map[string]bool, len(d.Posts))
	for i := range d.Posts {
		p := &d.Posts[i]
		if p.Slug == "" {
			return nil, fmt.Errorf("post %d (%q) has no slug", i, p.Title)
		}
		if seen[p.Slug] {
			return nil, fmt.Errorf("duplicate post slug %q", p.Slug)
		}
		seen[p.Slug] = true

		html, err := RenderMarkdown(p.Body)
		if err != nil {
			return nil, fmt.Errorf("render post %s: %w", p.Slug, err)
		}
		p.HTML = html
	}

	for name, page := range d.Pages {
		html, err := RenderMarkdown(page.Body)
		if err != nil {
			return nil, fmt.Errorf("render page %s: %w", name, err)
		}
		page.HTML = html
		d.Pages[name] = page
	}

	d.normalize()
	return &d, nil
}

// RenderMarkdown converts markdown to HTML and strips anything outside the
// user-generated-content policy.
func RenderMarkdown(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return string(policy.SanitizeBytes(buf.Bytes())), nil
}

func (d *Data) normalize() {
	cats := newTally()
	tags := newTally()
	authors := newTally()

	for _, p := range d.Posts {
		for _, c := range p.Categories {
			cats.add(c)
		}
		for _, t := range p.Tags {
			tags.add(t)
		}
		if p.Author != nil {
			authors.add(*p.Author)
		}
	}

	for i := range d.Posts {
		p := &d.Posts[i]
		for j := range p.Categories {
			p.Categories[j].Count = cats.counts[p.Categories[j].Slug]
		}
		for j := range p.Tags {
			p.Tags[j].Count = tags.counts[p.Tags[j].Slug]
		}
		if p.Author != nil {
			a := *p.Author
			a.Count = authors.counts[a.Slug]
			p.Author = &a
		}
	}

	d.Categories = cats.terms()
	d.Tags = tags.terms()
	d.Authors = authors.terms()
}

type tally struct {
	counts map[string]int
	meta   map[string]Term
}

func newTally() *tally {
	return &tally{counts: make(map[string]int), meta: make(map[string]Term)}
}

func (t *tally) add(term Term) {
	t.counts[term.Slug]++
	if _, ok := t.meta[term.Slug]; !ok {
		t.meta[term.Slug] = term
	}
}

// terms lists each term once, sorted by name, with its post count.
func (t *tally) terms() []Term {
	out := make([]Term, 0, len(t.meta))
	for slug, term := range t.meta {
		term.Count = t.counts[slug]
		out = append(out, term)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Slug < out[j].Slug
	})
	return out
}

// Slugs lists the concrete values for a dynamic pattern, in data order for
// posts and name order for terms. Unknown patterns expand to nothing.
func (d *Data) Slugs(pattern string) []string {
	if d == nil {
		return nil
	}
	var out []string
	switch {
	case strings.Contains(pattern, "/posts"+core.DynamicSlug):
		for _, p := range d.Posts {
			out = append(out, p.Slug)
		}
	case strings.Contains(pattern, "/category"+core.DynamicSlug):
		out = termSlugs(d.Categories)
	case strings.Contains(pattern, "/tag"+core.DynamicSlug):
		out = termSlugs(d.Tags)
	case strings.Contains(pattern, "/author"+core.DynamicSlug):
		out = termSlugs(d.Authors)
	}
	return out
}

func termSlugs(terms []Term) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = t.Slug
	}
	return out
}

func (d *Data) Post(slug string) (Post, bool) {
	for _, p := range d.Posts {
		if p.Slug == slug {
			return p, true
		}
	}
	return Post{}, false
}

func findTerm(terms []Term, slug string) (Term, bool) {
	for _, t := range terms {
		if t.Slug == slug {
			return t, true
		}
	}
	return Term{}, false
}

func (d *Data) Category(slug string) (Term, bool) { return findTerm(d.Categories, slug) }
func (d *Data) Tag(slug string) (Term, bool)      { return findTerm(d.Tags, slug) }
func (d *Data) Author(slug string) (Term, bool)   { return findTerm(d.Authors, slug) }

// PostsWhere filters posts in data order.
func (d *Data) PostsWhere(keep func(Post) bool) []Post {
	var out []Post
	for _, p := range d.Posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (d *Data) PostsInCategory(slug string) []Post {
	return d.PostsWhere(func(p Post) bool { return hasTerm(p.Categories, slug) })
}

func (d *Data) PostsWithTag(slug string) []Post {
	return d.PostsWhere(func(p Post) bool { return hasTerm(p.Tags, slug) })
}

func (d *Data) PostsByAuthor(slug string) []Post {
	return d.PostsWhere(func(p Post) bool { return p.Author != nil && p.Author.Slug == slug })
}

func hasTerm(terms []Term, slug string) bool {
	_, ok := findTerm(terms, slug)
	return ok
}

// Props is the data handed to a page render for one concrete path.
func (d *Data) Props(pattern, slug string) map[string]any {
	props := map[string]any{
		"site":  d.Site,
		"pages": d.Pages,
		"posts": d.Posts,
	}
	if slug != "" {
		props["slug"] = slug
	}
	switch {
	case strings.Contains(pattern, "/posts"+core.DynamicSlug):
		if p, ok := d.Post(slug); ok {
			props["post"] = p
		}
	case strings.Contains(pattern, "/category"+core.DynamicSlug):
		if t, ok := d.Category(slug); ok {
			props["term"] = t
		}
		props["posts"] = d.PostsInCategory(slug)
	case strings.Contains(pattern, "/tag"+core.DynamicSlug):
		if t, ok := d.Tag(slug); ok {
			props["term"] = t
		}
		props["posts"] = d.PostsWithTag(slug)
	case strings.Contains(pattern, "/author"+core.DynamicSlug):
		if t, ok := d.Author(slug); ok {
			props["term"] = t
		}
		props["posts"] = d.PostsByAuthor(slug)
	}
	return props
}
