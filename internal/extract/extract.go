// Package extract turns a rendered markup tree into the per-page report of
// style-bearing elements and their semantic tokens.
package extract

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/3-lines-studio/semkit/internal/core"
	"github.com/3-lines-studio/semkit/internal/markup"
)

const rootPath = "root"

// Extract walks the tree depth-first and records every element carrying a
// non-empty class or data-class attribute. Records keep the explicit identifier (base
// identifiers qualified by their signature) and leave the token unset
// otherwise.
func Extract(doc *html.Node) []core.PageRecord {
	var out []core.PageRecord
	collect(doc, rootPath, &out)
	return out
}

func collect(n *html.Node, path string, out *[]core.PageRecord) {
	if n.Type == html.ElementNode {
		id, _ := markup.Attr(n, core.IdentifierAttr)
		cls, _ := markup.Attr(n, core.ClassAttr)
		if id != "" || cls != "" {
			*out = append(*out, core.PageRecord{
				Path:      path,
				Tag:       n.Data,
				DataClass: string(core.QualifyIdentifier(id, core.NormalizeClasses(cls))),
				ClassName: cls,
			})
		}
	}

	i := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collect(c, fmt.Sprintf("%s.%s[%d]", path, markup.NodeName(c), i), out)
		i++
	}
}

// Assign fills in the token of every record that lacks one.
func Assign(records []core.PageRecord) []core.PageRecord {
	out := make([]core.PageRecord, len(records))
	for i, r := range records {
		r.DataClass = string(core.AssignToken(r.Tag, core.SemanticToken(r.DataClass), r.Signature()))
		out[i] = r
	}
	return out
}

// Report extracts, assigns and deduplicates in one pass; its result is what
// gets persisted as the per-route report.
func Report(doc *html.Node) []core.PageRecord {
	return core.DedupeRecords(Assign(Extract(doc)))
}

func ReportFromMarkup(source string) ([]core.PageRecord, error) {
	doc, err := markup.Parse(source)
	if err != nil {
		return nil, err
	}
	return Report(doc), nil
}

// Classes lists every distinct utility class used in the tree, in first-use
// order.
func Classes(doc *html.Node) []string {
	var out []string
	seen := map[string]bool{}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			cls, _ := markup.Attr(n, core.ClassAttr)
			for _, c := range strings.Fields(cls) {
				if !seen[c] {
					seen[c] = true
					out = append(out, c)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}
