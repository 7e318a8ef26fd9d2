package markup

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"
	"golang.org/x/net/html"
)

// Tree renders the element structure below n for debugging. Whitespace-only
// text nodes are skipped.
func Tree(n *html.Node) string {
	root := treeprint.NewWithRoot(describe(n))
	addChildren(root, n)
	return root.String()
}

func addChildren(branch treeprint.Tree, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if t := strings.TrimSpace(c.Data); t != "" {
				branch.AddNode(fmt.Sprintf("%q", truncate(t, 40)))
			}
		case html.ElementNode:
			if c.FirstChild == nil {
				branch.AddNode(describe(c))
				continue
			}
			addChildren(branch.AddBranch(describe(c)), c)
		case html.DoctypeNode, html.CommentNode:
			continue
		default:
			addChildren(branch.AddBranch(describe(c)), c)
		}
	}
}

func describe(n *html.Node) string {
	name := NodeName(n)
	if n.Type != html.ElementNode {
		return name
	}
	var sb strings.Builder
	sb.WriteString(name)
	if dc, ok := Attr(n, "data-class"); ok {
		fmt.Fprintf(&sb, " [%s]", dc)
	}
	if cls, ok := Attr(n, "class"); ok && cls != "" {
		fmt.Fprintf(&sb, " .%s", strings.Join(strings.Fields(cls), "."))
	}
	return sb.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
