// Package markup parses rendered pages into node trees and answers the small
// set of questions the pipeline asks about them.
package markup

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Parse parses a full document or a body fragment. Fragments get the
// implied html/head/body wrappers, exactly like a browser would add them.
func Parse(markup string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	return doc, nil
}

// NodeName is the tag name for elements and a #-prefixed kind otherwise.
func NodeName(n *html.Node) string {
	switch n.Type {
	case html.ElementNode:
		return n.Data
	case html.TextNode:
		return "#text"
	case html.CommentNode:
		return "#comment"
	case html.DoctypeNode:
		return "#documentType"
	case html.DocumentNode:
		return "#document"
	default:
		return "#node"
	}
}

func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Text returns the whitespace-collapsed text content below n.
func Text(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
