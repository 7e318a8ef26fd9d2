package markup

import (
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

const minDescriptionLength = 40

var (
	headingSelector   = cascadia.MustCompile("h1, h2, h3")
	paragraphSelector = cascadia.MustCompile("p")
)

// SEO holds document metadata derived from rendered content.
type SEO struct {
	Title       string
	Description string
}

// ExtractSEO takes the first non-empty h1-h3 as the title and the first
// paragraph long enough to summarise the page as the description.
func ExtractSEO(doc *html.Node) SEO {
	var seo SEO
	for _, n := range headingSelector.MatchAll(doc) {
		if t := Text(n); t != "" {
			seo.Title = t
			break
		}
	}
	for _, n := range paragraphSelector.MatchAll(doc) {
		if t := Text(n); len(t) >= minDescriptionLength {
			seo.Description = t
			break
		}
	}
	return seo
}
