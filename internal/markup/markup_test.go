package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSEO(t *testing.T) {
	doc, err := Parse(`<nav><a>Home</a></nav>
<main>
  <p>short</p>
  <h2 class="text-xl">  Getting   started </h2>
  <h1>Later heading</h1>
  <p>This paragraph is long enough to become the page description.</p>
</main>`)
	require.NoError(t, err)

	seo := ExtractSEO(doc)
	assert.Equal(t, "Getting started", seo.Title)
	assert.Equal(t, "This paragraph is long enough to become the page description.", seo.Description)
}

func TestExtractSEOEmptyDocument(t *testing.T) {
	doc, err := Parse(`<div></div>`)
	require.NoError(t, err)
	assert.Equal(t, SEO{}, ExtractSEO(doc))
}

func TestNodeNameAndAttr(t *testing.T) {
	doc, err := Parse(`<!DOCTYPE html><html><body><!-- c --><div data-class="box" class="p-4">x</div></body></html>`)
	require.NoError(t, err)

	assert.Equal(t, "#document", NodeName(doc))
	assert.Equal(t, "#documentType", NodeName(doc.FirstChild))

	body := doc.LastChild.LastChild
	assert.Equal(t, "body", NodeName(body))
	assert.Equal(t, "#comment", NodeName(body.FirstChild))

	div := body.LastChild
	v, ok := Attr(div, "data-class")
	assert.True(t, ok)
	assert.Equal(t, "box", v)
	_, ok = Attr(div, "id")
	assert.False(t, ok)
	assert.Equal(t, "#text", NodeName(div.FirstChild))
}

func TestTree(t *testing.T) {
	doc, err := Parse(`<div data-class="card" class="p-4  border"><span>hello</span></div>`)
	require.NoError(t, err)

	out := Tree(doc)
	assert.True(t, strings.HasPrefix(out, "#document\n"), out)
	assert.Contains(t, out, "div [card] .p-4.border")
	assert.Contains(t, out, `"hello"`)
}
