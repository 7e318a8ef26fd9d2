// Package rewrite collapses data-class/class attribute pairs in rendered
// markup into a single class holding the resolved semantic token.
package rewrite

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"

	nethtml "golang.org/x/net/html"

	"github.com/3-lines-studio/semkit/internal/core"
)

// Rewrite streams src through the tokenizer and re-serializes only start
// tags that carry both data-class and class. Every other token is copied
// byte for byte. It returns the new markup and the number of rewritten tags.
//
// The output never contains a data-class next to a class it rewrote, so a
// second pass over it is a no-op.
func Rewrite(src []byte, tm *core.TokenMap) ([]byte, int, error) {
	z := nethtml.NewTokenizer(bytes.NewReader(src))
	var buf bytes.Buffer
	buf.Grow(len(src))
	count := 0

	for {
		tt := z.Next()
		if tt == nethtml.ErrorToken {
			if errors.Is(z.Err(), io.EOF) {
				break
			}
			return nil, count, fmt.Errorf("tokenize markup: %w", z.Err())
		}

		if tt != nethtml.StartTagToken && tt != nethtml.SelfClosingTagToken {
			buf.Write(z.Raw())
			continue
		}

		// Token() lowercases the tokenizer buffer in place.
		raw := append([]byte(nil), z.Raw()...)
		tok := z.Token()
		tag, ok := rewriteTag(tok, tt == nethtml.SelfClosingTagToken, tm)
		if !ok {
			buf.Write(raw)
			continue
		}
		buf.WriteString(tag)
		count++
	}

	return buf.Bytes(), count, nil
}

func String(src string, tm *core.TokenMap) (string, int, error) {
	out, n, err := Rewrite([]byte(src), tm)
	if err != nil {
		return "", n, err
	}
	return string(out), n, nil
}

func rewriteTag(tok nethtml.Token, selfClosing bool, tm *core.TokenMap) (string, bool) {
	id, hasID := attr(tok, core.IdentifierAttr)
	cls, hasClass := attr(tok, core.ClassAttr)
	if !hasID || id == "" || !hasClass || cls == "" {
		return "", false
	}

	token := tm.Resolve(cls, core.SemanticToken(id))

	var b bytes.Buffer
	b.WriteByte('<')
	b.WriteString(tok.Data)
	for _, a := range tok.Attr {
		if a.Key == core.IdentifierAttr || a.Key == core.ClassAttr {
			continue
		}
		writeAttr(&b, a.Key, a.Val)
	}
	writeAttr(&b, core.ClassAttr, string(token))
	if selfClosing {
		b.WriteString(" />")
	} else {
		b.WriteByte('>')
	}
	return b.String(), true
}

func writeAttr(b *bytes.Buffer, key, val string) {
	b.WriteByte(' ')
	b.WriteString(key)
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(val))
	b.WriteByte('"')
}

func attr(tok nethtml.Token, key string) (string, bool) {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
