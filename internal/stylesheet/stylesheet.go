// Package stylesheet emits the component layer that backs semantic tokens
// with the utility classes they replaced.
package stylesheet

import (
	"log/slog"
	"strings"

	"github.com/gorilla/css/scanner"

	"github.com/3-lines-studio/semkit/internal/core"
)

const FileName = "input.css"

// Emit renders one @apply rule per token in rule order. Rules without
// classes are dropped, and so are tokens that would not parse as a single
// class selector.
func Emit(rules []core.Rule) string {
	lines := []string{"@layer components {"}
	for _, r := range rules {
		if r.Token == "" || r.Classes == "" {
			continue
		}
		if !IsIdentifier(string(r.Token)) {
			slog.Warn("skipping token that is not a valid class name", "token", r.Token)
			continue
		}
		lines = append(lines, "  ."+string(r.Token)+" { @apply "+string(r.Classes)+"; }")
	}
	lines = append(lines, "}")
	return strings.Join(lines, "\n")
}

// FromReport emits the stylesheet for a single report: the first class
// string seen for each token wins.
func FromReport(records []core.PageRecord) string {
	return Emit(core.Aggregate(records).Rules())
}

// IsIdentifier reports whether s scans as exactly one CSS identifier.
func IsIdentifier(s string) bool {
	sc := scanner.New(s)
	tok := sc.Next()
	if tok.Type != scanner.TokenIdent || tok.Value != s {
		return false
	}
	return sc.Next().Type == scanner.TokenEOF
}
