package core

import "strings"

// AssignToken resolves the semantic token for one element. An explicit token
// wins; an element without classes falls back to its bare tag name; anything
// else becomes <tag>-<hash7(signature)>.
func AssignToken(tag string, token SemanticToken, signature ClassSignature) SemanticToken {
	if token != "" {
		return token
	}
	if signature == "" {
		return SemanticToken(tag)
	}
	return SemanticToken(tag + "-" + Hash7(string(signature)))
}

// QualifyIdentifier promotes a base identifier (one without a hyphen) to
// <id>-<hash7(signature)> so that visually distinct variants sharing a base
// name get distinct tokens. Qualified identifiers and unstyled elements are
// returned unchanged.
func QualifyIdentifier(id string, signature ClassSignature) SemanticToken {
	if id == "" || signature == "" || strings.Contains(id, "-") {
		return SemanticToken(id)
	}
	return SemanticToken(id + "-" + Hash7(string(signature)))
}
