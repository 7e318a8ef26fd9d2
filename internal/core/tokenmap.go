package core

// Rule pairs a token with the first class signature seen for it.
type Rule struct {
	Token   SemanticToken
	Classes ClassSignature
}

// TokenMap is the site-wide signature → token mapping. Entries are only ever
// appended; the first writer of a signature wins.
type TokenMap struct {
	tokens    map[ClassSignature]SemanticToken
	order     []ClassSignature
	rules     map[SemanticToken]ClassSignature
	ruleOrder []SemanticToken
}

func NewTokenMap() *TokenMap {
	return &TokenMap{
		tokens: make(map[ClassSignature]SemanticToken),
		rules:  make(map[SemanticToken]ClassSignature),
	}
}

// Aggregate folds reports into one map in the order given: report order
// first, then record order within each report.
func Aggregate(reports ...[]PageRecord) *TokenMap {
	m := NewTokenMap()
	for _, records := range reports {
		for _, r := range records {
			m.Add(r)
		}
	}
	return m
}

// Add records r if it carries both a token and a class string. It reports
// whether the signature was new.
func (m *TokenMap) Add(r PageRecord) bool {
	if r.DataClass == "" || r.ClassName == "" {
		return false
	}
	sig := r.Signature()
	if sig == "" {
		return false
	}

	token := SemanticToken(r.DataClass)
	if _, ok := m.rules[token]; !ok {
		m.rules[token] = sig
		m.ruleOrder = append(m.ruleOrder, token)
	}

	if _, ok := m.tokens[sig]; ok {
		return false
	}
	m.tokens[sig] = token
	m.order = append(m.order, sig)
	return true
}

func (m *TokenMap) Lookup(sig ClassSignature) (SemanticToken, bool) {
	token, ok := m.tokens[sig]
	return token, ok
}

// Resolve returns the token for classAttr, or fallback when the signature was
// never aggregated.
func (m *TokenMap) Resolve(classAttr string, fallback SemanticToken) SemanticToken {
	if m != nil {
		if token, ok := m.tokens[NormalizeClasses(classAttr)]; ok {
			return token
		}
	}
	return fallback
}

func (m *TokenMap) Len() int {
	return len(m.order)
}

// Signatures returns signatures in first-seen order.
func (m *TokenMap) Signatures() []ClassSignature {
	out := make([]ClassSignature, len(m.order))
	copy(out, m.order)
	return out
}

// Rules returns one rule per token in first-seen order.
func (m *TokenMap) Rules() []Rule {
	out := make([]Rule, 0, len(m.ruleOrder))
	for _, token := range m.ruleOrder {
		out = append(out, Rule{Token: token, Classes: m.rules[token]})
	}
	return out
}

// Equal reports whether both maps hold the same entries in the same order.
func (m *TokenMap) Equal(other *TokenMap) bool {
	if len(m.order) != len(other.order) || len(m.ruleOrder) != len(other.ruleOrder) {
		return false
	}
	for i, sig := range m.order {
		if other.order[i] != sig || other.tokens[sig] != m.tokens[sig] {
			return false
		}
	}
	for i, token := range m.ruleOrder {
		if other.ruleOrder[i] != token || other.rules[token] != m.rules[token] {
			return false
		}
	}
	return true
}
