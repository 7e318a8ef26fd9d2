package routes

import (
	"fmt"

	"github.com/3-lines-studio/semkit/internal/core"
)

var routerFactories = map[string]bool{
	"createBrowserRouter": true,
	"createMemoryRouter":  true,
	"createHashRouter":    true,
	"createStaticRouter":  true,
}

// routeNode is one object literal of the route array before paths are
// resolved against their parents.
type routeNode struct {
	path        string
	hasPath     bool
	index       bool
	element     string
	children    []routeNode
	hasChildren bool
}

type parserState struct {
	lex     lexer
	tok     token
	ahead   token
	hasNext bool
}

type parser struct {
	parserState
	lx *lexer
}

func newParser(src string) *parser {
	p := &parser{lx: newLexer(src)}
	p.tok = p.lx.next()
	return p
}

func (p *parser) advance() {
	if p.hasNext {
		p.tok = p.ahead
		p.hasNext = false
		return
	}
	p.tok = p.lx.next()
}

func (p *parser) peek() token {
	if !p.hasNext {
		p.ahead = p.lx.next()
		p.hasNext = true
	}
	return p.ahead
}

func (p *parser) save() parserState {
	s := p.parserState
	s.lex = *p.lx
	return s
}

func (p *parser) restore(s parserState) {
	*p.lx = s.lex
	p.parserState = s
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", core.ErrRouteTableMalformed, p.tok.pos(), fmt.Sprintf(format, args...))
}

// Parse reads route-declaration source and builds its route table. The route
// array is the first array argument of a router factory call, or the array
// bound to the factory's identifier argument, or a `routes` binding.
func Parse(src string) (*Table, error) {
	p := newParser(src)
	imports := make(map[string]string)
	var modules []string
	bindings := make(map[string]parserState)

	var (
		nodes  []routeNode
		found  bool
		wanted string
	)

	parseAt := func(s parserState) error {
		resume := p.save()
		p.restore(s)
		n, err := p.parseArray()
		p.restore(resume)
		if err != nil {
			return err
		}
		nodes, found = n, true
		return nil
	}

	for p.tok.kind != tokEOF {
		switch {
		case p.tok.is(tokIdent, "import"):
			if module := p.parseImport(imports); module != "" {
				modules = append(modules, module)
			}

		case found:
			p.advance()

		case p.tok.kind == tokIdent && (p.tok.text == "const" || p.tok.text == "let" || p.tok.text == "var"):
			p.advance()
			name, ok := p.arrayBinding()
			if !ok {
				continue
			}
			bindings[name] = p.save()
			if name == wanted {
				if err := parseAt(bindings[name]); err != nil {
					return nil, err
				}
			}

		case p.tok.kind == tokIdent && routerFactories[p.tok.text] && p.peek().punct("("):
			p.advance()
			p.advance()
			switch {
			case p.tok.punct("["):
				n, err := p.parseArray()
				if err != nil {
					return nil, err
				}
				nodes, found = n, true
			case p.tok.kind == tokIdent:
				if s, ok := bindings[p.tok.text]; ok {
					if err := parseAt(s); err != nil {
						return nil, err
					}
				} else {
					wanted = p.tok.text
				}
				p.advance()
			}

		default:
			p.advance()
		}
	}

	if !found {
		if s, ok := bindings["routes"]; ok {
			if err := parseAt(s); err != nil {
				return nil, err
			}
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: no route array found", core.ErrRouteTableMalformed)
	}

	t := buildTable(nodes, imports)
	t.setModules(modules)
	return t, nil
}

// arrayBinding consumes `name (: Type)? =` and reports the bound name when
// the initializer is an array literal. The parser is left on the '['.
func (p *parser) arrayBinding() (string, bool) {
	if p.tok.kind != tokIdent {
		return "", false
	}
	name := p.tok.text
	p.advance()
	if p.tok.punct(":") {
		for !p.tok.punct("=") {
			if p.tok.kind == tokEOF || p.tok.punct(";") || p.tok.punct("{") {
				return "", false
			}
			p.advance()
		}
	}
	if !p.tok.punct("=") {
		return "", false
	}
	p.advance()
	return name, p.tok.punct("[")
}

// parseImport records default imports and returns the module specifier of
// any static import. Namespace, named-only and type-only imports only
// contribute their specifier.
func (p *parser) parseImport(imports map[string]string) string {
	p.advance()
	if p.tok.punct("(") || p.tok.punct(".") {
		return ""
	}
	if p.tok.kind == tokString {
		module := p.tok.text
		p.advance()
		return module
	}

	var name string
	if p.tok.kind == tokIdent {
		typeOnly := p.tok.text == "type" && (p.peek().kind == tokIdent || p.peek().punct("{"))
		if !typeOnly {
			name = p.tok.text
		}
		p.advance()
	}

	for !p.tok.is(tokIdent, "from") {
		if p.tok.kind == tokEOF || p.tok.punct(";") {
			return ""
		}
		p.advance()
	}
	p.advance()
	if p.tok.kind != tokString {
		return ""
	}
	module := p.tok.text
	if name != "" {
		imports[name] = module
	}
	p.advance()
	return module
}

func (p *parser) parseArray() ([]routeNode, error) {
	if !p.tok.punct("[") {
		return nil, p.errorf("expected '[', got %s", p.tok)
	}
	p.advance()

	var out []routeNode
	for !p.tok.punct("]") {
		switch {
		case p.tok.kind == tokEOF:
			return nil, p.errorf("unterminated route array")
		case p.tok.punct(","):
			p.advance()
		case p.tok.punct("{"):
			n, err := p.parseObject()
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		default:
			if err := p.skipValue(); err != nil {
				return nil, err
			}
		}
	}
	p.advance()
	return out, nil
}

func (p *parser) parseObject() (routeNode, error) {
	var n routeNode
	p.advance()

	for !p.tok.punct("}") {
		switch {
		case p.tok.kind == tokEOF:
			return n, p.errorf("unterminated route object")
		case p.tok.punct(","):
			p.advance()
			continue
		case p.tok.punct("."):
			if err := p.skipValue(); err != nil {
				return n, err
			}
			continue
		case p.tok.kind != tokIdent && p.tok.kind != tokString:
			return n, p.errorf("unexpected %s in route object", p.tok)
		}

		key := p.tok.text
		p.advance()
		switch {
		case p.tok.punct(":"):
			p.advance()
			if err := p.parseProperty(&n, key); err != nil {
				return n, err
			}
		case p.tok.punct("("):
			if err := p.skipValue(); err != nil {
				return n, err
			}
		}
	}
	p.advance()
	return n, nil
}

func (p *parser) parseProperty(n *routeNode, key string) error {
	switch key {
	case "index":
		if p.tok.is(tokIdent, "true") || p.tok.is(tokIdent, "false") {
			n.index = p.tok.text == "true"
			p.advance()
			return nil
		}
	case "path":
		if p.tok.kind != tokString {
			return p.errorf("route path must be a string literal, got %s", p.tok)
		}
		n.path, n.hasPath = p.tok.text, true
		p.advance()
		return nil
	case "element":
		if p.tok.punct("<") {
			name, err := p.parseElement()
			n.element = name
			return err
		}
	case "Component":
		if p.tok.kind == tokIdent && p.tok.text != "null" && p.tok.text != "undefined" {
			next := p.peek()
			if next.punct(",") || next.punct("}") {
				n.element = p.tok.text
				p.advance()
				return nil
			}
		}
	case "children":
		if p.tok.punct("[") {
			children, err := p.parseArray()
			n.children, n.hasChildren = children, true
			return err
		}
	}
	return p.skipValue()
}

// parseElement reads a JSX element and returns its component name. Props
// and children are skipped.
func (p *parser) parseElement() (string, error) {
	p.advance()
	if p.tok.kind != tokIdent {
		return "", p.errorf("expected component name after '<', got %s", p.tok)
	}
	name := p.tok.text
	p.advance()
	for p.tok.punct(".") && p.peek().kind == tokIdent {
		p.advance()
		name += "." + p.tok.text
		p.advance()
	}

	selfClosing, err := p.skipTagRest()
	if err != nil || selfClosing {
		return name, err
	}

	for depth := 1; depth > 0; {
		switch {
		case p.tok.kind == tokEOF:
			return "", p.errorf("unterminated element <%s>", name)
		case p.tok.punct("{"):
			if err := p.skipBalanced(); err != nil {
				return "", err
			}
		case p.tok.punct("<"):
			p.advance()
			switch {
			case p.tok.punct("/"):
				for !p.tok.punct(">") {
					if p.tok.kind == tokEOF {
						return "", p.errorf("unterminated element <%s>", name)
					}
					p.advance()
				}
				p.advance()
				depth--
			case p.tok.punct(">"):
				p.advance()
				depth++
			default:
				sc, err := p.skipTagRest()
				if err != nil {
					return "", err
				}
				if !sc {
					depth++
				}
			}
		default:
			p.advance()
		}
	}
	return name, nil
}

// skipTagRest consumes attributes up to the end of an opening tag and
// reports whether the tag was self-closing.
func (p *parser) skipTagRest() (bool, error) {
	for {
		switch {
		case p.tok.kind == tokEOF:
			return false, p.errorf("unterminated tag")
		case p.tok.punct("{"):
			if err := p.skipBalanced(); err != nil {
				return false, err
			}
		case p.tok.punct("/") && p.peek().punct(">"):
			p.advance()
			p.advance()
			return true, nil
		case p.tok.punct(">"):
			p.advance()
			return false, nil
		default:
			p.advance()
		}
	}
}

// skipBalanced consumes a bracketed group, including its closing bracket.
func (p *parser) skipBalanced() error {
	depth := 0
	for {
		switch {
		case p.tok.kind == tokEOF:
			return p.errorf("unbalanced brackets")
		case isOpen(p.tok):
			depth++
		case isClose(p.tok):
			depth--
			if depth == 0 {
				p.advance()
				return nil
			}
		}
		p.advance()
	}
}

// skipValue consumes an expression up to the next ',' or closing bracket at
// its own nesting level.
func (p *parser) skipValue() error {
	depth := 0
	for {
		switch {
		case p.tok.kind == tokEOF:
			return p.errorf("unexpected end of input")
		case isOpen(p.tok):
			depth++
		case isClose(p.tok):
			if depth == 0 {
				return nil
			}
			depth--
		case p.tok.punct(",") && depth == 0:
			return nil
		}
		p.advance()
	}
}

func isOpen(t token) bool {
	return t.punct("(") || t.punct("[") || t.punct("{")
}

func isClose(t token) bool {
	return t.punct(")") || t.punct("]") || t.punct("}")
}
