// Package parse reads CSP process definition files.
//
// A file is a sequence of definitions, one per line:
//
//	-- vending machine
//	COFFEE = coin -> pour -> STOP
//	MAIN   = COFFEE [] (coin -> tea -> STOP)
//
// Operators, loosest binding first: internal choice `|~|`, external choice
// `[]`, sequential composition `;` (right associative), and prefix `->`.
// Prefix heads are a single lowercase event or a braced set `{a,b}`.
// `STOP` and `SKIP` are the primitive processes; uppercase identifiers refer
// to other definitions in the same file. References may point forward, but
// recursion (direct or mutual) is rejected. The reserved names `tau` and
// `tick` cannot be used as events.
package parse

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"

	"cspkit/internal/event"
	"cspkit/internal/process"
)

// Definition is a single named process from a file.
type Definition struct {
	Name string
	Term process.Term
	Line int
}

// File is a parsed, fully resolved definition file.
type File struct {
	Definitions []Definition
	byName      map[string]int
}

// Root returns the named definition's term, or the default root when name is
// empty: the definition called MAIN if present, otherwise the last one.
func (f *File) Root(name string) (process.Term, error) {
	if name == "" {
		if i, ok := f.byName["MAIN"]; ok {
			return f.Definitions[i].Term, nil
		}
		return f.Definitions[len(f.Definitions)-1].Term, nil
	}
	i, ok := f.byName[name]
	if !ok {
		return nil, fmt.Errorf("no definition named %q", name)
	}
	return f.Definitions[i].Term, nil
}

// ParseFile reads and parses the definition file at path.
func ParseFile(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}
	return ParseString(string(b), path)
}

// Parse reads all of r and parses it.
func Parse(r io.Reader, filename string) (*File, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}
	return ParseString(string(b), filename)
}

// ParseString parses CSP definitions from source text.
//
// All syntax and resolution errors in the file are reported together, not
// just the first one.
func ParseString(src, filename string) (*File, error) {
	tokens, err := lex(src, filename)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens, filename: filename}
	defs := p.parseDefinitions()

	var errs *multierror.Error
	errs = multierror.Append(errs, p.errs...)

	file, resolveErrs := resolve(defs, filename)
	errs = multierror.Append(errs, resolveErrs...)

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return file, nil
}

// rawDef is a definition before reference resolution.
type rawDef struct {
	name string
	line int
	body expr
}

// expr is the abstract syntax of a process expression.
type expr interface{ exprNode() }

type stopExpr struct{}
type skipExpr struct{}

type refExpr struct {
	name string
	line int
}

type prefixExpr struct {
	events []string
	line   int
	after  expr
}

type choiceExpr struct {
	external bool
	children []expr
}

type seqExpr struct {
	first, rest expr
}

func (stopExpr) exprNode()   {}
func (skipExpr) exprNode()   {}
func (refExpr) exprNode()    {}
func (prefixExpr) exprNode() {}
func (choiceExpr) exprNode() {}
func (seqExpr) exprNode()    {}

type parser struct {
	tokens   []token
	pos      int
	filename string
	errs     []error
}

func (p *parser) peek() token   { return p.tokens[p.pos] }
func (p *parser) advance() token { t := p.tokens[p.pos]; p.pos++; return t }

func (p *parser) expect(kind tokenKind) (token, error) {
	t := p.peek()
	if t.kind != kind {
		return t, p.syntaxf(t.line, "expected %s, found %s", kind, describe(t))
	}
	return p.advance(), nil
}

func describe(t token) string {
	switch t.kind {
	case tEOF, tNewline:
		return t.kind.String()
	default:
		return fmt.Sprintf("%q", t.text)
	}
}

// parseDefinitions parses the whole token stream, recording one error per
// broken definition and resynchronizing at the next line.
func (p *parser) parseDefinitions() []rawDef {
	var defs []rawDef
	for {
		// Skip blank lines.
		for p.peek().kind == tNewline {
			p.advance()
		}
		if p.peek().kind == tEOF {
			return defs
		}

		def, err := p.parseDefinition()
		if err != nil {
			p.errs = append(p.errs, err)
			p.syncToNewline()
			continue
		}
		defs = append(defs, def)
	}
}

func (p *parser) syncToNewline() {
	for p.peek().kind != tNewline && p.peek().kind != tEOF {
		p.advance()
	}
}

func (p *parser) parseDefinition() (rawDef, error) {
	name, err := p.expect(tName)
	if err != nil {
		return rawDef{}, err
	}
	if _, err := p.expect(tEq); err != nil {
		return rawDef{}, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return rawDef{}, err
	}
	end := p.peek()
	if end.kind != tNewline && end.kind != tEOF {
		return rawDef{}, p.syntaxf(end.line, "unexpected %s after expression", describe(end))
	}
	return rawDef{name: name.text, line: name.line, body: body}, nil
}

// parseExpr parses at the loosest precedence level: internal choice.
func (p *parser) parseExpr() (expr, error) {
	return p.parseChoice(tSqcap, false, p.parseExternalChoice)
}

func (p *parser) parseExternalChoice() (expr, error) {
	return p.parseChoice(tBox, true, p.parseSeq)
}

// parseChoice parses a run of child expressions separated by the given
// operator token. Three or more operands fold into one replicated choice,
// matching the replicated operator forms.
func (p *parser) parseChoice(op tokenKind, external bool, next func() (expr, error)) (expr, error) {
	first, err := next()
	if err != nil {
		return nil, err
	}
	children := []expr{first}
	for p.peek().kind == op {
		p.advance()
		child, err := next()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	if len(children) == 1 {
		return first, nil
	}
	return choiceExpr{external: external, children: children}, nil
}

// parseSeq parses `P ; Q ; R` right-associatively.
func (p *parser) parseSeq() (expr, error) {
	first, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tSemi {
		return first, nil
	}
	p.advance()
	rest, err := p.parseSeq()
	if err != nil {
		return nil, err
	}
	return seqExpr{first: first, rest: rest}, nil
}

func (p *parser) parsePrefix() (expr, error) {
	t := p.peek()
	switch t.kind {
	case tEvent:
		p.advance()
		if err := p.checkEventName(t); err != nil {
			return nil, err
		}
		if _, err := p.expect(tArrow); err != nil {
			return nil, err
		}
		after, err := p.parsePrefix()
		if err != nil {
			return nil, err
		}
		return prefixExpr{events: []string{t.text}, line: t.line, after: after}, nil

	case tLBrace:
		p.advance()
		events, err := p.parseEventList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tArrow); err != nil {
			return nil, err
		}
		after, err := p.parsePrefix()
		if err != nil {
			return nil, err
		}
		return prefixExpr{events: events, line: t.line, after: after}, nil

	default:
		return p.parseAtom()
	}
}

func (p *parser) parseEventList() ([]string, error) {
	var events []string
	for {
		t, err := p.expect(tEvent)
		if err != nil {
			return nil, err
		}
		if err := p.checkEventName(t); err != nil {
			return nil, err
		}
		events = append(events, t.text)
		switch p.peek().kind {
		case tComma:
			p.advance()
		case tRBrace:
			p.advance()
			return events, nil
		default:
			return nil, p.syntaxf(p.peek().line, "expected ',' or '}' in event set, found %s", describe(p.peek()))
		}
	}
}

func (p *parser) parseAtom() (expr, error) {
	t := p.peek()
	switch t.kind {
	case tStop:
		p.advance()
		return stopExpr{}, nil
	case tSkip:
		p.advance()
		return skipExpr{}, nil
	case tName:
		p.advance()
		return refExpr{name: t.text, line: t.line}, nil
	case tLParen:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tRParen); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, p.syntaxf(t.line, "expected a process, found %s", describe(t))
	}
}

func (p *parser) checkEventName(t token) error {
	if t.text == "tau" || t.text == "tick" {
		return p.syntaxf(t.line, "%q is reserved: the hidden events cannot be named directly", t.text)
	}
	return nil
}

// buildTerm converts resolved syntax into a process term. resolved maps
// definition names to already-built terms.
func buildTerm(e expr, resolved map[string]process.Term) process.Term {
	switch n := e.(type) {
	case stopExpr:
		return process.Stop()
	case skipExpr:
		return process.Skip()
	case refExpr:
		return resolved[n.name]
	case prefixExpr:
		events := make([]event.Event, len(n.events))
		for i, name := range n.events {
			events[i] = event.Event(name)
		}
		return process.Prefix(event.NewSet(events...), buildTerm(n.after, resolved))
	case seqExpr:
		return process.Sequential(buildTerm(n.first, resolved), buildTerm(n.rest, resolved))
	case choiceExpr:
		children := make([]process.Term, len(n.children))
		for i, c := range n.children {
			children[i] = buildTerm(c, resolved)
		}
		if n.external {
			return process.ReplicatedExternalChoice(children)
		}
		return process.ReplicatedInternalChoice(children)
	default:
		panic(fmt.Sprintf("unhandled expression %T", e))
	}
}
