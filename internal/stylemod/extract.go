package stylemod

import (
	"fmt"
	"strings"
)

// Placeholder stands in for a non-literal subexpression of the CSS argument.
type Placeholder struct {
	Token      string // marker embedded in RawCSS
	Expression string // source text reinserted after trimming
}

// Extraction is the CSS registered by a style module.
type Extraction struct {
	RawCSS       string
	Placeholders []Placeholder
	// Start and End delimit the CSS argument in the module code.
	Start int
	End   int

	quote     byte              // quote of the first string literal
	separator string            // text around the first "+" operator
	literals  map[string]string // decoded value -> source of the first literal holding it
}

// placeholderToken returns the n-th placeholder token of an extraction.
func placeholderToken(n int) string {
	return fmt.Sprintf("___replacement_value%d___", n)
}

type nodeKind int

const (
	literalNode nodeKind = iota
	callNode
	binaryNode
)

// node is an expression of the accepted grammar:
//
//	expr    = primary { "+" primary }
//	primary = string | call | "(" expr ")"
//	call    = ident { "." ident } "(" args ")"
type node struct {
	kind  nodeKind
	start int
	end   int

	value  string // literal: decoded value
	quote  byte   // literal: quote character
	source string // literal: source text, quotes included
	expr   string // call: reconstructed source

	left  *node // binary
	right *node // binary
	op    string
}

type parser struct {
	code string
	toks *tokenizer
}

func (p *parser) errorf(offset int, format string, args ...any) error {
	return &ExtractionError{Offset: offset, Reason: fmt.Sprintf(format, args...)}
}

func (p *parser) unexpected(tok token, want string) error {
	if tok.eof() {
		if p.toks.err != nil {
			return &ExtractionError{Offset: tok.start, Reason: "lexer error", Err: p.toks.err}
		}
		return p.errorf(tok.start, "unexpected end of code, want %s", want)
	}
	return p.errorf(tok.start, "unexpected %q, want %s", tok.text, want)
}

func (p *parser) expect(text string) error {
	if tok := p.toks.next(); tok.text != text {
		return p.unexpected(tok, fmt.Sprintf("%q", text))
	}
	return nil
}

// Extract parses the stylesheet argument of the first exports.push([module.*, css, ...])
// call in code.
func Extract(code string) (*Extraction, error) {
	loc := pushPattern.FindStringIndex(code)
	if loc == nil {
		return nil, &ExtractionError{Offset: 0, Reason: "marker not found", Err: ErrNoMarker}
	}

	p := &parser{code: code, toks: newTokenizer(code, loc[0])}
	for _, text := range []string{"exports", ".", "push", "(", "["} {
		if err := p.expect(text); err != nil {
			return nil, err
		}
	}
	if err := p.skipElement(); err != nil {
		return nil, err
	}

	sep := p.toks.next()
	next := p.toks.peek()
	if sep.text != "," || next.eof() || next.text == "]" || next.text == "," {
		return nil, &ExtractionError{Offset: sep.start, Reason: "no css element in pushed array", Err: ErrMissingArgument}
	}

	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if after := p.toks.peek(); after.text != "," && after.text != "]" {
		return nil, p.unexpected(after, `"," or "]" after the css argument`)
	}

	ex := &Extraction{Start: root.start, End: root.end}
	var css strings.Builder
	ex.flatten(root, &css)
	ex.RawCSS = css.String()
	return ex, nil
}

// skipElement consumes the first array element (the module id) up to, but not
// including, the comma or bracket that ends it.
func (p *parser) skipElement() error {
	depth := 0
	for {
		tok := p.toks.peek()
		switch {
		case tok.eof():
			return p.unexpected(tok, "array element")
		case depth == 0 && (tok.text == "," || tok.text == "]"):
			return nil
		case tok.text == "(" || tok.text == "[" || tok.text == "{":
			depth++
		case tok.text == ")" || tok.text == "]" || tok.text == "}":
			depth--
		}
		p.toks.next()
	}
}

func (p *parser) parseExpr() (*node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.toks.peek().text == "+" {
		p.toks.next()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &node{
			kind:  binaryNode,
			start: left.start,
			end:   right.end,
			left:  left,
			right: right,
			op:    p.code[left.end:right.start],
		}
	}
	return left, nil
}

func (p *parser) parsePrimary() (*node, error) {
	tok := p.toks.next()
	switch {
	case tok.eof():
		return nil, p.unexpected(tok, "expression")

	case tok.text != "" && (tok.text[0] == '"' || tok.text[0] == '\''):
		value, err := unquote(tok.text)
		if err != nil {
			return nil, &ExtractionError{Offset: tok.start, Reason: "invalid string literal", Err: err}
		}
		return &node{kind: literalNode, start: tok.start, end: tok.end, value: value, quote: tok.text[0], source: tok.text}, nil

	case tok.text == "(":
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		closing := p.toks.next()
		if closing.text != ")" {
			return nil, p.unexpected(closing, `")"`)
		}
		inner.start, inner.end = tok.start, closing.end
		return inner, nil

	case tok.isIdent():
		return p.parseCall(tok)

	default:
		return nil, p.errorf(tok.start, "unsupported expression %q: only string literals, calls and + are accepted", tok.text)
	}
}

func (p *parser) parseCall(head token) (*node, error) {
	callee := head.text
	for p.toks.peek().text == "." {
		p.toks.next()
		member := p.toks.next()
		if !member.isIdent() {
			return nil, p.unexpected(member, "member name")
		}
		callee += "." + member.text
	}

	if open := p.toks.next(); open.text != "(" {
		return nil, p.errorf(head.start, "unsupported expression %q: identifiers must be called", callee)
	}

	var (
		args       []string
		depth      int
		argStart   = -1
		argEnd     int
		closingEnd int
	)
	for closingEnd == 0 {
		tok := p.toks.next()
		switch {
		case tok.eof():
			return nil, p.unexpected(tok, `")"`)
		case depth == 0 && (tok.text == "," || tok.text == ")"):
			if argStart >= 0 {
				args = append(args, strings.TrimSpace(p.code[argStart:argEnd]))
			}
			argStart = -1
			if tok.text == ")" {
				closingEnd = tok.end
			}
			continue
		case tok.text == "(" || tok.text == "[" || tok.text == "{":
			depth++
		case tok.text == ")" || tok.text == "]" || tok.text == "}":
			depth--
		}
		if argStart < 0 {
			argStart = tok.start
		}
		argEnd = tok.end
	}

	return &node{
		kind:  callNode,
		start: head.start,
		end:   closingEnd,
		expr:  callee + "(" + strings.Join(args, ",") + ")",
	}, nil
}

// flatten walks the tree depth-first, left to right, appending literal values
// and placeholder tokens to css.
func (ex *Extraction) flatten(n *node, css *strings.Builder) {
	switch n.kind {
	case literalNode:
		if ex.quote == 0 {
			ex.quote = n.quote
		}
		if ex.literals == nil {
			ex.literals = make(map[string]string)
		}
		if _, ok := ex.literals[n.value]; !ok {
			ex.literals[n.value] = n.source
		}
		css.WriteString(n.value)
	case callNode:
		ph := Placeholder{Token: placeholderToken(len(ex.Placeholders) + 1), Expression: n.expr}
		ex.Placeholders = append(ex.Placeholders, ph)
		css.WriteString(ph.Token)
	case binaryNode:
		ex.flatten(n.left, css)
		if ex.separator == "" {
			ex.separator = n.op
		}
		ex.flatten(n.right, css)
	}
}
