package stylemod

import (
	"io"
	"regexp"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// token is a significant JavaScript token with its byte range in the module code.
type token struct {
	tt    js.TokenType
	text  string
	start int
	end   int
}

func (t token) eof() bool {
	return t.tt == js.ErrorToken
}

func (t token) isIdent() bool {
	return t.tt == js.IdentifierToken || identPattern.MatchString(t.text)
}

// tokenizer lexes lazily and skips whitespace and comments.
type tokenizer struct {
	lexer  *js.Lexer
	pos    int
	peeked *token
	err    error
}

// newTokenizer lexes code[base:], reporting offsets relative to code.
func newTokenizer(code string, base int) *tokenizer {
	return &tokenizer{
		lexer: js.NewLexer(parse.NewInputString(code[base:])),
		pos:   base,
	}
}

func isTrivia(tt js.TokenType, text string) bool {
	switch tt {
	case js.WhitespaceToken, js.LineTerminatorToken, js.CommentToken:
		return true
	}
	return strings.TrimSpace(text) == "" || strings.HasPrefix(text, "//") || strings.HasPrefix(text, "/*")
}

func (t *tokenizer) read() token {
	for {
		tt, data := t.lexer.Next()
		start := t.pos
		t.pos += len(data)
		if tt == js.ErrorToken {
			if err := t.lexer.Err(); err != nil && err != io.EOF {
				t.err = err
			}
			return token{tt: js.ErrorToken, start: start, end: start}
		}
		if isTrivia(tt, string(data)) {
			continue
		}
		return token{tt: tt, text: string(data), start: start, end: t.pos}
	}
}

func (t *tokenizer) peek() token {
	if t.peeked == nil {
		tok := t.read()
		t.peeked = &tok
	}
	return *t.peeked
}

func (t *tokenizer) next() token {
	tok := t.peek()
	t.peeked = nil
	return tok
}
