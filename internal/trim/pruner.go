package trim

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"

	"github.com/yacobolo/bundletrim/internal/harvest"
	"github.com/yacobolo/bundletrim/internal/sourcemap"
	"github.com/yacobolo/bundletrim/internal/splice"
)

// groupRules hold nested rules and are filtered recursively.
var groupRules = map[string]bool{
	"@media":         true,
	"@supports":      true,
	"@document":      true,
	"@-moz-document": true,
	"@layer":         true,
	"@container":     true,
}

// Pruner removes qualified rules whose selectors all reference a class or id
// that no usage fragment mentions. Kept rules are copied byte for byte.
type Pruner struct {
	log *zap.Logger
}

// NewPruner creates a Pruner. A nil logger disables logging.
func NewPruner(log *zap.Logger) *Pruner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pruner{log: log.Named("trim")}
}

type ctoken struct {
	tt    css.TokenType
	text  string
	start int
	end   int
}

// rule is a top-level or nested rule with its byte range. The range starts at
// the whitespace preceding the rule so dropping it leaves no blank lines.
type rule struct {
	start    int
	end      int
	at       string // lowercased at-keyword, empty for qualified rules
	prelude  []ctoken
	block    bool // has a terminated {} block
	group    bool // block holds nested rules
	children []rule
}

// Trim implements Trimmer.
func (p *Pruner) Trim(fragments []harvest.Fragment, src string, opts Options) (Result, error) {
	whitelist := make([]*regexp.Regexp, 0, len(opts.Whitelist))
	for _, entry := range opts.Whitelist {
		re, err := harvest.CompilePattern(entry)
		if err != nil {
			return Result{}, err
		}
		whitelist = append(whitelist, re)
	}

	toks, err := lex(src)
	if err != nil {
		return Result{}, err
	}
	rules, _ := parseRules(toks, 0, false)

	pass := &prunePass{used: newUsage(fragments), whitelist: whitelist, log: p.log}
	collected, _ := pass.drops(rules)
	drops, err := splice.Sorted(len(src), collected)
	if err != nil {
		return Result{}, fmt.Errorf("collect trimmed rules: %w", err)
	}

	out, err := splice.Apply(src, drops...)
	if err != nil {
		return Result{}, fmt.Errorf("apply trimmed rules: %w", err)
	}
	result := Result{CSS: out, Removed: pass.removed}

	if sm := opts.SourceMap; sm != nil {
		m := buildMap(src, drops, sm.To, sm.From)
		if !sm.Inline {
			result.Map = m
			return result, nil
		}
		uri, err := m.DataURI()
		if err != nil {
			return Result{}, fmt.Errorf("inline source map: %w", err)
		}
		result.CSS += "\n/*# sourceMappingURL=" + uri + " */"
	}
	return result, nil
}

func lex(src string) ([]ctoken, error) {
	l := css.NewLexer(parse.NewInputString(src))
	var toks []ctoken
	pos := 0
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			if err := l.Err(); err != nil && err != io.EOF {
				return nil, fmt.Errorf("lex css at offset %d: %w", pos, err)
			}
			break
		}
		toks = append(toks, ctoken{tt: tt, text: string(data), start: pos, end: pos + len(data)})
		pos += len(data)
	}
	if pos != len(src) {
		return nil, fmt.Errorf("lex css: stopped at offset %d of %d", pos, len(src))
	}
	return toks, nil
}

func isTrivia(tt css.TokenType) bool {
	switch tt {
	case css.WhitespaceToken, css.CommentToken, css.CDOToken, css.CDCToken:
		return true
	}
	return false
}

// parseRules reads rules from toks[i:] up to the closing brace of the
// enclosing block, or the end. It returns the rules and the index where it
// stopped. At the top level a stray "}" is skipped.
func parseRules(toks []ctoken, i int, nested bool) ([]rule, int) {
	var rules []rule
	for {
		lead := -1
		for i < len(toks) && isTrivia(toks[i].tt) {
			if toks[i].tt == css.WhitespaceToken {
				if lead < 0 {
					lead = toks[i].start
				}
			} else {
				lead = -1
			}
			i++
		}
		if i >= len(toks) {
			return rules, i
		}
		if toks[i].tt == css.RightBraceToken {
			if nested {
				return rules, i
			}
			i++
			continue
		}

		r := rule{start: toks[i].start}
		if lead >= 0 {
			r.start = lead
		}
		if toks[i].tt == css.AtKeywordToken {
			r.at = strings.ToLower(toks[i].text)
			i++
		}

		preludeStart := i
		i = skipPrelude(toks, i, r.at != "")
		r.prelude = toks[preludeStart:i]

		switch {
		case i >= len(toks):
			r.end = toks[len(toks)-1].end
		case toks[i].tt == css.SemicolonToken:
			r.end = toks[i].end
			i++
		case toks[i].tt == css.RightBraceToken:
			r.end = toks[i].start
		default: // "{"
			if groupRules[r.at] {
				children, closing := parseRules(toks, i+1, true)
				if closing < len(toks) {
					r.block, r.group, r.children = true, true, children
					r.end = toks[closing].end
					i = closing + 1
					break
				}
			}
			if closing := matchBrace(toks, i); closing >= 0 {
				r.block = true
				r.end = toks[closing].end
				i = closing + 1
			} else {
				r.end = toks[len(toks)-1].end
				i = len(toks)
			}
		}
		rules = append(rules, r)
	}
}

// skipPrelude advances to the "{" opening the block, the ";" ending an
// at-rule, or the "}" closing the enclosing block.
func skipPrelude(toks []ctoken, i int, atRule bool) int {
	depth := 0
	for ; i < len(toks); i++ {
		switch toks[i].tt {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			if depth > 0 {
				depth--
			}
		case css.LeftBraceToken, css.RightBraceToken:
			return i
		case css.SemicolonToken:
			if atRule && depth == 0 {
				return i
			}
		}
	}
	return i
}

// matchBrace returns the index of the "}" matching the "{" at open, or -1.
func matchBrace(toks []ctoken, open int) int {
	depth := 0
	for i := open; i < len(toks); i++ {
		switch toks[i].tt {
		case css.LeftBraceToken:
			depth++
		case css.RightBraceToken:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

type prunePass struct {
	used      usage
	whitelist []*regexp.Regexp
	log       *zap.Logger
	removed   int
}

// drops returns the byte ranges to delete from rules and the number of rules
// kept. A group rule with no kept children is dropped as a whole.
func (p *prunePass) drops(rules []rule) ([]splice.Replacement, int) {
	var (
		drops []splice.Replacement
		kept  int
	)
	drop := func(r rule) {
		drops = append(drops, splice.Replacement{Range: splice.Range{Start: r.start, End: r.end}})
	}

	for _, r := range rules {
		switch {
		case r.group:
			childDrops, childKept := p.drops(r.children)
			if childKept == 0 {
				p.log.Debug("Group rule emptied", zap.String("rule", r.at))
				drop(r)
				continue
			}
			drops = append(drops, childDrops...)
			kept++
		case r.at == "" && r.block && !p.keep(r.prelude):
			p.log.Debug("Rule removed", zap.String("selector", preludeText(r.prelude)))
			p.removed++
			drop(r)
		default:
			kept++
		}
	}
	return drops, kept
}

// keep reports whether any selector of the prelude is used or whitelisted.
func (p *prunePass) keep(prelude []ctoken) bool {
	for _, sel := range splitSelectors(prelude) {
		text := preludeText(sel)
		for _, re := range p.whitelist {
			if re.MatchString(text) {
				return true
			}
		}
		if p.selectorUsed(sel) {
			return true
		}
	}
	return false
}

// selectorUsed reports whether every class and id of sel appears in the usage
// words. Names inside functional pseudo-classes such as :not() are ignored.
func (p *prunePass) selectorUsed(sel []ctoken) bool {
	depth := 0
	for i, t := range sel {
		switch t.tt {
		case css.FunctionToken, css.LeftParenthesisToken:
			depth++
			continue
		case css.RightParenthesisToken:
			depth--
			continue
		}
		if depth > 0 {
			continue
		}

		switch {
		case t.tt == css.DelimToken && t.text == "." && i+1 < len(sel) && sel[i+1].tt == css.IdentToken:
			if !p.used.has(unescapeIdent(sel[i+1].text)) {
				return false
			}
		case t.tt == css.HashToken:
			if !p.used.has(unescapeIdent(strings.TrimPrefix(t.text, "#"))) {
				return false
			}
		}
	}
	return true
}

func splitSelectors(prelude []ctoken) [][]ctoken {
	var (
		selectors [][]ctoken
		depth     int
		start     int
	)
	for i, t := range prelude {
		switch t.tt {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			depth--
		case css.CommaToken:
			if depth == 0 {
				selectors = append(selectors, prelude[start:i])
				start = i + 1
			}
		}
	}
	return append(selectors, prelude[start:])
}

func preludeText(toks []ctoken) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.text)
	}
	return strings.TrimSpace(b.String())
}

// buildMap maps every kept span of src to its position in the trimmed output,
// at the span start and at each line start inside it. drops must be sorted.
func buildMap(src string, drops []splice.Replacement, file, source string) *sourcemap.Map {
	in := sourcemap.NewLineIndex(src)
	var b sourcemap.Builder
	outLine, outCol, pos := 0, 0, 0
	emit := func(from, to int) {
		if from >= to {
			return
		}
		line, col := in.Position(from)
		b.Add(outLine, outCol, line, col)
		for i := from; i < to; i++ {
			if src[i] != '\n' {
				outCol++
				continue
			}
			outLine, outCol = outLine+1, 0
			if i+1 < to {
				line, col := in.Position(i + 1)
				b.Add(outLine, 0, line, col)
			}
		}
	}

	for _, d := range drops {
		emit(pos, d.Start)
		pos = d.End
	}
	emit(pos, len(src))
	return b.Map(file, source, src)
}
