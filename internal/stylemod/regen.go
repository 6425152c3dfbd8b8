package stylemod

import (
	"strings"

	"github.com/yacobolo/bundletrim/internal/splice"
)

// TrimFunc receives the extracted CSS and returns its trimmed version.
type TrimFunc func(css string) (string, error)

// part is one operand of a regenerated concatenation: a string literal, or raw
// source inserted verbatim.
type part struct {
	raw  bool
	text string
}

// Range returns the byte range of the CSS argument in the module code.
func (ex *Extraction) Range() splice.Range {
	return splice.Range{Start: ex.Start, End: ex.End}
}

// Regenerate builds the expression for css, which is RawCSS after trimming,
// reinserting the original expression of every placeholder still present.
func (ex *Extraction) Regenerate(css string) (string, error) {
	parts := []part{{text: css}}
	for _, ph := range ex.Placeholders {
		var err error
		if parts, err = substitute(parts, ph); err != nil {
			return "", err
		}
	}
	return ex.serialize(parts), nil
}

// substitute splits the string part holding ph.Token around ph.Expression. A
// token the trimmer removed leaves parts unchanged.
func substitute(parts []part, ph Placeholder) ([]part, error) {
	at, count := -1, 0
	for i, p := range parts {
		if p.raw {
			continue
		}
		if n := strings.Count(p.text, ph.Token); n > 0 {
			at = i
			count += n
		}
	}

	switch {
	case count == 0:
		return parts, nil
	case count > 1:
		return nil, &AmbiguousPlaceholderError{Token: ph.Token, Count: count}
	}

	before, after, _ := strings.Cut(parts[at].text, ph.Token)
	out := make([]part, 0, len(parts)+2)
	out = append(out, parts[:at]...)
	out = append(out, part{text: before}, part{raw: true, text: ph.Expression}, part{text: after})
	return append(out, parts[at+1:]...), nil
}

func (ex *Extraction) serialize(parts []part) string {
	q := ex.quote
	if q == 0 {
		q = '"'
	}
	sep := ex.separator
	if sep == "" {
		sep = "+"
	}

	emitted := make([]part, 0, len(parts))
	for _, p := range parts {
		if p.raw || p.text != "" {
			emitted = append(emitted, p)
		}
	}
	switch {
	case len(emitted) == 0:
		return quote("", q)
	case emitted[0].raw && (len(emitted) == 1 || emitted[1].raw):
		// keep the expression a string
		emitted = append([]part{{}}, emitted...)
	}

	operands := make([]string, len(emitted))
	for i, p := range emitted {
		switch source, ok := ex.literals[p.text]; {
		case p.raw:
			operands[i] = p.text
		case ok:
			// unchanged literals keep their original escapes
			operands[i] = source
		default:
			operands[i] = quote(p.text, q)
		}
	}
	return strings.Join(operands, sep)
}

// Rewrite trims the CSS of ex and returns code with the CSS argument replaced.
// Bytes outside the argument are left untouched, and code is returned as is
// when the trimmer changed nothing.
func Rewrite(code string, ex *Extraction, trim TrimFunc) (string, error) {
	trimmed, err := trim(ex.RawCSS)
	if err != nil {
		return "", err
	}
	if trimmed == ex.RawCSS {
		return code, nil
	}
	expr, err := ex.Regenerate(trimmed)
	if err != nil {
		return "", err
	}
	return splice.Apply(code, splice.Replacement{Range: ex.Range(), Text: expr})
}

// RewriteModule extracts and rewrites the stylesheet of a style module.
func RewriteModule(code string, trim TrimFunc) (string, error) {
	ex, err := Extract(code)
	if err != nil {
		return "", err
	}
	return Rewrite(code, ex, trim)
}
