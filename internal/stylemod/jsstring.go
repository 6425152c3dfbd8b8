package stylemod

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// unquote decodes a JavaScript string literal, quotes included.
func unquote(lit string) (string, error) {
	if len(lit) < 2 || (lit[0] != '"' && lit[0] != '\'') || lit[len(lit)-1] != lit[0] {
		return "", fmt.Errorf("not a string literal: %s", lit)
	}
	body := lit[1 : len(lit)-1]
	if !strings.Contains(body, `\`) {
		return body, nil
	}

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(body) {
			return "", fmt.Errorf("dangling escape in %s", lit)
		}

		i++
		switch c = body[i]; c {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			if i+1 < len(body) && body[i+1] >= '0' && body[i+1] <= '9' {
				return "", fmt.Errorf("legacy octal escape %q", body[i-1:i+2])
			}
			b.WriteByte(0)
		case '1', '2', '3', '4', '5', '6', '7':
			return "", fmt.Errorf("legacy octal escape %q", body[i-1:i+1])
		case '\n':
		case '\r':
			if i+1 < len(body) && body[i+1] == '\n' {
				i++
			}
		case 'x':
			r, err := parseHex(body, i+1, 2)
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
			i += 2
		case 'u':
			r, n, err := parseUnicode(body, i+1)
			if err != nil {
				return "", err
			}
			i += n
			if utf16.IsSurrogate(r) && i+2 < len(body) && body[i+1] == '\\' && body[i+2] == 'u' {
				if low, m, err := parseUnicode(body, i+3); err == nil {
					if pair := utf16.DecodeRune(r, low); pair != utf8.RuneError {
						r = pair
						i += 2 + m
					}
				}
			}
			b.WriteRune(r)
		default:
			r, size := utf8.DecodeRuneInString(body[i:])
			// U+2028 and U+2029 are line continuations.
			if r != '\u2028' && r != '\u2029' {
				b.WriteString(body[i : i+size])
			}
			i += size - 1
		}
		i++
	}
	return b.String(), nil
}

func parseHex(s string, start, digits int) (rune, error) {
	if start+digits > len(s) {
		return 0, fmt.Errorf("truncated escape %q", s[start-2:])
	}
	v, err := strconv.ParseUint(s[start:start+digits], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid escape %q: %w", s[start-2:start+digits], err)
	}
	return rune(v), nil
}

// parseUnicode parses the part of a \u escape after the "u" and returns the
// rune with the number of bytes consumed.
func parseUnicode(s string, start int) (rune, int, error) {
	if start < len(s) && s[start] == '{' {
		end := strings.IndexByte(s[start:], '}')
		if end < 2 {
			return 0, 0, fmt.Errorf("invalid code point escape in %q", s)
		}
		r, err := parseHex(s, start+1, end-1)
		if err != nil {
			return 0, 0, err
		}
		return r, end + 1, nil
	}
	r, err := parseHex(s, start, 4)
	return r, 4, err
}

// quote encodes s as a JavaScript string literal using q as the quote
// character, escaping the way JSON.stringify does.
func quote(s string, q byte) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(q)
	for _, r := range s {
		switch {
		case r == rune(q) || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\b':
			b.WriteString(`\b`)
		case r == '\f':
			b.WriteString(`\f`)
		case r < 0x20, r == '\u2028', r == '\u2029':
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}
