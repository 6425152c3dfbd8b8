package trim

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yacobolo/bundletrim/internal/harvest"
)

var (
	// wordSplit yields plain identifiers: "btn", "btn-primary", "a_1x".
	wordSplit = regexp.MustCompile(`[^A-Za-z0-9_-]+`)
	// tokenSplit keeps names with punctuation, such as "md:flex" or "w-1/2".
	tokenSplit = regexp.MustCompile("[\\s\"'`<>=,;(){}\\[\\]]+")
)

// usage is the set of words that appear in the usage fragments.
type usage map[string]struct{}

func newUsage(fragments []harvest.Fragment) usage {
	u := make(usage)
	for _, f := range fragments {
		for _, split := range []*regexp.Regexp{wordSplit, tokenSplit} {
			for _, w := range split.Split(f.Content, -1) {
				if w != "" {
					u[w] = struct{}{}
				}
			}
		}
	}
	return u
}

func (u usage) has(name string) bool {
	_, ok := u[name]
	return ok
}

// unescapeIdent decodes the escapes of a CSS identifier ("md\:flex", "\31 0").
func unescapeIdent(ident string) string {
	if !strings.Contains(ident, `\`) {
		return ident
	}

	var b strings.Builder
	for i := 0; i < len(ident); i++ {
		c := ident[i]
		if c != '\\' || i+1 == len(ident) {
			b.WriteByte(c)
			continue
		}

		j := i + 1
		for j < len(ident) && j-i <= 6 && isHex(ident[j]) {
			j++
		}
		if j == i+1 {
			b.WriteByte(ident[j])
			i = j
			continue
		}
		v, err := strconv.ParseUint(ident[i+1:j], 16, 32)
		if err != nil || v == 0 || v > 0x10FFFF {
			v = 0xFFFD
		}
		b.WriteRune(rune(v))
		if j < len(ident) && (ident[j] == ' ' || ident[j] == '\t' || ident[j] == '\n') {
			j++
		}
		i = j - 1
	}
	return b.String()
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
