package stylemod

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnquote(t *testing.T) {
	tests := []struct {
		name string
		lit  string
		want string
	}{
		{name: "plain", lit: `".a{color:red}"`, want: ".a{color:red}"},
		{name: "single quoted", lit: `'y\'all'`, want: "y'all"},
		{name: "escaped double quotes", lit: `" say \"never\" "`, want: ` say "never" `},
		{name: "control escapes", lit: `"a\nb\tc\\d"`, want: "a\nb\tc\\d"},
		{name: "hex escape", lit: `"\x41"`, want: "A"},
		{name: "unicode escape", lit: `"\u00e9"`, want: "\u00e9"},
		{name: "code point escape", lit: `"\u{1F600}"`, want: "\U0001F600"},
		{name: "surrogate pair", lit: `"\ud83d\ude00"`, want: "\U0001F600"},
		{name: "line continuation", lit: "\"a\\\nb\"", want: "ab"},
		{name: "identity escape", lit: `"\/\:"`, want: "/:"},
		{name: "nul escape", lit: `"a\0b"`, want: "a\x00b"},
		{name: "non-octal digit escape", lit: `"\8\9"`, want: "89"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := unquote(tt.lit)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestUnquote_Invalid(t *testing.T) {
	for _, lit := range []string{`"abc`, `abc`, `"\x4"`, `"\u12"`, `"abc\"`, `"\2028"`, `"\101"`, `"\00"`, `"\07"`} {
		_, err := unquote(lit)
		require.Error(t, err, lit)
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		name string
		s    string
		q    byte
		want string
	}{
		{name: "plain", s: ".a{}", q: '"', want: `".a{}"`},
		{name: "newline and quote", s: "a\n\"b\"", q: '"', want: `"a\n\"b\""`},
		{name: "single quote kept in double quotes", s: "it's", q: '"', want: `"it's"`},
		{name: "single quotes", s: "it's", q: '\'', want: `'it\'s'`},
		{name: "control char", s: "\x1b", q: '"', want: `"\u001b"`},
		{name: "backslash", s: `\f0`, q: '"', want: `"\\f0"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, quote(tt.s, tt.q))
		})
	}
}
