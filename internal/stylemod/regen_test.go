package stylemod

import (
	"errors"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identity(css string) (string, error) {
	return css, nil
}

func constant(out string) TrimFunc {
	return func(string) (string, error) {
		return out, nil
	}
}

// dropRules removes every rule whose selector is not listed in keep. It is
// enough of a trimmer for rules without nesting.
func dropRules(keep ...string) TrimFunc {
	rule := regexp.MustCompile(`([^{}]+)\{[^{}]*\}`)
	return func(css string) (string, error) {
		return rule.ReplaceAllStringFunc(css, func(r string) string {
			selector := strings.TrimSpace(r[:strings.Index(r, "{")])
			for _, k := range keep {
				if selector == k {
					return r
				}
			}
			return ""
		}), nil
	}
}

func TestRegenerate(t *testing.T) {
	tests := []struct {
		name string
		ex   Extraction
		css  string
		want string
	}{
		{
			name: "basic css",
			ex:   Extraction{},
			css:  ".my-class { color:white; }",
			want: `".my-class { color:white; }"`,
		},
		{
			name: "single placeholder",
			ex: Extraction{Placeholders: []Placeholder{
				{Token: "__placeholder__", Expression: "foo(1)"},
			}},
			css:  ".my-class { background: url(__placeholder__); }",
			want: `".my-class { background: url("+foo(1)+"); }"`,
		},
		{
			name: "multiple placeholders",
			ex: Extraction{Placeholders: []Placeholder{
				{Token: "__placeholder__", Expression: "foo(1)"},
				{Token: "__placeholder2__", Expression: "foobar(1)"},
			}},
			css:  ".a { background: url(__placeholder__); }\n.b { background: link(__placeholder2__); }\n",
			want: `".a { background: url("+foo(1)+"); }\n.b { background: link("+foobar(1)+"); }\n"`,
		},
		{
			name: "placeholder removed by the trimmer",
			ex: Extraction{Placeholders: []Placeholder{
				{Token: "__placeholder__", Expression: "foo(1)"},
			}},
			css:  ".kept{}",
			want: `".kept{}"`,
		},
		{
			name: "placeholders reordered by the trimmer",
			ex: Extraction{Placeholders: []Placeholder{
				{Token: "__p1__", Expression: "a()"},
				{Token: "__p2__", Expression: "b()"},
			}},
			css:  "x(__p2__) y(__p1__)",
			want: `"x("+b()+") y("+a()+")"`,
		},
		{
			name: "leading and trailing placeholders",
			ex: Extraction{Placeholders: []Placeholder{
				{Token: "__p1__", Expression: "a()"},
				{Token: "__p2__", Expression: "b()"},
			}},
			css:  "__p1____p2__",
			want: `""+a()+b()`,
		},
		{
			name: "single placeholder left",
			ex: Extraction{Placeholders: []Placeholder{
				{Token: "__p1__", Expression: "a(1)"},
			}},
			css:  "__p1__",
			want: `""+a(1)`,
		},
		{
			name: "unchanged literal keeps its escapes",
			ex: Extraction{
				Placeholders: []Placeholder{{Token: "__p1__", Expression: "img(1)"}},
				literals:     map[string]string{".a{}": `"\x2ea{}"`},
			},
			css:  ".a{}__p1__",
			want: `"\x2ea{}"+img(1)`,
		},
		{
			name: "everything trimmed",
			ex:   Extraction{quote: '\''},
			css:  "",
			want: `''`,
		},
		{
			name: "original quote and spacing",
			ex: Extraction{quote: '\'', separator: " + ", Placeholders: []Placeholder{
				{Token: "__p__", Expression: "f(0)"},
			}},
			css:  "url(__p__)",
			want: `'url(' + f(0) + ')'`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.ex.Regenerate(tt.css)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegenerate_AmbiguousPlaceholder(t *testing.T) {
	ex := Extraction{Placeholders: []Placeholder{{Token: "__placeholder__", Expression: "foo(1)"}}}
	css := ".a { background: url(__placeholder__); }\n.b { background: url(__placeholder__); }\n"

	_, err := ex.Regenerate(css)
	require.Error(t, err)

	var ambiguous *AmbiguousPlaceholderError
	require.True(t, errors.As(err, &ambiguous))
	assert.Equal(t, "__placeholder__", ambiguous.Token)
	assert.Equal(t, 2, ambiguous.Count)
}

func TestRewrite_RoundTrip(t *testing.T) {
	args := []string{
		`".a{color:red}.b{color:blue}"`,
		`".fa:before {\n  content: \"\\f101\";\n}\n"`,
		`'single { quoted: "yes" }'`,
		`""`,
		`"url(" + hash(0) + ")"`,
		`".a{background:url("+__webpack_require__(1)+")}.b{background:url("+__webpack_require__(2)+")}"`,
		`"\x2ea{}"`,
		`"a\/b"`,
		"\".a{content:'\u2028'}\"",
		`"<\/style>" + f(1)`,
	}

	for _, arg := range args {
		code := "exports.push([module.i, " + arg + ", \"\"]);\n// exports\n"
		ex, err := Extract(code)
		require.NoError(t, err, arg)

		got, err := Rewrite(code, ex, identity)
		require.NoError(t, err, arg)
		assert.Equal(t, code, got, arg)
	}
}

func TestRewrite_EndToEnd(t *testing.T) {
	t.Run("unused rule removed", func(t *testing.T) {
		code := `exports.push([module.i, ".a{color:red}.b{color:blue}", ""])`
		got, err := RewriteModule(code, dropRules(".a"))
		require.NoError(t, err)
		assert.Equal(t, `exports.push([module.i, ".a{color:red}", ""])`, got)
	})

	t.Run("kept literal keeps its escapes", func(t *testing.T) {
		code := `exports.push([module.i, "\x2ea{}" + ".b{}", ""])`
		got, err := RewriteModule(code, dropRules(".a"))
		require.NoError(t, err)
		assert.Equal(t, `exports.push([module.i, "\x2ea{}", ""])`, got)
	})

	t.Run("octal escape rejected", func(t *testing.T) {
		_, err := RewriteModule(`exports.push([module.i, "\2028", ""])`, identity)
		var exErr *ExtractionError
		require.ErrorAs(t, err, &exErr)
	})

	t.Run("placeholder survives unchanged css", func(t *testing.T) {
		code := `exports.push([module.i, "url(" + hash(0) + ")", ""])`
		got, err := RewriteModule(code, identity)
		require.NoError(t, err)
		assert.Equal(t, code, got)
	})

	t.Run("second placeholder trimmed away", func(t *testing.T) {
		code := `exports.push([module.i, ".a{background:url(" + img(1) + ")}.b{background:url(" + img(2) + ")}", ""])`
		got, err := RewriteModule(code, dropRules(".a"))
		require.NoError(t, err)
		assert.Equal(t, `exports.push([module.i, ".a{background:url(" + img(1) + ")}", ""])`, got)
		assert.NotContains(t, got, "img(2)")
	})

	t.Run("ambiguous placeholder", func(t *testing.T) {
		code := `exports.push([module.i, "url(" + hash(0) + ")", ""])`
		_, err := RewriteModule(code, func(css string) (string, error) {
			return css + css, nil
		})
		var ambiguous *AmbiguousPlaceholderError
		require.True(t, errors.As(err, &ambiguous))
	})

	t.Run("trimmer error", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := RewriteModule(`exports.push([module.i, ".a{}", ""])`, func(string) (string, error) {
			return "", boom
		})
		require.ErrorIs(t, err, boom)
	})
}

func TestRewrite_Fixture(t *testing.T) {
	source, err := os.ReadFile("testdata/module.source.js")
	require.NoError(t, err)
	template, err := os.ReadFile("testdata/module.expected.js")
	require.NoError(t, err)

	expected := func(css string) string {
		return strings.Replace(string(template), "{{css}}", css, 1)
	}

	t.Run("replaces only the css", func(t *testing.T) {
		got, err := RewriteModule(string(source), constant("foobar"))
		require.NoError(t, err)
		assert.Equal(t, expected(`"foobar"`), got)
	})

	t.Run("passes the extracted css to the trimmer", func(t *testing.T) {
		var seen string
		_, err := RewriteModule(string(source), func(css string) (string, error) {
			seen = css
			return css, nil
		})
		require.NoError(t, err)
		assert.Equal(t, ".fa {\n  background: url(___replacement_value1___);\n}\n", seen)
	})

	t.Run("rehydrates placeholders", func(t *testing.T) {
		got, err := RewriteModule(string(source), constant("url(___replacement_value1___)"))
		require.NoError(t, err)
		assert.Equal(t, expected(`"url(" + __webpack_require__(5) + ")"`), got)
	})
}
