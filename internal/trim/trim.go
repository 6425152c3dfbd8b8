// Package trim defines the contract of a CSS trimmer and provides Pruner, a
// trimmer that drops rules whose selectors are not referenced by any usage
// fragment.
package trim

import (
	"github.com/yacobolo/bundletrim/internal/harvest"
	"github.com/yacobolo/bundletrim/internal/sourcemap"
)

// SourceMapOptions asks the trimmer for a source map of its output.
type SourceMapOptions struct {
	From   string // name of the input stylesheet
	To     string // name of the output stylesheet
	Inline bool   // append the map as a sourceMappingURL comment instead of returning it
}

// Options are passed to every trimmer call.
type Options struct {
	// Whitelist lists selectors that are never removed. Entries follow the
	// filter syntax: plain substrings, or /expr/ regular expressions.
	Whitelist []string `json:"whitelist,omitempty" koanf:"whitelist"`
	// SourceMap is nil when no map is wanted.
	SourceMap *SourceMapOptions `json:"-" koanf:"-"`
}

// With returns o overlaid with call. Whitelists are concatenated; the source
// map settings of call take precedence.
func (o Options) With(call Options) Options {
	out := Options{
		Whitelist: append(append([]string{}, o.Whitelist...), call.Whitelist...),
		SourceMap: o.SourceMap,
	}
	if call.SourceMap != nil {
		out.SourceMap = call.SourceMap
	}
	return out
}

// Result is the output of a trimmer call.
type Result struct {
	CSS string
	// Map is set when a non-inline source map was requested.
	Map *sourcemap.Map
	// Removed counts the rules the trimmer dropped, when it knows.
	Removed int
}

// Trimmer removes unused rules from css given the usage fragments.
type Trimmer interface {
	Trim(fragments []harvest.Fragment, css string, opts Options) (Result, error)
}

// Func adapts a function to the Trimmer interface.
type Func func(fragments []harvest.Fragment, css string, opts Options) (Result, error)

// Trim calls f.
func (f Func) Trim(fragments []harvest.Fragment, css string, opts Options) (Result, error) {
	return f(fragments, css, opts)
}
