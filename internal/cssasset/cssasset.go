// Package cssasset trims plain stylesheet assets.
package cssasset

import (
	"fmt"

	"github.com/yacobolo/bundletrim/internal/harvest"
	"github.com/yacobolo/bundletrim/internal/sourcemap"
	"github.com/yacobolo/bundletrim/internal/trim"
)

// Options configure one stylesheet rewrite.
type Options struct {
	Name      string // asset name, used as map source and target
	SourceMap bool   // ask the trimmer for a map
	InlineMap bool   // append the map as a sourceMappingURL comment
	Trim      trim.Options
	// InputMap is the asset's own map. The trimmer's map is composed with it so
	// the result points at the original sources.
	InputMap *sourcemap.Map
}

// Result is the rewritten stylesheet.
type Result struct {
	Content string
	Map     *sourcemap.Map // nil unless a separate map was produced
	Removed int
}

// Rewrite trims content with trimmer. The inline preference is left to the
// trimmer unless an input map has to be composed first.
func Rewrite(content string, fragments []harvest.Fragment, trimmer trim.Trimmer, opts Options) (Result, error) {
	call := opts.Trim
	if opts.SourceMap {
		call = call.With(trim.Options{SourceMap: &trim.SourceMapOptions{
			From:   opts.Name,
			To:     opts.Name,
			Inline: opts.InlineMap && opts.InputMap == nil,
		}})
	}

	res, err := trimmer.Trim(fragments, content, call)
	if err != nil {
		return Result{}, fmt.Errorf("trim %s: %w", opts.Name, err)
	}

	out := Result{Content: res.CSS, Removed: res.Removed}
	if !opts.SourceMap || res.Map == nil {
		return out, nil
	}

	m := res.Map
	if opts.InputMap != nil {
		if m, err = sourcemap.Compose(res.Map, opts.InputMap); err != nil {
			return Result{}, fmt.Errorf("compose source map of %s: %w", opts.Name, err)
		}
	}
	m.File = opts.Name

	if opts.InlineMap {
		uri, err := m.DataURI()
		if err != nil {
			return Result{}, fmt.Errorf("inline source map of %s: %w", opts.Name, err)
		}
		out.Content += "\n/*# sourceMappingURL=" + uri + " */"
		return out, nil
	}
	out.Map = m
	return out, nil
}
