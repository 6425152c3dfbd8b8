// Package jsasset trims the stylesheets embedded in script assets by
// css-loader style modules.
package jsasset

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/yacobolo/bundletrim/internal/bundle"
	"github.com/yacobolo/bundletrim/internal/harvest"
	"github.com/yacobolo/bundletrim/internal/sourcemap"
	"github.com/yacobolo/bundletrim/internal/splice"
	"github.com/yacobolo/bundletrim/internal/stylemod"
	"github.com/yacobolo/bundletrim/internal/trim"
)

// ModuleError is the failure of one style module. It fails the whole asset.
type ModuleError struct {
	Identifier string
	Err        error
}

func (e *ModuleError) Error() string {
	return fmt.Sprintf("module %s: %v", e.Identifier, e.Err)
}

func (e *ModuleError) Unwrap() error {
	return e.Err
}

// Options configure one script asset rewrite.
type Options struct {
	Name string
	Trim trim.Options
	// InputMap is the asset's map. Its generated positions are moved to follow
	// the rewritten code.
	InputMap *sourcemap.Map
}

// Result is the rewritten script asset.
type Result struct {
	Content   string
	Map       *sourcemap.Map
	Rewritten int // style modules rewritten
	Removed   int // rules removed across all modules, when the trimmer reports it
	// Skipped lists style modules whose code was not found in the asset.
	Skipped []string
}

// Rewriter rewrites script assets against one set of usage fragments.
type Rewriter struct {
	trimmer   trim.Trimmer
	fragments []harvest.Fragment
	log       *zap.Logger
}

// New creates a Rewriter. A nil logger disables logging.
func New(trimmer trim.Trimmer, fragments []harvest.Fragment, log *zap.Logger) *Rewriter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Rewriter{trimmer: trimmer, fragments: fragments, log: log.Named("js")}
}

// Rewrite trims every style module of modules found in content. Modules are
// located in order, each at or after the end of the previous match. Any
// module failure is returned as a *ModuleError and content must be kept as is.
func (r *Rewriter) Rewrite(content string, modules []bundle.Module, opts Options) (Result, error) {
	log := r.log.With(zap.String("asset", opts.Name))
	res := Result{Content: content, Map: opts.InputMap}

	var (
		reps   []splice.Replacement
		cursor int
	)
	for _, m := range modules {
		if !stylemod.IsStyleModule(m.Identifier, m.OriginalCode) {
			continue
		}
		if m.GeneratedCode == "" {
			res.Skipped = append(res.Skipped, m.Identifier)
			continue
		}

		idx := strings.Index(content[cursor:], m.GeneratedCode)
		if idx < 0 {
			log.Warn("Style module not found in asset", zap.String("module", m.Identifier))
			res.Skipped = append(res.Skipped, m.Identifier)
			continue
		}
		start := cursor + idx
		cursor = start + len(m.GeneratedCode)

		rewritten, removed, err := r.rewriteModule(m, opts.Trim)
		if err != nil {
			log.Debug("Style module rejected",
				zap.String("module", m.Identifier),
				zap.String("excerpt", excerpt(m.GeneratedCode, err)),
				zap.Error(err))
			return Result{}, &ModuleError{Identifier: m.Identifier, Err: err}
		}

		log.Debug("Style module rewritten",
			zap.String("module", m.Identifier),
			zap.Int("before", len(m.GeneratedCode)),
			zap.Int("after", len(rewritten)))
		res.Rewritten++
		res.Removed += removed
		reps = append(reps, splice.Replacement{
			Range: splice.Range{Start: start, End: cursor},
			Text:  rewritten,
		})
	}

	if len(reps) == 0 {
		return res, nil
	}

	out, err := splice.Apply(content, reps...)
	if err != nil {
		return Result{}, err
	}
	res.Content = out

	if opts.InputMap != nil {
		moved := *opts.InputMap
		if err := moved.Splice(content, out, reps); err != nil {
			return Result{}, fmt.Errorf("move source map of %s: %w", opts.Name, err)
		}
		res.Map = &moved
	}
	return res, nil
}

// rewriteModule trims the stylesheet of one module. Embedded stylesheets get
// no map of their own.
func (r *Rewriter) rewriteModule(m bundle.Module, opts trim.Options) (string, int, error) {
	opts.SourceMap = nil
	removed := 0
	out, err := stylemod.RewriteModule(m.GeneratedCode, func(css string) (string, error) {
		res, err := r.trimmer.Trim(r.fragments, css, opts)
		if err != nil {
			return "", err
		}
		removed = res.Removed
		return res.CSS, nil
	})
	return out, removed, err
}

// excerpt returns the code around the offset of an extraction error.
func excerpt(code string, err error) string {
	var exErr *stylemod.ExtractionError
	if !errors.As(err, &exErr) {
		return ""
	}
	from, to := max(exErr.Offset-40, 0), min(exErr.Offset+40, len(code))
	if from > to {
		return ""
	}
	return code[from:to]
}
