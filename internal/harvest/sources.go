package harvest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/zap"
)

// Source is a configured extra usage source: literal content, or a glob of
// files to read.
type Source struct {
	Content string
	Kind    string // "script" or "markup"; inferred from the extension for globbed files
	Glob    string
}

// SourceResolver turns configured sources into fragments.
type SourceResolver struct {
	// IgnoreFile is the gitignore file used to skip globbed files. Only relative
	// paths are checked against it.
	IgnoreFile string

	log *zap.Logger
}

// NewSourceResolver creates a resolver that honours ./.gitignore.
func NewSourceResolver(log *zap.Logger) *SourceResolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &SourceResolver{IgnoreFile: ".gitignore", log: log.Named("sources")}
}

// Resolve returns the fragments of all sources in configuration order. Files
// that cannot be read are logged and skipped.
func (r *SourceResolver) Resolve(sources []Source) ([]Fragment, error) {
	gi := r.loadIgnore()

	var fragments []Fragment
	for _, src := range sources {
		if src.Glob == "" {
			fragments = append(fragments, Fragment{Kind: ParseKind(src.Kind), Content: src.Content})
			continue
		}

		matches, err := doublestar.FilepathGlob(src.Glob)
		if err != nil {
			return nil, &FilterConfigError{Entry: src.Glob, Err: err}
		}

		for _, path := range matches {
			if gi != nil && !filepath.IsAbs(path) && gi.MatchesPath(path) {
				r.log.Debug("Source ignored", zap.String("path", path))
				continue
			}
			info, err := os.Stat(path)
			if err != nil || info.IsDir() {
				continue
			}

			// #nosec G304 - path comes from trusted configuration
			data, err := os.ReadFile(path)
			if err != nil {
				r.log.Warn("Unable to read source", zap.String("path", path), zap.Error(err))
				continue
			}

			kind := src.Kind
			if kind == "" {
				kind = strings.TrimPrefix(filepath.Ext(path), ".")
			}
			fragments = append(fragments, Fragment{Kind: ParseKind(kind), Content: string(data)})
		}
	}
	return fragments, nil
}

// loadIgnore degrades to no filtering when the ignore file is missing.
func (r *SourceResolver) loadIgnore() *ignore.GitIgnore {
	if r.IgnoreFile == "" {
		return nil
	}
	gi, err := ignore.CompileIgnoreFile(r.IgnoreFile)
	if err != nil {
		return nil
	}
	return gi
}
