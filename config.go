package bundletrim

import (
	"github.com/yacobolo/bundletrim/internal/harvest"
	"github.com/yacobolo/bundletrim/internal/trim"
)

// Config holds the options of one trimming pass.
type Config struct {
	// Whitelist and Blacklist select the modules harvested for usage text.
	// Entries are plain substrings of the module identifier; entries written
	// as /expr/ are regular expressions. The bundler bootstrap and the style
	// loader runtimes are always blacklisted.
	Whitelist []string
	Blacklist []string

	// ExtraSources add usage text that is not part of the module graph.
	ExtraSources []SourceConfig

	SourceMap SourceMapConfig

	// TrimOptions are merged into every trimmer call.
	TrimOptions trim.Options
}

// SourceConfig is an extra usage source: literal Content, or the files
// matching Glob.
type SourceConfig struct {
	Content string `koanf:"content" yaml:"content,omitempty"`
	Kind    string `koanf:"kind" yaml:"kind,omitempty"` // script | markup
	Glob    string `koanf:"glob" yaml:"glob,omitempty"`
}

// SourceMapConfig controls source maps of rewritten stylesheet assets.
type SourceMapConfig struct {
	Enabled bool
	Inline  bool
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Whitelist: []string{},
		Blacklist: []string{},
	}
}

func (c Config) sources() []harvest.Source {
	sources := make([]harvest.Source, len(c.ExtraSources))
	for i, s := range c.ExtraSources {
		sources[i] = harvest.Source{Content: s.Content, Kind: s.Kind, Glob: s.Glob}
	}
	return sources
}
