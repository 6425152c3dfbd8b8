// Package bundle models an already-materialized snapshot of a bundler's output:
// the emitted assets and, for script assets, the modules they were built from.
package bundle

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Module is one unit of a script asset's module graph.
type Module struct {
	Identifier    string `json:"identifier"`             // loader chain + resource, e.g. "css-loader/index.js!./a.css"
	GeneratedCode string `json:"generatedCode"`          // code as it appears inside the asset
	OriginalCode  string `json:"originalCode,omitempty"` // code before the bundler's transforms
}

// Asset is one emitted file.
type Asset struct {
	Name    string          `json:"name"`
	Content string          `json:"content"`
	Map     json.RawMessage `json:"map,omitempty"`
	Modules []Module        `json:"modules,omitempty"`
}

// Snapshot is the set of assets of one compilation.
type Snapshot struct {
	Assets []Asset `json:"assets"`
}

// AssetKind selects how an asset is processed.
type AssetKind int

// Asset kinds, resolved from the asset name.
const (
	KindOther        AssetKind = iota // left untouched
	KindStyleModules                  // script asset that may embed style modules
	KindCSS                           // plain stylesheet
	KindMarkup                        // markup, only read as usage content
)

func (k AssetKind) String() string {
	switch k {
	case KindStyleModules:
		return "js"
	case KindCSS:
		return "css"
	case KindMarkup:
		return "html"
	default:
		return "other"
	}
}

// KindOf resolves the kind of an asset from its file name.
func KindOf(name string) AssetKind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".js", ".mjs", ".cjs":
		return KindStyleModules
	case ".css":
		return KindCSS
	case ".html", ".htm":
		return KindMarkup
	default:
		return KindOther
	}
}

// Kind returns the asset's kind.
func (a Asset) Kind() AssetKind {
	return KindOf(a.Name)
}

// HasMap reports whether the asset carries a source map.
func (a Asset) HasMap() bool {
	return len(a.Map) > 0 && string(a.Map) != "null"
}

// Modules returns the modules of all script assets in asset order.
func (s *Snapshot) Modules() []Module {
	var modules []Module
	for _, a := range s.Assets {
		if a.Kind() == KindStyleModules {
			modules = append(modules, a.Modules...)
		}
	}
	return modules
}

// ReadSnapshot decodes a JSON snapshot.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}

// LoadSnapshot reads a JSON snapshot from a file.
func LoadSnapshot(path string) (*Snapshot, error) {
	// #nosec G304 - path comes from trusted configuration
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	return ReadSnapshot(f)
}

// Write encodes the snapshot as indented JSON.
func (s *Snapshot) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteAssets writes each asset's content into dir, plus a "<name>.map" file for
// assets that carry a source map. Asset names must stay inside dir.
func WriteAssets(dir string, s *Snapshot) error {
	for _, a := range s.Assets {
		name := filepath.FromSlash(a.Name)
		if !filepath.IsLocal(name) {
			return fmt.Errorf("write %s: asset name escapes the output directory", a.Name)
		}
		target := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create dir for %s: %w", a.Name, err)
		}
		if err := os.WriteFile(target, []byte(a.Content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", a.Name, err)
		}
		if a.HasMap() {
			if err := os.WriteFile(target+".map", a.Map, 0o644); err != nil {
				return fmt.Errorf("write map for %s: %w", a.Name, err)
			}
		}
	}
	return nil
}
