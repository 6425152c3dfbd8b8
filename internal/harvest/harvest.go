// Package harvest collects the usage content (script and markup text) that the
// trimmer scans to decide which selectors are referenced.
package harvest

import (
	"strings"

	"go.uber.org/zap"

	"github.com/yacobolo/bundletrim/internal/bundle"
	"github.com/yacobolo/bundletrim/internal/stylemod"
)

// Kind is the kind of text a fragment carries.
type Kind int

// Fragment kinds.
const (
	KindScript Kind = iota
	KindMarkup
)

func (k Kind) String() string {
	if k == KindMarkup {
		return "markup"
	}
	return "script"
}

// ParseKind maps a configured kind name to a Kind. Unknown names are script.
func ParseKind(name string) Kind {
	switch strings.ToLower(name) {
	case "markup", "html", "htm":
		return KindMarkup
	default:
		return KindScript
	}
}

// Fragment is one unit of usage text.
type Fragment struct {
	Kind    Kind
	Content string
}

// Harvester gathers fragments from a module graph.
type Harvester struct {
	filters *FilterSet
	log     *zap.Logger
}

// New creates a harvester. A nil logger disables logging.
func New(filters *FilterSet, log *zap.Logger) *Harvester {
	if log == nil {
		log = zap.NewNop()
	}
	return &Harvester{filters: filters, log: log.Named("harvest")}
}

// Gather is a convenience wrapper around Harvester.Gather without logging.
func Gather(filters *FilterSet, modules []bundle.Module, extra []Fragment) []Fragment {
	return New(filters, nil).Gather(modules, extra)
}

// Gather returns the usage fragments of modules, in module order, followed by extra.
func (h *Harvester) Gather(modules []bundle.Module, extra []Fragment) []Fragment {
	fragments := make([]Fragment, 0, len(modules)+len(extra))
	for _, m := range modules {
		if m.Identifier == "" {
			continue
		}
		if !h.filters.Allows(m.Identifier) {
			h.log.Debug("Module filtered", zap.String("module", m.Identifier))
			continue
		}

		content := m.OriginalCode
		if content == "" {
			content = m.GeneratedCode
		}
		if content == "" {
			h.log.Debug("Module has no readable content", zap.String("module", m.Identifier))
			continue
		}

		if stylemod.IsLoaderIndex(m.Identifier) {
			locals, ok := localsContent(content)
			if !ok {
				continue
			}
			content = locals
		}

		fragments = append(fragments, Fragment{Kind: KindScript, Content: content})
	}

	return append(fragments, extra...)
}

// localsContent returns the part of a style module that exports its local
// class names. Style arrays before it are not usage.
func localsContent(code string) (string, bool) {
	if strings.Contains(code, stylemod.RemovedMarker) {
		return "", false
	}
	idx := strings.Index(code, stylemod.LocalsMarker)
	if idx == -1 {
		return "", false
	}
	return code[idx:], true
}
