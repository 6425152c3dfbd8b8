package bundletrim

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/yacobolo/bundletrim/internal/bundle"
	"github.com/yacobolo/bundletrim/internal/cssasset"
	"github.com/yacobolo/bundletrim/internal/harvest"
	"github.com/yacobolo/bundletrim/internal/jsasset"
	"github.com/yacobolo/bundletrim/internal/sourcemap"
	"github.com/yacobolo/bundletrim/internal/trim"
)

// Trimmer removes unused rules from a stylesheet given the usage fragments.
type Trimmer = trim.Trimmer

// Processor runs trimming passes over bundle snapshots.
type Processor struct {
	cfg       Config
	filters   *harvest.FilterSet
	harvester *harvest.Harvester
	sources   *harvest.SourceResolver
	trimmer   trim.Trimmer
	log       *zap.Logger
}

// New validates cfg and creates a Processor. An invalid filter or whitelist
// pattern is returned as a *harvest.FilterConfigError. A nil trimmer selects
// the built-in rule pruner; a nil logger disables logging.
func New(cfg Config, trimmer Trimmer, log *zap.Logger) (*Processor, error) {
	if log == nil {
		log = zap.NewNop()
	}

	filters, err := harvest.NewFilterSet(cfg.Whitelist, cfg.Blacklist)
	if err != nil {
		return nil, err
	}
	for _, entry := range cfg.TrimOptions.Whitelist {
		if _, err := harvest.CompilePattern(entry); err != nil {
			return nil, err
		}
	}

	if trimmer == nil {
		trimmer = trim.NewPruner(log)
	}

	return &Processor{
		cfg:       cfg,
		filters:   filters,
		harvester: harvest.New(filters, log),
		sources:   harvest.NewSourceResolver(log),
		trimmer:   trimmer,
		log:       log,
	}, nil
}

// Process trims every stylesheet of s in place. Asset failures do not stop the
// pass: the failed asset keeps its content and the failure is recorded in the
// result. The returned error is reserved for configuration problems found
// before any asset is touched.
func (p *Processor) Process(s *bundle.Snapshot) (*Result, error) {
	fragments, err := p.Harvest(s)
	if err != nil {
		return nil, err
	}

	result := &Result{Fragments: len(fragments)}
	scripts := jsasset.New(p.trimmer, fragments, p.log)
	for i := range s.Assets {
		outcome := p.processAsset(&s.Assets[i], fragments, scripts)
		if outcome.Status == StatusFailed {
			p.log.Warn("Asset left unmodified", zap.String("asset", outcome.Name), zap.Error(outcome.Err))
		}
		result.Assets = append(result.Assets, outcome)
	}
	return result, nil
}

// Harvest returns the usage fragments of s: module content, markup assets,
// then the configured extra sources.
func (p *Processor) Harvest(s *bundle.Snapshot) ([]harvest.Fragment, error) {
	var extra []harvest.Fragment
	for _, a := range s.Assets {
		if a.Kind() == bundle.KindMarkup {
			extra = append(extra, harvest.Fragment{Kind: harvest.KindMarkup, Content: a.Content})
		}
	}

	resolved, err := p.sources.Resolve(p.cfg.sources())
	if err != nil {
		return nil, err
	}
	extra = append(extra, resolved...)

	fragments := p.harvester.Gather(s.Modules(), extra)
	p.log.Debug("Usage harvested", zap.Int("fragments", len(fragments)))
	return fragments, nil
}

func (p *Processor) processAsset(a *bundle.Asset, fragments []harvest.Fragment, scripts *jsasset.Rewriter) AssetOutcome {
	outcome := AssetOutcome{
		Name:        a.Name,
		Kind:        a.Kind(),
		BytesBefore: len(a.Content),
		BytesAfter:  len(a.Content),
	}

	var err error
	switch outcome.Kind {
	case bundle.KindStyleModules:
		err = p.rewriteScript(a, scripts, &outcome)
	case bundle.KindCSS:
		err = p.rewriteStylesheet(a, fragments, &outcome)
	default:
		return outcome
	}

	if err != nil {
		outcome.Status = StatusFailed
		outcome.Err = err
		outcome.BytesAfter = outcome.BytesBefore
		outcome.Modules, outcome.Removed = 0, 0
	}
	return outcome
}

func (p *Processor) rewriteScript(a *bundle.Asset, scripts *jsasset.Rewriter, outcome *AssetOutcome) error {
	inputMap := p.inputMap(a)
	res, err := scripts.Rewrite(a.Content, a.Modules, jsasset.Options{
		Name:     a.Name,
		Trim:     p.cfg.TrimOptions,
		InputMap: inputMap,
	})
	if err != nil {
		return err
	}

	outcome.Skipped = res.Skipped
	if res.Rewritten == 0 {
		return nil
	}

	var mapData json.RawMessage
	if res.Map != nil && res.Map != inputMap {
		if mapData, err = res.Map.JSON(); err != nil {
			return fmt.Errorf("encode source map: %w", err)
		}
	}

	a.Content = res.Content
	if mapData != nil {
		a.Map = mapData
	}
	outcome.Status = StatusRewritten
	outcome.BytesAfter = len(res.Content)
	outcome.Modules = res.Rewritten
	outcome.Removed = res.Removed
	return nil
}

func (p *Processor) rewriteStylesheet(a *bundle.Asset, fragments []harvest.Fragment, outcome *AssetOutcome) error {
	opts := cssasset.Options{
		Name: a.Name,
		Trim: p.cfg.TrimOptions,
	}
	if p.cfg.SourceMap.Enabled {
		opts.SourceMap = true
		opts.InlineMap = p.cfg.SourceMap.Inline
		opts.InputMap = p.inputMap(a)
	}

	res, err := cssasset.Rewrite(a.Content, fragments, p.trimmer, opts)
	if err != nil {
		return err
	}

	var mapData json.RawMessage
	if res.Map != nil {
		if mapData, err = res.Map.JSON(); err != nil {
			return fmt.Errorf("encode source map: %w", err)
		}
	}

	a.Content = res.Content
	a.Map = mapData
	outcome.Status = StatusRewritten
	outcome.BytesAfter = len(res.Content)
	outcome.Removed = res.Removed
	return nil
}

// inputMap parses the asset's own map. An unreadable map is logged and
// ignored.
func (p *Processor) inputMap(a *bundle.Asset) *sourcemap.Map {
	if !a.HasMap() {
		return nil
	}
	m, err := sourcemap.Parse(a.Map)
	if err != nil {
		p.log.Warn("Ignoring asset source map", zap.String("asset", a.Name), zap.Error(err))
		return nil
	}
	return m
}
