package bundletrim

import (
	"strings"

	"github.com/yacobolo/bundletrim/internal/bundle"
	"github.com/yacobolo/bundletrim/internal/harvest"
	"github.com/yacobolo/bundletrim/internal/stylemod"
	"github.com/yacobolo/bundletrim/internal/trim"
)

// Types shared with the internal packages.
type (
	Snapshot    = bundle.Snapshot
	Asset       = bundle.Asset
	Module      = bundle.Module
	Fragment    = harvest.Fragment
	TrimOptions = trim.Options
	TrimResult  = trim.Result
	TrimFunc    = trim.Func
)

// Snapshot I/O.
var (
	LoadSnapshot = bundle.LoadSnapshot
	ReadSnapshot = bundle.ReadSnapshot
	WriteAssets  = bundle.WriteAssets
)

// ModuleReport describes one style module of a script asset.
type ModuleReport struct {
	Asset        string
	Identifier   string
	Located      bool     // generated code found in the asset content
	CSSBytes     int      // size of the extracted stylesheet
	Placeholders []string // expressions kept out of the stylesheet
	Err          error    // extraction failure
}

// Inspect classifies and parses every style module of s without trimming.
func Inspect(s *Snapshot) []ModuleReport {
	var reports []ModuleReport
	for _, a := range s.Assets {
		if a.Kind() != bundle.KindStyleModules {
			continue
		}
		cursor := 0
		for _, m := range a.Modules {
			if !stylemod.IsStyleModule(m.Identifier, m.OriginalCode) {
				continue
			}

			report := ModuleReport{Asset: a.Name, Identifier: m.Identifier}
			if m.GeneratedCode != "" {
				if idx := strings.Index(a.Content[cursor:], m.GeneratedCode); idx >= 0 {
					report.Located = true
					cursor += idx + len(m.GeneratedCode)
				}
			}

			ex, err := stylemod.Extract(m.GeneratedCode)
			if err != nil {
				report.Err = err
			} else {
				report.CSSBytes = len(ex.RawCSS)
				for _, ph := range ex.Placeholders {
					report.Placeholders = append(report.Placeholders, ph.Expression)
				}
			}
			reports = append(reports, report)
		}
	}
	return reports
}
