// Package report prints the outcome of a trimming pass.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yacobolo/bundletrim"
)

// Reporter writes human readable pass results.
type Reporter struct {
	w         io.Writer
	useColors bool
}

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer, useColors bool) *Reporter {
	return &Reporter{w: w, useColors: useColors}
}

// ShouldUseColors determines if colors should be enabled
func ShouldUseColors(force bool) bool {
	// Explicit flag wins
	if force {
		return true
	}

	// Check for FORCE_COLOR environment variable (GitHub Actions, etc.)
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	// GitHub Actions supports colors
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}

	// Auto-detect TTY
	if fileInfo, _ := os.Stdout.Stat(); fileInfo != nil && (fileInfo.Mode()&os.ModeCharDevice) != 0 {
		return true
	}

	return false
}

// PrintOutcomes prints one line per asset that had a handler.
func (r *Reporter) PrintOutcomes(result *bundletrim.Result) {
	for _, a := range result.Assets {
		switch a.Status {
		case bundletrim.StatusRewritten:
			fmt.Fprintf(r.w, "%s %s\n",
				RenderStyle(StyleCyan, a.Name+":", r.useColors),
				RenderStyle(StyleGreen, describeRewrite(a), r.useColors))
		case bundletrim.StatusFailed:
			fmt.Fprintf(r.w, "%s %s %v\n",
				RenderStyle(StyleCyan, a.Name+":", r.useColors),
				RenderStyle(StyleRed, "failed, left unmodified:", r.useColors),
				a.Err)
		default:
			continue
		}

		for _, id := range a.Skipped {
			fmt.Fprintf(r.w, "\t%s %s\n", RenderStyle(StyleYellow, "not found in asset:", r.useColors), id)
		}
	}
}

func describeRewrite(a bundletrim.AssetOutcome) string {
	var parts []string
	if a.Modules > 0 {
		parts = append(parts, pluralizeCount(a.Modules, "style module", "style modules"))
	}
	if a.Removed > 0 {
		parts = append(parts, pluralizeCount(a.Removed, "rule", "rules")+" removed")
	}
	parts = append(parts, fmt.Sprintf("%s -> %s", formatBytes(a.BytesBefore), formatBytes(a.BytesAfter)))
	return strings.Join(parts, ", ")
}

// PrintSummary outputs the asset count summary
func (r *Reporter) PrintSummary(result *bundletrim.Result) {
	rewritten := result.Count(bundletrim.StatusRewritten)
	failed := result.Count(bundletrim.StatusFailed)
	untouched := result.Count(bundletrim.StatusUntouched)

	fmt.Fprintln(r.w, "")
	fmt.Fprintf(r.w, "%s (%d rewritten, %d failed, %d untouched):\n",
		pluralizeCount(len(result.Assets), "asset", "assets"), rewritten, failed, untouched)
	fmt.Fprintf(r.w, "* usage fragments: %d\n", result.Fragments)
	fmt.Fprintf(r.w, "* saved: %s\n", RenderStyle(StyleGreen, formatBytes(result.Saved()), r.useColors))

	if failed > 0 {
		fmt.Fprintln(r.w, "")
		fmt.Fprintln(r.w, RenderStyle(StyleGray, "Hint: Run with --verbose to see why a style module was rejected", r.useColors))
	}
}

// PrintInspection lists the style modules found in a snapshot.
func (r *Reporter) PrintInspection(reports []bundletrim.ModuleReport) {
	for _, m := range reports {
		location := fmt.Sprintf("%s: %s", m.Asset, m.Identifier)
		switch {
		case m.Err != nil:
			fmt.Fprintf(r.w, "%s %s %v\n",
				RenderStyle(StyleCyan, location, r.useColors),
				RenderStyle(StyleRed, "unsupported:", r.useColors),
				m.Err)
		default:
			fmt.Fprintf(r.w, "%s %s css, %s\n",
				RenderStyle(StyleCyan, location, r.useColors),
				formatBytes(m.CSSBytes),
				pluralizeCount(len(m.Placeholders), "placeholder", "placeholders"))
			for _, expr := range m.Placeholders {
				fmt.Fprintf(r.w, "\t%s\n", RenderStyle(StyleGray, expr, r.useColors))
			}
		}
		if !m.Located {
			fmt.Fprintf(r.w, "\t%s\n", RenderStyle(StyleYellow, "generated code not found in asset", r.useColors))
		}
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintf(r.w, "%s\n", pluralizeCount(len(reports), "style module", "style modules"))
}

// pluralizeCount returns a formatted string with count and singular/plural form
func pluralizeCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

func formatBytes(n int) string {
	const unit = 1024
	switch {
	case n < 0:
		return "-" + formatBytes(-n)
	case n < unit:
		return fmt.Sprintf("%d B", n)
	case n < unit*unit:
		return fmt.Sprintf("%.1f KiB", float64(n)/unit)
	default:
		return fmt.Sprintf("%.1f MiB", float64(n)/(unit*unit))
	}
}
