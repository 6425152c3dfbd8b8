package report

import (
	"fmt"
	"io"

	"github.com/yacobolo/bundletrim"
)

// OutputFormat selects how a pass result is printed.
type OutputFormat int

// Output formats.
const (
	OutputText    OutputFormat = iota // one line per asset plus summary
	OutputSummary                     // summary only
	OutputJSON
)

// DetermineOutputFormat selects the appropriate output format based on flags
func DetermineOutputFormat(formatFlag string, quiet bool) OutputFormat {
	// Explicit -quiet flag wins (exit code only)
	if quiet {
		return OutputSummary // will be suppressed by the caller
	}

	switch formatFlag {
	case "summary":
		return OutputSummary
	case "json":
		return OutputJSON
	default:
		return OutputText
	}
}

// WriteOutput writes the pass result in the specified format
func WriteOutput(w io.Writer, result *bundletrim.Result, format OutputFormat, useColors bool) error {
	switch format {
	case OutputJSON:
		if err := WriteJSON(w, result); err != nil {
			return fmt.Errorf("writing JSON: %w", err)
		}
	case OutputSummary:
		NewReporter(w, useColors).PrintSummary(result)
	default:
		reporter := NewReporter(w, useColors)
		reporter.PrintOutcomes(result)
		reporter.PrintSummary(result)
	}
	return nil
}
