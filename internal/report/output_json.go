package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/yacobolo/bundletrim"
)

// JSONOutput represents the structured JSON export schema
type JSONOutput struct {
	Version   string      `json:"version"`
	Timestamp string      `json:"timestamp"`
	Summary   JSONSummary `json:"summary"`
	Assets    []JSONAsset `json:"assets"`
}

// JSONSummary contains pass-wide counts
type JSONSummary struct {
	TotalAssets int `json:"total_assets"`
	Rewritten   int `json:"rewritten"`
	Failed      int `json:"failed"`
	Untouched   int `json:"untouched"`
	Fragments   int `json:"usage_fragments"`
	BytesSaved  int `json:"bytes_saved"`
}

// JSONAsset represents the outcome of a single asset
type JSONAsset struct {
	Name         string   `json:"name"`
	Kind         string   `json:"kind"`
	Status       string   `json:"status"`
	BytesBefore  int      `json:"bytes_before"`
	BytesAfter   int      `json:"bytes_after"`
	StyleModules int      `json:"style_modules,omitempty"`
	RulesRemoved int      `json:"rules_removed,omitempty"`
	Skipped      []string `json:"skipped,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// WriteJSON writes the pass result as JSON
func WriteJSON(w io.Writer, result *bundletrim.Result) error {
	output := buildJSONOutput(result, time.Now())
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// buildJSONOutput converts Result to JSONOutput
func buildJSONOutput(result *bundletrim.Result, now time.Time) JSONOutput {
	assets := make([]JSONAsset, len(result.Assets))
	for i, a := range result.Assets {
		assets[i] = JSONAsset{
			Name:         a.Name,
			Kind:         a.Kind.String(),
			Status:       a.Status.String(),
			BytesBefore:  a.BytesBefore,
			BytesAfter:   a.BytesAfter,
			StyleModules: a.Modules,
			RulesRemoved: a.Removed,
			Skipped:      a.Skipped,
		}
		if a.Err != nil {
			assets[i].Error = a.Err.Error()
		}
	}

	return JSONOutput{
		Version:   "1.0",
		Timestamp: now.Format(time.RFC3339),
		Summary: JSONSummary{
			TotalAssets: len(result.Assets),
			Rewritten:   result.Count(bundletrim.StatusRewritten),
			Failed:      result.Count(bundletrim.StatusFailed),
			Untouched:   result.Count(bundletrim.StatusUntouched),
			Fragments:   result.Fragments,
			BytesSaved:  result.Saved(),
		},
		Assets: assets,
	}
}
