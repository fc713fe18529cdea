// Package cli provides CLI output utilities for kyori.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hyperjump/kyori/internal/models"
)

// OutputFormat is the format for score output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteScoreResult writes a score result to w in the given format. Use
// OutputJSON for parseable output consumable by other apps.
func WriteScoreResult(w io.Writer, resp *models.ScoreResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	default:
		writeScoreResultText(w, resp)
		return nil
	}
}

func writeScoreResultText(w io.Writer, resp *models.ScoreResponse) {
	if resp.Empty {
		fmt.Fprintln(w, "No score: evaluation or background set is empty.")
		return
	}
	fmt.Fprintf(w, "FAD: %.6f\n", resp.FAD)
	fmt.Fprintf(w, "Evaluation: %d files, %d embedding rows, %dms\n",
		resp.EvalItems, resp.EvalRows, resp.QueryTime)
}
