package report

import (
	"encoding/json"
	"io"
	"time"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/ocrrc/pkg/analyze"
)

// JSONReport is the machine-readable export of an analysis run. Field
// names are part of the export format and must stay stable.
type JSONReport struct {
	GeneratedAt   time.Time      `json:"generated_at"`
	CorpusRoot    string         `json:"corpus_root,omitempty"`
	FilesAnalyzed int            `json:"files_analyzed"`
	FilesFailed   int            `json:"files_failed,omitempty"`
	TokensSeen    int            `json:"tokens_seen"`
	CharsSeen     int            `json:"chars_seen"`
	TotalMatches  int            `json:"total_matches"`
	Patterns      []JSONPattern  `json:"patterns"`
	EraTotals     map[string]int `json:"era_totals,omitempty"`
	Suspicious    JSONSuspicious `json:"suspicious"`
}

type JSONPattern struct {
	Pattern string         `json:"pattern"`
	Scope   string         `json:"scope"`
	Count   int            `json:"count"`
	Files   int            `json:"files"`
	Percent float64        `json:"percent"`
	PerEra  map[string]int `json:"per_era,omitempty"`
}

type JSONSuspicious struct {
	MixedAlphanumeric int `json:"mixed_alphanumeric"`
	RepeatedRuns      int `json:"repeated_runs"`
}

// BuildJSON assembles the export structure without serializing it.
// topN limits the pattern list (<= 0 means all).
func BuildJSON(stats *analyze.Stats, meta Meta, topN int) *JSONReport {
	summaries := Top(Summarize(stats), topN)

	patterns := make([]JSONPattern, 0, len(summaries))
	for _, s := range summaries {
		jp := JSONPattern{
			Pattern: s.Pattern,
			Scope:   s.Scope.String(),
			Count:   s.Count,
			Files:   s.Files,
			Percent: s.Percent,
		}
		key := analyze.PatternKey{Pattern: s.Pattern, Scope: s.Scope}
		if ps, ok := stats.Patterns[key]; ok && len(ps.PerEra) > 0 {
			jp.PerEra = make(map[string]int, len(ps.PerEra))
			for era, n := range ps.PerEra {
				jp.PerEra[era] = n
			}
		}
		patterns = append(patterns, jp)
	}

	return &JSONReport{
		GeneratedAt:   meta.GeneratedAt,
		CorpusRoot:    meta.CorpusRoot,
		FilesAnalyzed: stats.FilesAnalyzed,
		FilesFailed:   meta.FilesFailed,
		TokensSeen:    stats.TokensSeen,
		CharsSeen:     stats.CharsSeen,
		TotalMatches:  stats.Total(),
		Patterns:      patterns,
		EraTotals:     stats.EraTotals(),
		Suspicious: JSONSuspicious{
			MixedAlphanumeric: stats.Suspicious.MixedAlphanumeric,
			RepeatedRuns:      stats.Suspicious.RepeatedRuns,
		},
	}
}

// WriteJSON serializes the export with two-space indentation.
func WriteJSON(w io.Writer, stats *analyze.Stats, meta Meta, topN int) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(BuildJSON(stats, meta, topN)); err != nil {
		return errors.Errorf("encoding json report: %w", err)
	}
	return nil
}
