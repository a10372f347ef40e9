// Package report turns analyzer and corrector output into ranked,
// renderable summaries. All inputs are treated as finalized and
// read-only; percentages are computed over the totals they arrive with.
package report

import (
	"sort"

	"github.com/walteh/ocrrc/pkg/analyze"
	"github.com/walteh/ocrrc/pkg/rules"
)

// PatternSummary is one row of the ranked pattern table.
type PatternSummary struct {
	Pattern string
	Scope   rules.Scope
	Count   int
	Files   int
	Percent float64
}

// Summarize ranks all counted patterns by descending count, ties broken
// by pattern text, then scope. Percent is count over the sum of all
// counts; an empty Stats yields an empty summary.
func Summarize(stats *analyze.Stats) []PatternSummary {
	total := stats.Total()

	out := make([]PatternSummary, 0, len(stats.Patterns))
	for key, ps := range stats.Patterns {
		out = append(out, PatternSummary{
			Pattern: key.Pattern,
			Scope:   key.Scope,
			Count:   ps.Occurrences,
			Files:   ps.Files,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].Pattern != out[j].Pattern {
			return out[i].Pattern < out[j].Pattern
		}
		return out[i].Scope < out[j].Scope
	})

	if total > 0 {
		for i := range out {
			out[i].Percent = float64(out[i].Count) / float64(total) * 100
		}
	}
	return out
}

// Top returns at most n leading entries of a ranked summary.
// n <= 0 means no limit.
func Top(summaries []PatternSummary, n int) []PatternSummary {
	if n <= 0 || n >= len(summaries) {
		return summaries
	}
	return summaries[:n]
}
