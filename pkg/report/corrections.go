package report

import (
	"fmt"
	"io"
	"sort"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/ocrrc/pkg/correct"
	"github.com/walteh/ocrrc/pkg/rules"
)

// RuleApplication records how often one rule fired during correction.
type RuleApplication struct {
	Rule  rules.Rule
	Count int
}

// CountApplications tallies change log events per rule.
func CountApplications(events []correct.MatchEvent) map[rules.Rule]int {
	counts := make(map[rules.Rule]int, len(events))
	for _, ev := range events {
		counts[ev.Rule]++
	}
	return counts
}

// MergeApplications adds src tallies into dst.
func MergeApplications(dst, src map[rules.Rule]int) {
	for rule, n := range src {
		dst[rule] += n
	}
}

// RankApplications orders rule tallies by descending count, ties broken
// by pattern text, then scope.
func RankApplications(counts map[rules.Rule]int) []RuleApplication {
	out := make([]RuleApplication, 0, len(counts))
	for rule, n := range counts {
		out = append(out, RuleApplication{Rule: rule, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].Rule.Pattern != out[j].Rule.Pattern {
			return out[i].Rule.Pattern < out[j].Rule.Pattern
		}
		return out[i].Rule.Scope < out[j].Rule.Scope
	})
	return out
}

// WriteCorrectionSummary renders one "wrong → right: N times" line per
// applied rule, ranked by RankApplications. Rules that never fired are
// not listed.
func WriteCorrectionSummary(w io.Writer, counts map[rules.Rule]int) error {
	ranked := RankApplications(counts)
	if len(ranked) == 0 {
		if _, err := fmt.Fprintln(w, "no corrections applied"); err != nil {
			return errors.Errorf("writing correction summary: %w", err)
		}
		return nil
	}

	total := 0
	for _, app := range ranked {
		total += app.Count
	}
	if _, err := fmt.Fprintf(w, "corrections applied: %d\n\n", total); err != nil {
		return errors.Errorf("writing correction summary: %w", err)
	}
	for _, app := range ranked {
		times := "times"
		if app.Count == 1 {
			times = "time"
		}
		_, err := fmt.Fprintf(w, "  %q → %q (%s): %d %s\n",
			app.Rule.Pattern, app.Rule.Replacement, app.Rule.Scope, app.Count, times)
		if err != nil {
			return errors.Errorf("writing correction summary: %w", err)
		}
	}
	return nil
}
