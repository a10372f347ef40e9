// Package analyze counts OCR error-pattern candidates across corpus text.
// Counting is purely observational: the text is never mutated, matched
// spans are not consumed, and counts from separately analyzed texts merge
// additively, so corpus totals are independent of file processing order.
package analyze

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/ocrrc/pkg/rules"
	"github.com/walteh/ocrrc/pkg/scan"
)

// PatternKey identifies a counted pattern. The same pattern text may be
// tracked once per scope.
type PatternKey struct {
	Pattern string
	Scope   rules.Scope
}

// PatternStats aggregates one pattern's occurrences.
type PatternStats struct {
	Occurrences int            // Total matches counted
	Files       int            // Number of analyzed texts containing at least one match
	PerEra      map[string]int // Matches grouped by the supplied era label, if any
}

// Stats is the aggregate produced by one analysis run. One Analyze call
// yields the partial Stats for a single text; Merge combines partials.
// Treat a Stats as read-only once the run that built it completes.
type Stats struct {
	Patterns      map[PatternKey]*PatternStats
	FilesAnalyzed int
	TokensSeen    int
	CharsSeen     int
	Suspicious    SuspiciousCounts
}

// NewStats creates an empty Stats.
func NewStats() *Stats {
	return &Stats{Patterns: make(map[PatternKey]*PatternStats)}
}

// Analyze counts every position in text where a rule's pattern occurs.
// Character-level patterns are counted over the whole character sequence
// and may overlap each other freely. Word-level patterns count only exact
// whole-token matches, never substring containment. The era label is an
// opaque grouping key; when empty, no era bucket is recorded.
//
// The returned Stats is self-contained: analyzing files concurrently and
// merging the partials gives the same counts in any order.
func Analyze(ctx context.Context, text string, set *rules.Set, era string) *Stats {
	s := NewStats()
	s.FilesAnalyzed = 1
	s.CharsSeen = utf8.RuneCountInString(text)

	tokens := scan.Words(text)
	s.TokensSeen = len(tokens)

	for _, r := range set.ByScope(rules.CharacterLevel) {
		n := countOccurrences(text, r.Pattern)
		if n > 0 {
			s.add(PatternKey{Pattern: r.Pattern, Scope: rules.CharacterLevel}, era, n)
		}
	}

	wordRules := set.ByScope(rules.WordLevel)
	if len(wordRules) > 0 {
		byPattern := make(map[string]struct{}, len(wordRules))
		for _, r := range wordRules {
			byPattern[r.Pattern] = struct{}{}
		}
		for _, tok := range tokens {
			if _, ok := byPattern[tok.Text]; ok {
				s.add(PatternKey{Pattern: tok.Text, Scope: rules.WordLevel}, era, 1)
			}
		}
	}

	s.Suspicious = countSuspicious(tokens)

	zerolog.Ctx(ctx).Debug().
		Int("tokens", s.TokensSeen).
		Int("matches", s.Total()).
		Str("era", era).
		Msg("analyzed text")

	return s
}

// add records n occurrences for key, marking the pattern as present in
// this text the first time it is seen.
func (s *Stats) add(key PatternKey, era string, n int) {
	ps := s.Patterns[key]
	if ps == nil {
		ps = &PatternStats{Files: 1}
		s.Patterns[key] = ps
	}
	ps.Occurrences += n
	if era != "" {
		if ps.PerEra == nil {
			ps.PerEra = make(map[string]int)
		}
		ps.PerEra[era] += n
	}
}

// Merge combines partial Stats into a fresh aggregate. The merge is
// commutative and associative, and never mutates its inputs.
func Merge(parts ...*Stats) *Stats {
	out := NewStats()
	for _, p := range parts {
		if p == nil {
			continue
		}
		out.FilesAnalyzed += p.FilesAnalyzed
		out.TokensSeen += p.TokensSeen
		out.CharsSeen += p.CharsSeen
		out.Suspicious.MixedAlphanumeric += p.Suspicious.MixedAlphanumeric
		out.Suspicious.RepeatedRuns += p.Suspicious.RepeatedRuns

		for key, ps := range p.Patterns {
			dst := out.Patterns[key]
			if dst == nil {
				dst = &PatternStats{}
				out.Patterns[key] = dst
			}
			dst.Occurrences += ps.Occurrences
			dst.Files += ps.Files
			for era, n := range ps.PerEra {
				if dst.PerEra == nil {
					dst.PerEra = make(map[string]int)
				}
				dst.PerEra[era] += n
			}
		}
	}
	return out
}

// Total returns the sum of all pattern occurrences.
func (s *Stats) Total() int {
	total := 0
	for _, ps := range s.Patterns {
		total += ps.Occurrences
	}
	return total
}

// Keys returns all counted pattern keys in a deterministic order
// (pattern text, then scope).
func (s *Stats) Keys() []PatternKey {
	keys := make([]PatternKey, 0, len(s.Patterns))
	for key := range s.Patterns {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Pattern != keys[j].Pattern {
			return keys[i].Pattern < keys[j].Pattern
		}
		return keys[i].Scope < keys[j].Scope
	})
	return keys
}

// EraTotals sums matches per era label across all patterns.
func (s *Stats) EraTotals() map[string]int {
	totals := make(map[string]int)
	for _, ps := range s.Patterns {
		for era, n := range ps.PerEra {
			totals[era] += n
		}
	}
	return totals
}

// countOccurrences counts every position where pattern occurs in text,
// including self-overlapping positions ("aa" occurs twice in "aaa").
func countOccurrences(text, pattern string) int {
	if pattern == "" {
		return 0
	}
	n := 0
	for i := 0; i+len(pattern) <= len(text); {
		idx := strings.Index(text[i:], pattern)
		if idx < 0 {
			break
		}
		n++
		i += idx + 1
	}
	return n
}
