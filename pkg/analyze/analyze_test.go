package analyze

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/ocrrc/pkg/rules"
)

func mustSet(t *testing.T, rs []rules.Rule) *rules.Set {
	t.Helper()
	set, err := rules.NewSet(rs)
	require.NoError(t, err)
	return set
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		rules []rules.Rule
		era   string
		check func(t *testing.T, s *Stats)
	}{
		{
			name: "character_counts_every_position",
			text: "The lamp fell low.",
			rules: []rules.Rule{
				{Pattern: "l", Replacement: "1", Scope: rules.CharacterLevel},
			},
			check: func(t *testing.T, s *Stats) {
				key := PatternKey{Pattern: "l", Scope: rules.CharacterLevel}
				require.Contains(t, s.Patterns, key)
				assert.Equal(t, 4, s.Patterns[key].Occurrences, "every literal l should be counted")
				assert.Equal(t, 1, s.Patterns[key].Files)
			},
		},
		{
			name: "overlapping_character_rules_count_independently",
			text: "light lily",
			rules: []rules.Rule{
				{Pattern: "l", Replacement: "1", Scope: rules.CharacterLevel},
				{Pattern: "li", Replacement: "h", Scope: rules.CharacterLevel},
			},
			check: func(t *testing.T, s *Stats) {
				l := s.Patterns[PatternKey{Pattern: "l", Scope: rules.CharacterLevel}]
				li := s.Patterns[PatternKey{Pattern: "li", Scope: rules.CharacterLevel}]
				require.NotNil(t, l)
				require.NotNil(t, li)
				assert.Equal(t, 3, l.Occurrences, "counting is observational, l is not consumed by li")
				assert.Equal(t, 2, li.Occurrences)
			},
		},
		{
			name: "self_overlapping_pattern",
			text: "aaa",
			rules: []rules.Rule{
				{Pattern: "aa", Replacement: "a", Scope: rules.CharacterLevel},
			},
			check: func(t *testing.T, s *Stats) {
				key := PatternKey{Pattern: "aa", Scope: rules.CharacterLevel}
				assert.Equal(t, 2, s.Patterns[key].Occurrences, "aa occurs at two positions in aaa")
			},
		},
		{
			name: "word_rule_requires_exact_token",
			text: "tbe tbent tbe.",
			rules: []rules.Rule{
				{Pattern: "tbe", Replacement: "the", Scope: rules.WordLevel},
			},
			check: func(t *testing.T, s *Stats) {
				key := PatternKey{Pattern: "tbe", Scope: rules.WordLevel}
				require.Contains(t, s.Patterns, key)
				assert.Equal(t, 1, s.Patterns[key].Occurrences,
					"neither tbent nor tbe. is an exact token match")
			},
		},
		{
			name: "word_and_character_rules_both_count",
			text: "aud the crowd",
			rules: []rules.Rule{
				{Pattern: "aud", Replacement: "and", Scope: rules.WordLevel},
				{Pattern: "d", Replacement: "cl", Scope: rules.CharacterLevel},
			},
			check: func(t *testing.T, s *Stats) {
				word := s.Patterns[PatternKey{Pattern: "aud", Scope: rules.WordLevel}]
				char := s.Patterns[PatternKey{Pattern: "d", Scope: rules.CharacterLevel}]
				require.NotNil(t, word)
				require.NotNil(t, char)
				assert.Equal(t, 1, word.Occurrences)
				assert.Equal(t, 2, char.Occurrences, "d inside the word-rule token still counts")
			},
		},
		{
			name: "era_label_buckets_counts",
			text: "tbe tbe",
			rules: []rules.Rule{
				{Pattern: "tbe", Replacement: "the", Scope: rules.WordLevel},
			},
			era: "1900-1919 (WWI era)",
			check: func(t *testing.T, s *Stats) {
				key := PatternKey{Pattern: "tbe", Scope: rules.WordLevel}
				require.Contains(t, s.Patterns, key)
				assert.Equal(t, map[string]int{"1900-1919 (WWI era)": 2}, s.Patterns[key].PerEra)
			},
		},
		{
			name: "empty_text_is_not_an_error",
			text: "",
			rules: []rules.Rule{
				{Pattern: "l", Replacement: "1", Scope: rules.CharacterLevel},
			},
			check: func(t *testing.T, s *Stats) {
				assert.Empty(t, s.Patterns)
				assert.Equal(t, 1, s.FilesAnalyzed)
				assert.Equal(t, 0, s.TokensSeen)
				assert.Equal(t, 0, s.Total())
			},
		},
		{
			name: "no_inferred_matches",
			text: "l1fted",
			rules: []rules.Rule{
				{Pattern: "l", Replacement: "1", Scope: rules.CharacterLevel},
			},
			check: func(t *testing.T, s *Stats) {
				key := PatternKey{Pattern: "l", Scope: rules.CharacterLevel}
				require.Contains(t, s.Patterns, key)
				assert.Equal(t, 1, s.Patterns[key].Occurrences,
					"only the literal l matches, the existing 1 is not a match")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Analyze(context.Background(), tt.text, mustSet(t, tt.rules), tt.era)
			require.NotNil(t, s)
			tt.check(t, s)
		})
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	set := mustSet(t, []rules.Rule{
		{Pattern: "tbe", Replacement: "the", Scope: rules.WordLevel},
		{Pattern: "l", Replacement: "1", Scope: rules.CharacterLevel},
		{Pattern: "rn", Replacement: "m", Scope: rules.CharacterLevel},
	})
	text := "tbe lantern burned all rnorning"

	a := Analyze(context.Background(), text, set, "pre-1850")
	b := Analyze(context.Background(), text, set, "pre-1850")

	require.Equal(t, a.Patterns, b.Patterns, "same text and rules must count identically")
	assert.Equal(t, a.Total(), b.Total())
}

// Partitioning a corpus must not change the counts: analyzing parts and
// merging equals analyzing the concatenation.
func TestMerge_OrderIndependence(t *testing.T) {
	set := mustSet(t, []rules.Rule{
		{Pattern: "tbe", Replacement: "the", Scope: rules.WordLevel},
		{Pattern: "l", Replacement: "1", Scope: rules.CharacterLevel},
	})

	partA := "tbe lamp fell"
	partB := "low tbe light"
	ctx := context.Background()

	merged := Merge(Analyze(ctx, partA, set, ""), Analyze(ctx, partB, set, ""))
	mergedReversed := Merge(Analyze(ctx, partB, set, ""), Analyze(ctx, partA, set, ""))
	whole := Analyze(ctx, partA+"\n"+partB, set, "")

	for _, key := range whole.Keys() {
		assert.Equal(t, whole.Patterns[key].Occurrences, merged.Patterns[key].Occurrences,
			"merged counts should match whole-corpus counts for %v", key)
		assert.Equal(t, merged.Patterns[key].Occurrences, mergedReversed.Patterns[key].Occurrences,
			"merge should be commutative for %v", key)
	}
	assert.Equal(t, whole.Total(), merged.Total())
	assert.Equal(t, whole.TokensSeen, merged.TokensSeen)
}

func TestMerge_Aggregates(t *testing.T) {
	set := mustSet(t, []rules.Rule{
		{Pattern: "tbe", Replacement: "the", Scope: rules.WordLevel},
	})
	ctx := context.Background()

	parts := []*Stats{
		Analyze(ctx, "tbe one", set, "pre-1850"),
		Analyze(ctx, "tbe two tbe", set, "1850-1874"),
		Analyze(ctx, "nothing here", set, "pre-1850"),
	}

	merged := Merge(parts...)
	key := PatternKey{Pattern: "tbe", Scope: rules.WordLevel}

	require.Contains(t, merged.Patterns, key)
	assert.Equal(t, 3, merged.Patterns[key].Occurrences)
	assert.Equal(t, 2, merged.Patterns[key].Files, "pattern appears in two of three texts")
	assert.Equal(t, 3, merged.FilesAnalyzed)
	assert.Equal(t, map[string]int{"pre-1850": 1, "1850-1874": 2}, merged.Patterns[key].PerEra)
	assert.Equal(t, map[string]int{"pre-1850": 1, "1850-1874": 2}, merged.EraTotals())

	// Inputs stay untouched
	assert.Equal(t, 1, parts[0].Patterns[key].Occurrences)
}

func TestSuspicious(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantMixed    int
		wantRepeated int
	}{
		{
			name:      "mixed_alphanumeric_tokens",
			text:      "l1fted c0mpany plain 1851",
			wantMixed: 2,
		},
		{
			name:         "repeated_character_runs",
			text:         "coooper street",
			wantRepeated: 1,
		},
		{
			name: "double_letters_are_normal",
			text: "Mississippi letter",
		},
		{
			name: "punctuation_runs_ignored",
			text: "wait... ---",
		},
		{
			name:         "token_can_trip_both",
			text:         "c0oool",
			wantMixed:    1,
			wantRepeated: 1,
		},
		{
			name: "empty",
			text: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suspicious(tt.text)
			assert.Equal(t, tt.wantMixed, got.MixedAlphanumeric, "mixed alphanumeric count")
			assert.Equal(t, tt.wantRepeated, got.RepeatedRuns, "repeated run count")
		})
	}
}
