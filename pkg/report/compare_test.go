package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name      string
		original  string
		corrected string
		check     func(t *testing.T, c Comparison)
	}{
		{
			name:      "identical_texts",
			original:  "the morning paper",
			corrected: "the morning paper",
			check: func(t *testing.T, c Comparison) {
				assert.False(t, c.Changed(), "identical texts should not count as changed")
				assert.Equal(t, 17, c.Unchanged, "every rune should be unchanged")
				assert.Zero(t, c.Inserted, "no insertions expected")
				assert.Zero(t, c.Deleted, "no deletions expected")
			},
		},
		{
			name:      "single_substitution",
			original:  "tbe paper",
			corrected: "the paper",
			check: func(t *testing.T, c Comparison) {
				assert.True(t, c.Changed(), "differing texts should count as changed")
				assert.Equal(t, 1, c.Inserted, "one rune inserted")
				assert.Equal(t, 1, c.Deleted, "one rune deleted")
				assert.Equal(t, 9, c.RunesBefore, "original length in runes")
				assert.Equal(t, 9, c.RunesAfter, "corrected length in runes")
			},
		},
		{
			name:      "shrinking_replacement",
			original:  "rnorning",
			corrected: "morning",
			check: func(t *testing.T, c Comparison) {
				assert.Equal(t, 8, c.RunesBefore, "original length in runes")
				assert.Equal(t, 7, c.RunesAfter, "corrected length in runes")
				assert.Equal(t, c.RunesAfter-c.Unchanged, c.Inserted, "insertions account for new runes")
				assert.Equal(t, c.RunesBefore-c.Unchanged, c.Deleted, "deletions account for lost runes")
			},
		},
		{
			name:      "multibyte_counted_in_runes",
			original:  "ﬁne",
			corrected: "fine",
			check: func(t *testing.T, c Comparison) {
				assert.Equal(t, 3, c.RunesBefore, "ligature counts as one rune")
				assert.Equal(t, 4, c.RunesAfter, "expansion counts per rune")
			},
		},
		{
			name:      "empty_to_empty",
			original:  "",
			corrected: "",
			check: func(t *testing.T, c Comparison) {
				assert.False(t, c.Changed(), "empty pair should be unchanged")
				assert.Zero(t, c.Unchanged, "nothing to count")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Compare(tt.original, tt.corrected))
		})
	}
}

func TestWriteComparison(t *testing.T) {
	files := []FileComparison{
		{Path: "1885/tex/page1_ocr.txt", Matches: 4, Comparison: Compare("tbe barn", "the bam")},
		{Path: "1885/tex/page2_ocr.txt", Matches: 0, Comparison: Compare("clean text", "clean text")},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteComparison(&buf, files), "writing comparison should succeed")

	out := buf.String()
	assert.Contains(t, out, "CORRECTION COMPARISON", "report should carry its banner")
	assert.Contains(t, out, "~ 1885/tex/page1_ocr.txt", "changed files should be marked")
	assert.Contains(t, out, "- 1885/tex/page2_ocr.txt", "unchanged files should still be listed")
	assert.Contains(t, out, "files compared: 2 (1 changed)", "totals should be printed")
	assert.Contains(t, out, "total matches:  4", "match totals should be printed")
}

func TestWriteComparison_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteComparison(&buf, nil), "empty comparison should still render")
	assert.Contains(t, buf.String(), "files compared: 0", "zero totals should print")
}

func TestDiffPreview(t *testing.T) {
	assert.Empty(t, DiffPreview("same", "same", 10), "identical texts should preview empty")

	got := DiffPreview("tbe", "the", 10)
	assert.True(t, strings.HasPrefix(got, "+") || strings.HasPrefix(got, "-"),
		"preview should lead with a diff sign, got %q", got)

	long := DiffPreview("", strings.Repeat("x", 50), 5)
	assert.Contains(t, long, "…", "long spans should be truncated")
}
