package report

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
	"gitlab.com/tozd/go/errors"
)

// Comparison measures how far a corrected text drifted from its
// original, in runes.
type Comparison struct {
	RunesBefore int
	RunesAfter  int
	Inserted    int
	Deleted     int
	Unchanged   int
}

// Changed reports whether the two texts differ at all.
func (c Comparison) Changed() bool {
	return c.Inserted > 0 || c.Deleted > 0
}

// Compare diffs original against corrected and tallies rune-level
// insertions, deletions, and unchanged spans.
func Compare(original, corrected string) Comparison {
	c := Comparison{
		RunesBefore: utf8.RuneCountInString(original),
		RunesAfter:  utf8.RuneCountInString(corrected),
	}
	if original == corrected {
		c.Unchanged = c.RunesBefore
		return c
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(original, corrected, false)
	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			c.Inserted += n
		case diffmatchpatch.DiffDelete:
			c.Deleted += n
		case diffmatchpatch.DiffEqual:
			c.Unchanged += n
		}
	}
	return c
}

// FileComparison is the per-file entry of a comparison report.
type FileComparison struct {
	Path    string
	Matches int
	Comparison
}

// WriteComparison renders per-file drift lines plus corpus totals.
// Unchanged files are listed with a dash so the report stays a complete
// inventory of what was examined.
func WriteComparison(w io.Writer, files []FileComparison) error {
	p := &printer{w: w}

	p.printf("CORRECTION COMPARISON\n")
	p.printf("=====================\n\n")

	var totalMatches, totalIns, totalDel, changedFiles int
	for _, f := range files {
		marker := "-"
		if f.Changed() {
			marker = "~"
			changedFiles++
		}
		p.printf("  %s %-50s matches=%-5d +%d/-%d runes\n",
			marker, f.Path, f.Matches, f.Inserted, f.Deleted)
		totalMatches += f.Matches
		totalIns += f.Inserted
		totalDel += f.Deleted
	}

	p.printf("\nfiles compared: %d (%d changed)\n", len(files), changedFiles)
	p.printf("total matches:  %d\n", totalMatches)
	p.printf("rune drift:     +%d/-%d\n", totalIns, totalDel)

	if p.err != nil {
		return errors.Errorf("writing comparison report: %w", p.err)
	}
	return nil
}

// DiffPreview renders a short inline view of the first differing
// region, for log lines and dry runs. maxRunes bounds each side.
func DiffPreview(original, corrected string, maxRunes int) string {
	if original == corrected {
		return ""
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(original, corrected, false)
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			continue
		}
		text := d.Text
		if utf8.RuneCountInString(text) > maxRunes {
			runes := []rune(text)
			text = string(runes[:maxRunes]) + "…"
		}
		sign := "+"
		if d.Type == diffmatchpatch.DiffDelete {
			sign = "-"
		}
		return fmt.Sprintf("%s%q", sign, text)
	}
	return ""
}
