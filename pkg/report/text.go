package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/ocrrc/pkg/analyze"
)

// Meta carries run context that the analyzer itself does not track.
type Meta struct {
	GeneratedAt time.Time
	CorpusRoot  string
	FilesFailed int
}

// WriteText renders the full analysis report: ranked top patterns,
// per-era totals, and suspicious token counts. topN limits the pattern
// table (<= 0 means all).
func WriteText(w io.Writer, stats *analyze.Stats, meta Meta, topN int) error {
	p := &printer{w: w}

	p.printf("OCR ERROR PATTERN ANALYSIS\n")
	p.printf("==========================\n\n")
	if !meta.GeneratedAt.IsZero() {
		p.printf("generated:      %s\n", meta.GeneratedAt.Format("2006-01-02 15:04:05"))
	}
	if meta.CorpusRoot != "" {
		p.printf("corpus root:    %s\n", meta.CorpusRoot)
	}
	p.printf("files analyzed: %d\n", stats.FilesAnalyzed)
	if meta.FilesFailed > 0 {
		p.printf("files failed:   %d\n", meta.FilesFailed)
	}
	p.printf("tokens seen:    %d\n", stats.TokensSeen)
	p.printf("chars seen:     %d\n", stats.CharsSeen)
	p.printf("total matches:  %d\n", stats.Total())

	summaries := Top(Summarize(stats), topN)
	p.printf("\nTOP ERROR PATTERNS\n")
	if len(summaries) == 0 {
		p.printf("  none\n")
	}
	for i, s := range summaries {
		p.printf("  %3d. %-14q %-10s %8d  %6.2f%%  in %d file(s)\n",
			i+1, s.Pattern, s.Scope, s.Count, s.Percent, s.Files)
	}

	if eras := stats.EraTotals(); len(eras) > 0 {
		p.printf("\nMATCHES BY ERA\n")
		for _, e := range rankEras(eras) {
			p.printf("  %-16s %8d\n", e.label, e.count)
		}
	}

	p.printf("\nSUSPICIOUS TOKENS\n")
	p.printf("  mixed alphanumeric:      %d\n", stats.Suspicious.MixedAlphanumeric)
	p.printf("  repeated character runs: %d\n", stats.Suspicious.RepeatedRuns)

	if p.err != nil {
		return errors.Errorf("writing text report: %w", p.err)
	}
	return nil
}

// printer collects the first write error so the report body reads as a
// straight sequence of prints.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

type eraCount struct {
	label string
	count int
}

func rankEras(totals map[string]int) []eraCount {
	out := make([]eraCount, 0, len(totals))
	for label, n := range totals {
		out = append(out, eraCount{label: label, count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].label < out[j].label
	})
	return out
}
