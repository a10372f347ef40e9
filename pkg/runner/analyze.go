package runner

import (
	"context"
	"path/filepath"
	"sync/atomic"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/ocrrc/pkg/analyze"
	"github.com/walteh/ocrrc/pkg/era"
	"github.com/walteh/ocrrc/pkg/status"
)

// 📄 AnalyzedFile is the per-file outcome of an analysis pass
type AnalyzedFile struct {
	Rel   string
	Info  era.Info
	Stats *analyze.Stats
	Err   error
}

// 📊 AnalysisRun aggregates one analysis pass over a corpus
type AnalysisRun struct {
	Stats  *analyze.Stats // merged across all readable files
	Files  []AnalyzedFile // one entry per input, in input order
	Failed int
}

// ⚙️ AnalyzeOptions adjusts a single analysis pass
type AnalyzeOptions struct {
	NoEra bool // skip era grouping, matches are still counted
}

// 🔍 Analyze reads every corpus file and counts error patterns without
// modifying anything. Files that cannot be read or decoded are recorded
// as failed and excluded from the merged stats; the pass continues.
func (r *Runner) Analyze(ctx context.Context, root string, rels []string, opts AnalyzeOptions) (*AnalysisRun, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().Int("files", len(rels)).Int("jobs", r.jobs).Msg("starting analysis pass")

	r.tracker.StartOperation(ctx, len(rels))

	results := make([]AnalyzedFile, len(rels))
	var done atomic.Int64

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs)

	for i, rel := range rels {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = r.analyzeOne(gCtx, root, rel, opts)
			r.tracker.UpdateProgress(gCtx, int(done.Add(1)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Errorf("analysis pass interrupted: %w", err)
	}
	r.tracker.FinishOperation(ctx)

	run := &AnalysisRun{Files: results}
	parts := make([]*analyze.Stats, 0, len(results))
	for _, f := range results {
		if f.Err != nil {
			run.Failed++
			continue
		}
		parts = append(parts, f.Stats)
	}
	run.Stats = analyze.Merge(parts...)

	logger.Info().
		Int("files", run.Stats.FilesAnalyzed).
		Int("failed", run.Failed).
		Int("matches", run.Stats.Total()).
		Msg("analysis pass complete")

	return run, nil
}

func (r *Runner) analyzeOne(ctx context.Context, root string, rel string, opts AnalyzeOptions) AnalyzedFile {
	abs := filepath.Join(root, filepath.FromSlash(rel))
	info := era.Classify(rel)

	r.tracker.TrackFile(ctx, rel, status.FileInfo{
		Path:   rel,
		Status: status.StatusAnalyzing,
		Era:    info.Era,
	})

	text, err := r.reader.ReadFile(ctx, abs)
	if err != nil {
		r.tracker.TrackFile(ctx, rel, status.FileInfo{
			Path:   rel,
			Status: status.StatusFailed,
			Era:    info.Era,
			Error:  err,
		})
		return AnalyzedFile{Rel: rel, Info: info, Err: err}
	}

	eraLabel := info.Era
	if opts.NoEra {
		eraLabel = ""
	}
	stats := analyze.Analyze(ctx, text, r.set, eraLabel)

	r.tracker.TrackFile(ctx, rel, status.FileInfo{
		Path:    rel,
		Status:  status.StatusAnalyzed,
		Era:     info.Era,
		Matches: stats.Total(),
		Size:    int64(len(text)),
	})

	return AnalyzedFile{Rel: rel, Info: info, Stats: stats}
}
