// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package runner

import (
	"context"
	"path/filepath"
	"sync/atomic"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/ocrrc/pkg/corpus"
	"github.com/walteh/ocrrc/pkg/correct"
	"github.com/walteh/ocrrc/pkg/era"
	"github.com/walteh/ocrrc/pkg/lockfile"
	"github.com/walteh/ocrrc/pkg/report"
	"github.com/walteh/ocrrc/pkg/rules"
	"github.com/walteh/ocrrc/pkg/status"
)

// ⚙️ CorrectOptions configure a correction pass
type CorrectOptions struct {
	// Lock enables skip-if-unchanged. Nil disables it; every file is
	// corrected from scratch and nothing is recorded.
	Lock *lockfile.Lock

	// Suffix is inserted before the extension of corrected output files.
	// Empty means corpus.DefaultCorrectedSuffix.
	Suffix string

	// DryRun computes every correction but writes no files and leaves
	// the lock untouched.
	DryRun bool
}

// 📄 CorrectedFile is the per-file outcome of a correction pass
type CorrectedFile struct {
	Rel           string
	Info          era.Info
	Status        status.FileStatus
	Matches       int
	ContentHash   string
	CorrectedHash string
	Applications  map[rules.Rule]int
	Comparison    report.Comparison
	Err           error
}

// ✨ CorrectionRun aggregates one correction pass
type CorrectionRun struct {
	Files        []CorrectedFile
	Applications map[rules.Rule]int
	DryRun       bool
	Corrected    int // files with at least one applied rule
	Unchanged    int // files scanned with no matches
	Skipped      int // files the lock proved unchanged
	Failed       int
	TotalMatches int // corrections applied in this pass, skipped files excluded
}

// 🔄 Correct rewrites every corpus file under the rule set, writing each
// corrected page next to its source. Corrected output is never fed back
// through the rules. Hashes are computed over decoded text, so changing
// the corpus encoding reprocesses every file.
func (r *Runner) Correct(ctx context.Context, root string, rels []string, opts CorrectOptions) (*CorrectionRun, error) {
	logger := zerolog.Ctx(ctx)
	ruleHash := r.set.Hash()

	logger.Info().
		Int("files", len(rels)).
		Int("jobs", r.jobs).
		Bool("dry_run", opts.DryRun).
		Str("rule_set_hash", ruleHash).
		Msg("starting correction pass")

	r.tracker.StartOperation(ctx, len(rels))

	results := make([]CorrectedFile, len(rels))
	var done atomic.Int64

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs)

	for i, rel := range rels {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = r.correctOne(gCtx, root, rel, ruleHash, opts)
			r.tracker.UpdateProgress(gCtx, int(done.Add(1)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Errorf("correction pass interrupted: %w", err)
	}
	r.tracker.FinishOperation(ctx)

	run := &CorrectionRun{
		Files:        results,
		Applications: make(map[rules.Rule]int),
		DryRun:       opts.DryRun,
	}

	seen := make(map[string]struct{}, len(rels))
	for _, f := range results {
		seen[f.Rel] = struct{}{}
		report.MergeApplications(run.Applications, f.Applications)

		switch f.Status {
		case status.StatusCorrected:
			run.Corrected++
			run.TotalMatches += f.Matches
		case status.StatusAnalyzed:
			run.Unchanged++
		case status.StatusSkipped:
			run.Skipped++
		case status.StatusFailed:
			run.Failed++
		}

		if opts.Lock == nil || opts.DryRun {
			continue
		}
		switch f.Status {
		case status.StatusCorrected:
			opts.Lock.Put(f.Rel, lockfile.FileLock{
				ContentHash:   f.ContentHash,
				CorrectedHash: f.CorrectedHash,
				Matches:       f.Matches,
			})
		case status.StatusAnalyzed:
			opts.Lock.Put(f.Rel, lockfile.FileLock{ContentHash: f.ContentHash})
		case status.StatusFailed:
			opts.Lock.Remove(f.Rel)
		}
	}

	if opts.Lock != nil && !opts.DryRun {
		opts.Lock.RuleSetHash = ruleHash
		// Forget files that left the corpus
		for rel := range opts.Lock.Files {
			if _, ok := seen[rel]; !ok {
				opts.Lock.Remove(rel)
			}
		}
	}

	logger.Info().
		Int("corrected", run.Corrected).
		Int("unchanged", run.Unchanged).
		Int("skipped", run.Skipped).
		Int("failed", run.Failed).
		Int("matches", run.TotalMatches).
		Msg("correction pass complete")

	return run, nil
}

func (r *Runner) correctOne(ctx context.Context, root string, rel string, ruleHash string, opts CorrectOptions) CorrectedFile {
	abs := filepath.Join(root, filepath.FromSlash(rel))
	info := era.Classify(rel)

	text, err := r.reader.ReadFile(ctx, abs)
	if err != nil {
		r.tracker.TrackFile(ctx, rel, status.FileInfo{
			Path:   rel,
			Status: status.StatusFailed,
			Era:    info.Era,
			Error:  err,
		})
		return CorrectedFile{Rel: rel, Info: info, Status: status.StatusFailed, Err: err}
	}

	contentHash := status.Checksum([]byte(text))

	if opts.Lock != nil && opts.Lock.UpToDate(rel, contentHash, ruleHash) {
		prev := opts.Lock.Files[rel]
		r.tracker.TrackFile(ctx, rel, status.FileInfo{
			Path:     rel,
			Status:   status.StatusSkipped,
			Era:      info.Era,
			Matches:  prev.Matches,
			Checksum: contentHash,
		})
		return CorrectedFile{
			Rel:         rel,
			Info:        info,
			Status:      status.StatusSkipped,
			Matches:     prev.Matches,
			ContentHash: contentHash,
		}
	}

	r.tracker.TrackFile(ctx, rel, status.FileInfo{
		Path:   rel,
		Status: status.StatusCorrecting,
		Era:    info.Era,
	})

	res := correct.Correct(ctx, text, r.set)
	if !res.WasModified() {
		r.tracker.TrackFile(ctx, rel, status.FileInfo{
			Path:     rel,
			Status:   status.StatusAnalyzed,
			Era:      info.Era,
			Checksum: contentHash,
		})
		return CorrectedFile{Rel: rel, Info: info, Status: status.StatusAnalyzed, ContentHash: contentHash}
	}

	out := CorrectedFile{
		Rel:           rel,
		Info:          info,
		Status:        status.StatusCorrected,
		Matches:       len(res.ChangeLog),
		ContentHash:   contentHash,
		CorrectedHash: status.Checksum([]byte(res.CorrectedText)),
		Applications:  report.CountApplications(res.ChangeLog),
		Comparison:    report.Compare(text, res.CorrectedText),
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", rel).
		Int("matches", out.Matches).
		Str("first_change", report.DiffPreview(text, res.CorrectedText, 24)).
		Msg("corrected page")

	if !opts.DryRun {
		dst := corpus.CorrectedPath(abs, opts.Suffix)
		if err := corpus.WriteCorrected(ctx, dst, res.CorrectedText); err != nil {
			out.Status = status.StatusFailed
			out.Err = errors.Errorf("writing corrected output for %s: %w", rel, err)
			r.tracker.TrackFile(ctx, rel, status.FileInfo{
				Path:   rel,
				Status: status.StatusFailed,
				Era:    info.Era,
				Error:  out.Err,
			})
			return out
		}
	}

	r.tracker.TrackFile(ctx, rel, status.FileInfo{
		Path:     rel,
		Status:   status.StatusCorrected,
		Era:      info.Era,
		Matches:  out.Matches,
		Checksum: contentHash,
	})

	return out
}
