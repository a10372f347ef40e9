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

package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/ocrrc/cmd/ocrrc/opts"
	"github.com/walteh/ocrrc/pkg/corpus"
	"github.com/walteh/ocrrc/pkg/history"
	"github.com/walteh/ocrrc/pkg/lockfile"
	"github.com/walteh/ocrrc/pkg/report"
	"github.com/walteh/ocrrc/pkg/rules"
	"github.com/walteh/ocrrc/pkg/runner"
	"github.com/walteh/ocrrc/pkg/status"
)

// NewCorrectCmd creates a new correct command
func NewCorrectCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		dryRun bool
		suffix string
	)

	cmd := &cobra.Command{
		Use:   "correct [path]",
		Short: "Write corrected copies of corpus files",
		Args:  cobra.MaximumNArgs(1),
		Long: `Correct applies the rule set to every corpus page and writes each
corrected page next to its source. An optional path argument overrides
the configured corpus root.
It will:
1. Discover corpus files under the configured root
2. Skip files the lock file proves are already corrected
3. Apply word rules, then character rules, left to right
4. Write corrected copies and update the lock file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "correct").Logger().WithContext(ctx)

			startedAt := time.Now()

			effDry := dryRun
			effSuffix := suffix
			if cfg := opts.Config.Correct; cfg != nil {
				if !cmd.Flags().Changed("dry-run") {
					effDry = cfg.DryRun
				}
				if !cmd.Flags().Changed("suffix") && cfg.Suffix != "" {
					effSuffix = cfg.Suffix
				}
			}

			root, err := corpusRoot(opts, args)
			if err != nil {
				return err
			}

			rels, err := corpus.Discover(ctx, root, corpus.DiscoverOptions{
				Include: opts.Config.Corpus.Include,
				Ignore:  opts.Config.Corpus.Ignore,
			})
			if err != nil {
				return errors.Errorf("discovering corpus files: %w", err)
			}
			if len(rels) == 0 {
				opts.UserLogger.LogRunSummary("No corpus files found")
				return nil
			}

			lock, err := lockfile.Load(ctx, opts.LockPath)
			if err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Msg("lock file unreadable, correcting from scratch")
				lock = lockfile.New("")
			}

			r := runner.New(opts.Reader, opts.Set, opts.Tracker, opts.Jobs())
			run, err := r.Correct(ctx, root, rels, runner.CorrectOptions{
				Lock:   lock,
				Suffix: effSuffix,
				DryRun: effDry,
			})
			if err != nil {
				return errors.Errorf("correcting corpus: %w", err)
			}

			for _, f := range run.Files {
				switch {
				case f.Err != nil:
					opts.UserLogger.LogFileResult(status.FileInfo{
						Path:   f.Rel,
						Status: status.StatusFailed,
						Error:  f.Err,
					})
				case effDry && f.Status == status.StatusCorrected:
					opts.UserLogger.LogDryRun(f.Rel, f.Matches)
				}
			}

			if err := report.WriteCorrectionSummary(cmd.OutOrStdout(), run.Applications); err != nil {
				return errors.Errorf("writing correction summary: %w", err)
			}

			if comps := changedComparisons(run); len(comps) > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
				if err := report.WriteComparison(cmd.OutOrStdout(), comps); err != nil {
					return errors.Errorf("writing comparison report: %w", err)
				}
			}

			if !effDry {
				if err := lockfile.Save(ctx, opts.LockPath, lock); err != nil {
					return errors.Errorf("saving lock file: %w", err)
				}
				if err := recordCorrectionRun(ctx, opts, root, run, startedAt); err != nil {
					zerolog.Ctx(ctx).Warn().Err(err).Msg("recording run history")
				}
			}

			verb := "Corrected"
			if effDry {
				verb = "Would correct"
			}
			opts.UserLogger.LogRunSummary(fmt.Sprintf(
				"%s %d files (%d unchanged, %d skipped, %d failed), %d corrections",
				verb, run.Corrected, run.Unchanged, run.Skipped, run.Failed, run.TotalMatches))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute corrections but write nothing")
	cmd.Flags().StringVar(&suffix, "suffix", "", "suffix for corrected output files (default \"_corrected\")")

	return cmd
}

func changedComparisons(run *runner.CorrectionRun) []report.FileComparison {
	var comps []report.FileComparison
	for _, f := range run.Files {
		if f.Status == status.StatusCorrected {
			comps = append(comps, report.FileComparison{
				Path:       f.Rel,
				Matches:    f.Matches,
				Comparison: f.Comparison,
			})
		}
	}
	return comps
}

// recordCorrectionRun stores the pass in the history database. Per-rule
// file counts come from the per-file application maps.
func recordCorrectionRun(ctx context.Context, opts *opts.RootOpts, root string, run *runner.CorrectionRun, startedAt time.Time) error {
	store, err := history.Open(ctx, opts.HistoryPath)
	if err != nil {
		return err
	}
	defer store.Close()

	filesPerRule := make(map[rules.Rule]int)
	for _, f := range run.Files {
		for rule := range f.Applications {
			filesPerRule[rule]++
		}
	}

	ranked := report.RankApplications(run.Applications)
	patterns := make([]history.RunPattern, 0, len(ranked))
	for i, app := range ranked {
		patterns = append(patterns, history.RunPattern{
			Rank:    i + 1,
			Pattern: app.Rule.Pattern,
			Scope:   app.Rule.Scope.String(),
			Matches: app.Count,
			Files:   filesPerRule[app.Rule],
		})
	}

	_, err = store.RecordRun(ctx, history.Run{
		Kind:        history.KindCorrect,
		CorpusRoot:  root,
		RuleSetHash: opts.Set.Hash(),
		StartedAt:   startedAt,
		FinishedAt:  time.Now(),
		FileCount:   len(run.Files),
		FailedCount: run.Failed,
		MatchCount:  run.TotalMatches,
	}, patterns)
	return err
}
