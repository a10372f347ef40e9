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
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/ocrrc/cmd/ocrrc/opts"
	"github.com/walteh/ocrrc/pkg/corpus"
	"github.com/walteh/ocrrc/pkg/history"
	"github.com/walteh/ocrrc/pkg/report"
	"github.com/walteh/ocrrc/pkg/runner"
	"github.com/walteh/ocrrc/pkg/status"
)

// NewAnalyzeCmd creates a new analyze command
func NewAnalyzeCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		jsonPath string
		topN     int
		noEra    bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Count error patterns across the corpus without changing it",
		Args:  cobra.MaximumNArgs(1),
		Long: `Analyze reads every corpus page and counts how often each rule's
error pattern occurs. An optional path argument overrides the configured
corpus root.
It will:
1. Discover corpus files under the configured root
2. Count character and word pattern occurrences in parallel
3. Print a ranked report with per-era totals
4. Record the run in the history database`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "analyze").Logger().WithContext(ctx)

			startedAt := time.Now()

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

			r := runner.New(opts.Reader, opts.Set, opts.Tracker, opts.Jobs())
			run, err := r.Analyze(ctx, root, rels, runner.AnalyzeOptions{NoEra: noEra})
			if err != nil {
				return errors.Errorf("analyzing corpus: %w", err)
			}

			for _, f := range run.Files {
				if f.Err != nil {
					opts.UserLogger.LogFileResult(status.FileInfo{
						Path:   f.Rel,
						Status: status.StatusFailed,
						Error:  f.Err,
					})
				}
			}

			meta := report.Meta{
				GeneratedAt: startedAt,
				CorpusRoot:  root,
				FilesFailed: run.Failed,
			}

			if err := report.WriteText(cmd.OutOrStdout(), run.Stats, meta, textTop(opts, topN)); err != nil {
				return errors.Errorf("writing report: %w", err)
			}

			if target := jsonTarget(opts, jsonPath); target != "" {
				if err := writeJSONReport(target, run, meta, jsonTop(opts)); err != nil {
					return errors.Errorf("writing JSON report: %w", err)
				}
				zerolog.Ctx(ctx).Info().Str("path", target).Msg("wrote JSON report")
			}

			if err := recordAnalysisRun(ctx, opts, root, run, startedAt); err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Msg("recording run history")
			}

			opts.UserLogger.LogRunSummary(fmt.Sprintf(
				"Analyzed %d files (%d failed), %d pattern matches",
				len(run.Files), run.Failed, run.Stats.Total()))
			return nil
		},
	}

	cmd.Flags().StringVar(&jsonPath, "json", "", "also write the report as JSON to this path")
	cmd.Flags().IntVar(&topN, "top", 0, "limit the pattern table (0 uses the configured value)")
	cmd.Flags().BoolVar(&noEra, "no-era", false, "skip the per-era match breakdown")

	return cmd
}

// corpusRoot resolves the corpus root for one run: a positional path
// argument overrides the configured root.
func corpusRoot(opts *opts.RootOpts, args []string) (string, error) {
	if len(args) == 0 {
		return opts.Root, nil
	}
	abs, err := filepath.Abs(args[0])
	if err != nil {
		return "", errors.Errorf("resolving corpus path %q: %w", args[0], err)
	}
	return abs, nil
}

// textTop picks the pattern table size: flag, then config, then default.
func textTop(opts *opts.RootOpts, flagValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	if opts.Config.Report != nil && opts.Config.Report.TopPatterns > 0 {
		return opts.Config.Report.TopPatterns
	}
	return 30
}

func jsonTop(opts *opts.RootOpts) int {
	if opts.Config.Report != nil && opts.Config.Report.JSONTop > 0 {
		return opts.Config.Report.JSONTop
	}
	return 100
}

// jsonTarget resolves where the JSON report goes: the --json flag wins,
// then the configured report directory. Empty means no JSON output.
func jsonTarget(opts *opts.RootOpts, flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if opts.Config.Report != nil && opts.Config.Report.OutDir != "" {
		dir := opts.Config.Report.OutDir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(filepath.Dir(opts.ConfigPath), dir)
		}
		return filepath.Join(dir, "analysis.json")
	}
	return ""
}

func writeJSONReport(path string, run *runner.AnalysisRun, meta report.Meta, topN int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Errorf("creating report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Errorf("creating report file: %w", err)
	}
	defer f.Close()

	if err := report.WriteJSON(f, run.Stats, meta, topN); err != nil {
		return err
	}
	return nil
}

// recordAnalysisRun stores the pass in the history database. History is
// an observability aid, so callers treat failures here as warnings.
func recordAnalysisRun(ctx context.Context, opts *opts.RootOpts, root string, run *runner.AnalysisRun, startedAt time.Time) error {
	store, err := history.Open(ctx, opts.HistoryPath)
	if err != nil {
		return err
	}
	defer store.Close()

	summaries := report.Summarize(run.Stats)
	patterns := make([]history.RunPattern, 0, len(summaries))
	for i, s := range summaries {
		patterns = append(patterns, history.RunPattern{
			Rank:    i + 1,
			Pattern: s.Pattern,
			Scope:   s.Scope.String(),
			Matches: s.Count,
			Files:   s.Files,
		})
	}

	_, err = store.RecordRun(ctx, history.Run{
		Kind:        history.KindAnalyze,
		CorpusRoot:  root,
		RuleSetHash: opts.Set.Hash(),
		StartedAt:   startedAt,
		FinishedAt:  time.Now(),
		FileCount:   len(run.Files),
		FailedCount: run.Failed,
		MatchCount:  run.Stats.Total(),
	}, patterns)
	return err
}
