package commands

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/ocrrc/cmd/ocrrc/opts"
	"github.com/walteh/ocrrc/pkg/corpus"
	"github.com/walteh/ocrrc/pkg/lockfile"
	"github.com/walteh/ocrrc/pkg/status"
)

// NewStatusCmd creates a new status command
func NewStatusCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check which corpus files need correcting",
		Long: `Status compares the corpus against the lock file without writing
anything.
It will:
1. Discover corpus files under the configured root
2. Hash each file and compare against the last corrected state
3. Report which files are up to date, pending, missing, or unreadable`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "status").Logger().WithContext(ctx)

			rels, err := corpus.Discover(ctx, opts.Root, corpus.DiscoverOptions{
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
				zerolog.Ctx(ctx).Warn().Err(err).Msg("lock file unreadable, treating all files as pending")
				lock = lockfile.New("")
			}

			ruleHash := opts.Set.Hash()
			w := cmd.OutOrStdout()

			var pending, current, failed int
			for _, rel := range rels {
				abs := filepath.Join(opts.Root, filepath.FromSlash(rel))
				info := status.FileInfo{Path: rel}

				text, err := opts.Reader.ReadFile(ctx, abs)
				switch {
				case err != nil:
					info.Status = status.StatusFailed
					info.Error = err
					failed++
				case lock.UpToDate(rel, status.Checksum([]byte(text)), ruleHash):
					info.Status = status.StatusCorrected
					info.Matches = lock.Files[rel].Matches
					current++
				default:
					info.Status = status.StatusPending
					pending++
				}

				fmt.Fprintln(w, status.FormatFileLine(info))
			}

			missing := lockedMissing(lock, rels)
			for _, rel := range missing {
				fmt.Fprintln(w, status.FormatFileLine(status.FileInfo{
					Path:   rel,
					Status: status.StatusMissing,
				}))
			}

			if lock.RuleSetHash != "" && lock.RuleSetHash != ruleHash {
				opts.UserLogger.LogRuleSet(false, "Rule set changed since the last run, all files need correcting", nil)
			}

			if pending == 0 && failed == 0 && len(missing) == 0 {
				opts.UserLogger.LogRunSummary(fmt.Sprintf("All %d files are up to date", current))
			} else {
				summary := fmt.Sprintf("%d files up to date, %d pending, %d unreadable", current, pending, failed)
				if len(missing) > 0 {
					summary += fmt.Sprintf(", %d missing", len(missing))
				}
				opts.UserLogger.LogRunSummary(summary)
			}
			return nil
		},
	}

	return cmd
}

// lockedMissing lists lock entries whose source file is gone from the
// corpus, sorted for stable output.
func lockedMissing(lock *lockfile.Lock, rels []string) []string {
	present := make(map[string]bool, len(rels))
	for _, rel := range rels {
		present[rel] = true
	}

	var missing []string
	for rel := range lock.Files {
		if !present[rel] {
			missing = append(missing, rel)
		}
	}
	sort.Strings(missing)
	return missing
}
