package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/ocrrc/cmd/ocrrc/opts"
	"github.com/walteh/ocrrc/pkg/corpus"
)

// NewCleanCmd creates a new clean command
func NewCleanCmd(opts *opts.RootOpts) *cobra.Command {
	var withHistory bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove corrected output files and the lock file",
		Long: `Clean deletes everything a correction pass produced, leaving the
original corpus untouched.
It will:
1. Discover corpus files under the configured root
2. Remove each file's corrected copy if one exists
3. Remove the lock file (and the history database with --history)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "clean").Logger().WithContext(ctx)

			rels, err := corpus.Discover(ctx, opts.Root, corpus.DiscoverOptions{
				Include: opts.Config.Corpus.Include,
				Ignore:  opts.Config.Corpus.Ignore,
			})
			if err != nil {
				return errors.Errorf("discovering corpus files: %w", err)
			}

			suffix := ""
			if opts.Config.Correct != nil {
				suffix = opts.Config.Correct.Suffix
			}

			removed := 0
			for _, rel := range rels {
				abs := filepath.Join(opts.Root, filepath.FromSlash(rel))
				dst := corpus.CorrectedPath(abs, suffix)
				if err := os.Remove(dst); err != nil {
					if os.IsNotExist(err) {
						continue
					}
					return errors.Errorf("removing corrected file %s: %w", dst, err)
				}
				zerolog.Ctx(ctx).Debug().Str("path", dst).Msg("removed corrected file")
				removed++
			}

			if err := os.Remove(opts.LockPath); err != nil && !os.IsNotExist(err) {
				return errors.Errorf("removing lock file: %w", err)
			}

			if withHistory {
				if err := os.Remove(opts.HistoryPath); err != nil && !os.IsNotExist(err) {
					return errors.Errorf("removing history database: %w", err)
				}
			}

			opts.UserLogger.LogRunSummary(fmt.Sprintf("Removed %d corrected files", removed))
			return nil
		},
	}

	cmd.Flags().BoolVar(&withHistory, "history", false, "also remove the history database")

	return cmd
}
