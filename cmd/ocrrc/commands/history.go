package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/ocrrc/cmd/ocrrc/opts"
	"github.com/walteh/ocrrc/pkg/history"
)

// NewHistoryCmd creates a new history command
func NewHistoryCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		limit   int
		pattern string
		scope   string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded analysis and correction runs",
		Long: `History lists past runs from the history database, newest first.
With --pattern it shows how one error pattern's match count moved
across runs instead, oldest first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "history").Logger().WithContext(ctx)

			if _, err := os.Stat(opts.HistoryPath); os.IsNotExist(err) {
				opts.UserLogger.LogRunSummary("No runs recorded yet")
				return nil
			}

			store, err := history.Open(ctx, opts.HistoryPath)
			if err != nil {
				return errors.Errorf("opening history database: %w", err)
			}
			defer store.Close()

			w := cmd.OutOrStdout()

			if pattern != "" {
				points, err := store.Trend(ctx, pattern, scope, limit)
				if err != nil {
					return errors.Errorf("querying pattern trend: %w", err)
				}
				if len(points) == 0 {
					fmt.Fprintf(w, "no recorded matches for %q (%s)\n", pattern, scope)
					return nil
				}
				fmt.Fprintf(w, "trend for %q (%s):\n\n", pattern, scope)
				for _, p := range points {
					fmt.Fprintf(w, "  run %-4d %s  %d matches\n",
						p.RunID, p.StartedAt.Format("2006-01-02 15:04"), p.Matches)
				}
				return nil
			}

			runs, err := store.ListRuns(ctx, limit)
			if err != nil {
				return errors.Errorf("listing runs: %w", err)
			}
			if len(runs) == 0 {
				opts.UserLogger.LogRunSummary("No runs recorded yet")
				return nil
			}

			fmt.Fprintf(w, "%-5s %-8s %-17s %7s %7s %8s\n",
				"id", "kind", "started", "files", "failed", "matches")
			for _, r := range runs {
				fmt.Fprintf(w, "%-5d %-8s %-17s %7d %7d %8d\n",
					r.ID, r.Kind, r.StartedAt.Format("2006-01-02 15:04"),
					r.FileCount, r.FailedCount, r.MatchCount)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "maximum rows to show (0 for all)")
	cmd.Flags().StringVar(&pattern, "pattern", "", "show the match trend for this error pattern")
	cmd.Flags().StringVar(&scope, "scope", "word", "scope of --pattern (word or character)")

	return cmd
}
