package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/ocrrc/cmd/ocrrc/commands"
	"github.com/walteh/ocrrc/cmd/ocrrc/opts"
)

var (
	// Flags
	configFile string
	debug      bool
	jobs       int
)

// newRootCmd wires the command tree around one shared RootOpts. The
// options are initialized in PersistentPreRunE, after cobra has parsed
// flags, so --config and --debug take effect before any command runs.
func newRootCmd() *cobra.Command {
	o := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "ocrrc",
		Short: "Analyze and correct recurring OCR errors in scanned newspaper text",
		Long: `ocrrc works on corpora of OCR output from scanned historical newspapers.
It counts recurring recognition errors (like "tbe" for "the"), corrects
them with an ordered substitution rule set, and tracks what has already
been corrected so repeat runs stay cheap.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug {
				setupLogging()
			}
			if err := o.Init(cmd.Context(), configFile); err != nil {
				return errors.Errorf("initializing: %w", err)
			}
			o.JobsOverride = jobs
			return nil
		},
	}

	addRootFlags(cmd)

	cmd.AddCommand(
		commands.NewAnalyzeCmd(o),
		commands.NewCorrectCmd(o),
		commands.NewStatusCmd(o),
		commands.NewRulesCmd(o),
		commands.NewHistoryCmd(o),
		commands.NewCleanCmd(o),
		newVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (default: probe .ocrrc.yaml and friends)")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().IntVarP(&jobs, "jobs", "j", 0, "worker count (0 uses the config, then one per CPU)")
}

// setupLogging configures zerolog based on flags. Logs go to stderr so
// stdout stays clean for reports. The returned logger carries no level
// of its own, so verbosity is controlled entirely by the global level
// and --debug can take effect after context creation.
func setupLogging() zerolog.Logger {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	return logger
}
