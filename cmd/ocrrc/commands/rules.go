package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/walteh/ocrrc/cmd/ocrrc/opts"
	"github.com/walteh/ocrrc/pkg/rules"
)

// NewRulesCmd creates a new rules command
func NewRulesCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the effective rule set in application order",
		Long: `Rules prints every substitution rule after config loading, pack
resolution, and validation, in the exact order correction applies them:
word rules before character rules, longer patterns before shorter ones.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			set := opts.Set
			w := cmd.OutOrStdout()

			words := len(set.ByScope(rules.WordLevel))
			chars := len(set.ByScope(rules.CharacterLevel))
			fmt.Fprintf(w, "rule set: %d rules (%d word, %d character)\n", set.Len(), words, chars)
			fmt.Fprintf(w, "hash:     %s\n\n", set.Hash())

			for _, r := range set.Rules() {
				if r.Priority != 0 {
					fmt.Fprintf(w, "  %s priority %d\n", r, r.Priority)
					continue
				}
				fmt.Fprintf(w, "  %s\n", r)
			}

			opts.UserLogger.LogRuleSet(true, fmt.Sprintf("Rule set valid: %d rules", set.Len()), nil)
			return nil
		},
	}

	return cmd
}
