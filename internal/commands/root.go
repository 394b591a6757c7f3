package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/spendsort/internal/buildinfo"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	repo      string
	user      string
	logLevel  string
	logFormat string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "spendsort",
		Short:   "Categorize bank and card transactions",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.repo, "repo", ".", "project directory")
	flags.StringVar(&opts.user, "user", "", "user ID, overrides the config file and SPENDSORT_USER")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: human or json")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newImportCommand(opts),
		newCategorizeCommand(opts),
		newKeyCommand(),
		newNormalizeCommand(opts),
		newCategoriesCommand(opts),
		newOverrideCommand(opts),
		newLearnCommand(opts),
		newRecipientsCommand(opts),
		newMerchantsCommand(opts),
		newSummaryCommand(opts),
		newActivityCommand(opts),
	)

	return rootCmd
}
