package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/spendsort/internal/activity"
	"github.com/cleared-dev/spendsort/internal/batch"
	"github.com/cleared-dev/spendsort/internal/categories"
	"github.com/cleared-dev/spendsort/internal/export"
	"github.com/cleared-dev/spendsort/internal/model"
)

func newSummaryCommand(opts *rootOptions) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize stored transactions",
		Long: `Summary totals every stored transaction of the user. With --month it reads
the export files under exports/YYYY-MM/ instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer p.Close()

			ctx := cmd.Context()
			var txns []model.CategorizedTransaction
			if month != "" {
				txns, err = export.ReadMonth(p.root, month)
			} else {
				txns, err = p.store.Transactions(ctx, p.userID())
			}
			if err != nil {
				return err
			}

			cats, err := p.store.Categories(ctx, p.userID())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(txns) == 0 {
				fmt.Fprintln(out, "No transactions.")
				return nil
			}
			printSummary(out, batch.Summarize(txns, categories.NewIndex(cats)))
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "summarize exports/YYYY-MM only")

	return cmd
}

func newActivityCommand(opts *rootOptions) *cobra.Command {
	var tail int

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show the activity log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, _, err := opts.loadConfig()
			if err != nil {
				return err
			}

			entries, err := activity.Read(root)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No activity.")
				return nil
			}
			for _, e := range activity.Tail(entries, tail) {
				fmt.Fprintf(out, "%s  %-10s %-16s %-40s %s\n",
					e.Timestamp.Format("2006-01-02 15:04"), e.User, e.Action, e.Details, e.Key)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&tail, "tail", "n", 20, "number of most recent entries to show, 0 for all")

	return cmd
}
