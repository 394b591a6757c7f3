package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/spendsort/internal/batch"
	"github.com/cleared-dev/spendsort/internal/config"
	"github.com/cleared-dev/spendsort/internal/logger"
	"github.com/cleared-dev/spendsort/internal/model"
	"github.com/cleared-dev/spendsort/internal/txnkey"
)

// txnFlags are the flags that describe a single transaction.
type txnFlags struct {
	amount string
	date   string
}

func (f *txnFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.amount, "amount", "", "amount, negative for expenses (required)")
	cmd.Flags().StringVar(&f.date, "date", "", "transaction date as it appears in the statement")
	_ = cmd.MarkFlagRequired("amount")
}

func (f *txnFlags) transaction(description string) (model.Transaction, error) {
	amount, err := decimal.NewFromString(f.amount)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", f.amount, err)
	}
	return model.Transaction{Description: description, Amount: amount, Date: f.date}, nil
}

func newCategorizeCommand(opts *rootOptions) *cobra.Command {
	var tf txnFlags
	var explain bool

	cmd := &cobra.Command{
		Use:   "categorize <description>",
		Short: "Categorize a single transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txn, err := tf.transaction(args[0])
			if err != nil {
				return err
			}

			p, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer p.Close()

			return runCategorize(cmd, p, txn, explain)
		},
	}

	tf.register(cmd)
	cmd.Flags().BoolVar(&explain, "explain", false, "show which rule produced the category")

	return cmd
}

func runCategorize(cmd *cobra.Command, p *project, txn model.Transaction, explain bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	ref, err := p.store.Snapshot(ctx, p.userID())
	if err != nil {
		return err
	}

	if !explain || !txn.IsExpense() {
		results, err := batch.NewProcessor(p.resolver, 1, logger.FromContext(ctx)).Process(ctx, p.userID(), []model.Transaction{txn}, ref)
		if err != nil {
			return err
		}
		r := results[0]
		fmt.Fprintf(out, "%s (%s)\n", r.Category, r.Status)
		if explain {
			fmt.Fprintln(out, "  rule: income")
			fmt.Fprintf(out, "  key: %s\n", r.Key)
		}
		return nil
	}

	tr := p.resolver.Explain(p.userID(), txn, ref)
	fmt.Fprintf(out, "%s (%s)\n", tr.Result.Category, tr.Result.Status)
	fmt.Fprintf(out, "  rule: %s\n", tr.Rule)
	if tr.Match != "" {
		fmt.Fprintf(out, "  match: %s\n", tr.Match)
	}
	fmt.Fprintf(out, "  key: %s\n", tr.Key)
	if tr.Merchant != "" {
		fmt.Fprintf(out, "  merchant: %s\n", tr.Merchant)
	}
	if tr.Recipient != "" {
		fmt.Fprintf(out, "  recipient: %s\n", tr.Recipient)
	}
	return nil
}

func newKeyCommand() *cobra.Command {
	var tf txnFlags

	cmd := &cobra.Command{
		Use:   "key <description>",
		Short: "Print the stable key of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txn, err := tf.transaction(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), txnkey.Key(txn.Description, txn.Amount, txn.Date))
			return nil
		},
	}

	tf.register(cmd)

	return cmd
}

func newNormalizeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <description>",
		Short: "Print the merchant token and transfer recipient of a description",
		Long: `Normalize prints the merchant token the resolver would look up for a
description. Inside a project the configured normalizer and transfer phrases
are used, elsewhere the defaults.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default("", "")
			if _, loaded, err := opts.loadConfig(); err == nil {
				cfg = loaded
			}
			resolver, err := newResolver(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			desc := args[0]
			fmt.Fprintf(out, "merchant: %s\n", resolver.Normalizer().Normalize(desc))
			if resolver.Detector().IsTransfer(desc) {
				name, ok := resolver.Detector().ExtractRecipient(desc)
				if !ok {
					name = "(none)"
				}
				fmt.Fprintf(out, "recipient: %s\n", name)
			}
			return nil
		},
	}
}
