package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/spendsort/internal/activity"
	"github.com/cleared-dev/spendsort/internal/categorize"
	"github.com/cleared-dev/spendsort/internal/logger"
	"github.com/cleared-dev/spendsort/internal/txnkey"
)

func newLearnCommand(opts *rootOptions) *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "learn <description> <category>",
		Short: "Remember a category for a merchant or transfer recipient",
		Long: `Learn records a manual correction so future imports pick it up.

Transfers with a recipient teach the recipient mapping, every other
description teaches the mapping for its merchant token. With --key the
transaction itself is also pinned with an override.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if key != "" {
				if _, _, err := txnkey.Split(key); err != nil {
					return fmt.Errorf("%q: %w", key, err)
				}
			}

			p, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer p.Close()

			return runLearn(cmd, p, args[0], args[1], key)
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "transaction key to override as well")

	return cmd
}

func runLearn(cmd *cobra.Command, p *project, description, category, key string) error {
	ctx := cmd.Context()
	c, err := p.category(ctx, category)
	if err != nil {
		return err
	}

	kind, target := p.resolver.LearningTarget(description)
	entry := activity.Entry{Details: "learned " + c.Name, Key: target}
	switch kind {
	case categorize.TargetRecipient:
		err = p.store.SetRecipient(ctx, p.userID(), target, c.Name)
		entry.Action = activity.ActionLearnRecipient
	default:
		err = p.store.SetMerchant(ctx, p.userID(), target, c.Name)
		entry.Action = activity.ActionLearnMerchant
	}
	if err != nil {
		return err
	}
	if err := p.record(entry); err != nil {
		return err
	}
	log := logger.FromContext(ctx)
	log.Info().Str("kind", string(kind)).Str("target", target).Str("category", c.Name).Msg("learned")
	fmt.Fprintf(cmd.OutOrStdout(), "Learned %s %s -> %s\n", kind, target, c.Name)

	if key != "" {
		return p.setOverride(cmd, key, c.Name)
	}
	p.commit(ctx, fmt.Sprintf("learn: %s %s -> %s", kind, target, c.Name))
	return nil
}
