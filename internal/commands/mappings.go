package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/spendsort/internal/activity"
)

func newRecipientsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipients",
		Short: "Manage transfer recipient mappings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List recipient mappings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				p, err := opts.open(cmd)
				if err != nil {
					return err
				}
				defer p.Close()

				ref, err := p.store.Snapshot(cmd.Context(), p.userID())
				if err != nil {
					return err
				}
				printMapping(cmd, ref.Recipients, "No recipient mappings.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <name> <category>",
			Short: "Map a transfer recipient to a category",
			Long: `Add maps a recipient display name, as extracted from transfer
descriptions (for example "Yamilka Maikel"), to a category.`,
			Args: cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				name := strings.TrimSpace(args[0])
				if name == "" {
					return fmt.Errorf("recipient name must not be blank")
				}

				p, err := opts.open(cmd)
				if err != nil {
					return err
				}
				defer p.Close()

				c, err := p.category(cmd.Context(), args[1])
				if err != nil {
					return err
				}
				if err := p.store.SetRecipient(cmd.Context(), p.userID(), name, c.Name); err != nil {
					return err
				}
				err = p.record(activity.Entry{Action: activity.ActionLearnRecipient, Details: "learned " + c.Name, Key: name})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recipient %s -> %s\n", name, c.Name)
				p.commit(cmd.Context(), "recipients: "+name+" -> "+c.Name)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <name>",
			Short: "Forget a recipient mapping",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := opts.open(cmd)
				if err != nil {
					return err
				}
				defer p.Close()

				if err := p.store.DeleteRecipient(cmd.Context(), p.userID(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted recipient %s\n", args[0])
				p.commit(cmd.Context(), "recipients: delete "+args[0])
				return nil
			},
		},
	)

	return cmd
}

func newMerchantsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merchants",
		Short: "Manage learned merchant mappings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List merchant mappings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				p, err := opts.open(cmd)
				if err != nil {
					return err
				}
				defer p.Close()

				ref, err := p.store.Snapshot(cmd.Context(), p.userID())
				if err != nil {
					return err
				}
				printMapping(cmd, ref.Merchants, "No merchant mappings.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <token>",
			Short: "Forget a merchant mapping",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := opts.open(cmd)
				if err != nil {
					return err
				}
				defer p.Close()

				if err := p.store.DeleteMerchant(cmd.Context(), p.userID(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted merchant %s\n", args[0])
				p.commit(cmd.Context(), "merchants: delete "+args[0])
				return nil
			},
		},
	)

	return cmd
}
