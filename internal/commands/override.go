package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/spendsort/internal/activity"
	"github.com/cleared-dev/spendsort/internal/txnkey"
)

func newOverrideCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "override",
		Short: "Pin individual transactions to a category",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <key> <category>",
			Short: "Pin a transaction key to a category",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, _, err := txnkey.Split(args[0]); err != nil {
					return fmt.Errorf("%q: %w", args[0], err)
				}

				p, err := opts.open(cmd)
				if err != nil {
					return err
				}
				defer p.Close()

				return p.setOverride(cmd, args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "clear <key>",
			Short: "Remove the override for a transaction key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := opts.open(cmd)
				if err != nil {
					return err
				}
				defer p.Close()

				key := args[0]
				if err := p.store.ClearOverride(cmd.Context(), p.userID(), key); err != nil {
					return err
				}
				if err := p.record(activity.Entry{Action: activity.ActionClearOverride, Details: "cleared override", Key: key}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared override for %s\n", key)
				p.commit(cmd.Context(), "override: clear "+key)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List overrides",
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
				printMapping(cmd, ref.Overrides, "No overrides.")
				return nil
			},
		},
	)

	return cmd
}

// setOverride pins key to category, which must exist.
func (p *project) setOverride(cmd *cobra.Command, key, category string) error {
	ctx := cmd.Context()
	c, err := p.category(ctx, category)
	if err != nil {
		return err
	}
	if err := p.store.SetOverride(ctx, p.userID(), key, c.Name); err != nil {
		return err
	}
	if err := p.record(activity.Entry{Action: activity.ActionOverride, Details: "set to " + c.Name, Key: key}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Override %s -> %s\n", key, c.Name)
	p.commit(ctx, "override: "+key+" -> "+c.Name)
	return nil
}

// printMapping prints a name -> category map sorted by name.
func printMapping(cmd *cobra.Command, m map[string]string, empty string) {
	out := cmd.OutOrStdout()
	if len(m) == 0 {
		fmt.Fprintln(out, empty)
		return
	}
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Fprintf(out, "%-40s %s\n", k, m[k])
	}
}
