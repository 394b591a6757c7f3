package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/spendsort/internal/activity"
	"github.com/cleared-dev/spendsort/internal/categories"
	"github.com/cleared-dev/spendsort/internal/logger"
	"github.com/cleared-dev/spendsort/internal/model"
)

func newCategoriesCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage spending categories",
	}

	cmd.AddCommand(
		newCategoriesListCommand(opts),
		newCategoriesAddCommand(opts),
		newCategoriesUpdateCommand(opts),
		newCategoriesDeleteCommand(opts),
		newCategoriesExportCommand(opts),
		newCategoriesImportCommand(opts),
	)

	return cmd
}

func newCategoriesListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories in keyword-matching order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer p.Close()

			cats, err := p.store.Categories(cmd.Context(), p.userID())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(cats) == 0 {
				fmt.Fprintln(out, "No categories.")
				return nil
			}
			for _, c := range cats {
				fmt.Fprintf(out, "%-24s %-16s %s\n", c.Name, c.GroupName(), strings.Join(c.Keywords, ", "))
			}
			return nil
		},
	}
}

func newCategoriesAddCommand(opts *rootOptions) *cobra.Command {
	var group string
	var keywords []string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category after the existing ones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := model.Category{Name: strings.TrimSpace(args[0]), Group: group, Keywords: keywords}
			if err := categories.Join(categories.Validate([]model.Category{c})); err != nil {
				return err
			}

			p, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer p.Close()

			if _, err := p.store.AddCategory(cmd.Context(), p.userID(), c); err != nil {
				return err
			}
			return p.categoriesChanged(cmd, "Added category "+c.Name)
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "category group")
	cmd.Flags().StringArrayVar(&keywords, "keyword", nil, "keyword matched against descriptions (repeatable)")

	return cmd
}

func newCategoriesUpdateCommand(opts *rootOptions) *cobra.Command {
	var name, group string
	var keywords []string

	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Rename a category or change its group or keywords",
		Long: `Update changes a category in place. A rename is carried over to every
override, learned mapping and stored transaction that used the old name.
Passing --keyword replaces the whole keyword list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := model.Category{Name: strings.TrimSpace(name), Group: group}
			if cmd.Flags().Changed("keyword") {
				c.Keywords = append([]string{}, keywords...)
				for _, kw := range c.Keywords {
					if strings.TrimSpace(kw) == "" {
						return fmt.Errorf("keyword must not be blank")
					}
				}
			}

			p, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer p.Close()

			if err := p.store.UpdateCategory(cmd.Context(), p.userID(), args[0], c); err != nil {
				return err
			}
			return p.categoriesChanged(cmd, "Updated category "+args[0])
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&group, "group", "", "new group")
	cmd.Flags().StringArrayVar(&keywords, "keyword", nil, "replacement keyword (repeatable)")

	return cmd
}

func newCategoriesDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer p.Close()

			if err := p.store.DeleteCategory(cmd.Context(), p.userID(), args[0]); err != nil {
				return err
			}
			return p.categoriesChanged(cmd, "Deleted category "+args[0])
		},
	}
}

func newCategoriesExportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write categories as YAML to a file or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer p.Close()

			cats, err := p.store.Categories(cmd.Context(), p.userID())
			if err != nil {
				return err
			}

			if len(args) == 0 || args[0] == "-" {
				return categories.WriteYAML(cmd.OutOrStdout(), cats)
			}

			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("creating %s: %w", args[0], err)
			}
			if err := categories.WriteYAML(f, cats); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
}

func newCategoriesImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all categories with the contents of a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening %s: %w", args[0], err)
				}
				defer f.Close()
				r = f
			}

			cats, err := categories.ReadYAML(r)
			if err != nil {
				return err
			}

			p, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer p.Close()

			if err := p.store.ReplaceCategories(cmd.Context(), p.userID(), cats); err != nil {
				return err
			}
			return p.categoriesChanged(cmd, fmt.Sprintf("Imported %d categories", len(cats)))
		},
	}
}

// categoriesChanged records a category edit in the activity log and commits it.
func (p *project) categoriesChanged(cmd *cobra.Command, details string) error {
	if err := p.record(activity.Entry{Action: activity.ActionCategories, Details: details}); err != nil {
		return err
	}
	log := logger.FromContext(cmd.Context())
	log.Info().Str("change", details).Msg("categories updated")
	fmt.Fprintln(cmd.OutOrStdout(), details)
	p.commit(cmd.Context(), "categories: "+strings.ToLower(details))
	return nil
}
