package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/spendsort/internal/categories"
	"github.com/cleared-dev/spendsort/internal/config"
	"github.com/cleared-dev/spendsort/internal/gitops"
	"github.com/cleared-dev/spendsort/internal/logger"
	"github.com/cleared-dev/spendsort/internal/store"
)

func newInitCommand(opts *rootOptions) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new spendsort project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.repo
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			if opts.user == "" {
				return errNoUser
			}

			return runInit(cmd, opts, absDir, email)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "user email")

	return cmd
}

func runInit(cmd *cobra.Command, opts *rootOptions, dir, email string) error {
	if _, err := os.Stat(filepath.Join(dir, config.FileName)); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, dir)
	}

	// Create directory structure.
	dirs := []string{
		"data",
		"exports",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write spendsort.yaml.
	cfg := config.Default(opts.user, email)
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	opts.applyFlags(cfg)

	log, err := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return err
	}

	// Seed the database with the default categories.
	st, err := store.Open(databasePath(dir, cfg.Database.Path), log)
	if err != nil {
		return err
	}
	defer st.Close()

	seeded, err := st.SeedDefaults(cmd.Context(), cfg.User.ID, categories.Defaults(), categories.DefaultRecipients())
	if err != nil {
		return fmt.Errorf("seeding categories: %w", err)
	}
	log.Debug().Bool("seeded", seeded).Msg("default categories")

	// Write .gitignore. The database and secrets stay out of history.
	gitignore := "data/\n.env\nimport/*\n!import/.gitkeep\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Write import/.gitkeep.
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	out := cmd.OutOrStdout()
	if !gitops.Available() {
		log.Warn().Msg("git not found, skipping repository setup")
		fmt.Fprintf(out, "Initialized spendsort project at %s\n", dir)
		return nil
	}

	// Initialize git and create initial commit.
	if !gitops.IsRepo(dir) {
		if err := gitops.Init(cmd.Context(), dir); err != nil {
			return err
		}
	}

	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := gitops.CommitAll(cmd.Context(), dir, "init: Initialize spendsort for "+cfg.User.ID, author)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized spendsort project at %s (%s)\n", dir, hash)
	return nil
}
