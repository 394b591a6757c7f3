package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/spendsort/internal/activity"
	"github.com/cleared-dev/spendsort/internal/categories"
	"github.com/cleared-dev/spendsort/internal/categorize"
	"github.com/cleared-dev/spendsort/internal/config"
	"github.com/cleared-dev/spendsort/internal/gitops"
	"github.com/cleared-dev/spendsort/internal/logger"
	"github.com/cleared-dev/spendsort/internal/merchant"
	"github.com/cleared-dev/spendsort/internal/model"
	"github.com/cleared-dev/spendsort/internal/store"
	"github.com/cleared-dev/spendsort/internal/transfer"
)

var errNoUser = errors.New("no user configured: set user.id in " + config.FileName + ", SPENDSORT_USER or --user")

// project is an opened spendsort directory. Its logger travels in the
// command context; use logger.FromContext.
type project struct {
	root     string
	cfg      *config.Config
	store    *store.Store
	resolver *categorize.Resolver
}

// loadConfig reads the project config and applies .env, environment and
// flag overrides, in that order.
func (o *rootOptions) loadConfig() (string, *config.Config, error) {
	root, err := filepath.Abs(o.repo)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return "", nil, fmt.Errorf("loading project at %s: %w", root, err)
	}

	env, err := config.ReadEnv(filepath.Join(root, ".env"))
	if err != nil {
		return "", nil, err
	}
	if err := cfg.ApplyEnv(env); err != nil {
		return "", nil, err
	}
	o.applyFlags(cfg)
	return root, cfg, nil
}

func (o *rootOptions) applyFlags(cfg *config.Config) {
	if o.user != "" {
		cfg.User.ID = o.user
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
}

// open loads the project and connects to its database. The caller must
// Close it.
func (o *rootOptions) open(cmd *cobra.Command) (*project, error) {
	root, cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.User.ID == "" {
		return nil, errNoUser
	}

	log, err := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	log = log.With().Str("user", cfg.User.ID).Logger()
	cmd.SetContext(logger.WithContext(cmd.Context(), log))

	resolver, err := newResolver(cfg)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(databasePath(root, cfg.Database.Path), log)
	if err != nil {
		return nil, err
	}

	return &project{root: root, cfg: cfg, store: st, resolver: resolver}, nil
}

func (p *project) Close() error {
	return p.store.Close()
}

func (p *project) userID() string {
	return p.cfg.User.ID
}

// category returns the user's category called name, matched
// case-insensitively.
func (p *project) category(ctx context.Context, name string) (model.Category, error) {
	cats, err := p.store.Categories(ctx, p.userID())
	if err != nil {
		return model.Category{}, err
	}
	c, ok := categories.NewIndex(cats).Get(name)
	if !ok {
		return model.Category{}, fmt.Errorf("unknown category %q", name)
	}
	return c, nil
}

// record appends entries to the activity log.
func (p *project) record(entries ...activity.Entry) error {
	for i := range entries {
		entries[i].User = p.userID()
	}
	if err := activity.Append(p.root, entries...); err != nil {
		return fmt.Errorf("writing activity log: %w", err)
	}
	return nil
}

// commit stages and commits the project when git.auto_commit is on and the
// directory is a git repository. A clean tree is not an error.
func (p *project) commit(ctx context.Context, message string) {
	if !p.cfg.Git.AutoCommit || !gitops.IsRepo(p.root) || !gitops.Available() {
		return
	}
	author := gitops.Author{Name: p.cfg.Git.AuthorName, Email: p.cfg.Git.AuthorEmail}
	hash, err := gitops.CommitAll(ctx, p.root, message, author)
	log := logger.FromContext(ctx)
	switch {
	case errors.Is(err, gitops.ErrNothingToCommit):
	case err != nil:
		log.Warn().Err(err).Msg("auto-commit failed")
	default:
		log.Debug().Str("commit", hash).Msg("committed")
	}
}

func newResolver(cfg *config.Config) (*categorize.Resolver, error) {
	n, err := merchant.New(cfg.Normalizer)
	if err != nil {
		return nil, fmt.Errorf("normalizer config: %w", err)
	}
	d, err := transfer.NewDetector(cfg.Transfer.Phrases)
	if err != nil {
		return nil, fmt.Errorf("transfer config: %w", err)
	}
	return categorize.New(n, d), nil
}

// databasePath resolves database.path against the project root. Absolute
// paths and SQLite URIs are used as is.
func databasePath(root, path string) string {
	if path == store.MemoryDSN || strings.HasPrefix(path, "file:") || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
