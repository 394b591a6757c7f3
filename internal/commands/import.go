package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/spendsort/internal/activity"
	"github.com/cleared-dev/spendsort/internal/batch"
	"github.com/cleared-dev/spendsort/internal/categories"
	"github.com/cleared-dev/spendsort/internal/export"
	"github.com/cleared-dev/spendsort/internal/importer"
	"github.com/cleared-dev/spendsort/internal/logger"
	"github.com/cleared-dev/spendsort/internal/store"
)

type importOptions struct {
	format   string
	dryRun   bool
	patterns []string
}

func newImportCommand(opts *rootOptions) *cobra.Command {
	var flags importOptions

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import and categorize statement files",
		Long: `Import parses statement files, categorizes every row and stores the result.

With no arguments every matching file in import/ is processed and then moved
to import/processed/ (unless import.keep_processed is set).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer p.Close()
			return runImport(cmd, p, flags, args)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "", "statement format: auto, csv, chase, xlsx (default from config)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "categorize and print the summary without saving anything")
	cmd.Flags().StringSliceVar(&flags.patterns, "pattern", nil, "file name globs to pick up from import/ (default *.csv, *.xlsx, *.xlsm)")

	return cmd
}

func runImport(cmd *cobra.Command, p *project, flags importOptions, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	scanned := len(args) == 0
	var files []importer.FileInfo
	if scanned {
		var err error
		files, err = importer.Scan(p.root, flags.patterns...)
		if err != nil {
			return err
		}
	} else {
		for _, a := range args {
			info, err := os.Stat(a)
			if err != nil {
				return fmt.Errorf("reading %s: %w", a, err)
			}
			files = append(files, importer.FileInfo{Name: filepath.Base(a), Path: a, Size: info.Size()})
		}
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "No files to import.")
		return nil
	}

	format := flags.format
	if format == "" {
		format = p.cfg.Import.DefaultFormat
	}

	registry := importer.DefaultRegistry()
	processor := batch.NewProcessor(p.resolver, p.cfg.Import.Workers, logger.FromContext(ctx))

	var imported []string
	for _, f := range files {
		done, err := importFile(ctx, p, registry, processor, f, format, flags.dryRun, cmd)
		if err != nil {
			return err
		}
		if !done {
			continue
		}
		imported = append(imported, f.Name)
		if scanned && !flags.dryRun && !p.cfg.Import.KeepProcessed {
			if err := importer.MarkProcessed(p.root, f.Name); err != nil {
				return err
			}
		}
	}

	if len(imported) > 0 && !flags.dryRun {
		p.commit(ctx, "import: "+strings.Join(imported, ", "))
	}
	return nil
}

// importFile parses, categorizes and stores one file. It reports false when
// the file was skipped as a re-upload. The upload record is only kept once
// exports and the activity log are written, so a failed import can be retried.
func importFile(ctx context.Context, p *project, registry *importer.Registry, processor *batch.Processor,
	f importer.FileInfo, format string, dryRun bool, cmd *cobra.Command) (bool, error) {
	start := time.Now()
	out := cmd.OutOrStdout()
	log := logger.WithFields(logger.FromContext(ctx), map[string]any{"file": f.Name})

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", f.Name, err)
	}

	hash := importer.Hash(data)
	exists, err := p.store.UploadExists(ctx, p.userID(), hash)
	if err != nil {
		return false, err
	}
	if exists {
		log.Info().Str("hash", hash).Msg("already imported, skipping")
		fmt.Fprintf(out, "Skipping %s: already imported\n", f.Name)
		return false, nil
	}

	parser, err := registry.Detect(f.Name, format)
	if err != nil {
		return false, err
	}
	txns, stats, err := parser.Parse(bytes.NewReader(data))
	if err != nil {
		return false, fmt.Errorf("parsing %s: %w", f.Name, err)
	}

	// One snapshot per file: every row sees the same reference data.
	ref, err := p.store.Snapshot(ctx, p.userID())
	if err != nil {
		return false, err
	}
	results, err := processor.Process(ctx, p.userID(), txns, ref)
	if err != nil {
		return false, err
	}
	summary := batch.Summarize(results, categories.NewIndex(ref.Categories))

	log.Info().
		Str("format", parser.Format()).
		Int("rows", stats.Rows).
		Int("skipped", stats.Skipped).
		Int("needs_review", summary.NeedsReview).
		Dur("duration", time.Since(start)).
		Msg("categorized")

	if dryRun {
		fmt.Fprintf(out, "%s (dry run)\n", f.Name)
		printSummary(out, summary)
		return true, nil
	}

	// Export names carry the hash, so rewriting them on a retry is harmless.
	written, err := export.WriteMonthly(p.root, export.UploadName(f.Name, hash), results)
	if err != nil {
		return false, fmt.Errorf("writing exports: %w", err)
	}

	uploadID, err := p.store.SaveTransactions(ctx, p.userID(), store.Upload{
		FileName: f.Name,
		FileHash: hash,
		Size:     f.Size,
		Skipped:  stats.Skipped,
	}, results)
	if err != nil {
		return false, err
	}

	err = p.record(activity.Entry{
		Action:  activity.ActionImport,
		Details: fmt.Sprintf("%s: %d rows, %d skipped, %d need review", f.Name, len(results), stats.Skipped, summary.NeedsReview),
		Key:     uploadID,
	})
	if err != nil {
		if derr := p.store.DeleteUpload(ctx, p.userID(), uploadID); derr != nil {
			log.Error().Err(derr).Str("upload", uploadID).Msg("forgetting failed upload")
		}
		return false, err
	}

	fmt.Fprintf(out, "%s\n", f.Name)
	printSummary(out, summary)
	for _, w := range written {
		fmt.Fprintf(out, "  wrote %s\n", w)
	}
	return true, nil
}
