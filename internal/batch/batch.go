// Package batch categorizes the rows of one upload concurrently against a
// single reference data snapshot.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/spendsort/internal/categorize"
	"github.com/cleared-dev/spendsort/internal/model"
	"github.com/cleared-dev/spendsort/internal/txnkey"
)

// Processor fans rows out over a bounded worker pool.
type Processor struct {
	resolver *categorize.Resolver
	workers  int
	log      zerolog.Logger
}

// NewProcessor returns a Processor. workers <= 0 uses GOMAXPROCS.
func NewProcessor(resolver *categorize.Resolver, workers int, log zerolog.Logger) *Processor {
	if resolver == nil {
		resolver = categorize.Default()
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Processor{resolver: resolver, workers: workers, log: log}
}

// Process categorizes txns. Output order matches input order. Expenses go
// through the resolver; everything else gets an income label. ref must not
// be modified while Process runs.
func (p *Processor) Process(ctx context.Context, userID string, txns []model.Transaction, ref *model.RefData) ([]model.CategorizedTransaction, error) {
	start := time.Now()
	out := make([]model.CategorizedTransaction, len(txns))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i := range txns {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = p.one(userID, txns[i], ref)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("categorizing batch: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("categorizing batch: %w", err)
	}

	p.log.Debug().
		Str("user", userID).
		Int("rows", len(txns)).
		Int("workers", p.workers).
		Dur("duration", time.Since(start)).
		Msg("batch categorized")
	return out, nil
}

func (p *Processor) one(userID string, txn model.Transaction, ref *model.RefData) model.CategorizedTransaction {
	if !txn.IsExpense() {
		return model.CategorizedTransaction{
			Transaction: txn,
			Key:         txnkey.Key(txn.Description, txn.Amount, txn.Date),
			Category:    categorize.IncomeCategory(txn.Description),
			Status:      model.StatusIncome,
		}
	}

	tr := p.resolver.Explain(userID, txn, ref)
	return model.CategorizedTransaction{
		Transaction: txn,
		Key:         tr.Key,
		Merchant:    tr.Merchant,
		Recipient:   tr.Recipient,
		Category:    tr.Result.Category,
		Status:      tr.Result.Status,
	}
}
