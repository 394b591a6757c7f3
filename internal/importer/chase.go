package importer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/spendsort/internal/model"
)

// ChaseParser parses Chase bank checking CSV exports. Unlike CSVParser it
// trusts the fixed Chase layout and rejects rows it cannot read.
type ChaseParser struct{}

const (
	chaseDateFormat = "01/02/2006"
	chaseMinFields  = 5
	chaseColDate    = 1
	chaseColDesc    = 2
	chaseColAmount  = 3
)

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse reads a Chase CSV. Rows may carry a trailing empty field, as real
// exports do.
func (p *ChaseParser) Parse(r io.Reader) ([]model.Transaction, Stats, error) {
	records, err := readCSV(r)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("reading chase CSV: %w", err)
	}

	var stats Stats
	if len(records) <= 1 {
		return nil, stats, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		if isBlankRow(rec) {
			continue
		}
		stats.Rows++
		txn, err := parseChaseRow(rec)
		if err != nil {
			return nil, stats, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, stats, nil
}

func parseChaseRow(rec []string) (model.Transaction, error) {
	if len(rec) < chaseMinFields {
		return model.Transaction{}, fmt.Errorf("expected at least %d fields, got %d", chaseMinFields, len(rec))
	}

	date := strings.TrimSpace(rec[chaseColDate])
	if _, err := time.Parse(chaseDateFormat, date); err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", date, err)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(rec[chaseColAmount]))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", rec[chaseColAmount], err)
	}

	return model.Transaction{
		Date:        date,
		Description: strings.TrimSpace(rec[chaseColDesc]),
		Amount:      amount,
	}, nil
}
