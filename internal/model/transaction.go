package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateLayouts are the date formats seen in bank and card exports, tried in
// order. US month-first layouts win over day-first ones.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"Jan 2, 2006",
	"02-Jan-2006",
	"2 Jan 2006",
}

// Transaction is one parsed statement row handed to the categorizer.
type Transaction struct {
	Description string
	Amount      decimal.Decimal // negative = expense, zero or positive = income
	Date        string          // as it appeared in the export; "" when the file had no date column
}

// IsExpense reports whether the row is routed through the resolver.
func (t Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

// ParsedDate parses Date with the known export layouts.
func (t Transaction) ParsedDate() (time.Time, bool) {
	s := strings.TrimSpace(t.Date)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// CategorizedTransaction is a Transaction plus everything derived from it
// during an import.
type CategorizedTransaction struct {
	Transaction
	Key       string
	Merchant  string // empty for income rows
	Recipient string // empty unless the row is a transfer with an extractable recipient
	Category  string
	Status    Status
}
