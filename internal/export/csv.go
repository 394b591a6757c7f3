// Package export writes categorized transactions to CSV files under the
// project's exports/ tree.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/spendsort/internal/model"
)

// Header is the CSV header for export files.
const Header = "date,description,amount,category,status,transaction_key,merchant,recipient"

const (
	numFields    = 8
	colDate      = 0
	colDesc      = 1
	colAmount    = 2
	colCategory  = 3
	colStatus    = 4
	colKey       = 5
	colMerchant  = 6
	colRecipient = 7
)

var headerRow = []string{"date", "description", "amount", "category", "status", "transaction_key", "merchant", "recipient"}

// MarshalTransaction converts a CategorizedTransaction to a CSV row.
func MarshalTransaction(t model.CategorizedTransaction) []string {
	row := make([]string, numFields)
	row[colDate] = t.Date
	row[colDesc] = t.Description
	row[colAmount] = t.Amount.StringFixed(2)
	row[colCategory] = t.Category
	row[colStatus] = string(t.Status)
	row[colKey] = t.Key
	row[colMerchant] = t.Merchant
	row[colRecipient] = t.Recipient
	return row
}

// UnmarshalTransaction converts a CSV row to a CategorizedTransaction.
func UnmarshalTransaction(record []string) (model.CategorizedTransaction, error) {
	if len(record) != numFields {
		return model.CategorizedTransaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.CategorizedTransaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	return model.CategorizedTransaction{
		Transaction: model.Transaction{
			Date:        record[colDate],
			Description: record[colDesc],
			Amount:      amount,
		},
		Category:  record[colCategory],
		Status:    model.Status(record[colStatus]),
		Key:       record[colKey],
		Merchant:  record[colMerchant],
		Recipient: record[colRecipient],
	}, nil
}

// WriteTransactions writes a header and one row per transaction.
func WriteTransactions(w io.Writer, txns []model.CategorizedTransaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(headerRow); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, t := range txns {
		if err := cw.Write(MarshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadTransactions reads a file written by WriteTransactions.
func ReadTransactions(r io.Reader) ([]model.CategorizedTransaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading export CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.CategorizedTransaction
	for i, rec := range records[1:] {
		t, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, t)
	}
	return txns, nil
}
