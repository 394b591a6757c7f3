package importer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/spendsort/internal/model"
)

// Header aliases, tried in order after the canonical name.
var (
	descriptionAliases = []string{"desc", "transaction", "details", "memo", "note", "merchant", "payee", "vendor"}
	amountAliases      = []string{"value", "cost", "price", "total", "sum", "debit", "credit"}
)

// sampleRows is how many data rows are inspected when checking that a
// column holds amounts.
const sampleRows = 5

// columns holds header indexes; -1 means absent.
type columns struct {
	desc, amount, date int
}

// detectColumns maps a header row onto description, amount and date
// columns. Matching is by containment in either direction, ignoring case.
func detectColumns(header []string, rows [][]string) (columns, error) {
	lower := make([]string, len(header))
	for i, h := range header {
		lower[i] = strings.ToLower(strings.TrimSpace(h))
	}

	cols := columns{
		desc:   findHeader(lower, "description"),
		amount: findHeader(lower, "amount"),
		date:   -1,
	}

	if cols.desc < 0 {
		for _, alt := range descriptionAliases {
			if cols.desc = findHeader(lower, alt); cols.desc >= 0 {
				break
			}
		}
	}
	if cols.amount < 0 {
		for _, alt := range amountAliases {
			if i := findHeader(lower, alt); i >= 0 && numericCount(rows, i) >= 2 {
				cols.amount = i
				break
			}
		}
	}
	if cols.amount < 0 {
		cols.amount = findContaining(lower, "detail")
	}

	if cols.desc < 0 {
		return cols, fmt.Errorf("%w: description (have %s)", ErrMissingColumn, strings.Join(header, ", "))
	}
	if cols.amount < 0 {
		return cols, fmt.Errorf("%w: amount (have %s)", ErrMissingColumn, strings.Join(header, ", "))
	}

	cols.date = findContaining(lower, "date")

	// Chase checking exports whose rows carry one field more than the header
	// arrive shifted by one column once something downstream drops the extra
	// field: dates sit under Details, descriptions under Posting Date and
	// amounts under Description.
	posting := indexOf(lower, "posting date")
	if lower[cols.desc] == "description" && posting >= 0 && allNumeric(rows, cols.desc) {
		cols.amount = cols.desc
		cols.desc = posting
		cols.date = indexOf(lower, "details")
	}
	return cols, nil
}

// parseTable converts a header row plus data rows into transactions. Rows
// with a blank description or an amount that does not parse are skipped.
func parseTable(records [][]string) ([]model.Transaction, Stats, error) {
	var stats Stats
	if len(records) == 0 {
		return nil, stats, nil
	}

	header, rows := records[0], records[1:]
	cols, err := detectColumns(header, rows)
	if err != nil {
		return nil, stats, err
	}

	var txns []model.Transaction
	for _, rec := range rows {
		if isBlankRow(rec) {
			continue
		}
		stats.Rows++

		desc := strings.TrimSpace(field(rec, cols.desc))
		amount, ok := parseAmount(field(rec, cols.amount))
		if desc == "" || !ok {
			stats.Skipped++
			continue
		}
		txns = append(txns, model.Transaction{
			Description: desc,
			Amount:      amount,
			Date:        strings.TrimSpace(field(rec, cols.date)),
		})
	}
	return txns, stats, nil
}

// parseAmount accepts plain decimals plus currency symbols, thousands
// separators and accounting parentheses for negatives.
func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if s == "" {
		return decimal.Zero, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}

func findHeader(lower []string, want string) int {
	for i, h := range lower {
		if h == "" {
			continue
		}
		if strings.Contains(h, want) || strings.Contains(want, h) {
			return i
		}
	}
	return -1
}

func findContaining(lower []string, sub string) int {
	for i, h := range lower {
		if strings.Contains(h, sub) {
			return i
		}
	}
	return -1
}

func indexOf(lower []string, want string) int {
	for i, h := range lower {
		if h == want {
			return i
		}
	}
	return -1
}

func numericCount(rows [][]string, col int) int {
	n := 0
	for i, rec := range rows {
		if i == sampleRows {
			break
		}
		if _, ok := parseAmount(field(rec, col)); ok {
			n++
		}
	}
	return n
}

func allNumeric(rows [][]string, col int) bool {
	seen := 0
	for i, rec := range rows {
		if i == sampleRows {
			break
		}
		v := field(rec, col)
		if strings.TrimSpace(v) == "" {
			continue
		}
		if _, ok := parseAmount(v); !ok {
			return false
		}
		seen++
	}
	return seen > 0
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func isBlankRow(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
