package commands

import (
	"fmt"
	"io"

	"github.com/cleared-dev/spendsort/internal/batch"
)

func printSummary(w io.Writer, s batch.Summary) {
	fmt.Fprintf(w, "  Transactions: %d (%d expenses, %d income), %d need review\n",
		s.Transactions, s.ExpenseCount, s.IncomeCount, s.NeedsReview)
	fmt.Fprintf(w, "  Expenses: %s  Income: %s  Net: %s\n",
		s.TotalExpenses.StringFixed(2), s.TotalIncome.StringFixed(2), s.Net().StringFixed(2))

	if len(s.Groups) > 0 {
		fmt.Fprintln(w, "  By group:")
		for _, g := range s.Groups {
			printLine(w, "    ", g.Line)
			for _, c := range g.Categories {
				printLine(w, "      ", c)
			}
		}
	}
	if len(s.Income) > 0 {
		fmt.Fprintln(w, "  Income:")
		for _, l := range s.Income {
			printLine(w, "    ", l)
		}
	}
	if len(s.Months) > 0 {
		fmt.Fprintln(w, "  By month:")
		for _, m := range s.Months {
			fmt.Fprintf(w, "    %s  %4d  expenses %12s  income %12s\n",
				m.Month, m.Count, m.Expenses.StringFixed(2), m.Income.StringFixed(2))
		}
	}
	if s.Undated > 0 {
		fmt.Fprintf(w, "  Undated: %d\n", s.Undated)
	}
}

func printLine(w io.Writer, indent string, l batch.Line) {
	fmt.Fprintf(w, "%s%-24s %12s %4d %7s%%\n", indent, l.Name, l.Total.StringFixed(2), l.Count, l.Percentage.StringFixed(2))
}
