package batch

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/spendsort/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Line is one row of a breakdown. Totals are absolute values.
type Line struct {
	Name       string
	Total      decimal.Decimal
	Count      int
	Percentage decimal.Decimal // of the breakdown's total, 2 decimal places
}

// GroupLine aggregates the category lines belonging to one group.
type GroupLine struct {
	Line
	Categories []Line
}

// Month holds the totals for one calendar month.
type Month struct {
	Month    string // YYYY-MM
	Expenses decimal.Decimal
	Income   decimal.Decimal
	Count    int
}

// Summary describes a categorized batch.
type Summary struct {
	Transactions  int
	ExpenseCount  int
	IncomeCount   int
	NeedsReview   int
	TotalExpenses decimal.Decimal // negative or zero
	TotalIncome   decimal.Decimal
	Categories    []Line // expenses by category, first appearance order
	Groups        []GroupLine
	Income        []Line // income by label, first appearance order
	Months        []Month
	Undated       int // rows whose date could not be parsed
}

// Net is income plus (negative) expenses.
func (s Summary) Net() decimal.Decimal {
	return s.TotalIncome.Add(s.TotalExpenses)
}

// GroupLookup maps a category name to its group.
type GroupLookup interface {
	Group(category string) string
}

// Summarize totals a batch. groups may be nil, in which case every
// category lands in model.DefaultGroup.
func Summarize(txns []model.CategorizedTransaction, groups GroupLookup) Summary {
	s := Summary{
		Transactions:  len(txns),
		TotalExpenses: decimal.Zero,
		TotalIncome:   decimal.Zero,
	}

	expenses := newBreakdown()
	income := newBreakdown()
	months := map[string]*Month{}

	for _, t := range txns {
		if t.Status == model.StatusNew {
			s.NeedsReview++
		}
		if t.IsExpense() {
			s.ExpenseCount++
			s.TotalExpenses = s.TotalExpenses.Add(t.Amount)
			expenses.add(t.Category, t.Amount.Abs())
		} else {
			s.IncomeCount++
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
			income.add(t.Category, t.Amount)
		}

		d, ok := t.ParsedDate()
		if !ok {
			s.Undated++
			continue
		}
		key := d.Format("2006-01")
		m, ok := months[key]
		if !ok {
			m = &Month{Month: key, Expenses: decimal.Zero, Income: decimal.Zero}
			months[key] = m
		}
		m.Count++
		if t.IsExpense() {
			m.Expenses = m.Expenses.Add(t.Amount)
		} else {
			m.Income = m.Income.Add(t.Amount)
		}
	}

	s.Categories = expenses.lines()
	s.Income = income.lines()
	s.Groups = groupLines(s.Categories, groups)

	for _, m := range months {
		s.Months = append(s.Months, *m)
	}
	sort.Slice(s.Months, func(i, j int) bool { return s.Months[i].Month < s.Months[j].Month })
	return s
}

// breakdown accumulates totals by name in first-appearance order.
type breakdown struct {
	order []string
	byKey map[string]*Line
	total decimal.Decimal
}

func newBreakdown() *breakdown {
	return &breakdown{byKey: map[string]*Line{}, total: decimal.Zero}
}

func (b *breakdown) add(name string, amount decimal.Decimal) {
	l, ok := b.byKey[name]
	if !ok {
		l = &Line{Name: name, Total: decimal.Zero}
		b.byKey[name] = l
		b.order = append(b.order, name)
	}
	l.Total = l.Total.Add(amount)
	l.Count++
	b.total = b.total.Add(amount)
}

func (b *breakdown) lines() []Line {
	out := make([]Line, 0, len(b.order))
	for _, name := range b.order {
		l := *b.byKey[name]
		l.Percentage = percent(l.Total, b.total)
		out = append(out, l)
	}
	return out
}

func groupLines(cats []Line, groups GroupLookup) []GroupLine {
	var order []string
	byGroup := map[string]*GroupLine{}
	total := decimal.Zero

	for _, c := range cats {
		g := model.DefaultGroup
		if groups != nil {
			g = groups.Group(c.Name)
		}
		gl, ok := byGroup[g]
		if !ok {
			gl = &GroupLine{Line: Line{Name: g, Total: decimal.Zero}}
			byGroup[g] = gl
			order = append(order, g)
		}
		gl.Total = gl.Total.Add(c.Total)
		gl.Count += c.Count
		gl.Categories = append(gl.Categories, c)
		total = total.Add(c.Total)
	}

	out := make([]GroupLine, 0, len(order))
	for _, g := range order {
		gl := *byGroup[g]
		gl.Percentage = percent(gl.Total, total)
		out = append(out, gl)
	}
	return out
}

func percent(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred).Round(2)
}
