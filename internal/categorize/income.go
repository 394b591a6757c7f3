package categorize

import "strings"

// Income labels for non-negative amounts.
const (
	IncomePayroll  = "Payroll"
	IncomeRefund   = "Refund"
	IncomeDeposit  = "Deposit"
	IncomeInterest = "Interest"
	IncomeDividend = "Dividend"
	IncomeGeneric  = "Income"
)

// IncomeCategory labels a non-negative row from its description. Income
// never goes through the resolver.
func IncomeCategory(description string) string {
	d := strings.ToLower(description)
	switch {
	case containsAny(d, "payroll", "salary", "wages"):
		return IncomePayroll
	case containsAny(d, "refund", "return"):
		return IncomeRefund
	case strings.Contains(d, "deposit"):
		return IncomeDeposit
	case strings.Contains(d, "interest"):
		return IncomeInterest
	case strings.Contains(d, "dividend"):
		return IncomeDividend
	default:
		return IncomeGeneric
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
