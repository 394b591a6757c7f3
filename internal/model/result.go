package model

// Status describes how a category was assigned.
type Status string

const (
	// StatusSaved means the category came from an override, a learned
	// mapping or a keyword rule.
	StatusSaved Status = "saved"
	// StatusNew means the category was a placeholder and needs review.
	StatusNew Status = "new"
	// StatusIncome marks non-negative rows labeled by the income rule.
	StatusIncome Status = "income"
)

// Result is the resolver output for one transaction.
type Result struct {
	Category string
	Status   Status
}

// NeedsReview reports whether a human should look at the assignment.
func (r Result) NeedsReview() bool {
	return r.Status == StatusNew
}
