// Package categorize assigns a spending category to an expense.
//
// Resolution is a pure function of the transaction and a reference data
// snapshot. Rules are tried in a fixed order and the first match wins:
//
//  1. override for the transaction key
//  2. learned category for the transfer recipient
//  3. learned category for the merchant token (non-transfers only)
//  4. first category whose keyword appears in the description
//  5. deterministic hash pick among all categories, flagged for review
//  6. Uncategorized, flagged for review, when the user has no categories
package categorize

import (
	"hash/fnv"
	"strings"

	"github.com/cleared-dev/spendsort/internal/merchant"
	"github.com/cleared-dev/spendsort/internal/model"
	"github.com/cleared-dev/spendsort/internal/transfer"
	"github.com/cleared-dev/spendsort/internal/txnkey"
)

// Rule names the step that produced a Result.
type Rule string

const (
	RuleOverride  Rule = "override"
	RuleRecipient Rule = "recipient"
	RuleMerchant  Rule = "merchant"
	RuleKeyword   Rule = "keyword"
	RuleFallback  Rule = "fallback"
	RuleNone      Rule = "none"
)

// Trace records how a Result was reached.
type Trace struct {
	UserID    string
	Key       string
	Merchant  string // empty for transfers
	Recipient string // empty unless a recipient was extracted
	Rule      Rule
	Match     string // the key, token, name or keyword that matched
	Result    model.Result
}

// Resolver bundles the normalizer and transfer detector a user is
// configured with. The zero value is not usable; use New or Default.
type Resolver struct {
	normalizer *merchant.Normalizer
	detector   *transfer.Detector
}

// New returns a Resolver. Nil arguments fall back to the defaults.
func New(n *merchant.Normalizer, d *transfer.Detector) *Resolver {
	if n == nil {
		n = merchant.MustNew(merchant.DefaultPolicy())
	}
	if d == nil {
		d = transfer.Default()
	}
	return &Resolver{normalizer: n, detector: d}
}

var defaultResolver = New(nil, nil)

// Default returns the Resolver built from the default policies.
func Default() *Resolver { return defaultResolver }

// Normalizer exposes the merchant normalizer in use.
func (r *Resolver) Normalizer() *merchant.Normalizer { return r.normalizer }

// Detector exposes the transfer detector in use.
func (r *Resolver) Detector() *transfer.Detector { return r.detector }

// Resolve categorizes txn against ref.
func (r *Resolver) Resolve(userID string, txn model.Transaction, ref *model.RefData) model.Result {
	return r.Explain(userID, txn, ref).Result
}

// Explain categorizes txn and reports which rule fired.
func (r *Resolver) Explain(userID string, txn model.Transaction, ref *model.RefData) Trace {
	tr := Trace{
		UserID: userID,
		Key:    txnkey.Key(txn.Description, txn.Amount, txn.Date),
	}

	if cat, ok := ref.Override(tr.Key); ok {
		return tr.hit(RuleOverride, tr.Key, cat, model.StatusSaved)
	}

	isTransfer := r.detector.IsTransfer(txn.Description)
	if isTransfer {
		if name, ok := r.detector.ExtractRecipient(txn.Description); ok {
			tr.Recipient = name
			if cat, ok := ref.Recipient(name); ok {
				return tr.hit(RuleRecipient, name, cat, model.StatusSaved)
			}
		}
	} else {
		tr.Merchant = r.normalizer.Normalize(txn.Description)
		if cat, ok := ref.Merchant(tr.Merchant); ok {
			return tr.hit(RuleMerchant, tr.Merchant, cat, model.StatusSaved)
		}
	}

	var categories []model.Category
	if ref != nil {
		categories = ref.Categories
	}

	desc := strings.ToLower(strings.TrimSpace(txn.Description))
	for _, c := range categories {
		for _, kw := range c.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			if strings.Contains(desc, kw) {
				return tr.hit(RuleKeyword, kw, c.Name, model.StatusSaved)
			}
		}
	}

	if len(categories) > 0 {
		c := categories[FallbackIndex(desc, len(categories))]
		return tr.hit(RuleFallback, c.Name, c.Name, model.StatusNew)
	}
	return tr.hit(RuleNone, "", model.Uncategorized, model.StatusNew)
}

func (tr Trace) hit(rule Rule, match, category string, status model.Status) Trace {
	tr.Rule = rule
	tr.Match = match
	tr.Result = model.Result{Category: category, Status: status}
	return tr
}

// FallbackIndex picks a stable index in [0, n) for a lower-cased, trimmed
// description using 32-bit FNV-1a. n must be positive.
func FallbackIndex(desc string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(desc))
	return int(h.Sum32() % uint32(n))
}

// Resolve uses the default Resolver.
func Resolve(userID string, txn model.Transaction, ref *model.RefData) model.Result {
	return defaultResolver.Resolve(userID, txn, ref)
}
