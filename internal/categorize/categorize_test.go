package categorize

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/spendsort/internal/merchant"
	"github.com/cleared-dev/spendsort/internal/model"
	"github.com/cleared-dev/spendsort/internal/transfer"
	"github.com/cleared-dev/spendsort/internal/txnkey"
)

func groceries() []model.Category {
	return []model.Category{{Name: "Groceries", Keywords: []string{"grocery", "market"}}}
}

func marketTxn() model.Transaction {
	return model.Transaction{
		Description: "Local Market Purchase",
		Amount:      decimal.RequireFromString("-42.50"),
		Date:        "2024-03-01",
	}
}

func TestResolve_KeywordMatch(t *testing.T) {
	ref := model.EmptyRefData()
	ref.Categories = groceries()

	got := Resolve("u1", marketTxn(), ref)
	assert.Equal(t, model.Result{Category: "Groceries", Status: model.StatusSaved}, got)
}

func TestResolve_OverrideBeatsKeyword(t *testing.T) {
	txn := marketTxn()
	ref := model.EmptyRefData()
	ref.Categories = groceries()
	ref.Overrides[txnkey.Key(txn.Description, txn.Amount, txn.Date)] = "Entertainment"

	got := Resolve("u1", txn, ref)
	assert.Equal(t, model.Result{Category: "Entertainment", Status: model.StatusSaved}, got)
}

func TestResolve_PriorityOrdering(t *testing.T) {
	txn := model.Transaction{
		Description: "STARBUCKS STORE 03655 MIAMI FL",
		Amount:      decimal.RequireFromString("-5.75"),
		Date:        "01/15/2024",
	}
	key := txnkey.Key(txn.Description, txn.Amount, txn.Date)

	ref := model.EmptyRefData()
	ref.Categories = []model.Category{{Name: "Coffee", Keywords: []string{"starbucks"}}}
	ref.Merchants["STARBUCKS STORE"] = "Dining"
	ref.Overrides[key] = "Business Meals"

	tr := Default().Explain("u1", txn, ref)
	assert.Equal(t, RuleOverride, tr.Rule)
	assert.Equal(t, "Business Meals", tr.Result.Category)
	assert.Equal(t, model.StatusSaved, tr.Result.Status)

	delete(ref.Overrides, key)
	tr = Default().Explain("u1", txn, ref)
	assert.Equal(t, RuleMerchant, tr.Rule)
	assert.Equal(t, "STARBUCKS STORE", tr.Match)
	assert.Equal(t, "Dining", tr.Result.Category)

	delete(ref.Merchants, "STARBUCKS STORE")
	tr = Default().Explain("u1", txn, ref)
	assert.Equal(t, RuleKeyword, tr.Rule)
	assert.Equal(t, "starbucks", tr.Match)
	assert.Equal(t, "Coffee", tr.Result.Category)
}

func TestResolve_Recipient(t *testing.T) {
	txn := model.Transaction{
		Description: "Zelle payment to Doris 25858144732",
		Amount:      decimal.RequireFromString("-60"),
	}
	ref := model.EmptyRefData()
	ref.Categories = []model.Category{{Name: "Transfers", Keywords: []string{"zelle"}}}
	ref.Recipients["Doris"] = "Phone"
	// Transfers never consult the merchant map.
	ref.Merchants["ZELLE PAYMENT"] = "Wrong"

	tr := Default().Explain("u1", txn, ref)
	assert.Equal(t, RuleRecipient, tr.Rule)
	assert.Equal(t, "Doris", tr.Recipient)
	assert.Empty(t, tr.Merchant)
	assert.Equal(t, model.Result{Category: "Phone", Status: model.StatusSaved}, tr.Result)

	delete(ref.Recipients, "Doris")
	tr = Default().Explain("u1", txn, ref)
	assert.Equal(t, RuleKeyword, tr.Rule)
	assert.Equal(t, "Transfers", tr.Result.Category)
}

func TestResolve_KeywordOrder(t *testing.T) {
	ref := model.EmptyRefData()
	ref.Categories = []model.Category{
		{Name: "Gas Station", Keywords: []string{"shell", "exxon"}},
		{Name: "Groceries", Keywords: []string{"market", "shell"}},
	}

	got := Resolve("u1", model.Transaction{
		Description: "  SHELL Market  ",
		Amount:      decimal.RequireFromString("-10"),
	}, ref)
	assert.Equal(t, "Gas Station", got.Category)
}

func TestResolve_KeywordCaseInsensitive(t *testing.T) {
	ref := model.EmptyRefData()
	ref.Categories = []model.Category{{Name: "Toll", Keywords: []string{"SunPass"}}}

	got := Resolve("u1", model.Transaction{Description: "SUNPASS*ACC123", Amount: decimal.NewFromInt(-20)}, ref)
	assert.Equal(t, model.Result{Category: "Toll", Status: model.StatusSaved}, got)
}

func TestResolve_BlankKeywordIgnored(t *testing.T) {
	ref := model.EmptyRefData()
	ref.Categories = []model.Category{
		{Name: "Catch All", Keywords: []string{"", "  "}},
	}

	tr := Default().Explain("u1", model.Transaction{Description: "Anything", Amount: decimal.NewFromInt(-1)}, ref)
	assert.Equal(t, RuleFallback, tr.Rule)
	assert.Equal(t, model.StatusNew, tr.Result.Status)
}

func TestResolve_FallbackExhaustive(t *testing.T) {
	cats := []model.Category{{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"}}
	names := map[string]bool{"A": true, "B": true, "C": true, "D": true}
	ref := model.EmptyRefData()
	ref.Categories = cats

	for i := 0; i < 50; i++ {
		txn := model.Transaction{
			Description: fmt.Sprintf("unmatched vendor %d", i),
			Amount:      decimal.NewFromInt(int64(-i - 1)),
		}
		got := Resolve("u1", txn, ref)
		assert.True(t, names[got.Category], got.Category)
		assert.Equal(t, model.StatusNew, got.Status)
		assert.True(t, got.NeedsReview())
		assert.Equal(t, got, Resolve("u1", txn, ref))
	}
}

func TestResolve_FallbackIgnoresCaseAndPadding(t *testing.T) {
	ref := model.EmptyRefData()
	ref.Categories = []model.Category{{Name: "A"}, {Name: "B"}, {Name: "C"}}

	a := Resolve("u1", model.Transaction{Description: "Mystery Vendor", Amount: decimal.NewFromInt(-1)}, ref)
	b := Resolve("u1", model.Transaction{Description: "  MYSTERY VENDOR ", Amount: decimal.NewFromInt(-2)}, ref)
	assert.Equal(t, a, b)
}

func TestResolve_NoCategories(t *testing.T) {
	tr := Default().Explain("u1", model.Transaction{Description: "", Amount: decimal.NewFromInt(-1)}, model.EmptyRefData())
	assert.Equal(t, RuleNone, tr.Rule)
	assert.Equal(t, model.Result{Category: model.Uncategorized, Status: model.StatusNew}, tr.Result)
	assert.Equal(t, merchant.Unknown, tr.Merchant)
	assert.Regexp(t, `^transaction_[0-9a-f]{8}$`, tr.Key)
}

func TestResolve_NilRefData(t *testing.T) {
	got := Resolve("u1", marketTxn(), nil)
	assert.Equal(t, model.Result{Category: model.Uncategorized, Status: model.StatusNew}, got)
}

func TestFallbackIndex(t *testing.T) {
	for n := 1; n <= 7; n++ {
		i := FallbackIndex("some description", n)
		assert.GreaterOrEqual(t, i, 0)
		assert.Less(t, i, n)
		assert.Equal(t, i, FallbackIndex("some description", n))
	}
	assert.Equal(t, 0, FallbackIndex("anything", 1))
}

func TestNew_CustomPolicies(t *testing.T) {
	n, err := merchant.New(merchant.Policy{MaxWords: 1})
	require.NoError(t, err)
	d, err := transfer.NewDetector([]string{"venmo payment to"})
	require.NoError(t, err)
	r := New(n, d)

	ref := model.EmptyRefData()
	ref.Merchants["STARBUCKS"] = "Coffee"
	ref.Recipients["Ana"] = "Gifts"

	got := r.Resolve("u1", model.Transaction{Description: "STARBUCKS STORE 03655", Amount: decimal.NewFromInt(-4)}, ref)
	assert.Equal(t, "Coffee", got.Category)

	got = r.Resolve("u1", model.Transaction{Description: "Venmo payment to ana 77", Amount: decimal.NewFromInt(-4)}, ref)
	assert.Equal(t, "Gifts", got.Category)
}

func TestIncomeCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ACME CORP PAYROLL PPD", IncomePayroll},
		{"Direct Deposit Salary", IncomePayroll},
		{"payroll deposit", IncomePayroll},
		{"AMAZON REFUND", IncomeRefund},
		{"Merchandise Return Credit", IncomeRefund},
		{"Mobile Deposit", IncomeDeposit},
		{"Interest Payment", IncomeInterest},
		{"VANGUARD DIVIDEND", IncomeDividend},
		{"Zelle payment from Doris", IncomeGeneric},
		{"", IncomeGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IncomeCategory(tt.in))
		})
	}
}

func TestLearningTarget(t *testing.T) {
	kind, token := Default().LearningTarget("Zelle payment to Yamilka Maikel 5512")
	assert.Equal(t, TargetRecipient, kind)
	assert.Equal(t, "Yamilka Maikel", token)

	kind, token = Default().LearningTarget("AMAZON MKTPL*AB12CD34 SEATTLE WA")
	assert.Equal(t, TargetMerchant, kind)
	assert.Equal(t, "AMAZON", token)

	kind, token = Default().LearningTarget("Zelle payment to 5512")
	assert.Equal(t, TargetMerchant, kind)
	assert.Equal(t, "ZELLE PAYMENT", token)
}
