package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParsedDate(t *testing.T) {
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2024-03-01", "03/01/2024", "3/1/2024", "03/01/24", "2024/03/01", "Mar 1, 2024", "01-Mar-2024", " 2024-03-01 "} {
		t.Run(in, func(t *testing.T) {
			got, ok := Transaction{Date: in}.ParsedDate()
			assert.True(t, ok)
			assert.True(t, want.Equal(got), got)
		})
	}

	for _, in := range []string{"", "yesterday", "13/45/2024"} {
		_, ok := Transaction{Date: in}.ParsedDate()
		assert.False(t, ok, in)
	}
}

func TestIsExpense(t *testing.T) {
	assert.True(t, Transaction{Amount: decimal.RequireFromString("-0.01")}.IsExpense())
	assert.False(t, Transaction{Amount: decimal.Zero}.IsExpense())
	assert.False(t, Transaction{Amount: decimal.NewFromInt(5)}.IsExpense())
}

func TestResultNeedsReview(t *testing.T) {
	assert.True(t, Result{Category: "A", Status: StatusNew}.NeedsReview())
	assert.False(t, Result{Category: "A", Status: StatusSaved}.NeedsReview())
	assert.False(t, Result{Category: "Payroll", Status: StatusIncome}.NeedsReview())
}

func TestRefDataLookups(t *testing.T) {
	var nilRef *RefData
	_, ok := nilRef.Override("k")
	assert.False(t, ok)
	_, ok = nilRef.Merchant("AMAZON")
	assert.False(t, ok)
	_, ok = nilRef.Recipient("Doris")
	assert.False(t, ok)

	ref := EmptyRefData()
	ref.Merchants["AMAZON"] = "Shopping"
	c, ok := ref.Merchant("AMAZON")
	assert.True(t, ok)
	assert.Equal(t, "Shopping", c)
	_, ok = ref.Merchant("amazon")
	assert.False(t, ok)
}

func TestCategoryGroupName(t *testing.T) {
	assert.Equal(t, DefaultGroup, Category{Name: "Misc"}.GroupName())
	assert.Equal(t, "Housing", Category{Name: "HOA", Group: "Housing"}.GroupName())
}
