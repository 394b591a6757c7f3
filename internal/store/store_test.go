package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/spendsort/internal/categories"
	"github.com/cleared-dev/spendsort/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(MemoryDSN, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seeded(t *testing.T, userID string) *Store {
	t.Helper()
	s := newTestStore(t)
	ok, err := s.SeedDefaults(context.Background(), userID, categories.Defaults(), categories.DefaultRecipients())
	require.NoError(t, err)
	require.True(t, ok)
	return s
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "spendsort.db")
	s, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.FileExists(t, path)
}

func TestSeedDefaults(t *testing.T) {
	ctx := context.Background()
	s := seeded(t, "u1")

	ref, err := s.Snapshot(ctx, "u1")
	require.NoError(t, err)

	require.Len(t, ref.Categories, len(categories.Defaults()))
	for i, want := range categories.Defaults() {
		assert.Equal(t, want.ID, ref.Categories[i].ID)
		assert.Equal(t, want.Name, ref.Categories[i].Name)
		assert.Equal(t, want.Keywords, ref.Categories[i].Keywords)
		assert.Equal(t, want.Group, ref.Categories[i].Group)
		assert.True(t, ref.Categories[i].IsDefault)
	}
	assert.Equal(t, categories.DefaultRecipients(), ref.Recipients)
	assert.Empty(t, ref.Overrides)
	assert.Empty(t, ref.Merchants)

	again, err := s.SeedDefaults(ctx, "u1", categories.Defaults(), nil)
	require.NoError(t, err)
	assert.False(t, again)
}

func TestSnapshotIsPerUser(t *testing.T) {
	ctx := context.Background()
	s := seeded(t, "u1")

	ok, err := s.SeedDefaults(ctx, "u2", []model.Category{{ID: "mortgage", Name: "Mortgage"}}, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, s.SetMerchant(ctx, "u2", "AMAZON", "Mortgage"))

	ref1, err := s.Snapshot(ctx, "u1")
	require.NoError(t, err)
	ref2, err := s.Snapshot(ctx, "u2")
	require.NoError(t, err)

	assert.Len(t, ref1.Categories, 13)
	assert.Empty(t, ref1.Merchants)
	assert.Len(t, ref2.Categories, 1)
	assert.Equal(t, "mortgage", ref2.Categories[0].ID)
	assert.Equal(t, map[string]string{"AMAZON": "Mortgage"}, ref2.Merchants)
}

func TestSnapshotUnknownUser(t *testing.T) {
	ref, err := newTestStore(t).Snapshot(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, ref.Categories)
	assert.NotNil(t, ref.Overrides)
}

func TestMappingsLastWriteWins(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SetMerchant(ctx, "u1", "STARBUCKS STORE", "Dining"))
	require.NoError(t, s.SetMerchant(ctx, "u1", "STARBUCKS STORE", "Coffee"))
	require.NoError(t, s.SetRecipient(ctx, "u1", "Doris", "Phone"))
	require.NoError(t, s.SetRecipient(ctx, "u1", "Doris", "Gifts"))
	require.NoError(t, s.SetOverride(ctx, "u1", "LocalMarketPurchas_0a1b2c3d", "Groceries"))
	require.NoError(t, s.SetOverride(ctx, "u1", "LocalMarketPurchas_0a1b2c3d", "Entertainment"))

	ref, err := s.Snapshot(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"STARBUCKS STORE": "Coffee"}, ref.Merchants)
	assert.Equal(t, map[string]string{"Doris": "Gifts"}, ref.Recipients)
	assert.Equal(t, map[string]string{"LocalMarketPurchas_0a1b2c3d": "Entertainment"}, ref.Overrides)
}

func TestDeleteMappings(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SetMerchant(ctx, "u1", "AMAZON", "Shopping"))
	require.NoError(t, s.SetRecipient(ctx, "u1", "Doris", "Phone"))
	require.NoError(t, s.SetOverride(ctx, "u1", "k_0a1b2c3d", "Phone"))

	require.NoError(t, s.DeleteMerchant(ctx, "u1", "AMAZON"))
	require.NoError(t, s.DeleteRecipient(ctx, "u1", "Doris"))
	require.NoError(t, s.ClearOverride(ctx, "u1", "k_0a1b2c3d"))

	assert.ErrorIs(t, s.DeleteMerchant(ctx, "u1", "AMAZON"), ErrNotFound)
	assert.ErrorIs(t, s.DeleteRecipient(ctx, "u1", "Doris"), ErrNotFound)
	assert.ErrorIs(t, s.ClearOverride(ctx, "u1", "k_0a1b2c3d"), ErrNotFound)

	ref, err := s.Snapshot(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, ref.Merchants)
	assert.Empty(t, ref.Recipients)
	assert.Empty(t, ref.Overrides)
}

func TestAddCategory(t *testing.T) {
	ctx := context.Background()
	s := seeded(t, "u1")

	c, err := s.AddCategory(ctx, "u1", model.Category{Name: "Groceries", Keywords: []string{"grocery", "market"}, Group: "Food"})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)

	cats, err := s.Categories(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cats, 14)
	last := cats[len(cats)-1]
	assert.Equal(t, "Groceries", last.Name)
	assert.Equal(t, c.ID, last.ID)
	assert.Equal(t, []string{"grocery", "market"}, last.Keywords)
	assert.False(t, last.IsDefault)

	_, err = s.AddCategory(ctx, "u1", model.Category{Name: "groceries"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUpdateCategoryRenamesReferences(t *testing.T) {
	ctx := context.Background()
	s := seeded(t, "u1")
	require.NoError(t, s.SetMerchant(ctx, "u1", "VERIZON WIRELESS", "Phone"))
	require.NoError(t, s.SetOverride(ctx, "u1", "k_0a1b2c3d", "Phone"))

	err := s.UpdateCategory(ctx, "u1", "phone", model.Category{Name: "Mobile", Keywords: []string{"verizon"}})
	require.NoError(t, err)

	ref, err := s.Snapshot(ctx, "u1")
	require.NoError(t, err)

	idx := categories.NewIndex(ref.Categories)
	c, ok := idx.Get("Mobile")
	require.True(t, ok)
	assert.Equal(t, []string{"verizon"}, c.Keywords)
	assert.Equal(t, "Utilities", c.Group)
	assert.False(t, idx.Exists("Phone"))
	assert.Equal(t, "Mobile", ref.Categories[5].Name, "position is kept")

	assert.Equal(t, "Mobile", ref.Merchants["VERIZON WIRELESS"])
	assert.Equal(t, "Mobile", ref.Recipients["Doris"])
	assert.Equal(t, "Mobile", ref.Overrides["k_0a1b2c3d"])
}

func TestUpdateCategoryErrors(t *testing.T) {
	ctx := context.Background()
	s := seeded(t, "u1")

	assert.ErrorIs(t, s.UpdateCategory(ctx, "u1", "Nope", model.Category{Name: "X"}), ErrNotFound)
	assert.ErrorIs(t, s.UpdateCategory(ctx, "u1", "Phone", model.Category{Name: "toll"}), ErrDuplicate)
}

func TestDeleteCategory(t *testing.T) {
	ctx := context.Background()
	s := seeded(t, "u1")

	require.NoError(t, s.DeleteCategory(ctx, "u1", "hoa"))
	cats, err := s.Categories(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, cats, 12)
	assert.False(t, categories.NewIndex(cats).Exists("HOA"))

	assert.ErrorIs(t, s.DeleteCategory(ctx, "u1", "HOA"), ErrNotFound)
}

func TestReplaceCategories(t *testing.T) {
	ctx := context.Background()
	s := seeded(t, "u1")

	want := []model.Category{
		{Name: "Zeta", Keywords: []string{"z"}},
		{Name: "Alpha", Keywords: []string{"a"}, Group: "Letters"},
	}
	require.NoError(t, s.ReplaceCategories(ctx, "u1", want))

	cats, err := s.Categories(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Zeta", cats[0].Name, "order is not re-sorted")
	assert.Equal(t, "Alpha", cats[1].Name)
	assert.Equal(t, "Letters", cats[1].Group)
}

func txn(desc, amount, date, key, cat string, status model.Status) model.CategorizedTransaction {
	return model.CategorizedTransaction{
		Transaction: model.Transaction{Description: desc, Amount: decimal.RequireFromString(amount), Date: date},
		Key:         key,
		Category:    cat,
		Status:      status,
	}
}

func TestSaveTransactionsUpserts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first := []model.CategorizedTransaction{
		txn("Local Market Purchase", "-42.50", "2024-03-01", "LocalMarketPurchas_11111111", "Groceries", model.StatusSaved),
		txn("ACME PAYROLL", "2500.00", "2024-03-02", "ACMEPAYROLL_22222222", "Payroll", model.StatusIncome),
	}
	id1, err := s.SaveTransactions(ctx, "u1", Upload{FileName: "march.csv", FileHash: "abc", Size: 120}, first)
	require.NoError(t, err)
	assert.NotEmpty(t, id1)

	second := []model.CategorizedTransaction{
		txn("Local Market Purchase", "-42.50", "2024-03-01", "LocalMarketPurchas_11111111", "Dining", model.StatusNew),
	}
	_, err = s.SaveTransactions(ctx, "u1", Upload{FileName: "march-again.csv", FileHash: "def"}, second)
	require.NoError(t, err)

	got, err := s.Transactions(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	byKey := map[string]model.CategorizedTransaction{}
	for _, g := range got {
		byKey[g.Key] = g
	}
	assert.Equal(t, "Dining", byKey["LocalMarketPurchas_11111111"].Category)
	assert.Equal(t, model.StatusNew, byKey["LocalMarketPurchas_11111111"].Status)
	assert.True(t, decimal.RequireFromString("-42.50").Equal(byKey["LocalMarketPurchas_11111111"].Amount))
	assert.Equal(t, "Payroll", byKey["ACMEPAYROLL_22222222"].Category)

	exists, err := s.UploadExists(ctx, "u1", "abc")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = s.UploadExists(ctx, "u2", "abc")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDeleteUpload(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	key := "LocalMarketPurchas_11111111"
	id, err := s.SaveTransactions(ctx, "u1", Upload{FileName: "a.csv", FileHash: "h1"}, []model.CategorizedTransaction{
		txn("Local Market Purchase", "-42.50", "2024-03-01", key, "Groceries", model.StatusSaved),
	})
	require.NoError(t, err)

	require.ErrorIs(t, s.DeleteUpload(ctx, "u2", id), ErrNotFound)
	require.NoError(t, s.DeleteUpload(ctx, "u1", id))

	exists, err := s.UploadExists(ctx, "u1", "h1")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.Transaction(ctx, "u1", key)
	assert.NoError(t, err, "transactions survive")

	assert.ErrorIs(t, s.DeleteUpload(ctx, "u1", id), ErrNotFound)
}

func TestSetOverrideUpdatesStoredTransaction(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	key := "LocalMarketPurchas_11111111"
	_, err := s.SaveTransactions(ctx, "u1", Upload{FileName: "a.csv", FileHash: "h"}, []model.CategorizedTransaction{
		txn("Local Market Purchase", "-42.50", "2024-03-01", key, "Mortgage", model.StatusNew),
	})
	require.NoError(t, err)

	require.NoError(t, s.SetOverride(ctx, "u1", key, "Groceries"))

	got, err := s.Transaction(ctx, "u1", key)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Category)
	assert.Equal(t, model.StatusSaved, got.Status)
	assert.Equal(t, "Local Market Purchase", got.Description)

	_, err = s.Transaction(ctx, "u1", "missing_00000000")
	assert.ErrorIs(t, err, ErrNotFound)
}
