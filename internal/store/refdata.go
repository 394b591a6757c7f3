package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/cleared-dev/spendsort/internal/model"
)

// Snapshot loads everything the resolver needs for one user. Categories are
// returned in insertion order.
func (s *Store) Snapshot(ctx context.Context, userID string) (*model.RefData, error) {
	ref := model.EmptyRefData()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cats, err := loadCategories(tx, userID)
		if err != nil {
			return err
		}
		ref.Categories = cats

		var overrides []OverrideRow
		if err := tx.Where("user_id = ?", userID).Find(&overrides).Error; err != nil {
			return fmt.Errorf("loading overrides: %w", err)
		}
		for _, o := range overrides {
			ref.Overrides[o.TransactionKey] = o.Category
		}

		var merchants []MerchantRow
		if err := tx.Where("user_id = ?", userID).Find(&merchants).Error; err != nil {
			return fmt.Errorf("loading merchant mappings: %w", err)
		}
		for _, m := range merchants {
			ref.Merchants[m.Merchant] = m.Category
		}

		var recipients []RecipientRow
		if err := tx.Where("user_id = ?", userID).Find(&recipients).Error; err != nil {
			return fmt.Errorf("loading recipient mappings: %w", err)
		}
		for _, r := range recipients {
			ref.Recipients[r.Recipient] = r.Category
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ref, nil
}

// SeedDefaults inserts the given categories and recipient mappings for a
// user that has no categories yet. It reports whether anything was seeded.
func (s *Store) SeedDefaults(ctx context.Context, userID string, cats []model.Category, recipients map[string]string) (bool, error) {
	seeded := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&CategoryRow{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
			return fmt.Errorf("counting categories: %w", err)
		}
		if n > 0 {
			return nil
		}
		if err := insertCategories(tx, userID, cats); err != nil {
			return err
		}
		for name, cat := range recipients {
			row := &RecipientRow{UserID: userID, Recipient: name, Category: cat}
			if err := upsert(tx, row, []string{"user_id", "recipient"}, "category"); err != nil {
				return fmt.Errorf("seeding recipient %s: %w", name, err)
			}
		}
		seeded = true
		return nil
	})
	return seeded, err
}

// Categories returns a user's categories in insertion order.
func (s *Store) Categories(ctx context.Context, userID string) ([]model.Category, error) {
	return loadCategories(s.db.WithContext(ctx), userID)
}

// AddCategory appends a category after the existing ones.
func (s *Store) AddCategory(ctx context.Context, userID string, c model.Category) (model.Category, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findCategory(tx, userID, c.Name); err == nil {
			return fmt.Errorf("category %q: %w", c.Name, ErrDuplicate)
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		var maxPos int
		if err := tx.Model(&CategoryRow{}).Where("user_id = ?", userID).
			Select("COALESCE(MAX(position), 0)").Scan(&maxPos).Error; err != nil {
			return fmt.Errorf("reading category positions: %w", err)
		}

		row := categoryRow(userID, c, maxPos+1)
		if err := tx.Create(row).Error; err != nil {
			return fmt.Errorf("creating category %q: %w", c.Name, err)
		}
		c.ID = strings.TrimPrefix(row.ID, userID+":")
		return nil
	})
	return c, err
}

// UpdateCategory replaces the category called name. A rename is carried
// over to every override and mapping pointing at the old name.
func (s *Store) UpdateCategory(ctx context.Context, userID, name string, c model.Category) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := findCategory(tx, userID, name)
		if err != nil {
			return fmt.Errorf("category %q: %w", name, err)
		}

		if c.Name != "" && !strings.EqualFold(c.Name, row.Name) {
			if _, err := findCategory(tx, userID, c.Name); err == nil {
				return fmt.Errorf("category %q: %w", c.Name, ErrDuplicate)
			}
		}

		oldName := row.Name
		if c.Name != "" {
			row.Name = c.Name
		}
		if c.Keywords != nil {
			row.Keywords = c.Keywords
		}
		if c.Group != "" {
			row.GroupName = c.Group
		}
		if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("saving category %q: %w", name, err)
		}

		if row.Name != oldName {
			for _, m := range []any{&OverrideRow{}, &MerchantRow{}, &RecipientRow{}, &TransactionRow{}} {
				if err := tx.Model(m).Where("user_id = ? AND category = ?", userID, oldName).
					Update("category", row.Name).Error; err != nil {
					return fmt.Errorf("renaming category references: %w", err)
				}
			}
		}
		return nil
	})
}

// DeleteCategory removes the category called name. Mappings that point at
// it are left alone.
func (s *Store) DeleteCategory(ctx context.Context, userID, name string) error {
	err := deleteOne(s.db.WithContext(ctx), &CategoryRow{}, "user_id = ? AND name = ? COLLATE NOCASE", userID, name)
	if err != nil {
		return fmt.Errorf("deleting category %q: %w", name, err)
	}
	return nil
}

// ReplaceCategories swaps a user's whole category list for cats, keeping
// their order.
func (s *Store) ReplaceCategories(ctx context.Context, userID string, cats []model.Category) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&CategoryRow{}).Error; err != nil {
			return fmt.Errorf("clearing categories: %w", err)
		}
		return insertCategories(tx, userID, cats)
	})
}

// SetOverride pins a transaction key to a category and updates the stored
// transaction, if any.
func (s *Store) SetOverride(ctx context.Context, userID, key, category string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := &OverrideRow{UserID: userID, TransactionKey: key, Category: category}
		if err := upsert(tx, row, []string{"user_id", "transaction_key"}, "category"); err != nil {
			return fmt.Errorf("saving override: %w", err)
		}
		err := tx.Model(&TransactionRow{}).
			Where("user_id = ? AND transaction_key = ?", userID, key).
			Updates(map[string]any{"category": category, "status": string(model.StatusSaved)}).Error
		if err != nil {
			return fmt.Errorf("updating transaction: %w", err)
		}
		return nil
	})
}

// ClearOverride removes the override for key.
func (s *Store) ClearOverride(ctx context.Context, userID, key string) error {
	err := deleteOne(s.db.WithContext(ctx), &OverrideRow{}, "user_id = ? AND transaction_key = ?", userID, key)
	if err != nil {
		return fmt.Errorf("clearing override %s: %w", key, err)
	}
	return nil
}

// SetMerchant learns a merchant token mapping.
func (s *Store) SetMerchant(ctx context.Context, userID, merchant, category string) error {
	row := &MerchantRow{UserID: userID, Merchant: merchant, Category: category}
	if err := upsert(s.db.WithContext(ctx), row, []string{"user_id", "merchant"}, "category"); err != nil {
		return fmt.Errorf("saving merchant mapping: %w", err)
	}
	return nil
}

// DeleteMerchant forgets a merchant token mapping.
func (s *Store) DeleteMerchant(ctx context.Context, userID, merchant string) error {
	err := deleteOne(s.db.WithContext(ctx), &MerchantRow{}, "user_id = ? AND merchant = ?", userID, merchant)
	if err != nil {
		return fmt.Errorf("deleting merchant %s: %w", merchant, err)
	}
	return nil
}

// SetRecipient learns a transfer recipient mapping.
func (s *Store) SetRecipient(ctx context.Context, userID, recipient, category string) error {
	row := &RecipientRow{UserID: userID, Recipient: recipient, Category: category}
	if err := upsert(s.db.WithContext(ctx), row, []string{"user_id", "recipient"}, "category"); err != nil {
		return fmt.Errorf("saving recipient mapping: %w", err)
	}
	return nil
}

// DeleteRecipient forgets a transfer recipient mapping.
func (s *Store) DeleteRecipient(ctx context.Context, userID, recipient string) error {
	err := deleteOne(s.db.WithContext(ctx), &RecipientRow{}, "user_id = ? AND recipient = ?", userID, recipient)
	if err != nil {
		return fmt.Errorf("deleting recipient %s: %w", recipient, err)
	}
	return nil
}

func loadCategories(tx *gorm.DB, userID string) ([]model.Category, error) {
	var rows []CategoryRow
	if err := tx.Where("user_id = ?", userID).Order("position, created_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}
	cats := make([]model.Category, len(rows))
	for i, r := range rows {
		cats[i] = model.Category{
			ID:        strings.TrimPrefix(r.ID, userID+":"),
			Name:      r.Name,
			Keywords:  r.Keywords,
			Group:     r.GroupName,
			IsDefault: r.IsDefault,
		}
	}
	return cats, nil
}

func findCategory(tx *gorm.DB, userID, name string) (CategoryRow, error) {
	var row CategoryRow
	err := tx.Where("user_id = ? AND name = ? COLLATE NOCASE", userID, name).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return row, ErrNotFound
	}
	return row, err
}

func insertCategories(tx *gorm.DB, userID string, cats []model.Category) error {
	for i, c := range cats {
		if err := tx.Create(categoryRow(userID, c, i+1)).Error; err != nil {
			return fmt.Errorf("creating category %q: %w", c.Name, err)
		}
	}
	return nil
}

// categoryRow builds a row. IDs are only unique per user, so a given ID is
// prefixed with the user.
func categoryRow(userID string, c model.Category, pos int) *CategoryRow {
	id := ""
	if c.ID != "" {
		id = userID + ":" + c.ID
	}
	return &CategoryRow{
		ID:        id,
		UserID:    userID,
		Name:      c.Name,
		GroupName: c.Group,
		Keywords:  c.Keywords,
		Position:  pos,
		IsDefault: c.IsDefault,
	}
}
