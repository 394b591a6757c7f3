package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Timestamps are maintained by gorm.
type Timestamps struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CategoryRow is one user category. Position preserves the order keyword
// rules are tried in.
type CategoryRow struct {
	ID        string   `gorm:"primaryKey"`
	UserID    string   `gorm:"not null;uniqueIndex:idx_categories_user_name"`
	Name      string   `gorm:"not null;uniqueIndex:idx_categories_user_name"`
	GroupName string   `gorm:"column:group_name"`
	Keywords  []string `gorm:"serializer:json"`
	Position  int      `gorm:"not null;index"`
	IsDefault bool
	Timestamps
}

func (CategoryRow) TableName() string { return "categories" }

// BeforeCreate assigns an ID to categories created without one.
func (r *CategoryRow) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// OverrideRow pins one transaction key to a category.
type OverrideRow struct {
	UserID         string `gorm:"primaryKey"`
	TransactionKey string `gorm:"primaryKey"`
	Category       string `gorm:"not null"`
	Timestamps
}

func (OverrideRow) TableName() string { return "transaction_overrides" }

// MerchantRow maps a normalized merchant token to a category.
type MerchantRow struct {
	UserID   string `gorm:"primaryKey"`
	Merchant string `gorm:"primaryKey"`
	Category string `gorm:"not null"`
	Timestamps
}

func (MerchantRow) TableName() string { return "merchant_mappings" }

// RecipientRow maps a transfer recipient to a category.
type RecipientRow struct {
	UserID    string `gorm:"primaryKey"`
	Recipient string `gorm:"primaryKey"`
	Category  string `gorm:"not null"`
	Timestamps
}

func (RecipientRow) TableName() string { return "recipient_mappings" }

// TransactionRow is a categorized statement row. (user_id, transaction_key)
// is unique so re-importing a statement updates rows in place.
type TransactionRow struct {
	ID             string          `gorm:"primaryKey"`
	UserID         string          `gorm:"not null;uniqueIndex:idx_transactions_user_key"`
	TransactionKey string          `gorm:"not null;uniqueIndex:idx_transactions_user_key"`
	Description    string          `gorm:"not null"`
	Amount         decimal.Decimal `gorm:"type:text;not null"`
	Date           string
	Category       string
	Status         string
	Merchant       string
	Recipient      string
	UploadID       string `gorm:"index"`
	Timestamps
}

func (TransactionRow) TableName() string { return "transactions" }

func (r *TransactionRow) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// UploadRow records one imported file.
type UploadRow struct {
	ID       string `gorm:"primaryKey"`
	UserID   string `gorm:"not null;index:idx_uploads_user_hash"`
	FileName string
	FileHash string `gorm:"not null;index:idx_uploads_user_hash"`
	Size     int64
	Rows     int
	Skipped  int
	Timestamps
}

func (UploadRow) TableName() string { return "uploads" }

func (r *UploadRow) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func allModels() []any {
	return []any{
		&CategoryRow{},
		&OverrideRow{},
		&MerchantRow{},
		&RecipientRow{},
		&TransactionRow{},
		&UploadRow{},
	}
}
