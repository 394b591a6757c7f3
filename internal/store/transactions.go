package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cleared-dev/spendsort/internal/model"
)

// Upload describes an imported file.
type Upload struct {
	ID       string
	FileName string
	FileHash string // hex MD5 of the file bytes
	Size     int64
	Skipped  int
}

// SaveTransactions records an upload and upserts its rows on
// (user_id, transaction_key). It returns the upload ID.
func (s *Store) SaveTransactions(ctx context.Context, userID string, up Upload, txns []model.CategorizedTransaction) (string, error) {
	upload := &UploadRow{
		ID:       up.ID,
		UserID:   userID,
		FileName: up.FileName,
		FileHash: up.FileHash,
		Size:     up.Size,
		Rows:     len(txns),
		Skipped:  up.Skipped,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(upload).Error; err != nil {
			return fmt.Errorf("recording upload: %w", err)
		}
		for _, t := range txns {
			row := &TransactionRow{
				UserID:         userID,
				TransactionKey: t.Key,
				Description:    t.Description,
				Amount:         t.Amount,
				Date:           t.Date,
				Category:       t.Category,
				Status:         string(t.Status),
				Merchant:       t.Merchant,
				Recipient:      t.Recipient,
				UploadID:       upload.ID,
			}
			err := upsert(tx, row, []string{"user_id", "transaction_key"},
				"description", "amount", "date", "category", "status", "merchant", "recipient", "upload_id")
			if err != nil {
				return fmt.Errorf("saving transaction %s: %w", t.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return upload.ID, nil
}

// UploadExists reports whether a file with this hash was already imported.
func (s *Store) UploadExists(ctx context.Context, userID, hash string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&UploadRow{}).
		Where("user_id = ? AND file_hash = ?", userID, hash).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("checking uploads: %w", err)
	}
	return n > 0, nil
}

// DeleteUpload forgets an upload record so the same file can be imported
// again. Its transactions stay; a re-import upserts them.
func (s *Store) DeleteUpload(ctx context.Context, userID, id string) error {
	err := deleteOne(s.db.WithContext(ctx), &UploadRow{}, "user_id = ? AND id = ?", userID, id)
	if err != nil {
		return fmt.Errorf("deleting upload %s: %w", id, err)
	}
	return nil
}

// Transactions returns a user's stored transactions, oldest import first.
func (s *Store) Transactions(ctx context.Context, userID string) ([]model.CategorizedTransaction, error) {
	var rows []TransactionRow
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at, id").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}
	out := make([]model.CategorizedTransaction, len(rows))
	for i, r := range rows {
		out[i] = r.categorized()
	}
	return out, nil
}

// Transaction returns the stored transaction with key.
func (s *Store) Transaction(ctx context.Context, userID, key string) (model.CategorizedTransaction, error) {
	var row TransactionRow
	err := s.db.WithContext(ctx).Where("user_id = ? AND transaction_key = ?", userID, key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CategorizedTransaction{}, fmt.Errorf("transaction %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return model.CategorizedTransaction{}, fmt.Errorf("loading transaction %s: %w", key, err)
	}
	return row.categorized(), nil
}

func (r TransactionRow) categorized() model.CategorizedTransaction {
	return model.CategorizedTransaction{
		Transaction: model.Transaction{
			Description: r.Description,
			Amount:      r.Amount,
			Date:        r.Date,
		},
		Key:       r.TransactionKey,
		Merchant:  r.Merchant,
		Recipient: r.Recipient,
		Category:  r.Category,
		Status:    model.Status(r.Status),
	}
}
