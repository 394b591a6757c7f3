// Package store persists per-user reference data and categorized
// transactions in SQLite through gorm.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = "file::memory:"

var (
	// ErrNotFound is returned when a named category, mapping or transaction
	// does not exist for the user.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when creating a category whose name is taken.
	ErrDuplicate = errors.New("already exists")
)

// Store wraps the gorm handle.
type Store struct {
	db *gorm.DB
}

// Open connects to the SQLite database at dsn and migrates the schema. For
// file paths the parent directory is created.
func Open(dsn string, log zerolog.Logger) (*Store, error) {
	if dsn != MemoryDSN && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("creating database dir: %w", err)
		}
		dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}

	config := &gorm.Config{
		// Set generated timestamps in UTC
		NowFunc: func() time.Time {
			return time.Now().In(time.UTC)
		},
		Logger: &gormLogger{Logger: log.With().Str("component", "store").Logger()},
	}

	db, err := gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting database handle: %w", err)
	}
	// A single connection avoids SQLITE_BUSY and keeps :memory: databases
	// shared across queries.
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(allModels()...); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// upsert inserts row or, when the conflict columns match an existing row,
// overwrites the update columns. Last write wins.
func upsert(tx *gorm.DB, row any, conflict []string, update ...string) error {
	cols := make([]clause.Column, len(conflict))
	for i, c := range conflict {
		cols[i] = clause.Column{Name: c}
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   cols,
		DoUpdates: clause.AssignmentColumns(append(update, "updated_at")),
	}).Create(row).Error
}

// deleteOne deletes rows matching the query and reports ErrNotFound when
// nothing was removed.
func deleteOne(tx *gorm.DB, model any, query string, args ...any) error {
	res := tx.Where(query, args...).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
