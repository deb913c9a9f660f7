// Package ledger persists the qualified_name -> ElementId mapping across
// process restarts, extending the identity invariant beyond a single
// session's interchange round-trip to repeated kermlsem invocations against
// the same workspace directory.
package ledger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Entry is one qualified_name -> ElementId row.
type Entry struct {
	QualifiedName string `gorm:"primaryKey;type:varchar(512)"`
	ElementID     string `gorm:"type:varchar(64);index;not null"`
	Kind          string `gorm:"type:varchar(32)"`
	UpdatedAt     time.Time
}

func (Entry) TableName() string { return "ledger_entries" }

// Ledger is a persistent qualified_name -> ElementId side table backed by
// sqlite.
type Ledger struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Open connects to (creating if necessary) the sqlite database at path and
// runs migrations. path may be ":memory:" for a transient, test-only ledger.
func Open(path string, logger *slog.Logger) (*Ledger, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("ledger: create directory: %w", err)
			}
		}
	}

	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	db, err := gorm.Open(sqlite.Open(path), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("ledger: connect: %w", err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("ledger: migrate: %w", err)
	}

	logger.Debug("ledger opened", "path", path)
	return &Ledger{db: db, logger: logger}, nil
}

// Close releases the underlying database connection.
func (l *Ledger) Close() error {
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Lookup returns the remembered ElementId for qualifiedName, if any.
func (l *Ledger) Lookup(qualifiedName string) (string, bool) {
	var entry Entry
	if err := l.db.First(&entry, "qualified_name = ?", qualifiedName).Error; err != nil {
		return "", false
	}
	return entry.ElementID, true
}

// LoadAll returns the full qualified_name -> ElementId map, for feeding
// directly into interchange.ApplyMetadata.
func (l *Ledger) LoadAll() (map[string]string, error) {
	var entries []Entry
	if err := l.db.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("ledger: load all: %w", err)
	}
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		out[e.QualifiedName] = e.ElementID
	}
	return out, nil
}

// Put remembers (or updates) the ElementId for qualifiedName.
func (l *Ledger) Put(qualifiedName, elementID, kind string) error {
	entry := Entry{QualifiedName: qualifiedName, ElementID: elementID, Kind: kind, UpdatedAt: time.Now()}
	return l.db.Save(&entry).Error
}

// PutAll upserts every (qualifiedName, elementID, kind) triple in one
// transaction.
func (l *Ledger) PutAll(entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	now := time.Now()
	err := l.db.Transaction(func(tx *gorm.DB) error {
		for i := range entries {
			entries[i].UpdatedAt = now
			if err := tx.Save(&entries[i]).Error; err != nil {
				return fmt.Errorf("ledger: put %s: %w", entries[i].QualifiedName, err)
			}
		}
		return nil
	})
	if err == nil {
		l.logger.Debug("ledger entries persisted", "count", len(entries))
	}
	return err
}

// Forget removes a remembered mapping, e.g. when a symbol is deleted and its
// qualified name should be free to be reassigned a fresh id later.
func (l *Ledger) Forget(qualifiedName string) error {
	return l.db.Delete(&Entry{}, "qualified_name = ?", qualifiedName).Error
}
