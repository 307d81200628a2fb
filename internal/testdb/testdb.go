// Package testdb opens throwaway SQLite databases migrated with the
// catalog schema.
package testdb

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/product_catalog/internal/repo"
)

func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// every connection to :memory: is a new database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

// Seeded is New plus the fixed catalog seed.
func Seeded(t testing.TB) *gorm.DB {
	t.Helper()

	db := New(t)
	if err := repo.Seed(context.Background(), db); err != nil {
		t.Fatalf("failed to seed db: %v", err)
	}
	return db
}
