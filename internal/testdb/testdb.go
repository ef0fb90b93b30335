// Package testdb opens throwaway, fully migrated SQLite databases for tests.
package testdb

import (
	"context"
	"path/filepath"
	"testing"

	_ "github.com/shashiranjanraj/bookstore/database/migrations"
	"github.com/shashiranjanraj/bookstore/pkg/database"
	"github.com/shashiranjanraj/bookstore/pkg/migration"
	"gorm.io/gorm"
)

// Open returns a migrated database in t's temp dir. Writers take the SQLite
// write lock at BEGIN, so concurrent transactions queue instead of failing.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "bookstore.db") + "?_busy_timeout=10000&_txlock=immediate&_foreign_keys=1"
	db, err := database.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("testdb: open: %v", err)
	}

	if _, err := migration.New(db).Run(context.Background()); err != nil {
		t.Fatalf("testdb: migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
