// Package testdb opens throwaway sqlite databases for package tests.
package testdb

import (
	"testing"

	"github.com/Rakhulsr/go-catalog-admin/app/models/migrations"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated in-memory database. The pool is pinned to a single
// connection so every query, inside or outside a transaction, sees the same
// memory database.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := migrations.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}
	return db
}
