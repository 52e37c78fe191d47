package services

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/storekit/translations-backend/internal/models"
)

// newTestDB opens an isolated in-memory database migrated with the
// translation schema. Each test gets its own named memory DSN so parallel
// tests never share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// One connection keeps concurrent test writes from tripping over
	// sqlite shared-cache table locks.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&models.Language{}, &models.LanguageValue{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// seedLanguages inserts languages directly, bypassing registry validation.
func seedLanguages(t *testing.T, db *gorm.DB, languages ...models.Language) {
	t.Helper()
	for i := range languages {
		if err := db.Create(&languages[i]).Error; err != nil {
			t.Fatalf("Failed to seed language %s: %v", languages[i].Code, err)
		}
	}
}
