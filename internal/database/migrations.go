package database

import (
	"crypto/md5"
	"encoding/hex"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/storekit/translations-backend/internal/models"
)

// RunMigrations runs custom data migrations after schema changes.
func RunMigrations(db *gorm.DB, defaultLanguage string) error {
	if err := backfillKeyHashes(db); err != nil {
		return err
	}
	if err := ensureDefaultLanguage(db, defaultLanguage); err != nil {
		return err
	}
	return nil
}

// backfillKeyHashes repairs rows whose key_hash is missing or stale relative
// to original_key. Safe to run multiple times; rows with a consistent hash
// are left untouched.
func backfillKeyHashes(db *gorm.DB) error {
	var values []models.LanguageValue
	if err := db.Find(&values).Error; err != nil {
		return err
	}

	fixed := 0
	for _, v := range values {
		sum := md5.Sum([]byte(strings.TrimSpace(v.OriginalKey)))
		want := hex.EncodeToString(sum[:])
		if v.KeyHash == want {
			continue
		}
		if err := db.Model(&models.LanguageValue{}).
			Where("id = ?", v.ID).
			UpdateColumn("key_hash", want).Error; err != nil {
			log.Printf("Warning: failed to backfill key_hash for id=%d: %v", v.ID, err)
			continue
		}
		fixed++
	}

	if fixed > 0 {
		log.Printf("Backfilled key_hash on %d language_values rows", fixed)
	}
	return nil
}

// ensureDefaultLanguage seeds the configured default language when the
// languages table is empty, so the resolver always has a fallback chain.
func ensureDefaultLanguage(db *gorm.DB, code string) error {
	var count int64
	if err := db.Model(&models.Language{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	lang := models.Language{
		Code:      code,
		Name:      strings.ToUpper(code[:1]) + code[1:],
		IsDefault: true,
		IsActive:  true,
	}
	if err := db.Create(&lang).Error; err != nil {
		return err
	}

	log.Printf("Seeded default language %q", code)
	return nil
}
