package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storekit/translations-backend/internal/models"
)

// ErrTranslationNotFound is returned for updates/deletes by id that match no row.
var ErrTranslationNotFound = errors.New("translation not found")

// LanguageValueStore is the persistence layer for translation entries.
// It owns key-hash consistency: every write normalizes the language code and
// key and recomputes the hash, so a row can never carry a stale hash.
type LanguageValueStore struct {
	db *gorm.DB
}

func NewLanguageValueStore(db *gorm.DB) *LanguageValueStore {
	return &LanguageValueStore{db: db}
}

// FindByLanguageAndHash returns the entry for (language, key hash), or nil
// when absent.
func (s *LanguageValueStore) FindByLanguageAndHash(languageCode, keyHash string) (*models.LanguageValue, error) {
	var value models.LanguageValue
	err := s.db.Where("language_code = ? AND key_hash = ?",
		NormalizeLanguageCode(languageCode, ""), keyHash).First(&value).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// FindByLanguageAndOriginalKey looks an entry up by the human-readable key.
func (s *LanguageValueStore) FindByLanguageAndOriginalKey(languageCode, originalKey string) (*models.LanguageValue, error) {
	var value models.LanguageValue
	err := s.db.Where("language_code = ? AND original_key = ?",
		NormalizeLanguageCode(languageCode, ""), NormalizeKey(originalKey)).First(&value).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// FindAllByLanguage returns every entry for a language, ordered by key.
func (s *LanguageValueStore) FindAllByLanguage(languageCode string) ([]models.LanguageValue, error) {
	var values []models.LanguageValue
	err := s.db.Where("language_code = ?", NormalizeLanguageCode(languageCode, "")).
		Order("original_key ASC").
		Find(&values).Error
	return values, err
}

// Create upserts an entry. An existing (language, hash) row gets its value
// replaced; this is the administrative "set translation" path.
func (s *LanguageValueStore) Create(value *models.LanguageValue) error {
	if err := s.normalize(value); err != nil {
		return err
	}

	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "language_code"}, {Name: "key_hash"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"destination_value", "updated_at",
		}),
	}).Create(value).Error
}

// CreateIfAbsent inserts an entry only when no row exists for its
// (language, hash) pair. Conflicts are ignored, which makes the resolver's
// concurrent placeholder inserts race-safe: whoever loses the race simply
// keeps the winner's identical row.
func (s *LanguageValueStore) CreateIfAbsent(value *models.LanguageValue) error {
	if err := s.normalize(value); err != nil {
		return err
	}

	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "language_code"}, {Name: "key_hash"}},
		DoNothing: true,
	}).Create(value).Error
}

// Update applies a partial update and bumps UpdatedAt. The key hash is
// recomputed when the original key changes.
func (s *LanguageValueStore) Update(id uint, updates map[string]interface{}) (*models.LanguageValue, error) {
	var value models.LanguageValue
	if err := s.db.First(&value, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTranslationNotFound
		}
		return nil, err
	}

	if key, ok := updates["original_key"].(string); ok {
		key = NormalizeKey(key)
		if key == "" {
			return nil, fmt.Errorf("original key cannot be empty")
		}
		updates["original_key"] = key
		updates["key_hash"] = HashKey(key)
	}
	updates["updated_at"] = time.Now()

	if err := s.db.Model(&value).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := s.db.First(&value, id).Error; err != nil {
		return nil, err
	}
	return &value, nil
}

// Delete removes an entry by id.
func (s *LanguageValueStore) Delete(id uint) error {
	res := s.db.Delete(&models.LanguageValue{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTranslationNotFound
	}
	return nil
}

// DeleteByLanguageAndHash removes the entry for a (language, hash) pair.
func (s *LanguageValueStore) DeleteByLanguageAndHash(languageCode, keyHash string) error {
	return s.db.Where("language_code = ? AND key_hash = ?",
		NormalizeLanguageCode(languageCode, ""), keyHash).
		Delete(&models.LanguageValue{}).Error
}

// FindMissingTranslations returns one representative entry per key that
// exists in some other language but has no row in the given language.
// Translators use this for gap audits.
func (s *LanguageValueStore) FindMissingTranslations(languageCode string) ([]models.LanguageValue, error) {
	languageCode = NormalizeLanguageCode(languageCode, "")

	var values []models.LanguageValue
	err := s.db.Raw(`
		SELECT MIN(lv1.id) AS id, lv1.key_hash, lv1.original_key
		FROM language_values lv1
		WHERE lv1.language_code != ?
		  AND NOT EXISTS (
			SELECT 1 FROM language_values lv2
			WHERE lv2.language_code = ? AND lv2.key_hash = lv1.key_hash
		  )
		GROUP BY lv1.key_hash, lv1.original_key
		ORDER BY lv1.original_key ASC
	`, languageCode, languageCode).Scan(&values).Error
	return values, err
}

func (s *LanguageValueStore) normalize(value *models.LanguageValue) error {
	value.LanguageCode = NormalizeLanguageCode(value.LanguageCode, "")
	if value.LanguageCode == "" {
		return fmt.Errorf("language code is required")
	}
	value.OriginalKey = NormalizeKey(value.OriginalKey)
	if value.OriginalKey == "" {
		return fmt.Errorf("original key is required")
	}
	value.KeyHash = HashKey(value.OriginalKey)
	return nil
}
