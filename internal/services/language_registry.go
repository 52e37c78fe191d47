package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/storekit/translations-backend/internal/models"
)

var (
	// ErrLanguageNotFound is returned for lookups and updates by id that
	// match no row.
	ErrLanguageNotFound = errors.New("language not found")

	// ErrDefaultLanguage is returned when deleting or deactivating the
	// default language; callers must promote another language first.
	ErrDefaultLanguage = errors.New("cannot remove the default language")
)

// LanguageRegistry manages the set of supported languages and the single
// designated default.
type LanguageRegistry struct {
	db *gorm.DB
}

func NewLanguageRegistry(db *gorm.DB) *LanguageRegistry {
	return &LanguageRegistry{db: db}
}

// ListAll returns every language, default first, then alphabetical.
func (r *LanguageRegistry) ListAll() ([]models.Language, error) {
	var languages []models.Language
	err := r.db.Order("is_default DESC, name ASC").Find(&languages).Error
	return languages, err
}

// FindActive returns active languages, default first.
func (r *LanguageRegistry) FindActive() ([]models.Language, error) {
	var languages []models.Language
	err := r.db.Where("is_active = ?", true).
		Order("is_default DESC, name ASC").
		Find(&languages).Error
	return languages, err
}

// FindByCode returns the language with the given code, or nil when absent.
func (r *LanguageRegistry) FindByCode(code string) (*models.Language, error) {
	var lang models.Language
	err := r.db.Where("code = ?", NormalizeLanguageCode(code, "")).First(&lang).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lang, nil
}

// FindDefault returns the active default language, or nil when none is set.
func (r *LanguageRegistry) FindDefault() (*models.Language, error) {
	var lang models.Language
	err := r.db.Where("is_default = ? AND is_active = ?", true, true).First(&lang).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lang, nil
}

// Create validates and inserts a new language. The code must parse as a BCP 47
// tag and is stored lowercased. The first language ever created becomes the
// default; creating a language with IsDefault set demotes the previous one.
func (r *LanguageRegistry) Create(lang *models.Language) error {
	code, err := validateLanguageCode(lang.Code)
	if err != nil {
		return err
	}
	lang.Code = code

	if strings.TrimSpace(lang.Name) == "" {
		return fmt.Errorf("language name is required")
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Language{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			lang.IsDefault = true
		}
		if lang.IsDefault {
			if err := tx.Model(&models.Language{}).
				Where("is_default = ?", true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(lang).Error
	})
}

// Update applies a partial update to a language. Demoting the default via
// updates is rejected; use SetDefault on another language instead.
func (r *LanguageRegistry) Update(id uint, updates map[string]interface{}) (*models.Language, error) {
	var lang models.Language
	if err := r.db.First(&lang, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLanguageNotFound
		}
		return nil, err
	}

	if lang.IsDefault {
		if v, ok := updates["is_default"]; ok && v == false {
			return nil, ErrDefaultLanguage
		}
		if v, ok := updates["is_active"]; ok && v == false {
			return nil, ErrDefaultLanguage
		}
	}

	if code, ok := updates["code"].(string); ok {
		normalized, err := validateLanguageCode(code)
		if err != nil {
			return nil, err
		}
		updates["code"] = normalized
	}

	if err := r.db.Model(&lang).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := r.db.First(&lang, id).Error; err != nil {
		return nil, err
	}
	return &lang, nil
}

// Delete removes a language. Deleting the default is refused so the resolver
// fallback chain always terminates somewhere.
func (r *LanguageRegistry) Delete(id uint) error {
	var lang models.Language
	if err := r.db.First(&lang, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLanguageNotFound
		}
		return err
	}
	if lang.IsDefault {
		return ErrDefaultLanguage
	}
	return r.db.Delete(&models.Language{}, id).Error
}

// SetDefault promotes the given language to default and demotes the previous
// one in a single transaction, preserving the at-most-one-default invariant.
func (r *LanguageRegistry) SetDefault(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var lang models.Language
		if err := tx.First(&lang, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLanguageNotFound
			}
			return err
		}

		if err := tx.Model(&models.Language{}).
			Where("is_default = ?", true).
			Update("is_default", false).Error; err != nil {
			return err
		}

		// The default must be resolvable, so activate it as well.
		return tx.Model(&lang).
			Updates(map[string]interface{}{"is_default": true, "is_active": true}).Error
	})
}

func validateLanguageCode(code string) (string, error) {
	code = NormalizeLanguageCode(code, "")
	if code == "" {
		return "", fmt.Errorf("language code is required")
	}
	if _, err := language.Parse(code); err != nil {
		return "", fmt.Errorf("invalid language code %q: %w", code, err)
	}
	return code, nil
}
