package metrics

import (
	"log"

	"gorm.io/gorm"

	"github.com/storekit/translations-backend/internal/models"
)

// UpdateTranslationMetrics queries the database and refreshes the
// translation gauges. Call this after admin writes or periodically.
func UpdateTranslationMetrics(db *gorm.DB) {
	if db == nil {
		return
	}

	var active int64
	if err := db.Model(&models.Language{}).Where("is_active = ?", true).Count(&active).Error; err != nil {
		log.Printf("Metrics: failed to count active languages: %v", err)
	} else {
		LanguagesActive.Set(float64(active))
	}

	type langCount struct {
		LanguageCode string
		Total        int64
	}
	var counts []langCount
	if err := db.Model(&models.LanguageValue{}).
		Select("language_code, COUNT(*) as total").
		Group("language_code").
		Scan(&counts).Error; err != nil {
		log.Printf("Metrics: failed to count entries by language: %v", err)
	} else {
		for _, lc := range counts {
			EntriesByLanguage.WithLabelValues(lc.LanguageCode).Set(float64(lc.Total))
		}
	}

	// Placeholder rows are the translation backlog: value never edited away
	// from the original key.
	var placeholders []langCount
	if err := db.Model(&models.LanguageValue{}).
		Select("language_code, COUNT(*) as total").
		Where("destination_value = original_key").
		Group("language_code").
		Scan(&placeholders).Error; err != nil {
		log.Printf("Metrics: failed to count placeholder entries: %v", err)
	} else {
		for _, lc := range placeholders {
			PlaceholdersByLanguage.WithLabelValues(lc.LanguageCode).Set(float64(lc.Total))
		}
	}
}
