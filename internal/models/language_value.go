package models

import "time"

// LanguageValue is one translation entry: (language_code, key_hash) -> text.
// KeyHash is the MD5 hex of the trimmed OriginalKey and is the indexed lookup
// field; the store computes it, callers never set it by hand.
type LanguageValue struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	KeyHash          string    `json:"key_hash" gorm:"not null;size:32;uniqueIndex:idx_lang_values_lang_hash,priority:2"`
	LanguageCode     string    `json:"language_code" gorm:"not null;size:10;uniqueIndex:idx_lang_values_lang_hash,priority:1"`
	OriginalKey      string    `json:"original_key" gorm:"not null"`
	DestinationValue string    `json:"destination_value" gorm:"not null"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (LanguageValue) TableName() string {
	return "language_values"
}

// IsPlaceholder reports whether this entry is an auto-inserted stub still
// waiting for a real translation (value equals the key it was created from).
func (v *LanguageValue) IsPlaceholder() bool {
	return v.DestinationValue == v.OriginalKey
}
