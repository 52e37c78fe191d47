package models

import "time"

// Language is a storefront display language. Exactly one language should be
// the default at any time; it is the last hop of the resolver fallback chain.
type Language struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Code       string    `json:"code" gorm:"uniqueIndex;not null;size:10"` // lowercase BCP 47 base, e.g. "en"
	Name       string    `json:"name" gorm:"not null"`
	NativeName string    `json:"native_name"`
	IsDefault  bool      `json:"is_default" gorm:"default:false;index"`
	IsActive   bool      `json:"is_active" gorm:"default:true;index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Language) TableName() string {
	return "languages"
}
