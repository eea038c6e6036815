package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCategory is one of the fixed spending buckets.
type ExpenseCategory string

const (
	CategoryMerchandise  ExpenseCategory = "merchandise"
	CategoryConcert      ExpenseCategory = "concert"
	CategorySupportEvent ExpenseCategory = "support_event"
	CategoryOther        ExpenseCategory = "other"
)

// ExpenseCategories lists every category in display order.
var ExpenseCategories = []ExpenseCategory{
	CategoryMerchandise,
	CategoryConcert,
	CategorySupportEvent,
	CategoryOther,
}

var categoryLabels = map[ExpenseCategory]string{
	CategoryMerchandise:  "Merchandise",
	CategoryConcert:      "Concert",
	CategorySupportEvent: "Support Event",
	CategoryOther:        "Other",
}

// Valid reports whether c is a known category.
func (c ExpenseCategory) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the display name, or the raw value for unknown categories.
func (c ExpenseCategory) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Expense is a single spending entry.
type Expense struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index:idx_expenses_user_artist" json:"user_id"`
	ArtistID    *string         `gorm:"type:uuid;index:idx_expenses_user_artist" json:"artist_id,omitempty"`
	ArtistName  string          `gorm:"not null;index" json:"artist_name"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Category    ExpenseCategory `gorm:"not null" json:"category"`
	Description string          `gorm:"not null" json:"description"`
	RecordedAt  time.Time       `gorm:"not null;index" json:"recorded_at"`
}
