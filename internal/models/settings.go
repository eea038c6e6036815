package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CountdownEvent is a dated milestone shown with a days-left counter.
type CountdownEvent struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
}

// Settings is the per-user settings document. Budgets are keyed by "YYYY-MM";
// the annual figure is always derived from them. StartDate is the account-wide
// support start used when an artist has none of its own.
type Settings struct {
	Base
	UserID          string                     `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	MonthlyBudgets  map[string]decimal.Decimal `gorm:"serializer:json" json:"monthly_budgets"`
	CountdownEvents []CountdownEvent           `gorm:"serializer:json" json:"countdown_events"`
	StartDate       *time.Time                 `json:"start_date,omitempty"`
}
