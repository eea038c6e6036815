package models

// Preference is a small per-user key/value pair, such as the currently
// selected artist or settings uploaded by older clients.
type Preference struct {
	Base
	UserID string `gorm:"type:uuid;not null;uniqueIndex:idx_preferences_user_key" json:"user_id"`
	Key    string `gorm:"not null;uniqueIndex:idx_preferences_user_key" json:"key"`
	Value  string `gorm:"not null" json:"value"`
}
