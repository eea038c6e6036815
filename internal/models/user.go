package models

import "time"

// User represents an authenticated journal owner.
type User struct {
	Base
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	DisplayName string     `json:"display_name"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	Artists     []Artist   `gorm:"foreignKey:UserID" json:"artists,omitempty"`
}
