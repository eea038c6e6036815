package models

import "time"

// MaxArtistPhotos is the number of photo slots an artist profile offers.
const MaxArtistPhotos = 3

// Artist is an idol the user supports. Expenses reference it by ID and keep a
// copy of its name, so deleting an artist leaves its history queryable.
type Artist struct {
	Base
	UserID    string     `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string     `gorm:"not null" json:"name"`
	Photos    []string   `gorm:"serializer:json" json:"photos"`
	StartDate *time.Time `json:"start_date,omitempty"`
}
