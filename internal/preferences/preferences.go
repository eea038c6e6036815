// Package preferences stores small per-user string values such as the
// currently selected artist.
package preferences

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"idoljournal/internal/models"
)

// KeyCurrentArtist holds the id of the artist the user last selected.
const KeyCurrentArtist = "current_artist_id"

// Store is the per-user key/value port.
type Store interface {
	// GetItem returns the value for key and whether it was set.
	GetItem(ctx context.Context, userID, key string) (string, bool, error)
	SetItem(ctx context.Context, userID, key, value string) error
	// RemoveItem deletes key; removing an unset key is not an error.
	RemoveItem(ctx context.Context, userID, key string) error
	// Items returns every key the user has set.
	Items(ctx context.Context, userID string) (map[string]string, error)
}

type gormStore struct {
	db *gorm.DB
}

// NewGormStore returns a Store persisting to the preferences table.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) GetItem(ctx context.Context, userID, key string) (string, bool, error) {
	var pref models.Preference
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND key = ?", userID, key).
		First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return pref.Value, true, nil
}

func (s *gormStore) SetItem(ctx context.Context, userID, key, value string) error {
	pref := &models.Preference{UserID: userID, Key: key, Value: value}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(pref).Error
}

func (s *gormStore) RemoveItem(ctx context.Context, userID, key string) error {
	return s.db.WithContext(ctx).Unscoped().
		Where("user_id = ? AND key = ?", userID, key).
		Delete(&models.Preference{}).Error
}

func (s *gormStore) Items(ctx context.Context, userID string) (map[string]string, error) {
	var prefs []models.Preference
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&prefs).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(prefs))
	for _, p := range prefs {
		out[p.Key] = p.Value
	}
	return out, nil
}
