package services

import (
	"context"
	"strings"

	apperrors "idoljournal/internal/errors"
	"idoljournal/internal/preferences"
)

// maxPreferenceKeyLength bounds preference keys.
const maxPreferenceKeyLength = 100

// preferenceService exposes the preference store with validation and error
// mapping.
type preferenceService struct {
	prefs preferences.Store
}

// NewPreferenceService creates a new PreferenceServicer.
func NewPreferenceService(prefs preferences.Store) PreferenceServicer {
	return &preferenceService{prefs: prefs}
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" || len(key) > maxPreferenceKeyLength {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid preference key")
	}
	return nil
}

func (s *preferenceService) GetPreference(ctx context.Context, userID, key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	value, ok, err := s.prefs.GetItem(ctx, userID, key)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !ok {
		return "", apperrors.ErrPreferenceNotFound
	}
	return value, nil
}

func (s *preferenceService) SetPreference(ctx context.Context, userID, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := s.prefs.SetItem(ctx, userID, key, value); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *preferenceService) DeletePreference(ctx context.Context, userID, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := s.prefs.RemoveItem(ctx, userID, key); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
