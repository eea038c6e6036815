package services

import (
	"context"
	"strings"
	"unicode/utf8"

	apperrors "idoljournal/internal/errors"
	"idoljournal/internal/logger"
	"idoljournal/internal/models"
	"idoljournal/internal/preferences"
	"idoljournal/internal/store"
)

// MaxArtistNameLength bounds artist names, counted in characters.
const MaxArtistNameLength = 100

// artistService handles artist-related business logic.
type artistService struct {
	artists store.Collection[models.Artist]
	prefs   preferences.Store
}

// NewArtistService creates a new ArtistServicer.
func NewArtistService(artists store.Collection[models.Artist], prefs preferences.Store) ArtistServicer {
	return &artistService{artists: artists, prefs: prefs}
}

func normalizeArtist(in ArtistInput) (ArtistInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "artist name is required")
	}
	if utf8.RuneCountInString(in.Name) > MaxArtistNameLength {
		return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "artist name is too long")
	}
	if len(in.Photos) > models.MaxArtistPhotos {
		return in, apperrors.ErrPhotoLimitReached
	}
	for _, p := range in.Photos {
		if strings.TrimSpace(p) == "" {
			return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "photo URL is required")
		}
	}
	return in, nil
}

// CreateArtist adds an artist and makes it the current selection.
func (s *artistService) CreateArtist(ctx context.Context, userID string, in ArtistInput) (*models.Artist, error) {
	in, err := normalizeArtist(in)
	if err != nil {
		return nil, err
	}
	photos := in.Photos
	if photos == nil {
		photos = []string{}
	}

	artist := &models.Artist{
		UserID:    userID,
		Name:      in.Name,
		Photos:    photos,
		StartDate: in.StartDate,
	}
	if err := s.artists.Create(ctx, artist); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.prefs.SetItem(ctx, userID, preferences.KeyCurrentArtist, artist.ID); err != nil {
		logger.Get().Warnw("failed to select new artist", "user_id", userID, "artist_id", artist.ID, "error", err)
	}
	return artist, nil
}

// GetUserArtists lists the user's artists, oldest first.
func (s *artistService) GetUserArtists(ctx context.Context, userID string) ([]models.Artist, error) {
	artists, err := s.artists.QueryEq(ctx, "user_id", userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return artists, nil
}

// GetArtistByID retrieves an artist owned by the user.
func (s *artistService) GetArtistByID(ctx context.Context, userID, artistID string) (*models.Artist, error) {
	artist, err := s.artists.Get(ctx, artistID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrArtistNotFound)
	}
	if artist.UserID != userID {
		return nil, apperrors.ErrArtistNotFound
	}
	if artist.Photos == nil {
		artist.Photos = []string{}
	}
	return artist, nil
}

// UpdateArtist renames the artist. Photos and start date change only when
// given.
func (s *artistService) UpdateArtist(ctx context.Context, userID, artistID string, in ArtistInput) (*models.Artist, error) {
	if _, err := s.GetArtistByID(ctx, userID, artistID); err != nil {
		return nil, err
	}
	in, err := normalizeArtist(in)
	if err != nil {
		return nil, err
	}

	patch := map[string]any{"name": in.Name}
	if in.Photos != nil {
		patch["photos"] = in.Photos
	}
	if in.StartDate != nil {
		patch["start_date"] = *in.StartDate
	}
	if err := s.artists.Update(ctx, artistID, patch); err != nil {
		return nil, storeError(err, apperrors.ErrArtistNotFound)
	}
	return s.GetArtistByID(ctx, userID, artistID)
}

// DeleteArtist removes the artist. Its expenses stay in place and remain
// reachable by artist name. When it was the current selection, the oldest
// remaining artist is selected instead.
func (s *artistService) DeleteArtist(ctx context.Context, userID, artistID string) error {
	if _, err := s.GetArtistByID(ctx, userID, artistID); err != nil {
		return err
	}
	if err := s.artists.Delete(ctx, artistID); err != nil {
		return storeError(err, apperrors.ErrArtistNotFound)
	}

	current, ok, err := s.prefs.GetItem(ctx, userID, preferences.KeyCurrentArtist)
	if err != nil {
		logger.Get().Warnw("failed to read current artist", "user_id", userID, "error", err)
		return nil
	}
	if !ok || current != artistID {
		return nil
	}

	remaining, err := s.GetUserArtists(ctx, userID)
	if err != nil {
		logger.Get().Warnw("failed to list artists after delete", "user_id", userID, "error", err)
		return nil
	}
	if len(remaining) > 0 {
		err = s.prefs.SetItem(ctx, userID, preferences.KeyCurrentArtist, remaining[0].ID)
	} else {
		err = s.prefs.RemoveItem(ctx, userID, preferences.KeyCurrentArtist)
	}
	if err != nil {
		logger.Get().Warnw("failed to update current artist", "user_id", userID, "error", err)
	}
	return nil
}

// AddPhoto appends a photo URL.
func (s *artistService) AddPhoto(ctx context.Context, userID, artistID, url string) (*models.Artist, error) {
	artist, err := s.GetArtistByID(ctx, userID, artistID)
	if err != nil {
		return nil, err
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "photo URL is required")
	}
	if len(artist.Photos) >= models.MaxArtistPhotos {
		return nil, apperrors.ErrPhotoLimitReached
	}

	photos := append(append([]string{}, artist.Photos...), url)
	if err := s.artists.Update(ctx, artistID, map[string]any{"photos": photos}); err != nil {
		return nil, storeError(err, apperrors.ErrArtistNotFound)
	}
	return s.GetArtistByID(ctx, userID, artistID)
}

// RemovePhoto deletes the photo at index, shifting later photos down.
func (s *artistService) RemovePhoto(ctx context.Context, userID, artistID string, index int) (*models.Artist, error) {
	artist, err := s.GetArtistByID(ctx, userID, artistID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(artist.Photos) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "photo index out of range")
	}

	photos := make([]string, 0, len(artist.Photos)-1)
	photos = append(photos, artist.Photos[:index]...)
	photos = append(photos, artist.Photos[index+1:]...)
	if err := s.artists.Update(ctx, artistID, map[string]any{"photos": photos}); err != nil {
		return nil, storeError(err, apperrors.ErrArtistNotFound)
	}
	return s.GetArtistByID(ctx, userID, artistID)
}
