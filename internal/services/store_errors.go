package services

import (
	"errors"

	apperrors "idoljournal/internal/errors"
	"idoljournal/internal/store"
)

// storeError maps a store failure onto notFound or an internal error.
func storeError(err error, notFound *apperrors.AppError) error {
	if errors.Is(err, store.ErrNotFound) {
		return notFound
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
