package services

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "idoljournal/internal/errors"
	"idoljournal/internal/models"
	"idoljournal/internal/pagination"
	"idoljournal/internal/store"
)

// MaxDescriptionLength bounds expense descriptions, counted in characters.
const MaxDescriptionLength = 200

// expenseService handles expense-related business logic.
type expenseService struct {
	expenses store.Collection[models.Expense]
	artists  store.Collection[models.Artist]
	now      func() time.Time
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(expenses store.Collection[models.Expense], artists store.Collection[models.Artist]) ExpenseServicer {
	return &expenseService{expenses: expenses, artists: artists, now: time.Now}
}

// validateExpense checks the amount after rounding to cents, so a sub-cent
// amount that would be stored as zero is rejected.
func validateExpense(in ExpenseInput) (ExpenseInput, error) {
	in.Amount = in.Amount.Round(2)
	if !in.Amount.IsPositive() {
		return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if !in.Category.Valid() {
		return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown expense category")
	}
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if utf8.RuneCountInString(in.Description) > MaxDescriptionLength {
		return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is too long")
	}
	return in, nil
}

// CreateExpense records an expense against one of the user's artists. The
// artist's name is copied onto the expense.
func (s *expenseService) CreateExpense(ctx context.Context, userID, artistID string, in ExpenseInput) (*models.Expense, error) {
	in, err := validateExpense(in)
	if err != nil {
		return nil, err
	}

	artist, err := s.artists.Get(ctx, artistID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrArtistNotFound)
	}
	if artist.UserID != userID {
		return nil, apperrors.ErrArtistNotFound
	}

	expense := &models.Expense{
		UserID:      userID,
		ArtistID:    &artist.ID,
		ArtistName:  artist.Name,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		RecordedAt:  s.now(),
	}
	if err := s.expenses.Create(ctx, expense); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// GetExpenses lists the user's expenses, newest first.
func (s *expenseService) GetExpenses(ctx context.Context, userID string, filter ExpenseFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	f := store.Filter{"user_id": userID}
	switch {
	case filter.ArtistID != "":
		f["artist_id"] = filter.ArtistID
	case filter.ArtistName != "":
		f["artist_name"] = filter.ArtistName
	}

	result, err := s.expenses.QueryPage(ctx, f, page)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// GetExpenseByID retrieves an expense owned by the user.
func (s *expenseService) GetExpenseByID(ctx context.Context, userID, expenseID string) (*models.Expense, error) {
	expense, err := s.expenses.Get(ctx, expenseID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrExpenseNotFound)
	}
	if expense.UserID != userID {
		return nil, apperrors.ErrExpenseNotFound
	}
	return expense, nil
}

// UpdateExpense replaces amount, category and description. The recorded
// time is kept.
func (s *expenseService) UpdateExpense(ctx context.Context, userID, expenseID string, in ExpenseInput) (*models.Expense, error) {
	if _, err := s.GetExpenseByID(ctx, userID, expenseID); err != nil {
		return nil, err
	}
	in, err := validateExpense(in)
	if err != nil {
		return nil, err
	}

	patch := map[string]any{
		"amount":      in.Amount,
		"category":    in.Category,
		"description": in.Description,
	}
	if err := s.expenses.Update(ctx, expenseID, patch); err != nil {
		return nil, storeError(err, apperrors.ErrExpenseNotFound)
	}
	return s.GetExpenseByID(ctx, userID, expenseID)
}

// DeleteExpense removes an expense.
func (s *expenseService) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	if _, err := s.GetExpenseByID(ctx, userID, expenseID); err != nil {
		return err
	}
	if err := s.expenses.Delete(ctx, expenseID); err != nil {
		return storeError(err, apperrors.ErrExpenseNotFound)
	}
	return nil
}

// ArtistExpenses returns the artist's expenses, newest first. Rows without
// an artist id that carry the artist's name are included until the backfill
// links them.
func (s *expenseService) ArtistExpenses(ctx context.Context, userID string, artist *models.Artist) ([]models.Expense, error) {
	linked, err := s.expenses.QueryEqAll(ctx, store.Filter{"user_id": userID, "artist_id": artist.ID})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	unlinked, err := s.expenses.QueryEqAll(ctx, store.Filter{"user_id": userID, "artist_id": nil, "artist_name": artist.Name})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(unlinked) == 0 {
		return linked, nil
	}

	all := append(linked, unlinked...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].RecordedAt.After(all[j].RecordedAt)
	})
	return all, nil
}
