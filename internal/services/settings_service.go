package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "idoljournal/internal/errors"
	"idoljournal/internal/models"
	"idoljournal/internal/stats"
	"idoljournal/internal/store"
)

// settingsService manages the per-user settings document.
type settingsService struct {
	settings store.Collection[models.Settings]
	now      func() time.Time
}

// NewSettingsService creates a new SettingsServicer.
func NewSettingsService(settings store.Collection[models.Settings]) SettingsServicer {
	return &settingsService{settings: settings, now: time.Now}
}

// GetSettings returns the user's settings, creating an empty document on
// first use.
func (s *settingsService) GetSettings(ctx context.Context, userID string) (*models.Settings, error) {
	docs, err := s.settings.QueryEq(ctx, "user_id", userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(docs) > 0 {
		doc := docs[0]
		normalizeSettings(&doc)
		return &doc, nil
	}

	doc := &models.Settings{UserID: userID}
	normalizeSettings(doc)
	created, err := s.settings.CreateIfAbsent(ctx, doc, "user_id")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if created {
		return doc, nil
	}

	// A concurrent first read inserted the document; use that one.
	docs, err = s.settings.QueryEq(ctx, "user_id", userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(docs) == 0 {
		return nil, apperrors.ErrInternalServer
	}
	existing := docs[0]
	normalizeSettings(&existing)
	return &existing, nil
}

func normalizeSettings(doc *models.Settings) {
	if doc.MonthlyBudgets == nil {
		doc.MonthlyBudgets = map[string]decimal.Decimal{}
	}
	if doc.CountdownEvents == nil {
		doc.CountdownEvents = []models.CountdownEvent{}
	}
}

func validateBudget(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "budget cannot be negative")
	}
	return nil
}

// SetMonthlyBudget stores the budget for one "YYYY-MM" month.
func (s *settingsService) SetMonthlyBudget(ctx context.Context, userID, month string, amount decimal.Decimal) (*models.Settings, error) {
	if _, _, err := stats.ParseMonthKey(month); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must look like 2025-01")
	}
	if err := validateBudget(amount); err != nil {
		return nil, err
	}

	doc, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	budgets := copyBudgets(doc.MonthlyBudgets)
	budgets[month] = amount.Round(2)
	return s.save(ctx, userID, doc.ID, map[string]any{"monthly_budgets": budgets})
}

// SetYearBudget gives every month of year the same budget.
func (s *settingsService) SetYearBudget(ctx context.Context, userID string, year int, amount decimal.Decimal) (*models.Settings, error) {
	if year < 1 || year > 9999 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "year out of range")
	}
	if err := validateBudget(amount); err != nil {
		return nil, err
	}

	doc, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	budgets := copyBudgets(doc.MonthlyBudgets)
	for m := time.January; m <= time.December; m++ {
		budgets[stats.MonthKey(year, m)] = amount.Round(2)
	}
	return s.save(ctx, userID, doc.ID, map[string]any{"monthly_budgets": budgets})
}

// AddEvent appends a countdown event. Its id is the creation time in Unix
// milliseconds, bumped past any existing id.
func (s *settingsService) AddEvent(ctx context.Context, userID, title, date string) (*models.CountdownEvent, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "event title is required")
	}
	if _, err := stats.ParseDate(date, time.UTC); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "event date must look like 2025-12-31")
	}

	doc, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	id := s.now().UnixMilli()
	for _, e := range doc.CountdownEvents {
		if e.ID >= id {
			id = e.ID + 1
		}
	}
	event := models.CountdownEvent{ID: id, Title: title, Date: date}

	events := append(append([]models.CountdownEvent{}, doc.CountdownEvents...), event)
	if _, err := s.save(ctx, userID, doc.ID, map[string]any{"countdown_events": events}); err != nil {
		return nil, err
	}
	return &event, nil
}

// DeleteEvent removes a countdown event by id.
func (s *settingsService) DeleteEvent(ctx context.Context, userID string, eventID int64) error {
	doc, err := s.GetSettings(ctx, userID)
	if err != nil {
		return err
	}

	events := make([]models.CountdownEvent, 0, len(doc.CountdownEvents))
	for _, e := range doc.CountdownEvents {
		if e.ID != eventID {
			events = append(events, e)
		}
	}
	if len(events) == len(doc.CountdownEvents) {
		return apperrors.ErrEventNotFound
	}

	_, err = s.save(ctx, userID, doc.ID, map[string]any{"countdown_events": events})
	return err
}

func (s *settingsService) save(ctx context.Context, userID, id string, patch map[string]any) (*models.Settings, error) {
	if err := s.settings.Update(ctx, id, patch); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetSettings(ctx, userID)
}

func copyBudgets(in map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(in)+12)
	for k, v := range in {
		out[k] = v
	}
	return out
}

// eventsOf converts stored countdown events for the stats package.
func eventsOf(doc *models.Settings) []stats.Event {
	out := make([]stats.Event, 0, len(doc.CountdownEvents))
	for _, e := range doc.CountdownEvents {
		out = append(out, stats.Event{ID: e.ID, Title: e.Title, Date: e.Date})
	}
	return out
}
