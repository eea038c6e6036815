package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "idoljournal/internal/errors"
	"idoljournal/internal/logger"
	"idoljournal/internal/models"
	"idoljournal/internal/preferences"
	"idoljournal/internal/stats"
	"idoljournal/internal/store"
)

// MigrationFlagKey marks a user whose legacy preferences were copied.
const MigrationFlagKey = "migration.settings.v1"

// Preference keys written by older clients.
const (
	legacyStartDate     = "idol_start_date"
	legacyMonthlyBudget = "monthly_budget"
	legacyYearlyBudget  = "yearly_budget"
	legacyEvents        = "countdown_events"
	legacyCurrentArtist = "current_idol_id"
	legacyPhotosPrefix  = "idol_photos_"
)

// migrationService copies legacy preference values into the settings
// document and links expenses to artists by id.
type migrationService struct {
	prefs    preferences.Store
	settings SettingsServicer
	docs     store.Collection[models.Settings]
	artists  store.Collection[models.Artist]
	expenses store.Collection[models.Expense]
	loc      *time.Location
	now      func() time.Time
}

// NewMigrationService creates a new MigrationServicer. Legacy monthly
// budgets are applied to the current year in loc.
func NewMigrationService(
	prefs preferences.Store,
	settings SettingsServicer,
	docs store.Collection[models.Settings],
	artists store.Collection[models.Artist],
	expenses store.Collection[models.Expense],
	loc *time.Location,
) MigrationServicer {
	if loc == nil {
		loc = time.UTC
	}
	return &migrationService{
		prefs:    prefs,
		settings: settings,
		docs:     docs,
		artists:  artists,
		expenses: expenses,
		loc:      loc,
		now:      time.Now,
	}
}

// legacyEvent is a countdown event as older clients stored it.
type legacyEvent struct {
	ID    json.Number `json:"id"`
	Title string      `json:"title"`
	Date  string      `json:"date"`
}

// MigrateUser runs the legacy copy once per user. Values already present in
// the settings document win over legacy ones; malformed legacy values are
// logged and skipped. Legacy keys are left in place.
func (s *migrationService) MigrateUser(ctx context.Context, userID string) (*MigrationReport, error) {
	report := &MigrationReport{}

	_, done, err := s.prefs.GetItem(ctx, userID, MigrationFlagKey)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if done {
		report.AlreadyApplied = true
		return report, nil
	}

	items, err := s.prefs.Items(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	doc, err := s.settings.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	log := logger.Get().With("user_id", userID)
	now := s.now().In(s.loc)

	patch := map[string]any{}

	if raw, ok := items[legacyStartDate]; ok && doc.StartDate == nil {
		if start, ok := parseLegacyTime(raw, s.loc); ok {
			patch["start_date"] = start
			report.StartDateCopied = true
		} else {
			log.Warnw("skipping malformed legacy start date", "value", raw)
		}
	}

	if monthly, ok := s.legacyMonthly(items, log); ok {
		budgets := copyBudgets(doc.MonthlyBudgets)
		for m := time.January; m <= time.December; m++ {
			key := stats.MonthKey(now.Year(), m)
			if _, set := budgets[key]; !set {
				budgets[key] = monthly
				report.BudgetsCopied++
			}
		}
		if report.BudgetsCopied > 0 {
			patch["monthly_budgets"] = budgets
		}
	}

	if raw, ok := items[legacyEvents]; ok {
		events, copied := mergeLegacyEvents(doc.CountdownEvents, raw, s.loc, log)
		if copied > 0 {
			patch["countdown_events"] = events
			report.EventsCopied = copied
		}
	}

	if len(patch) > 0 {
		if err := s.docs.Update(ctx, doc.ID, patch); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	if report.PhotosCopied, err = s.copyPhotos(ctx, userID, items, log); err != nil {
		return nil, err
	}
	if report.CurrentArtistSet, err = s.copyCurrentArtist(ctx, userID, items); err != nil {
		return nil, err
	}
	if report.ExpensesLinked, err = s.backfill(ctx, store.Filter{"user_id": userID, "artist_id": nil}); err != nil {
		return nil, err
	}

	if err := s.prefs.SetItem(ctx, userID, MigrationFlagKey, now.Format(time.RFC3339)); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	log.Infow("legacy settings migrated",
		"budgets", report.BudgetsCopied,
		"events", report.EventsCopied,
		"start_date", report.StartDateCopied,
		"photos", report.PhotosCopied,
		"expenses_linked", report.ExpensesLinked,
	)
	return report, nil
}

// legacyMonthly reads the legacy monthly budget, deriving it from the yearly
// one when only that was stored.
func (s *migrationService) legacyMonthly(items map[string]string, log *zap.SugaredLogger) (decimal.Decimal, bool) {
	if raw, ok := items[legacyMonthlyBudget]; ok {
		if d, err := decimal.NewFromString(strings.TrimSpace(raw)); err == nil && !d.IsNegative() {
			return d.Round(2), true
		}
		log.Warnw("skipping malformed legacy monthly budget", "value", raw)
	}
	if raw, ok := items[legacyYearlyBudget]; ok {
		if d, err := decimal.NewFromString(strings.TrimSpace(raw)); err == nil && !d.IsNegative() {
			return d.Div(decimal.NewFromInt(12)).Round(2), true
		}
		log.Warnw("skipping malformed legacy yearly budget", "value", raw)
	}
	return decimal.Zero, false
}

func mergeLegacyEvents(existing []models.CountdownEvent, raw string, loc *time.Location, log *zap.SugaredLogger) ([]models.CountdownEvent, int) {
	var legacy []legacyEvent
	if err := json.Unmarshal([]byte(raw), &legacy); err != nil {
		log.Warnw("skipping malformed legacy countdown events", "error", err)
		return existing, 0
	}

	seen := make(map[int64]bool, len(existing))
	for _, e := range existing {
		seen[e.ID] = true
	}

	out := append([]models.CountdownEvent{}, existing...)
	copied := 0
	for _, le := range legacy {
		id, err := le.ID.Int64()
		if err != nil {
			f, ferr := le.ID.Float64()
			if ferr != nil {
				log.Warnw("skipping legacy event without id", "title", le.Title)
				continue
			}
			id = int64(f)
		}
		date, ok := parseLegacyTime(le.Date, loc)
		title := strings.TrimSpace(le.Title)
		if !ok || title == "" {
			log.Warnw("skipping malformed legacy event", "event_id", id, "date", le.Date)
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, models.CountdownEvent{ID: id, Title: title, Date: date.Format(models.DateLayout)})
		copied++
	}
	return out, copied
}

// parseLegacyTime accepts the ISO timestamps and plain dates older clients
// wrote.
func parseLegacyTime(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.In(loc), true
	}
	if t, err := stats.ParseDate(raw, loc); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func (s *migrationService) ownedArtist(ctx context.Context, userID, artistID string) (*models.Artist, bool, error) {
	artist, err := s.artists.Get(ctx, artistID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return artist, artist.UserID == userID, nil
}

func (s *migrationService) copyPhotos(ctx context.Context, userID string, items map[string]string, log *zap.SugaredLogger) (int, error) {
	copied := 0
	for key, raw := range items {
		artistID, ok := strings.CutPrefix(key, legacyPhotosPrefix)
		if !ok {
			continue
		}
		artist, owned, err := s.ownedArtist(ctx, userID, artistID)
		if err != nil {
			return copied, err
		}
		if !owned || len(artist.Photos) > 0 {
			continue
		}

		var photos []string
		if err := json.Unmarshal([]byte(raw), &photos); err != nil {
			log.Warnw("skipping malformed legacy photos", "artist_id", artistID, "error", err)
			continue
		}
		kept := make([]string, 0, models.MaxArtistPhotos)
		for _, p := range photos {
			if p = strings.TrimSpace(p); p != "" && len(kept) < models.MaxArtistPhotos {
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 {
			continue
		}
		if err := s.artists.Update(ctx, artistID, map[string]any{"photos": kept}); err != nil {
			return copied, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		copied++
	}
	return copied, nil
}

func (s *migrationService) copyCurrentArtist(ctx context.Context, userID string, items map[string]string) (bool, error) {
	legacyID, ok := items[legacyCurrentArtist]
	if !ok {
		return false, nil
	}
	if _, set := items[preferences.KeyCurrentArtist]; set {
		return false, nil
	}
	_, owned, err := s.ownedArtist(ctx, userID, legacyID)
	if err != nil || !owned {
		return false, err
	}
	if err := s.prefs.SetItem(ctx, userID, preferences.KeyCurrentArtist, legacyID); err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return true, nil
}

// BackfillArtistIDs links every unlinked expense in the store.
func (s *migrationService) BackfillArtistIDs(ctx context.Context) (int, error) {
	return s.backfill(ctx, store.Filter{"artist_id": nil})
}

// backfill sets artist_id on the expenses matching filter from the owner's
// artist with the same name. When several artists share a name the oldest
// wins; expenses whose name matches no artist stay unlinked.
func (s *migrationService) backfill(ctx context.Context, filter store.Filter) (int, error) {
	rows, err := s.expenses.QueryEqAll(ctx, filter)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	type owner struct{ userID, name string }
	resolved := make(map[owner]string)
	linked := 0
	for _, e := range rows {
		key := owner{e.UserID, e.ArtistName}
		artistID, ok := resolved[key]
		if !ok {
			matches, err := s.artists.QueryEqAll(ctx, store.Filter{"user_id": e.UserID, "name": e.ArtistName})
			if err != nil {
				return linked, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if len(matches) > 0 {
				artistID = matches[0].ID
			}
			resolved[key] = artistID
		}
		if artistID == "" {
			continue
		}
		if err := s.expenses.Update(ctx, e.ID, map[string]any{"artist_id": artistID}); err != nil {
			return linked, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		linked++
	}
	if linked > 0 || len(rows) > 0 {
		logger.Get().Infow("expense artist backfill", "linked", linked, "unlinked", len(rows)-linked)
	}
	return linked, nil
}
