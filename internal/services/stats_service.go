package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"idoljournal/internal/chart"
	apperrors "idoljournal/internal/errors"
	"idoljournal/internal/models"
	"idoljournal/internal/stats"
)

// recentExpenseLimit caps the expenses embedded in the dashboard.
const recentExpenseLimit = 10

// statsService loads an artist's records and runs them through the stats
// and chart packages. It holds no state between calls.
type statsService struct {
	artists  ArtistServicer
	expenses ExpenseServicer
	settings SettingsServicer
	loc      *time.Location
	now      func() time.Time
}

// NewStatsService creates a new StatsServicer. Calendar years and countdowns
// are evaluated in loc.
func NewStatsService(artists ArtistServicer, expenses ExpenseServicer, settings SettingsServicer, loc *time.Location) StatsServicer {
	if loc == nil {
		loc = time.UTC
	}
	return &statsService{artists: artists, expenses: expenses, settings: settings, loc: loc, now: time.Now}
}

// snapshot is everything one view needs, read together.
type snapshot struct {
	artist   *models.Artist
	expenses []models.Expense
	settings *models.Settings
	records  []stats.Record
	now      time.Time
}

func (s *statsService) load(ctx context.Context, userID, artistID string) (*snapshot, error) {
	artist, err := s.artists.GetArtistByID(ctx, userID, artistID)
	if err != nil {
		return nil, err
	}

	snap := &snapshot{artist: artist, now: s.now().In(s.loc)}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		expenses, err := s.expenses.ArtistExpenses(gctx, userID, artist)
		snap.expenses = expenses
		return err
	})
	g.Go(func() error {
		doc, err := s.settings.GetSettings(gctx, userID)
		snap.settings = doc
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap.records = make([]stats.Record, 0, len(snap.expenses))
	for _, e := range snap.expenses {
		snap.records = append(snap.records, s.recordOf(e))
	}
	return snap, nil
}

func (s *statsService) recordOf(e models.Expense) stats.Record {
	r := stats.Record{
		ID:          e.ID,
		Amount:      e.Amount,
		Category:    string(e.Category),
		Description: e.Description,
	}
	if !e.RecordedAt.IsZero() {
		r.RecordedAt = e.RecordedAt.In(s.loc)
	}
	return r
}

// startDate prefers the artist's own start date over the account-wide one.
func (snap *snapshot) startDate() *time.Time {
	if snap.artist.StartDate != nil {
		return snap.artist.StartDate
	}
	return snap.settings.StartDate
}

func (snap *snapshot) yearOr(year int) int {
	if year <= 0 {
		return snap.now.Year()
	}
	return year
}

func (snap *snapshot) availableYears() []int {
	var start time.Time
	if sd := snap.startDate(); sd != nil {
		start = *sd
	}
	return stats.AvailableYears(start, snap.now)
}

func categoryOrder() []string {
	order := make([]string, 0, len(models.ExpenseCategories))
	for _, c := range models.ExpenseCategories {
		order = append(order, string(c))
	}
	return order
}

func categoryStats(totals []stats.CategoryTotal) []CategoryStat {
	out := make([]CategoryStat, 0, len(totals))
	for _, ct := range totals {
		cat := models.ExpenseCategory(ct.Category)
		out = append(out, CategoryStat{Category: cat, Label: cat.Label(), Total: ct.Total, Count: ct.Count})
	}
	return out
}

func pieOf(breakdown []CategoryStat, size float64) chart.Pie {
	slices := make([]chart.Slice, 0, len(breakdown))
	for _, b := range breakdown {
		slices = append(slices, chart.Slice{Label: b.Label, Value: b.Total.InexactFloat64()})
	}
	return chart.Layout(slices, size)
}

// GetDashboard builds the journal overview. year selects the budget and
// yearly total; zero means the current year. Lifetime figures and the
// breakdown cover every expense.
func (s *statsService) GetDashboard(ctx context.Context, userID, artistID string, year int) (*Dashboard, error) {
	snap, err := s.load(ctx, userID, artistID)
	if err != nil {
		return nil, err
	}
	year = snap.yearOr(year)
	budgets := stats.MonthlyBudgets(snap.settings.MonthlyBudgets)

	var elapsed int
	start := snap.startDate()
	if start != nil {
		elapsed = stats.ElapsedDays(*start, snap.now)
	}

	yearTotal := stats.YearlyTotal(snap.records, year)
	breakdown := categoryStats(stats.Categories(snap.records, categoryOrder()))

	recent := snap.expenses
	if len(recent) > recentExpenseLimit {
		recent = recent[:recentExpenseLimit]
	}

	return &Dashboard{
		ArtistID:        snap.artist.ID,
		ArtistName:      snap.artist.Name,
		Year:            year,
		StartDate:       start,
		ElapsedDays:     elapsed,
		LifetimeTotal:   stats.TotalOf(snap.records),
		YearTotal:       yearTotal,
		MonthlyBudget:   budgets.Amount(year, snap.now.Month()),
		AnnualBudget:    budgets.AnnualTotal(year),
		RemainingBudget: stats.RemainingBudget(yearTotal, budgets, year),
		Breakdown:       breakdown,
		Chart:           pieOf(breakdown, chart.DefaultSize),
		Countdowns:      stats.Countdowns(eventsOf(snap.settings), snap.now),
		AvailableYears:  snap.availableYears(),
		RecentExpenses:  recent,
	}, nil
}

// GetReview builds the yearly review; zero year means the current year.
func (s *statsService) GetReview(ctx context.Context, userID, artistID string, year int) (*Review, error) {
	snap, err := s.load(ctx, userID, artistID)
	if err != nil {
		return nil, err
	}
	year = snap.yearOr(year)

	yr := stats.Review(snap.records, year, categoryOrder())
	breakdown := categoryStats(yr.Categories)

	review := &Review{
		ArtistID:       snap.artist.ID,
		ArtistName:     snap.artist.Name,
		Year:           year,
		Count:          yr.Count,
		Total:          yr.Total,
		Average:        yr.Average,
		Breakdown:      breakdown,
		Chart:          pieOf(breakdown, chart.DefaultSize),
		Events:         stats.Countdowns(stats.EventsInYear(eventsOf(snap.settings), year), snap.now),
		AvailableYears: snap.availableYears(),
	}
	if yr.Highest != nil {
		for i := range snap.expenses {
			if snap.expenses[i].ID == yr.Highest.ID {
				review.Highest = &snap.expenses[i]
				break
			}
		}
	}
	if yr.MostFrequent != nil {
		mf := categoryStats([]stats.CategoryTotal{*yr.MostFrequent})[0]
		review.MostFrequent = &mf
	}
	return review, nil
}

// GetChart lays out the category breakdown. A positive year limits it to
// that year; otherwise every expense counts.
func (s *statsService) GetChart(ctx context.Context, userID, artistID string, year int, size float64) (*chart.Pie, error) {
	if size < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "size must be positive")
	}
	snap, err := s.load(ctx, userID, artistID)
	if err != nil {
		return nil, err
	}

	records := snap.records
	if year > 0 {
		records = stats.InYear(records, year)
	}
	pie := pieOf(categoryStats(stats.Categories(records, categoryOrder())), size)
	return &pie, nil
}
