package services

import (
	"context"
	"testing"
	"time"

	"idoljournal/internal/models"
	"idoljournal/internal/stats"
	"idoljournal/internal/testutil"
)

func newTestStatsService(ts *testServices, now time.Time) StatsServicer {
	svc := NewStatsService(ts.artists, ts.expenses, ts.settings, time.UTC)
	svc.(*statsService).now = fixedClock(now)
	return svc
}

func TestGetDashboard(t *testing.T) {
	ctx := context.Background()
	ts := newTestServices(t)
	user := testutil.CreateTestUser(t, ts.db)
	now := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)

	start := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	artist, err := ts.artists.CreateArtist(ctx, user.ID, ArtistInput{Name: "Yuna", StartDate: &start})
	testutil.AssertNoError(t, err)

	testutil.CreateTestExpenseAt(t, ts.db, user.ID, artist, "100", models.CategoryMerchandise, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	testutil.CreateTestExpenseAt(t, ts.db, user.ID, artist, "200", models.CategoryMerchandise, time.Date(2025, 5, 9, 0, 0, 0, 0, time.UTC))
	testutil.CreateTestExpenseAt(t, ts.db, user.ID, artist, "300", models.CategoryMerchandise, time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC))
	testutil.CreateTestExpenseAt(t, ts.db, user.ID, artist, "40", models.CategoryConcert, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))

	_, err = ts.settings.SetYearBudget(ctx, user.ID, 2025, testutil.Decimal(t, "50"))
	testutil.AssertNoError(t, err)
	_, err = ts.settings.AddEvent(ctx, user.ID, "Fan meeting", "2025-08-20")
	testutil.AssertNoError(t, err)

	dash, err := newTestStatsService(ts, now).GetDashboard(ctx, user.ID, artist.ID, 0)
	testutil.AssertNoError(t, err)

	if dash.Year != 2025 {
		t.Errorf("expected current year, got %d", dash.Year)
	}
	if dash.ElapsedDays != stats.ElapsedDays(start, now) {
		t.Errorf("unexpected elapsed days %d", dash.ElapsedDays)
	}
	testutil.AssertDecimal(t, "640", dash.LifetimeTotal)
	testutil.AssertDecimal(t, "600", dash.YearTotal)
	testutil.AssertDecimal(t, "50", dash.MonthlyBudget)
	testutil.AssertDecimal(t, "600", dash.AnnualBudget)
	testutil.AssertDecimal(t, "0", dash.RemainingBudget)

	if len(dash.Breakdown) != 2 || dash.Breakdown[0].Category != models.CategoryMerchandise || dash.Breakdown[0].Label != "Merchandise" {
		t.Fatalf("unexpected breakdown %+v", dash.Breakdown)
	}
	if len(dash.Chart.Segments) != 2 || dash.Chart.Segments[1].EndAngle != 360 {
		t.Errorf("unexpected chart %+v", dash.Chart)
	}
	if len(dash.Countdowns) != 1 || dash.Countdowns[0].DaysLeft != 5 || dash.Countdowns[0].Status != stats.StatusUpcoming {
		t.Errorf("unexpected countdowns %+v", dash.Countdowns)
	}
	if got := dash.AvailableYears; len(got) != 3 || got[0] != 2025 || got[2] != 2023 {
		t.Errorf("unexpected available years %v", got)
	}
	if len(dash.RecentExpenses) != 4 {
		t.Errorf("expected 4 recent expenses, got %d", len(dash.RecentExpenses))
	}
}

func TestGetDashboard_FallsBackToSettingsStartDate(t *testing.T) {
	ctx := context.Background()
	ts := newTestServices(t)
	user := testutil.CreateTestUser(t, ts.db)
	artist := testutil.CreateTestArtist(t, ts.db, user.ID)
	now := time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)

	doc, err := ts.settings.GetSettings(ctx, user.ID)
	testutil.AssertNoError(t, err)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	testutil.AssertNoError(t, ts.settingCol.Update(ctx, doc.ID, map[string]any{"start_date": start}))

	dash, err := newTestStatsService(ts, now).GetDashboard(ctx, user.ID, artist.ID, 0)
	testutil.AssertNoError(t, err)
	if dash.ElapsedDays != 10 {
		t.Errorf("expected 10 elapsed days, got %d", dash.ElapsedDays)
	}
	if !dash.Chart.Empty {
		t.Error("expected an empty chart without expenses")
	}
	testutil.AssertDecimal(t, "0", dash.RemainingBudget)
}

func TestGetReview(t *testing.T) {
	ctx := context.Background()
	ts := newTestServices(t)
	user := testutil.CreateTestUser(t, ts.db)
	artist := testutil.CreateTestArtist(t, ts.db, user.ID)
	now := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	testutil.CreateTestExpenseAt(t, ts.db, user.ID, artist, "75", models.CategoryConcert, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	top := testutil.CreateTestExpenseAt(t, ts.db, user.ID, artist, "120", models.CategoryConcert, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC))
	testutil.CreateTestExpenseAt(t, ts.db, user.ID, artist, "25", models.CategoryOther, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC))
	testutil.CreateTestExpenseAt(t, ts.db, user.ID, artist, "999", models.CategoryOther, time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC))

	_, err := ts.settings.AddEvent(ctx, user.ID, "Tour", "2025-06-01")
	testutil.AssertNoError(t, err)
	_, err = ts.settings.AddEvent(ctx, user.ID, "Next tour", "2026-06-01")
	testutil.AssertNoError(t, err)

	review, err := newTestStatsService(ts, now).GetReview(ctx, user.ID, artist.ID, 2025)
	testutil.AssertNoError(t, err)

	if review.Count != 3 {
		t.Errorf("expected 3 expenses, got %d", review.Count)
	}
	testutil.AssertDecimal(t, "220", review.Total)
	testutil.AssertDecimal(t, "73.33", review.Average)
	if review.Highest == nil || review.Highest.ID != top.ID {
		t.Errorf("expected highest expense %s", top.ID)
	}
	if review.MostFrequent == nil || review.MostFrequent.Category != models.CategoryConcert {
		t.Errorf("expected concert to be most frequent, got %+v", review.MostFrequent)
	}
	if len(review.Events) != 1 || review.Events[0].Status != stats.StatusCompleted {
		t.Errorf("expected one completed event in 2025, got %+v", review.Events)
	}
}

func TestGetChart(t *testing.T) {
	ctx := context.Background()
	ts := newTestServices(t)
	user := testutil.CreateTestUser(t, ts.db)
	other := testutil.CreateTestUser(t, ts.db)
	artist := testutil.CreateTestArtist(t, ts.db, user.ID)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	testutil.CreateTestExpenseAt(t, ts.db, user.ID, artist, "75", models.CategoryConcert, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	testutil.CreateTestExpenseAt(t, ts.db, user.ID, artist, "25", models.CategoryOther, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))
	testutil.CreateTestExpenseAt(t, ts.db, user.ID, artist, "500", models.CategoryOther, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))

	svc := newTestStatsService(ts, now)

	pie, err := svc.GetChart(ctx, user.ID, artist.ID, 2025, 200)
	testutil.AssertNoError(t, err)
	if len(pie.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(pie.Segments))
	}
	if pie.Segments[0].Label != "Concert" || pie.Segments[0].PercentageText != "75.0" || pie.Segments[0].LargeArc != 1 {
		t.Errorf("unexpected first segment %+v", pie.Segments[0])
	}

	_, err = svc.GetChart(ctx, other.ID, artist.ID, 0, 200)
	testutil.AssertAppError(t, err, "ARTIST_NOT_FOUND")

	_, err = svc.GetChart(ctx, user.ID, artist.ID, 0, -1)
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}
