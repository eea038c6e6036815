package services

import (
	"context"
	"testing"
	"time"

	"idoljournal/internal/models"
	"idoljournal/internal/preferences"
	"idoljournal/internal/testutil"
)

func newTestMigrationService(ts *testServices, now time.Time) MigrationServicer {
	svc := NewMigrationService(ts.prefs, ts.settings, ts.settingCol, ts.artistCol, ts.expenseCol, time.UTC)
	svc.(*migrationService).now = fixedClock(now)
	return svc
}

func TestMigrateUser(t *testing.T) {
	ctx := context.Background()
	ts := newTestServices(t)
	user := testutil.CreateTestUser(t, ts.db)
	artist := testutil.CreateTestArtist(t, ts.db, user.ID)
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	// March already has a budget; the legacy value must not overwrite it.
	_, err := ts.settings.SetMonthlyBudget(ctx, user.ID, "2025-03", testutil.Decimal(t, "80"))
	testutil.AssertNoError(t, err)

	testutil.CreateTestPreference(t, ts.db, user.ID, "idol_start_date", "2023-06-01T08:30:00.000Z")
	testutil.CreateTestPreference(t, ts.db, user.ID, "monthly_budget", "50")
	testutil.CreateTestPreference(t, ts.db, user.ID, "yearly_budget", "600")
	testutil.CreateTestPreference(t, ts.db, user.ID, "countdown_events",
		`[{"id":1700000000000,"title":"Fan meeting","date":"2025-12-25"},{"id":1700000000001,"title":"Broken","date":"someday"}]`)
	testutil.CreateTestPreference(t, ts.db, user.ID, "current_idol_id", artist.ID)
	testutil.CreateTestPreference(t, ts.db, user.ID, "idol_photos_"+artist.ID, `["p1","p2","p3","p4"]`)

	legacy := &models.Expense{
		UserID: user.ID, ArtistName: artist.Name, Amount: testutil.Decimal(t, "9"),
		Category: models.CategoryOther, Description: "old", RecordedAt: testutil.Now(),
	}
	testutil.AssertNoError(t, ts.db.Create(legacy).Error)

	svc := newTestMigrationService(ts, now)
	report, err := svc.MigrateUser(ctx, user.ID)
	testutil.AssertNoError(t, err)

	if report.AlreadyApplied {
		t.Fatal("first run must not report already applied")
	}
	if report.BudgetsCopied != 11 {
		t.Errorf("expected 11 months copied, got %d", report.BudgetsCopied)
	}
	if report.EventsCopied != 1 {
		t.Errorf("expected 1 event copied, got %d", report.EventsCopied)
	}
	if !report.StartDateCopied || report.PhotosCopied != 1 || report.ExpensesLinked != 1 || !report.CurrentArtistSet {
		t.Errorf("unexpected report %+v", report)
	}

	doc, err := ts.settings.GetSettings(ctx, user.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, "80", doc.MonthlyBudgets["2025-03"])
	testutil.AssertDecimal(t, "50", doc.MonthlyBudgets["2025-04"])
	if doc.StartDate == nil || doc.StartDate.Year() != 2023 {
		t.Errorf("expected start date in 2023, got %v", doc.StartDate)
	}
	if len(doc.CountdownEvents) != 1 || doc.CountdownEvents[0].ID != 1700000000000 {
		t.Errorf("unexpected events %+v", doc.CountdownEvents)
	}

	migrated, err := ts.artists.GetArtistByID(ctx, user.ID, artist.ID)
	testutil.AssertNoError(t, err)
	if len(migrated.Photos) != models.MaxArtistPhotos {
		t.Errorf("expected photos capped at %d, got %v", models.MaxArtistPhotos, migrated.Photos)
	}

	linked, err := ts.expenses.GetExpenseByID(ctx, user.ID, legacy.ID)
	testutil.AssertNoError(t, err)
	if linked.ArtistID == nil || *linked.ArtistID != artist.ID {
		t.Error("expected legacy expense to be linked by name")
	}

	current, _, err := ts.prefs.GetItem(ctx, user.ID, preferences.KeyCurrentArtist)
	testutil.AssertNoError(t, err)
	if current != artist.ID {
		t.Errorf("expected current artist %s, got %q", artist.ID, current)
	}

	t.Run("second_run_is_noop", func(t *testing.T) {
		testutil.AssertNoError(t, ts.prefs.SetItem(ctx, user.ID, "monthly_budget", "999"))

		again, err := svc.MigrateUser(ctx, user.ID)
		testutil.AssertNoError(t, err)
		if !again.AlreadyApplied {
			t.Error("expected second run to be skipped")
		}

		doc, err := ts.settings.GetSettings(ctx, user.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "50", doc.MonthlyBudgets["2025-04"])
	})
}

func TestMigrateUser_YearlyBudgetOnly(t *testing.T) {
	ctx := context.Background()
	ts := newTestServices(t)
	user := testutil.CreateTestUser(t, ts.db)
	testutil.CreateTestPreference(t, ts.db, user.ID, "yearly_budget", "1000")

	report, err := newTestMigrationService(ts, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)).MigrateUser(ctx, user.ID)
	testutil.AssertNoError(t, err)
	if report.BudgetsCopied != 12 {
		t.Errorf("expected 12 months, got %d", report.BudgetsCopied)
	}

	doc, err := ts.settings.GetSettings(ctx, user.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, "83.33", doc.MonthlyBudgets["2025-07"])
}

func TestMigrateUser_NothingToCopy(t *testing.T) {
	ctx := context.Background()
	ts := newTestServices(t)
	user := testutil.CreateTestUser(t, ts.db)

	report, err := newTestMigrationService(ts, time.Now()).MigrateUser(ctx, user.ID)
	testutil.AssertNoError(t, err)
	if report.BudgetsCopied != 0 || report.EventsCopied != 0 || report.StartDateCopied {
		t.Errorf("expected empty report, got %+v", report)
	}

	_, done, err := ts.prefs.GetItem(ctx, user.ID, MigrationFlagKey)
	testutil.AssertNoError(t, err)
	if !done {
		t.Error("expected migration flag to be set")
	}
}

func TestBackfillArtistIDs(t *testing.T) {
	ctx := context.Background()
	ts := newTestServices(t)
	alice := testutil.CreateTestUser(t, ts.db)
	bob := testutil.CreateTestUser(t, ts.db)

	aliceArtist := &models.Artist{UserID: alice.ID, Name: "Mina", Photos: []string{}}
	bobArtist := &models.Artist{UserID: bob.ID, Name: "Mina", Photos: []string{}}
	testutil.AssertNoError(t, ts.db.Create(aliceArtist).Error)
	testutil.AssertNoError(t, ts.db.Create(bobArtist).Error)

	rows := []*models.Expense{
		{UserID: alice.ID, ArtistName: "Mina", Amount: testutil.Decimal(t, "1"), Category: models.CategoryOther, Description: "a", RecordedAt: testutil.Now()},
		{UserID: bob.ID, ArtistName: "Mina", Amount: testutil.Decimal(t, "2"), Category: models.CategoryOther, Description: "b", RecordedAt: testutil.Now()},
		{UserID: bob.ID, ArtistName: "Deleted Artist", Amount: testutil.Decimal(t, "3"), Category: models.CategoryOther, Description: "c", RecordedAt: testutil.Now()},
	}
	for _, r := range rows {
		testutil.AssertNoError(t, ts.db.Create(r).Error)
	}

	linked, err := newTestMigrationService(ts, time.Now()).BackfillArtistIDs(ctx)
	testutil.AssertNoError(t, err)
	if linked != 2 {
		t.Errorf("expected 2 expenses linked, got %d", linked)
	}

	got, err := ts.expenses.GetExpenseByID(ctx, bob.ID, rows[1].ID)
	testutil.AssertNoError(t, err)
	if got.ArtistID == nil || *got.ArtistID != bobArtist.ID {
		t.Error("expected bob's expense to link to bob's artist, not alice's")
	}

	orphan, err := ts.expenses.GetExpenseByID(ctx, bob.ID, rows[2].ID)
	testutil.AssertNoError(t, err)
	if orphan.ArtistID != nil {
		t.Error("expense without a matching artist must stay unlinked")
	}
}
