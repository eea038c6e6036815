package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"idoljournal/internal/models"
	"idoljournal/internal/preferences"
	"idoljournal/internal/store"
	"idoljournal/internal/testutil"
)

// testServices wires every service against one test database.
type testServices struct {
	db         *gorm.DB
	prefs      preferences.Store
	artistCol  store.Collection[models.Artist]
	expenseCol store.Collection[models.Expense]
	settingCol store.Collection[models.Settings]
	artists    ArtistServicer
	expenses   ExpenseServicer
	settings   SettingsServicer
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	ts := &testServices{
		db:         db,
		prefs:      preferences.NewGormStore(db),
		artistCol:  store.NewCollection[models.Artist](db, "created_at ASC"),
		expenseCol: store.NewCollection[models.Expense](db, "recorded_at DESC"),
		settingCol: store.NewCollection[models.Settings](db, "created_at ASC"),
	}
	ts.artists = NewArtistService(ts.artistCol, ts.prefs)
	ts.expenses = NewExpenseService(ts.expenseCol, ts.artistCol)
	ts.settings = NewSettingsService(ts.settingCol)
	return ts
}

// fixedClock returns a clock stuck at t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
