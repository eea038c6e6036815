package store_test

import (
	"context"
	"errors"
	"testing"

	"idoljournal/internal/models"
	"idoljournal/internal/pagination"
	"idoljournal/internal/store"
	"idoljournal/internal/testutil"
)

func TestCollectionCRUD(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, db)

	artists := store.NewCollection[models.Artist](db, "created_at ASC")

	a := &models.Artist{UserID: user.ID, Name: "Yuna", Photos: []string{}}
	testutil.AssertNoError(t, artists.Create(ctx, a))
	if a.ID == "" {
		t.Fatal("expected an id to be assigned on create")
	}

	got, err := artists.Get(ctx, a.ID)
	testutil.AssertNoError(t, err)
	if got.Name != "Yuna" {
		t.Errorf("expected name Yuna, got %s", got.Name)
	}

	err = artists.Update(ctx, a.ID, map[string]any{
		"name":   "Yuna (solo)",
		"photos": []string{"https://img.example/1.jpg", "https://img.example/2.jpg"},
	})
	testutil.AssertNoError(t, err)

	got, err = artists.Get(ctx, a.ID)
	testutil.AssertNoError(t, err)
	if got.Name != "Yuna (solo)" {
		t.Errorf("expected updated name, got %s", got.Name)
	}
	if len(got.Photos) != 2 || got.Photos[1] != "https://img.example/2.jpg" {
		t.Errorf("expected two photos after patch, got %v", got.Photos)
	}

	testutil.AssertNoError(t, artists.Delete(ctx, a.ID))

	if _, err := artists.Get(ctx, a.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := artists.Delete(ctx, a.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
	if err := artists.Update(ctx, a.ID, map[string]any{"name": "x"}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound updating deleted record, got %v", err)
	}
}

func TestCollectionQueries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	artist := testutil.CreateTestArtist(t, db, user.ID)
	for _, amount := range []string{"10", "20", "30"} {
		testutil.CreateTestExpense(t, db, user.ID, artist, amount, models.CategoryConcert)
	}
	orphan := &models.Expense{
		UserID: user.ID, ArtistName: artist.Name, Amount: testutil.Decimal(t, "5"),
		Category: models.CategoryOther, Description: "legacy row", RecordedAt: testutil.Now(),
	}
	testutil.AssertNoError(t, db.Create(orphan).Error)
	testutil.CreateTestExpense(t, db, other.ID, testutil.CreateTestArtist(t, db, other.ID), "99", models.CategoryOther)

	expenses := store.NewCollection[models.Expense](db, "recorded_at DESC")

	t.Run("query_eq", func(t *testing.T) {
		rows, err := expenses.QueryEq(ctx, "user_id", user.ID)
		testutil.AssertNoError(t, err)
		if len(rows) != 4 {
			t.Errorf("expected 4 expenses for user, got %d", len(rows))
		}
	})

	t.Run("query_eq_all", func(t *testing.T) {
		rows, err := expenses.QueryEqAll(ctx, store.Filter{"user_id": user.ID, "artist_id": artist.ID})
		testutil.AssertNoError(t, err)
		if len(rows) != 3 {
			t.Errorf("expected 3 linked expenses, got %d", len(rows))
		}
	})

	t.Run("nil_matches_null", func(t *testing.T) {
		rows, err := expenses.QueryEqAll(ctx, store.Filter{"user_id": user.ID, "artist_id": nil})
		testutil.AssertNoError(t, err)
		if len(rows) != 1 || rows[0].ID != orphan.ID {
			t.Errorf("expected only the unlinked expense, got %d rows", len(rows))
		}
	})

	t.Run("no_match_is_empty_not_nil", func(t *testing.T) {
		rows, err := expenses.QueryEq(ctx, "artist_name", "nobody")
		testutil.AssertNoError(t, err)
		if rows == nil || len(rows) != 0 {
			t.Errorf("expected empty slice, got %v", rows)
		}
	})

	t.Run("query_page", func(t *testing.T) {
		page, err := expenses.QueryPage(ctx, store.Filter{"user_id": user.ID}, pagination.PageRequest{Page: 2, PageSize: 3})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 4 {
			t.Errorf("expected 4 total items, got %d", page.TotalItems)
		}
		if page.TotalPages != 2 {
			t.Errorf("expected 2 pages, got %d", page.TotalPages)
		}
		if len(page.Data) != 1 {
			t.Errorf("expected 1 item on page 2, got %d", len(page.Data))
		}
	})
}

func TestCollectionCreateIfAbsent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, db)

	settings := store.NewCollection[models.Settings](db, "created_at ASC")

	first := &models.Settings{UserID: user.ID}
	created, err := settings.CreateIfAbsent(ctx, first, "user_id")
	testutil.AssertNoError(t, err)
	if !created {
		t.Fatal("expected the first insert to create a record")
	}

	second := &models.Settings{UserID: user.ID}
	created, err = settings.CreateIfAbsent(ctx, second, "user_id")
	testutil.AssertNoError(t, err)
	if created {
		t.Error("expected a duplicate user_id to be skipped")
	}

	docs, err := settings.QueryEq(ctx, "user_id", user.ID)
	testutil.AssertNoError(t, err)
	if len(docs) != 1 || docs[0].ID != first.ID {
		t.Errorf("expected only the first record, got %+v", docs)
	}
}
