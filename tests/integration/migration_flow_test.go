package integration

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"idoljournal/internal/models"
)

func (app *testApp) setPreference(t *testing.T, token, key, value string) {
	t.Helper()
	rec := app.request("PUT", "/api/v1/preferences/"+key, fmt.Sprintf(`{"value":%q}`, value), token)
	if rec.Code != http.StatusOK {
		t.Fatalf("set preference %s: %d %s", key, rec.Code, rec.Body.String())
	}
}

func (app *testApp) insertUnlinkedExpense(t *testing.T, userID, artistName, amount string) {
	t.Helper()
	expense := &models.Expense{
		UserID:      userID,
		ArtistName:  artistName,
		Amount:      decimal.RequireFromString(amount),
		Category:    models.CategoryOther,
		Description: "Imported",
		RecordedAt:  time.Now().UTC(),
	}
	if err := app.DB.Create(expense).Error; err != nil {
		t.Fatalf("insert expense: %v", err)
	}
}

func TestMigrationFlow_LegacyPreferences(t *testing.T) {
	app := setupApp(t)
	token, userID := app.registerUser(t, "legacy@test.com", "password123")
	artistID := app.createArtist(t, token, "Mina")
	app.insertUnlinkedExpense(t, userID, "Mina", "25")

	future := time.Now().UTC().AddDate(0, 1, 0).Format("2006-01-02")
	app.setPreference(t, token, "monthly_budget", "50")
	app.setPreference(t, token, "idol_start_date", "2020-03-01T00:00:00.000Z")
	app.setPreference(t, token, "countdown_events",
		fmt.Sprintf(`[{"id":1700000000000,"title":"Concert","date":%q},{"id":2,"title":"","date":"bad"}]`, future))
	app.setPreference(t, token, "idol_photos_"+artistID, `["https://img.example.com/a.jpg"]`)
	app.setPreference(t, token, "current_idol_id", artistID)

	// Creating the artist selected it; clear that so the legacy value is used.
	if rec := app.request("DELETE", "/api/v1/preferences/current_artist_id", "", token); rec.Code != http.StatusOK {
		t.Fatalf("clear current artist: %d %s", rec.Code, rec.Body.String())
	}

	rec := app.request("POST", "/api/v1/preferences/migrate", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("migrate: %d %s", rec.Code, rec.Body.String())
	}
	report := parseJSON(t, rec)["report"].(map[string]interface{})
	want := map[string]interface{}{
		"already_applied":    false,
		"budgets_copied":     float64(12),
		"events_copied":      float64(1),
		"start_date_copied":  true,
		"photos_copied":      float64(1),
		"expenses_linked":    float64(1),
		"current_artist_set": true,
	}
	for field, v := range want {
		if report[field] != v {
			t.Errorf("%s: expected %v, got %v", field, v, report[field])
		}
	}

	rec = app.request("GET", "/api/v1/preferences/current_artist_id", "", token)
	if rec.Code != http.StatusOK || parseJSON(t, rec)["value"] != artistID {
		t.Errorf("expected current artist %s, got %d %s", artistID, rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/artists/"+artistID+"/dashboard", "", token)
	dashboard := parseJSON(t, rec)["dashboard"].(map[string]interface{})
	if dashboard["monthly_budget"] != "50" || dashboard["annual_budget"] != "600" {
		t.Errorf("unexpected budgets %v / %v", dashboard["monthly_budget"], dashboard["annual_budget"])
	}
	if dashboard["lifetime_total"] != "25" {
		t.Errorf("expected the linked expense to count, got %v", dashboard["lifetime_total"])
	}
	if dashboard["elapsed_days"].(float64) <= 0 {
		t.Errorf("expected elapsed days from the legacy start date, got %v", dashboard["elapsed_days"])
	}

	// A second run is a no-op.
	rec = app.request("POST", "/api/v1/preferences/migrate", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("second migrate: %d %s", rec.Code, rec.Body.String())
	}
	if parseJSON(t, rec)["report"].(map[string]interface{})["already_applied"] != true {
		t.Error("expected the second run to report already_applied")
	}
}

func TestMigrationFlow_ExistingSettingsWin(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "keep@test.com", "password123")
	year := time.Now().UTC().Year()

	rec := app.request("PUT", fmt.Sprintf("/api/v1/settings/budgets/months/%d-01", year), `{"amount":300}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("set budget: %d %s", rec.Code, rec.Body.String())
	}
	app.setPreference(t, token, "monthly_budget", "50")

	rec = app.request("POST", "/api/v1/preferences/migrate", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("migrate: %d %s", rec.Code, rec.Body.String())
	}
	if copied := parseJSON(t, rec)["report"].(map[string]interface{})["budgets_copied"]; copied != float64(11) {
		t.Errorf("expected 11 budgets copied, got %v", copied)
	}

	rec = app.request("GET", "/api/v1/settings", "", token)
	budgets := parseJSON(t, rec)["settings"].(map[string]interface{})["monthly_budgets"].(map[string]interface{})
	if budgets[fmt.Sprintf("%d-01", year)] != "300" {
		t.Errorf("expected January to keep 300, got %v", budgets[fmt.Sprintf("%d-01", year)])
	}
	if budgets[fmt.Sprintf("%d-02", year)] != "50" {
		t.Errorf("expected February to get 50, got %v", budgets[fmt.Sprintf("%d-02", year)])
	}
}

func TestAdminFlow_Backfill(t *testing.T) {
	app := setupApp(t)
	token, userID := app.registerUser(t, "backfill@test.com", "password123")
	artistID := app.createArtist(t, token, "Mina")
	app.insertUnlinkedExpense(t, userID, "Mina", "10")
	app.insertUnlinkedExpense(t, userID, "Mina", "5")
	app.insertUnlinkedExpense(t, userID, "Nobody", "7")

	backfill := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/api/v1/admin/backfill", nil)
		if key != "" {
			req.Header.Set("X-API-Key", key)
		}
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, req)
		return rec
	}

	if rec := backfill(""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a key, got %d", rec.Code)
	}
	if rec := backfill("wrong"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with a wrong key, got %d", rec.Code)
	}

	rec := backfill(adminKey)
	if rec.Code != http.StatusOK {
		t.Fatalf("backfill: %d %s", rec.Code, rec.Body.String())
	}
	if linked := parseJSON(t, rec)["linked"]; linked != float64(2) {
		t.Errorf("expected 2 linked, got %v", linked)
	}

	rec = app.request("GET", "/api/v1/expenses?artist_id="+artistID, "", token)
	if total := parseJSON(t, rec)["total_items"]; total != float64(2) {
		t.Errorf("expected 2 expenses linked to the artist, got %v", total)
	}

	if linked := parseJSON(t, backfill(adminKey))["linked"]; linked != float64(0) {
		t.Errorf("expected a second backfill to link nothing, got %v", linked)
	}
}
