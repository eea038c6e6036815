package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "idoljournal/internal/errors"
	"idoljournal/internal/services"
)

// --- mock preference and migration services ---

type mockPreferenceService struct {
	values map[string]string
	err    error
}

var _ services.PreferenceServicer = (*mockPreferenceService)(nil)

func (m *mockPreferenceService) GetPreference(_ context.Context, _, key string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	v, ok := m.values[key]
	if !ok {
		return "", apperrors.ErrPreferenceNotFound
	}
	return v, nil
}

func (m *mockPreferenceService) SetPreference(_ context.Context, _, key, value string) error {
	if m.err != nil {
		return m.err
	}
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}

func (m *mockPreferenceService) DeletePreference(_ context.Context, _, key string) error {
	if m.err != nil {
		return m.err
	}
	delete(m.values, key)
	return nil
}

type mockMigrationService struct {
	migrateUserFn func(userID string) (*services.MigrationReport, error)
	backfillFn    func() (int, error)
}

var _ services.MigrationServicer = (*mockMigrationService)(nil)

func (m *mockMigrationService) MigrateUser(_ context.Context, userID string) (*services.MigrationReport, error) {
	if m.migrateUserFn != nil {
		return m.migrateUserFn(userID)
	}
	return &services.MigrationReport{}, nil
}

func (m *mockMigrationService) BackfillArtistIDs(_ context.Context) (int, error) {
	if m.backfillFn != nil {
		return m.backfillFn()
	}
	return 0, nil
}

func setupPreferenceRouter(handler *PreferenceHandler) *gin.Engine {
	r := gin.New()
	g := r.Group("", injectUserID(testUserID))
	g.POST("/preferences/migrate", handler.MigrateLegacy)
	g.GET("/preferences/:key", handler.GetPreference)
	g.PUT("/preferences/:key", handler.SetPreference)
	g.DELETE("/preferences/:key", handler.DeletePreference)
	return r
}

func TestPreferenceHandler_RoundTrip(t *testing.T) {
	prefs := &mockPreferenceService{}
	r := setupPreferenceRouter(NewPreferenceHandler(prefs, &mockMigrationService{}, &mockAuditService{}))

	rec := doRequest(r, "PUT", "/preferences/current_artist_id", `{"value":"a1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("set: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(r, "GET", "/preferences/current_artist_id", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}
	result := parseJSON(t, rec)
	if result["key"] != "current_artist_id" || result["value"] != "a1" {
		t.Errorf("unexpected preference %v", result)
	}

	rec = doRequest(r, "DELETE", "/preferences/current_artist_id", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}

	rec = doRequest(r, "GET", "/preferences/current_artist_id", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "PREFERENCE_NOT_FOUND")
}

func TestPreferenceHandler_SetPreference(t *testing.T) {
	t.Run("stores an empty value", func(t *testing.T) {
		prefs := &mockPreferenceService{}
		r := setupPreferenceRouter(NewPreferenceHandler(prefs, &mockMigrationService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/preferences/theme", `{"value":""}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if v, ok := prefs.values["theme"]; !ok || v != "" {
			t.Errorf("expected empty value stored, got %q (set=%v)", v, ok)
		}
	})

	t.Run("returns 400 without a value", func(t *testing.T) {
		r := setupPreferenceRouter(NewPreferenceHandler(&mockPreferenceService{}, &mockMigrationService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/preferences/theme", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 500 on store failure", func(t *testing.T) {
		prefs := &mockPreferenceService{err: apperrors.ErrInternalServer}
		r := setupPreferenceRouter(NewPreferenceHandler(prefs, &mockMigrationService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/preferences/theme", `{"value":"dark"}`)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}

func TestPreferenceHandler_MigrateLegacy(t *testing.T) {
	t.Run("audits a first run", func(t *testing.T) {
		migration := &mockMigrationService{
			migrateUserFn: func(_ string) (*services.MigrationReport, error) {
				return &services.MigrationReport{BudgetsCopied: 12, EventsCopied: 2, StartDateCopied: true}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupPreferenceRouter(NewPreferenceHandler(&mockPreferenceService{}, migration, audit))

		rec := doRequest(r, "POST", "/preferences/migrate", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		report := parseJSON(t, rec)["report"].(map[string]interface{})
		if report["budgets_copied"] != float64(12) {
			t.Errorf("expected 12 budgets copied, got %v", report["budgets_copied"])
		}
		assertActions(t, audit, "MIGRATE_LEGACY_PREFERENCES")
	})

	t.Run("does not audit a repeat run", func(t *testing.T) {
		migration := &mockMigrationService{
			migrateUserFn: func(_ string) (*services.MigrationReport, error) {
				return &services.MigrationReport{AlreadyApplied: true}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupPreferenceRouter(NewPreferenceHandler(&mockPreferenceService{}, migration, audit))

		rec := doRequest(r, "POST", "/preferences/migrate", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		assertActions(t, audit)
	})
}

func TestAdminHandler_Backfill(t *testing.T) {
	t.Run("reports linked rows", func(t *testing.T) {
		migration := &mockMigrationService{backfillFn: func() (int, error) { return 7, nil }}
		r := gin.New()
		r.POST("/admin/backfill", NewAdminHandler(migration).Backfill)

		rec := doRequest(r, "POST", "/admin/backfill", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if linked := parseJSON(t, rec)["linked"]; linked != float64(7) {
			t.Errorf("expected 7 linked, got %v", linked)
		}
	})

	t.Run("returns 500 on failure", func(t *testing.T) {
		migration := &mockMigrationService{backfillFn: func() (int, error) { return 0, apperrors.ErrInternalServer }}
		r := gin.New()
		r.POST("/admin/backfill", NewAdminHandler(migration).Backfill)

		rec := doRequest(r, "POST", "/admin/backfill", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}
