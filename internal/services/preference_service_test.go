package services

import (
	"context"
	"strings"
	"testing"

	"idoljournal/internal/testutil"
)

func TestPreferenceService(t *testing.T) {
	ctx := context.Background()
	ts := newTestServices(t)
	user := testutil.CreateTestUser(t, ts.db)
	svc := NewPreferenceService(ts.prefs)

	_, err := svc.GetPreference(ctx, user.ID, "theme")
	testutil.AssertAppError(t, err, "PREFERENCE_NOT_FOUND")

	testutil.AssertNoError(t, svc.SetPreference(ctx, user.ID, "theme", "dark"))
	value, err := svc.GetPreference(ctx, user.ID, "theme")
	testutil.AssertNoError(t, err)
	if value != "dark" {
		t.Errorf("expected dark, got %q", value)
	}

	testutil.AssertNoError(t, svc.DeletePreference(ctx, user.ID, "theme"))
	_, err = svc.GetPreference(ctx, user.ID, "theme")
	testutil.AssertAppError(t, err, "PREFERENCE_NOT_FOUND")

	err = svc.SetPreference(ctx, user.ID, " ", "x")
	testutil.AssertAppError(t, err, "INVALID_INPUT")
	err = svc.SetPreference(ctx, user.ID, strings.Repeat("k", 101), "x")
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}
