package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"idoljournal/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Now returns the current time truncated to the second, which survives a
// round trip through SQLite unchanged.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// Decimal parses s or fails the test.
func Decimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", s, err)
	}
	return d
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email and the
// password "password123".
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestArtist creates an artist without photos or start date.
func CreateTestArtist(t *testing.T, db *gorm.DB, userID string) *models.Artist {
	t.Helper()

	artist := &models.Artist{
		UserID: userID,
		Name:   fmt.Sprintf("Test Artist %d", nextID()),
		Photos: []string{},
	}
	if err := db.Create(artist).Error; err != nil {
		t.Fatalf("failed to create test artist: %v", err)
	}
	return artist
}

// CreateTestExpense records an expense for artist, dated now.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID string, artist *models.Artist, amount string, category models.ExpenseCategory) *models.Expense {
	t.Helper()
	return CreateTestExpenseAt(t, db, userID, artist, amount, category, Now())
}

// CreateTestExpenseAt records an expense for artist at the given time.
func CreateTestExpenseAt(t *testing.T, db *gorm.DB, userID string, artist *models.Artist, amount string, category models.ExpenseCategory, at time.Time) *models.Expense {
	t.Helper()

	artistID := artist.ID
	expense := &models.Expense{
		UserID:      userID,
		ArtistID:    &artistID,
		ArtistName:  artist.Name,
		Amount:      Decimal(t, amount),
		Category:    category,
		Description: fmt.Sprintf("Test Expense %d", nextID()),
		RecordedAt:  at,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestPreference stores a preference value.
func CreateTestPreference(t *testing.T, db *gorm.DB, userID, key, value string) *models.Preference {
	t.Helper()

	pref := &models.Preference{UserID: userID, Key: key, Value: value}
	if err := db.Create(pref).Error; err != nil {
		t.Fatalf("failed to create test preference: %v", err)
	}
	return pref
}
