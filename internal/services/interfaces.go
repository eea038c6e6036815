package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"idoljournal/internal/chart"
	"idoljournal/internal/models"
	"idoljournal/internal/pagination"
	"idoljournal/internal/stats"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(ctx context.Context, email, password, displayName string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// ArtistInput carries the editable fields of an artist.
type ArtistInput struct {
	Name      string
	Photos    []string
	StartDate *time.Time
}

// ArtistServicer defines the contract for artist-related business logic.
type ArtistServicer interface {
	CreateArtist(ctx context.Context, userID string, in ArtistInput) (*models.Artist, error)
	GetUserArtists(ctx context.Context, userID string) ([]models.Artist, error)
	GetArtistByID(ctx context.Context, userID, artistID string) (*models.Artist, error)
	UpdateArtist(ctx context.Context, userID, artistID string, in ArtistInput) (*models.Artist, error)
	DeleteArtist(ctx context.Context, userID, artistID string) error
	AddPhoto(ctx context.Context, userID, artistID, url string) (*models.Artist, error)
	RemovePhoto(ctx context.Context, userID, artistID string, index int) (*models.Artist, error)
}

// ExpenseInput carries the editable fields of an expense.
type ExpenseInput struct {
	Amount      decimal.Decimal
	Category    models.ExpenseCategory
	Description string
}

// ExpenseFilter selects whose expenses to list. ArtistID takes precedence;
// ArtistName reaches rows recorded before artists had ids or whose artist
// was deleted.
type ExpenseFilter struct {
	ArtistID   string
	ArtistName string
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(ctx context.Context, userID, artistID string, in ExpenseInput) (*models.Expense, error)
	GetExpenses(ctx context.Context, userID string, filter ExpenseFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(ctx context.Context, userID, expenseID string) (*models.Expense, error)
	UpdateExpense(ctx context.Context, userID, expenseID string, in ExpenseInput) (*models.Expense, error)
	DeleteExpense(ctx context.Context, userID, expenseID string) error
	// ArtistExpenses returns every expense linked to the artist, newest first.
	ArtistExpenses(ctx context.Context, userID string, artist *models.Artist) ([]models.Expense, error)
}

// SettingsServicer defines the contract for the per-user settings document.
type SettingsServicer interface {
	GetSettings(ctx context.Context, userID string) (*models.Settings, error)
	SetMonthlyBudget(ctx context.Context, userID, month string, amount decimal.Decimal) (*models.Settings, error)
	// SetYearBudget assigns amount to each of the twelve months of year.
	SetYearBudget(ctx context.Context, userID string, year int, amount decimal.Decimal) (*models.Settings, error)
	AddEvent(ctx context.Context, userID, title, date string) (*models.CountdownEvent, error)
	DeleteEvent(ctx context.Context, userID string, eventID int64) error
}

// CategoryStat is one row of the spending breakdown.
type CategoryStat struct {
	Category models.ExpenseCategory `json:"category"`
	Label    string                 `json:"label"`
	Total    decimal.Decimal        `json:"total"`
	Count    int                    `json:"count"`
}

// Dashboard is the journal overview for one artist and year.
type Dashboard struct {
	ArtistID        string            `json:"artist_id"`
	ArtistName      string            `json:"artist_name"`
	Year            int               `json:"year"`
	StartDate       *time.Time        `json:"start_date,omitempty"`
	ElapsedDays     int               `json:"elapsed_days"`
	LifetimeTotal   decimal.Decimal   `json:"lifetime_total"`
	YearTotal       decimal.Decimal   `json:"year_total"`
	MonthlyBudget   decimal.Decimal   `json:"monthly_budget"`
	AnnualBudget    decimal.Decimal   `json:"annual_budget"`
	RemainingBudget decimal.Decimal   `json:"remaining_budget"`
	Breakdown       []CategoryStat    `json:"breakdown"`
	Chart           chart.Pie         `json:"chart"`
	Countdowns      []stats.Countdown `json:"countdowns"`
	AvailableYears  []int             `json:"available_years"`
	RecentExpenses  []models.Expense  `json:"recent_expenses"`
}

// Review is the yearly review for one artist.
type Review struct {
	ArtistID       string            `json:"artist_id"`
	ArtistName     string            `json:"artist_name"`
	Year           int               `json:"year"`
	Count          int               `json:"count"`
	Total          decimal.Decimal   `json:"total"`
	Average        decimal.Decimal   `json:"average"`
	Highest        *models.Expense   `json:"highest,omitempty"`
	Breakdown      []CategoryStat    `json:"breakdown"`
	MostFrequent   *CategoryStat     `json:"most_frequent,omitempty"`
	Chart          chart.Pie         `json:"chart"`
	Events         []stats.Countdown `json:"events"`
	AvailableYears []int             `json:"available_years"`
}

// StatsServicer builds the derived views over an artist's expenses.
type StatsServicer interface {
	GetDashboard(ctx context.Context, userID, artistID string, year int) (*Dashboard, error)
	GetReview(ctx context.Context, userID, artistID string, year int) (*Review, error)
	GetChart(ctx context.Context, userID, artistID string, year int, size float64) (*chart.Pie, error)
}

// MigrationReport summarises one legacy migration run.
type MigrationReport struct {
	AlreadyApplied   bool `json:"already_applied"`
	BudgetsCopied    int  `json:"budgets_copied"`
	EventsCopied     int  `json:"events_copied"`
	StartDateCopied  bool `json:"start_date_copied"`
	PhotosCopied     int  `json:"photos_copied"`
	ExpensesLinked   int  `json:"expenses_linked"`
	CurrentArtistSet bool `json:"current_artist_set"`
}

// MigrationServicer copies legacy client state into the canonical records.
type MigrationServicer interface {
	MigrateUser(ctx context.Context, userID string) (*MigrationReport, error)
	// BackfillArtistIDs links expenses without an artist id to the user's
	// artist of the same name, across all users.
	BackfillArtistIDs(ctx context.Context) (int, error)
}

// PreferenceServicer exposes the preference store to handlers.
type PreferenceServicer interface {
	GetPreference(ctx context.Context, userID, key string) (string, error)
	SetPreference(ctx context.Context, userID, key, value string) error
	DeletePreference(ctx context.Context, userID, key string) error
}

// AuditServicer defines the contract for the activity trail.
type AuditServicer interface {
	Log(ctx context.Context, userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
	ListActivity(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error)
}
