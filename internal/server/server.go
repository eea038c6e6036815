// Package server assembles the HTTP application: collections, services,
// handlers and routes.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "idoljournal/internal/docs" // Import swagger docs
	"idoljournal/internal/handlers"
	"idoljournal/internal/middleware"
	"idoljournal/internal/models"
	"idoljournal/internal/preferences"
	"idoljournal/internal/services"
	"idoljournal/internal/store"
)

// Options configures the router.
type Options struct {
	// Location decides calendar days and years.
	Location       *time.Location
	AllowedOrigins []string
	AdminAPIKey    string
	// RequestLogging enables the per-request access log.
	RequestLogging bool
}

// Services is the service layer wired against one database.
type Services struct {
	Users       services.UserServicer
	Artists     services.ArtistServicer
	Expenses    services.ExpenseServicer
	Settings    services.SettingsServicer
	Stats       services.StatsServicer
	Preferences services.PreferenceServicer
	Migration   services.MigrationServicer
	Audit       services.AuditServicer
}

// NewServices builds every service on top of db.
func NewServices(db *gorm.DB, loc *time.Location) *Services {
	artistCol := store.NewCollection[models.Artist](db, "created_at ASC")
	expenseCol := store.NewCollection[models.Expense](db, "recorded_at DESC")
	settingsCol := store.NewCollection[models.Settings](db, "created_at ASC")
	prefs := preferences.NewGormStore(db)

	artists := services.NewArtistService(artistCol, prefs)
	expenses := services.NewExpenseService(expenseCol, artistCol)
	settings := services.NewSettingsService(settingsCol)

	return &Services{
		Users:       services.NewUserService(db),
		Artists:     artists,
		Expenses:    expenses,
		Settings:    settings,
		Stats:       services.NewStatsService(artists, expenses, settings, loc),
		Preferences: services.NewPreferenceService(prefs),
		Migration:   services.NewMigrationService(prefs, settings, settingsCol, artistCol, expenseCol, loc),
		Audit:       services.NewAuditService(db),
	}
}

// NewRouter returns the gin engine serving the API.
func NewRouter(svc *Services, opts Options) *gin.Engine {
	authHandler := handlers.NewAuthHandler(svc.Users, svc.Audit)
	artistHandler := handlers.NewArtistHandler(svc.Artists, svc.Audit, opts.Location)
	expenseHandler := handlers.NewExpenseHandler(svc.Expenses, svc.Audit)
	settingsHandler := handlers.NewSettingsHandler(svc.Settings, svc.Audit)
	statsHandler := handlers.NewStatsHandler(svc.Stats)
	preferenceHandler := handlers.NewPreferenceHandler(svc.Preferences, svc.Migration, svc.Audit)
	adminHandler := handlers.NewAdminHandler(svc.Migration)
	activityHandler := handlers.NewActivityHandler(svc.Audit)

	router := gin.New()
	router.Use(gin.Recovery())
	if opts.RequestLogging {
		router.Use(middleware.RequestLogging())
	}
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(opts.AllowedOrigins))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	admin := v1.Group("/admin")
	admin.Use(middleware.AdminKeyMiddleware(opts.AdminAPIKey))
	admin.POST("/backfill", adminHandler.Backfill)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.GET("/activity", activityHandler.GetActivity)

	artists := protected.Group("/artists")
	artists.POST("", artistHandler.CreateArtist)
	artists.GET("", artistHandler.GetArtists)
	artists.GET("/:id", artistHandler.GetArtist)
	artists.PUT("/:id", artistHandler.UpdateArtist)
	artists.DELETE("/:id", artistHandler.DeleteArtist)
	artists.POST("/:id/photos", artistHandler.AddPhoto)
	artists.DELETE("/:id/photos/:index", artistHandler.RemovePhoto)
	artists.GET("/:id/dashboard", statsHandler.GetDashboard)
	artists.GET("/:id/review", statsHandler.GetReview)
	artists.GET("/:id/chart", statsHandler.GetChart)

	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	settings := protected.Group("/settings")
	settings.GET("", settingsHandler.GetSettings)
	settings.PUT("/budgets/months/:month", settingsHandler.SetMonthlyBudget)
	settings.PUT("/budgets/years/:year", settingsHandler.SetYearBudget)
	settings.POST("/events", settingsHandler.AddEvent)
	settings.DELETE("/events/:id", settingsHandler.DeleteEvent)

	prefs := protected.Group("/preferences")
	prefs.POST("/migrate", preferenceHandler.MigrateLegacy)
	prefs.GET("/:key", preferenceHandler.GetPreference)
	prefs.PUT("/:key", preferenceHandler.SetPreference)
	prefs.DELETE("/:key", preferenceHandler.DeletePreference)

	return router
}
