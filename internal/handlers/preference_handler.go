package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "idoljournal/internal/errors"
	"idoljournal/internal/services"
)

// PreferenceHandler exposes the per-user key/value preferences and the
// one-time copy of legacy preferences into the settings document.
type PreferenceHandler struct {
	preferenceService services.PreferenceServicer
	migrationService  services.MigrationServicer
	auditService      services.AuditServicer
}

// NewPreferenceHandler creates a new PreferenceHandler
func NewPreferenceHandler(preferenceService services.PreferenceServicer, migrationService services.MigrationServicer, auditService services.AuditServicer) *PreferenceHandler {
	return &PreferenceHandler{
		preferenceService: preferenceService,
		migrationService:  migrationService,
		auditService:      auditService,
	}
}

// PreferenceRequest represents the set preference payload. An empty value is
// stored as-is.
type PreferenceRequest struct {
	Value *string `json:"value" binding:"required,max=10000"`
}

// PreferenceResponse represents one preference
type PreferenceResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// GetPreference handles reading one preference.
// @Summary     Get preference
// @Tags        preferences
// @Produce     json
// @Security    BearerAuth
// @Param       key path string true "Preference key"
// @Success     200 {object} PreferenceResponse "Preference"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Preference not set"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /preferences/{key} [get]
func (h *PreferenceHandler) GetPreference(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	key := c.Param("key")
	value, err := h.preferenceService.GetPreference(c.Request.Context(), userID, key)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, PreferenceResponse{Key: key, Value: value})
}

// SetPreference handles writing one preference.
// @Summary     Set preference
// @Tags        preferences
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       key     path string            true "Preference key"
// @Param       request body PreferenceRequest true "Preference value"
// @Success     200 {object} PreferenceResponse "Preference stored"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /preferences/{key} [put]
func (h *PreferenceHandler) SetPreference(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	key := c.Param("key")
	if err := h.preferenceService.SetPreference(c.Request.Context(), userID, key, *req.Value); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, PreferenceResponse{Key: key, Value: *req.Value})
}

// DeletePreference handles removing one preference. Removing an unset key
// succeeds.
// @Summary     Delete preference
// @Tags        preferences
// @Produce     json
// @Security    BearerAuth
// @Param       key path string true "Preference key"
// @Success     200 {object} MessageResponse "Preference removed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /preferences/{key} [delete]
func (h *PreferenceHandler) DeletePreference(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.preferenceService.DeletePreference(c.Request.Context(), userID, c.Param("key")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Preference removed successfully"})
}

// MigrateLegacy handles copying legacy preferences into the settings
// document. Running it again reports AlreadyApplied.
// @Summary     Migrate legacy preferences
// @Tags        preferences
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.MigrationReport "Migration report"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /preferences/migrate [post]
func (h *PreferenceHandler) MigrateLegacy(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.migrationService.MigrateUser(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if !report.AlreadyApplied {
		h.auditService.Log(c.Request.Context(), userID, "MIGRATE_LEGACY_PREFERENCES", "settings", userID, c.ClientIP(),
			map[string]interface{}{
				"budgets_copied":  report.BudgetsCopied,
				"events_copied":   report.EventsCopied,
				"photos_copied":   report.PhotosCopied,
				"expenses_linked": report.ExpensesLinked,
			})
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}
