package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"idoljournal/internal/logger"
	"idoljournal/internal/services"
)

// AdminHandler serves maintenance endpoints guarded by the admin API key.
type AdminHandler struct {
	migrationService services.MigrationServicer
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(migrationService services.MigrationServicer) *AdminHandler {
	return &AdminHandler{migrationService: migrationService}
}

// BackfillResponse reports how many expenses were linked.
type BackfillResponse struct {
	Linked int `json:"linked"`
}

// Backfill links expenses that have no artist id to the owner's artist of the
// same name.
// @Summary     Backfill expense artist ids
// @Tags        admin
// @Produce     json
// @Param       X-API-Key header string true "Admin API key"
// @Success     200 {object} BackfillResponse "Expenses linked"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/backfill [post]
func (h *AdminHandler) Backfill(c *gin.Context) {
	linked, err := h.migrationService.BackfillArtistIDs(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Get().Infow("expense artist backfill finished", "linked", linked, "client_ip", c.ClientIP())

	c.JSON(http.StatusOK, BackfillResponse{Linked: linked})
}
