package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "idoljournal/internal/errors"
	"idoljournal/internal/services"
)

// SettingsHandler handles the per-user settings document: monthly budgets
// and countdown events.
type SettingsHandler struct {
	settingsService services.SettingsServicer
	auditService    services.AuditServicer
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService services.SettingsServicer, auditService services.AuditServicer) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, auditService: auditService}
}

// BudgetRequest represents a budget amount payload
type BudgetRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"number" binding:"non_negative_amount"`
}

// EventRequest represents the add countdown event payload
type EventRequest struct {
	Title string `json:"title" binding:"required,max=100"`
	Date  string `json:"date" binding:"required,iso_date"`
}

// GetSettings handles retrieving the settings document.
// @Summary     Get settings
// @Tags        settings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Settings "Settings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	settings, err := h.settingsService.GetSettings(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// SetMonthlyBudget handles setting the budget of one month.
// @Summary     Set monthly budget
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       month   path string        true "Month as YYYY-MM"
// @Param       request body BudgetRequest true "Budget amount"
// @Success     200 {object} models.Settings "Settings updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings/budgets/months/{month} [put]
func (h *SettingsHandler) SetMonthlyBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	month := c.Param("month")
	settings, err := h.settingsService.SetMonthlyBudget(c.Request.Context(), userID, month, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "SET_MONTHLY_BUDGET", "settings", settings.ID, c.ClientIP(),
		map[string]interface{}{"month": month, "amount": req.Amount.String()})

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// SetYearBudget handles giving every month of a year the same budget.
// @Summary     Set yearly budget
// @Description Assign the amount to each of the twelve months of the year
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       year    path int           true "Calendar year"
// @Param       request body BudgetRequest true "Monthly amount"
// @Success     200 {object} models.Settings "Settings updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings/budgets/years/{year} [put]
func (h *SettingsHandler) SetYearBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := parseIntParam(c, "year")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	settings, err := h.settingsService.SetYearBudget(c.Request.Context(), userID, int(year), req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "SET_YEAR_BUDGET", "settings", settings.ID, c.ClientIP(),
		map[string]interface{}{"year": year, "amount": req.Amount.String()})

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// AddEvent handles adding a countdown event.
// @Summary     Add countdown event
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body EventRequest true "Event data"
// @Success     201 {object} models.CountdownEvent "Event created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings/events [post]
func (h *SettingsHandler) AddEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	event, err := h.settingsService.AddEvent(c.Request.Context(), userID, req.Title, req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "ADD_EVENT", "countdown_event", strconv.FormatInt(event.ID, 10), c.ClientIP(),
		map[string]interface{}{"title": event.Title, "date": event.Date})

	c.JSON(http.StatusCreated, gin.H{"event": event})
}

// DeleteEvent handles removing a countdown event.
// @Summary     Delete countdown event
// @Tags        settings
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Event ID"
// @Success     200 {object} MessageResponse "Event deleted"
// @Failure     400 {object} ErrorResponse "Invalid event ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Event not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings/events/{id} [delete]
func (h *SettingsHandler) DeleteEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	eventID, err := parseIntParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.settingsService.DeleteEvent(c.Request.Context(), userID, eventID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "DELETE_EVENT", "countdown_event", c.Param("id"), c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Event deleted successfully"})
}
