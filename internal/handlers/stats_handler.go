package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "idoljournal/internal/errors"
	"idoljournal/internal/services"
)

// StatsHandler serves the derived views of an artist's journal.
type StatsHandler struct {
	statsService services.StatsServicer
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(statsService services.StatsServicer) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetDashboard handles the journal overview.
// @Summary     Artist dashboard
// @Description Totals, budget, category breakdown, chart and countdowns for one artist
// @Tags        stats
// @Produce     json
// @Security    BearerAuth
// @Param       id   path  string true  "Artist ID"
// @Param       year query int    false "Year for the budget and yearly total (default current year)"
// @Success     200 {object} services.Dashboard "Dashboard"
// @Failure     400 {object} ErrorResponse "Invalid year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Artist not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /artists/{id}/dashboard [get]
func (h *StatsHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := parseYearQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dashboard, err := h.statsService.GetDashboard(c.Request.Context(), userID, c.Param("id"), year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dashboard": dashboard})
}

// GetReview handles the yearly review.
// @Summary     Yearly review
// @Tags        stats
// @Produce     json
// @Security    BearerAuth
// @Param       id   path  string true  "Artist ID"
// @Param       year query int    false "Year to review (default current year)"
// @Success     200 {object} services.Review "Review"
// @Failure     400 {object} ErrorResponse "Invalid year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Artist not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /artists/{id}/review [get]
func (h *StatsHandler) GetReview(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := parseYearQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	review, err := h.statsService.GetReview(c.Request.Context(), userID, c.Param("id"), year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"review": review})
}

// GetChart handles the category pie chart geometry.
// @Summary     Category chart
// @Description Pie sectors, SVG paths and colors for the category breakdown
// @Tags        stats
// @Produce     json
// @Security    BearerAuth
// @Param       id   path  string true  "Artist ID"
// @Param       size query number false "Chart width and height in pixels"
// @Param       year query int    false "Limit to one year (default all years)"
// @Success     200 {object} chart.Pie "Chart"
// @Failure     400 {object} ErrorResponse "Invalid size or year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Artist not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /artists/{id}/chart [get]
func (h *StatsHandler) GetChart(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := parseYearQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var size float64
	if raw := c.Query("size"); raw != "" {
		size, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "size must be a number"))
			return
		}
	}

	pie, err := h.statsService.GetChart(c.Request.Context(), userID, c.Param("id"), year, size)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chart": pie})
}
