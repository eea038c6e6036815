package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "idoljournal/internal/errors"
	"idoljournal/internal/services"
	"idoljournal/internal/stats"
)

// ArtistHandler handles artist-related requests
type ArtistHandler struct {
	artistService services.ArtistServicer
	auditService  services.AuditServicer
	loc           *time.Location
}

// NewArtistHandler creates a new ArtistHandler. Start dates are read as
// calendar days in loc.
func NewArtistHandler(artistService services.ArtistServicer, auditService services.AuditServicer, loc *time.Location) *ArtistHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ArtistHandler{artistService: artistService, auditService: auditService, loc: loc}
}

// ArtistRequest represents the create/update artist payload
type ArtistRequest struct {
	Name      string   `json:"name" binding:"required,max=100"`
	Photos    []string `json:"photos" binding:"omitempty,max=3,dive,required,url"`
	StartDate string   `json:"start_date" binding:"omitempty,iso_date"`
}

// AddPhotoRequest represents the add photo payload
type AddPhotoRequest struct {
	URL string `json:"url" binding:"required,url"`
}

func (h *ArtistHandler) input(req ArtistRequest) (services.ArtistInput, error) {
	in := services.ArtistInput{Name: req.Name, Photos: req.Photos}
	if req.StartDate != "" {
		start, err := stats.ParseDate(req.StartDate, h.loc)
		if err != nil {
			return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "start_date must be YYYY-MM-DD")
		}
		in.StartDate = &start
	}
	return in, nil
}

// CreateArtist handles creating an artist. The new artist becomes the
// current selection.
// @Summary     Create artist
// @Description Register an artist to track expenses for
// @Tags        artists
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ArtistRequest true "Artist data"
// @Success     201 {object} models.Artist "Artist created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /artists [post]
func (h *ArtistHandler) CreateArtist(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ArtistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	in, err := h.input(req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	artist, err := h.artistService.CreateArtist(c.Request.Context(), userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "CREATE_ARTIST", "artist", artist.ID, c.ClientIP(),
		map[string]interface{}{"name": artist.Name})

	c.JSON(http.StatusCreated, gin.H{"artist": artist})
}

// GetArtists handles listing the user's artists.
// @Summary     List artists
// @Description List the authenticated user's artists, oldest first
// @Tags        artists
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  models.Artist "Artists"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /artists [get]
func (h *ArtistHandler) GetArtists(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	artists, err := h.artistService.GetUserArtists(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"artists": artists})
}

// GetArtist handles retrieving a specific artist.
// @Summary     Get artist by ID
// @Tags        artists
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Artist ID"
// @Success     200 {object} models.Artist "Artist details"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Artist not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /artists/{id} [get]
func (h *ArtistHandler) GetArtist(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	artist, err := h.artistService.GetArtistByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"artist": artist})
}

// UpdateArtist handles replacing an artist's name, photos and start date.
// @Summary     Update artist
// @Tags        artists
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string        true "Artist ID"
// @Param       request body ArtistRequest true "Artist data"
// @Success     200 {object} models.Artist "Artist updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Artist not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /artists/{id} [put]
func (h *ArtistHandler) UpdateArtist(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ArtistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	in, err := h.input(req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	artist, err := h.artistService.UpdateArtist(c.Request.Context(), userID, c.Param("id"), in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "UPDATE_ARTIST", "artist", artist.ID, c.ClientIP(),
		map[string]interface{}{"name": artist.Name})

	c.JSON(http.StatusOK, gin.H{"artist": artist})
}

// DeleteArtist handles deleting an artist. Its expenses are kept.
// @Summary     Delete artist
// @Tags        artists
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Artist ID"
// @Success     200 {object} MessageResponse "Artist deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Artist not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /artists/{id} [delete]
func (h *ArtistHandler) DeleteArtist(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	artistID := c.Param("id")
	if err := h.artistService.DeleteArtist(c.Request.Context(), userID, artistID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "DELETE_ARTIST", "artist", artistID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Artist deleted successfully"})
}

// AddPhoto handles appending a photo URL to an artist.
// @Summary     Add artist photo
// @Tags        artists
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string          true "Artist ID"
// @Param       request body AddPhotoRequest true "Photo URL"
// @Success     200 {object} models.Artist "Artist updated"
// @Failure     400 {object} ErrorResponse "Invalid input or photo limit reached"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Artist not found"
// @Router      /artists/{id}/photos [post]
func (h *ArtistHandler) AddPhoto(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	artist, err := h.artistService.AddPhoto(c.Request.Context(), userID, c.Param("id"), req.URL)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "ADD_ARTIST_PHOTO", "artist", artist.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"artist": artist})
}

// RemovePhoto handles removing the photo at index.
// @Summary     Remove artist photo
// @Tags        artists
// @Produce     json
// @Security    BearerAuth
// @Param       id    path string true "Artist ID"
// @Param       index path int    true "Photo position, starting at 0"
// @Success     200 {object} models.Artist "Artist updated"
// @Failure     400 {object} ErrorResponse "Invalid index"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Artist not found"
// @Router      /artists/{id}/photos/{index} [delete]
func (h *ArtistHandler) RemovePhoto(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	index, err := parseIntParam(c, "index")
	if err != nil {
		respondWithError(c, err)
		return
	}

	artist, err := h.artistService.RemovePhoto(c.Request.Context(), userID, c.Param("id"), int(index))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "REMOVE_ARTIST_PHOTO", "artist", artist.ID, c.ClientIP(),
		map[string]interface{}{"index": index})

	c.JSON(http.StatusOK, gin.H{"artist": artist})
}
