package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"parodioczolko/internal/handlers/render"
	"parodioczolko/internal/models"
	"parodioczolko/internal/services"
)

// Catalog is the read side the HTTP layer serves
type Catalog interface {
	ListAll(ctx context.Context) []*models.Song
	GetByID(ctx context.Context, id string) (*models.Song, error)
	GetRandom(ctx context.Context) (*models.Song, error)
	Health(ctx context.Context) error
}

// SongHandler handles song-related requests
type SongHandler struct {
	catalog Catalog
}

// NewSongHandler creates a new song handler
func NewSongHandler(catalog Catalog) *SongHandler {
	return &SongHandler{catalog: catalog}
}

// ListSongs handles GET /songs
func (h *SongHandler) ListSongs(c *gin.Context) {
	songs := h.catalog.ListAll(c.Request.Context())
	if songs == nil {
		songs = []*models.Song{}
	}
	render.JSON(c, http.StatusOK, songs)
}

// GetRandomSong handles GET /songs/random
func (h *SongHandler) GetRandomSong(c *gin.Context) {
	song, err := h.catalog.GetRandom(c.Request.Context())
	switch {
	case errors.Is(err, services.ErrCatalogEmpty):
		render.Error(c, http.StatusNotFound, render.MessageNoSongs)
	case err != nil || song == nil:
		render.Error(c, http.StatusInternalServerError, render.MessageInternal)
	default:
		render.JSON(c, http.StatusOK, song)
	}
}

// GetSongByID handles GET /songs/:id
func (h *SongHandler) GetSongByID(c *gin.Context) {
	song, err := h.catalog.GetByID(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, services.ErrSongNotFound):
		render.Error(c, http.StatusNotFound, render.MessageNoSuchSong)
	case err != nil || song == nil:
		render.Error(c, http.StatusInternalServerError, render.MessageInternal)
	default:
		render.JSON(c, http.StatusOK, song)
	}
}

// HealthResponse reports whether the catalog store answers
type HealthResponse struct {
	Status string `json:"status"`
}

// Health handles GET /health
func (h *SongHandler) Health(c *gin.Context) {
	if err := h.catalog.Health(c.Request.Context()); err != nil {
		render.SetOrigin(c)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
		return
	}
	render.JSON(c, http.StatusOK, HealthResponse{Status: "ok"})
}
