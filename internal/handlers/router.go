package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"parodioczolko/internal/config"
	"parodioczolko/internal/handlers/render"
)

// RouterOptions configures NewRouter
type RouterOptions struct {
	// Prefix is prepended to every route, e.g. "/api" under a function host.
	// It is normalized with config.NormalizePrefix.
	Prefix       string
	StoreTimeout time.Duration
	Logger       *slog.Logger
}

// NewRouter builds the HTTP surface of the catalog
func NewRouter(catalog Catalog, opts RouterOptions) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	// Redirects bypass middleware and would answer without the CORS envelope
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false
	// Match on the raw path so an id with an encoded slash stays one segment
	router.UseRawPath = true
	router.UnescapePathValues = true

	router.Use(RequestLogging(logger))
	router.Use(Recovery(logger))
	router.Use(CORS())

	router.NoRoute(func(c *gin.Context) {
		render.Error(c, http.StatusNotFound, render.MessageNotFound)
	})

	songHandler := NewSongHandler(catalog)

	api := router.Group(config.NormalizePrefix(opts.Prefix))
	api.Use(StoreTimeout(opts.StoreTimeout))
	{
		api.GET("/songs", songHandler.ListSongs)
		api.GET("/songs/random", songHandler.GetRandomSong)
		api.GET("/songs/:id", songHandler.GetSongByID)
		api.GET("/health", songHandler.Health)
	}

	return router
}

