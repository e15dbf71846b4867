package client

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parodioczolko/internal/handlers"
	"parodioczolko/internal/models"
	"parodioczolko/internal/repositories"
	"parodioczolko/internal/services"
	"parodioczolko/internal/testutil"
)

func newServer(t *testing.T, prefix string, songs ...*models.Song) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repositories.NewMemorySongRepository()
	testutil.SeedRepository(t, repo, songs...)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	catalog := services.NewCatalogService(repo, models.DefaultPartitionKey, services.WithLogger(logger))
	server := httptest.NewServer(handlers.NewRouter(catalog, handlers.RouterOptions{Prefix: prefix, Logger: logger}))
	t.Cleanup(server.Close)
	return server
}

func newClient(baseURL string) *Client {
	return New(baseURL, WithTimeout(5*time.Second), WithRetry(0, 10*time.Millisecond))
}

func TestClient_ListSongs(t *testing.T) {
	server := newServer(t, "", testutil.ScenarioSongs()...)

	songs, err := newClient(server.URL).ListSongs(context.Background())
	require.NoError(t, err)
	require.Len(t, songs, 2)
	assert.Equal(t, "A", songs[0].ID)
	assert.Equal(t, "Nirvana", songs[1].Artist)
}

func TestClient_ListSongs_Empty(t *testing.T) {
	server := newServer(t, "")

	songs, err := newClient(server.URL).ListSongs(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, songs)
	assert.Empty(t, songs)
}

func TestClient_GetSong(t *testing.T) {
	server := newServer(t, "/api", testutil.ScenarioSongs()...)
	c := newClient(server.URL + "/api/")

	song, err := c.GetSong(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, "Queen", song.Artist)
	assert.Equal(t, 1975, song.Year)

	_, err = c.GetSong(context.Background(), "Z")
	assert.ErrorIs(t, err, ErrNotFound)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Song not found", apiErr.Message)
}

func TestClient_RandomSong(t *testing.T) {
	server := newServer(t, "", testutil.QueenSong())

	song, err := newClient(server.URL).RandomSong(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A", song.ID)
}

func TestClient_RandomSong_Empty(t *testing.T) {
	server := newServer(t, "")

	_, err := newClient(server.URL).RandomSong(context.Background())
	assert.ErrorIs(t, err, ErrNoSongs)
	assert.Contains(t, err.Error(), "No songs found")
}

func TestClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error"}`))
	}))
	defer server.Close()

	_, err := newClient(server.URL).GetSong(context.Background(), "A")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "get_song", apiErr.Operation)
	assert.Equal(t, "Internal server error", apiErr.Message)
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := newClient(url).ListSongs(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.StatusCode)
	assert.Error(t, apiErr.Unwrap())
}
