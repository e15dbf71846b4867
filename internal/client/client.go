// Package client is a typed Go client for the trivia song API.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"parodioczolko/internal/models"
)

var (
	// ErrNotFound is returned by GetSong when the id is unknown
	ErrNotFound = errors.New("song not found")
	// ErrNoSongs is returned by RandomSong when the catalog is empty
	ErrNoSongs = errors.New("no songs found")
)

// APIError describes a failed API call
type APIError struct {
	Operation  string
	StatusCode int
	Message    string // the server's "error" field, when present
	Err        error
}

func (e *APIError) Error() string {
	msg := "catalog " + e.Operation + " failed"
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" with status %d", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Err
}

type errorBody struct {
	Error string `json:"error"`
}

// Client calls the song endpoints of one server
type Client struct {
	http *resty.Client
}

// Option configures a Client
type Option func(*resty.Client)

// WithTimeout bounds each request
func WithTimeout(timeout time.Duration) Option {
	return func(c *resty.Client) {
		c.SetTimeout(timeout)
	}
}

// WithRetry retries transport failures up to count times
func WithRetry(count int, wait time.Duration) Option {
	return func(c *resty.Client) {
		c.SetRetryCount(count).
			SetRetryWaitTime(wait).
			SetRetryMaxWaitTime(4 * wait)
	}
}

// WithHeader sends a header with every request
func WithHeader(name, value string) Option {
	return func(c *resty.Client) {
		c.SetHeader(name, value)
	}
}

// New creates a client for the API rooted at baseURL, including any route
// prefix, e.g. "http://localhost:7071/api".
func New(baseURL string, opts ...Option) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(10*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)

	for _, opt := range opts {
		opt(rc)
	}
	return &Client{http: rc}
}

// ListSongs fetches the whole catalog
func (c *Client) ListSongs(ctx context.Context) ([]*models.Song, error) {
	var songs []*models.Song
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&songs).
		SetError(&errorBody{}).
		Get("/songs")
	if err := check("list_songs", resp, err, nil); err != nil {
		return nil, err
	}
	if songs == nil {
		songs = []*models.Song{}
	}
	return songs, nil
}

// GetSong fetches one song by id
func (c *Client) GetSong(ctx context.Context, id string) (*models.Song, error) {
	var song models.Song
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetResult(&song).
		SetError(&errorBody{}).
		Get("/songs/{id}")
	if err := check("get_song", resp, err, ErrNotFound); err != nil {
		return nil, err
	}
	return &song, nil
}

// RandomSong fetches a random song
func (c *Client) RandomSong(ctx context.Context) (*models.Song, error) {
	var song models.Song
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&song).
		SetError(&errorBody{}).
		Get("/songs/random")
	if err := check("random_song", resp, err, ErrNoSongs); err != nil {
		return nil, err
	}
	return &song, nil
}

func check(operation string, resp *resty.Response, err error, notFound error) error {
	if err != nil {
		return &APIError{Operation: operation, Message: "request failed", Err: err}
	}
	if resp.StatusCode() == http.StatusOK {
		return nil
	}

	apiErr := &APIError{Operation: operation, StatusCode: resp.StatusCode()}
	if body, ok := resp.Error().(*errorBody); ok && body != nil {
		apiErr.Message = body.Error
	}
	if resp.StatusCode() == http.StatusNotFound && notFound != nil {
		apiErr.Err = notFound
	}
	return apiErr
}
