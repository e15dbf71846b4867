package services

import (
	"context"
	"errors"
	"log/slog"

	"parodioczolko/internal/models"
	"parodioczolko/internal/repositories"
)

var (
	// ErrSongNotFound is returned when no song has the requested id
	ErrSongNotFound = errors.New("song not found")
	// ErrCatalogEmpty is returned when there is no song to pick from
	ErrCatalogEmpty = errors.New("no songs found")
)

// CatalogService is the read side of the song catalog. Store failures are
// logged and then reported as the nearest normal outcome: an empty list,
// ErrSongNotFound or ErrCatalogEmpty. Callers never see store errors.
type CatalogService struct {
	repository   repositories.SongRepository
	sampler      *RandomSampler
	partitionKey string
	logger       *slog.Logger
}

// CatalogOption configures a CatalogService
type CatalogOption func(*CatalogService)

// WithLogger sets where store failures are reported
func WithLogger(logger *slog.Logger) CatalogOption {
	return func(s *CatalogService) {
		s.logger = logger
	}
}

// WithOffsetSource sets the random source used by GetRandom
func WithOffsetSource(offsets OffsetSource) CatalogOption {
	return func(s *CatalogService) {
		if offsets != nil {
			s.sampler.offsets = offsets
		}
	}
}

// NewCatalogService creates a new catalog service over one partition
func NewCatalogService(repository repositories.SongRepository, partitionKey string, opts ...CatalogOption) *CatalogService {
	if partitionKey == "" {
		partitionKey = models.DefaultPartitionKey
	}

	s := &CatalogService{
		repository:   repository,
		sampler:      NewRandomSampler(repository, partitionKey, nil),
		partitionKey: partitionKey,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListAll returns every song in the catalog, or an empty slice when the store fails
func (s *CatalogService) ListAll(ctx context.Context) []*models.Song {
	songs, err := s.repository.Page(ctx, repositories.SongFilter{PartitionKey: s.partitionKey}, 0, 0)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting all songs", "operation", "list_all", "error", err)
		return []*models.Song{}
	}
	if songs == nil {
		return []*models.Song{}
	}
	return songs
}

// GetByID looks a song up in the service's partition
func (s *CatalogService) GetByID(ctx context.Context, id string) (*models.Song, error) {
	if id == "" {
		return nil, ErrSongNotFound
	}

	song, err := s.repository.FindByID(ctx, id, s.partitionKey)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting song by id", "operation", "get_by_id", "songID", id, "error", err)
		return nil, ErrSongNotFound
	}
	if song == nil {
		s.logger.DebugContext(ctx, "Song not found", "songID", id)
		return nil, ErrSongNotFound
	}
	return song, nil
}

// GetRandom returns a uniformly random song or ErrCatalogEmpty
func (s *CatalogService) GetRandom(ctx context.Context) (*models.Song, error) {
	song, err := s.sampler.Sample(ctx)
	if err != nil {
		if !errors.Is(err, ErrCatalogEmpty) {
			s.logger.ErrorContext(ctx, "Error getting random song", "operation", "get_random", "error", err)
		}
		return nil, ErrCatalogEmpty
	}
	return song, nil
}

// Health reports whether the underlying store is reachable
func (s *CatalogService) Health(ctx context.Context) error {
	return s.repository.Health(ctx)
}
