package services

import (
	"context"
	"math/rand/v2"
	"sync"

	"parodioczolko/internal/models"
	"parodioczolko/internal/repositories"
)

// OffsetSource draws an integer uniformly from [0, n). n is always positive.
type OffsetSource func(n int64) int64

// DefaultOffsetSource uses the runtime's goroutine-safe generator
func DefaultOffsetSource(n int64) int64 {
	return rand.Int64N(n)
}

// NewSeededOffsetSource returns a deterministic source. Draws are serialised
// so the source may be shared between requests.
func NewSeededOffsetSource(seed uint64) OffsetSource {
	var mu sync.Mutex
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func(n int64) int64 {
		mu.Lock()
		defer mu.Unlock()
		return rng.Int64N(n)
	}
}

// RandomSampler picks a uniformly random song with two store round trips:
// a count, then a single-item page at a random offset. The catalog can change
// between the two calls; a page that comes back empty is reported as
// ErrCatalogEmpty and retrying is left to the caller.
type RandomSampler struct {
	repository   repositories.SongRepository
	partitionKey string
	offsets      OffsetSource
}

// NewRandomSampler creates a sampler over one partition. A nil source falls
// back to DefaultOffsetSource.
func NewRandomSampler(repository repositories.SongRepository, partitionKey string, offsets OffsetSource) *RandomSampler {
	if offsets == nil {
		offsets = DefaultOffsetSource
	}
	return &RandomSampler{
		repository:   repository,
		partitionKey: partitionKey,
		offsets:      offsets,
	}
}

// Sample returns a random song, ErrCatalogEmpty, or the store error
func (s *RandomSampler) Sample(ctx context.Context) (*models.Song, error) {
	filter := repositories.SongFilter{PartitionKey: s.partitionKey}

	count, err := s.repository.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, ErrCatalogEmpty
	}

	offset := s.offsets(count)
	page, err := s.repository.Page(ctx, filter, offset, 1)
	if err != nil {
		return nil, err
	}
	if len(page) == 0 {
		return nil, ErrCatalogEmpty
	}
	return page[0], nil
}
