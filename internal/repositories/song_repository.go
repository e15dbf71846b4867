package repositories

import (
	"context"

	"parodioczolko/internal/models"
)

// InsertOutcome is the result of an insert that did not fail
type InsertOutcome int

const (
	// Inserted means the song was written
	Inserted InsertOutcome = iota
	// AlreadyExists means a song with the same id was already stored
	AlreadyExists
)

func (o InsertOutcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case AlreadyExists:
		return "already_exists"
	default:
		return "unknown"
	}
}

// SongFilter selects songs for Count and Page.
//
// An empty PartitionKey matches every partition on the mongo and memory
// stores. The valkey store indexes each partition separately, so there it
// reads the repository's own partition instead.
type SongFilter struct {
	PartitionKey string
}

// SongRepository defines the interface for catalog storage operations.
//
// Page returns songs in ingestion order (ties broken by id) so that a given
// offset addresses the same song across calls while the catalog is unchanged.
type SongRepository interface {
	// Read operations
	Count(ctx context.Context, filter SongFilter) (int64, error)
	Page(ctx context.Context, filter SongFilter, offset, limit int64) ([]*models.Song, error)
	FindByID(ctx context.Context, id, partitionKey string) (*models.Song, error) // nil, nil when absent

	// Write operations
	InsertIfAbsent(ctx context.Context, song *models.Song) (InsertOutcome, error)

	// Maintenance operations
	EnsureContainer(ctx context.Context) error
	Health(ctx context.Context) error
}

// StoreError represents a failed catalog store operation
type StoreError struct {
	Operation string
	Key       string
	Err       error
}

func (e *StoreError) Error() string {
	if e.Key == "" {
		return "store " + e.Operation + " failed: " + e.Err.Error()
	}
	return "store " + e.Operation + " failed for key '" + e.Key + "': " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
