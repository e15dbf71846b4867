package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultPartitionKey is the single logical partition every song lives in
const DefaultPartitionKey = "song"

// Song represents a single trivia catalog entry
type Song struct {
	ID           string `bson:"_id" json:"id"`
	PartitionKey string `bson:"partitionKey" json:"partitionKey"`
	Artist       string `bson:"artist" json:"artist"`
	Name         string `bson:"name" json:"name"` // Track title
	Year         int    `bson:"year" json:"year"`

	// ETag is an opaque revision token assigned by the store
	ETag string `bson:"_etag,omitempty" json:"etag,omitempty"`

	// IngestedAt orders songs for offset-based sampling
	IngestedAt time.Time `bson:"ingestedAt" json:"-"`
}

// NewSong creates a new Song in the default partition
func NewSong(id, artist, name string, year int) *Song {
	return &Song{
		ID:           id,
		PartitionKey: DefaultPartitionKey,
		Artist:       artist,
		Name:         name,
		Year:         year,
	}
}

// Validate reports every field that would make the song unusable in the catalog
func (s *Song) Validate() error {
	var errs []error
	if strings.TrimSpace(s.ID) == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if strings.TrimSpace(s.PartitionKey) == "" {
		errs = append(errs, errors.New("partitionKey is required"))
	}
	if strings.TrimSpace(s.Artist) == "" {
		errs = append(errs, errors.New("artist is required"))
	}
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if s.Year <= 0 {
		errs = append(errs, fmt.Errorf("year must be positive, got %d", s.Year))
	}
	return errors.Join(errs...)
}

// String renders the song the way the game announces it
func (s *Song) String() string {
	return fmt.Sprintf("%s - %s (%d)", s.Artist, s.Name, s.Year)
}

// Clone returns a copy that callers may modify freely
func (s *Song) Clone() *Song {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
