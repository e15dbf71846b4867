package testutil

import (
	"context"
	"fmt"
	"testing"

	"parodioczolko/internal/models"
	"parodioczolko/internal/repositories"

	"github.com/stretchr/testify/require"
)

// Test data constants
const (
	TestSongID1 = "A"
	TestSongID2 = "B"
	MissingID   = "nonexistent-id"
)

// SongBuilder provides a fluent interface for creating test songs
type SongBuilder struct {
	song *models.Song
}

// NewSongBuilder creates a new song builder with default values
func NewSongBuilder() *SongBuilder {
	return &SongBuilder{
		song: models.NewSong("test-song", "Test Artist", "Test Song", 2000),
	}
}

// WithID sets the song ID
func (b *SongBuilder) WithID(id string) *SongBuilder {
	b.song.ID = id
	return b
}

// WithArtist sets the song artist
func (b *SongBuilder) WithArtist(artist string) *SongBuilder {
	b.song.Artist = artist
	return b
}

// WithName sets the track title
func (b *SongBuilder) WithName(name string) *SongBuilder {
	b.song.Name = name
	return b
}

// WithYear sets the release year
func (b *SongBuilder) WithYear(year int) *SongBuilder {
	b.song.Year = year
	return b
}

// WithPartitionKey sets the partition key
func (b *SongBuilder) WithPartitionKey(pk string) *SongBuilder {
	b.song.PartitionKey = pk
	return b
}

// WithETag sets the revision token
func (b *SongBuilder) WithETag(etag string) *SongBuilder {
	b.song.ETag = etag
	return b
}

// Build returns the constructed song
func (b *SongBuilder) Build() *models.Song {
	return b.song
}

// Pre-built test songs

// QueenSong returns the first song of the two-song scenario
func QueenSong() *models.Song {
	return NewSongBuilder().
		WithID(TestSongID1).
		WithArtist("Queen").
		WithName("Bohemian Rhapsody").
		WithYear(1975).
		Build()
}

// NirvanaSong returns the second song of the two-song scenario
func NirvanaSong() *models.Song {
	return NewSongBuilder().
		WithID(TestSongID2).
		WithArtist("Nirvana").
		WithName("Smells Like Teen Spirit").
		WithYear(1991).
		Build()
}

// ScenarioSongs returns the two-song fixture set
func ScenarioSongs() []*models.Song {
	return []*models.Song{QueenSong(), NirvanaSong()}
}

// NumberedSongs returns n distinct songs with ids song-00, song-01, ...
func NumberedSongs(n int) []*models.Song {
	songs := make([]*models.Song, 0, n)
	for i := 0; i < n; i++ {
		songs = append(songs, NewSongBuilder().
			WithID(fmt.Sprintf("song-%02d", i)).
			WithArtist(fmt.Sprintf("Artist %d", i)).
			WithName(fmt.Sprintf("Song %d", i)).
			WithYear(1960+i).
			Build())
	}
	return songs
}

// SeedRepository inserts songs directly and fails the test on any error
func SeedRepository(t *testing.T, repo repositories.SongRepository, songs ...*models.Song) {
	t.Helper()
	for _, song := range songs {
		_, err := repo.InsertIfAbsent(context.Background(), song)
		require.NoError(t, err, "Failed to seed song %s", song.ID)
	}
}
