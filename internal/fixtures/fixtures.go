// Package fixtures holds the song set the seeder loads into a fresh catalog.
package fixtures

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"parodioczolko/internal/models"
)

//go:embed songs.json
var defaultSongs []byte

// Default returns the built-in fixture set in its fixed order
func Default() []*models.Song {
	songs, err := Parse(defaultSongs)
	if err != nil {
		panic(fmt.Sprintf("embedded fixtures are invalid: %v", err))
	}
	return songs
}

// LoadFile reads a JSON array of songs from disk
func LoadFile(path string) ([]*models.Song, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	return Parse(data)
}

// Parse decodes a JSON array of songs. Songs without a partition key get the
// default one; duplicate ids are rejected.
func Parse(data []byte) ([]*models.Song, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var songs []*models.Song
	if err := decoder.Decode(&songs); err != nil {
		return nil, fmt.Errorf("failed to decode fixtures: %w", err)
	}

	seen := make(map[string]int, len(songs))
	for i, song := range songs {
		if song == nil {
			return nil, fmt.Errorf("fixture %d is null", i)
		}
		if song.PartitionKey == "" {
			song.PartitionKey = models.DefaultPartitionKey
		}
		if prev, dup := seen[song.ID]; dup {
			return nil, fmt.Errorf("fixture %d duplicates id %q of fixture %d", i, song.ID, prev)
		}
		seen[song.ID] = i
	}
	return songs, nil
}

// InPartition moves every song into the given partition
func InPartition(songs []*models.Song, partitionKey string) []*models.Song {
	for _, song := range songs {
		song.PartitionKey = partitionKey
	}
	return songs
}
