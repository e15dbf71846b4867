package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"parodioczolko/internal/models"
)

// memorySongRepository keeps the catalog in process memory. It backs local
// development runs and tests.
type memorySongRepository struct {
	mu    sync.RWMutex
	songs map[string]*memoryEntry // keyed by partition + id
	seq   int64
}

type memoryEntry struct {
	song *models.Song
	seq  int64
}

// NewMemorySongRepository creates an empty in-memory song repository
func NewMemorySongRepository() SongRepository {
	return &memorySongRepository{
		songs: make(map[string]*memoryEntry),
	}
}

func memoryKey(partitionKey, id string) string { return partitionKey + "\x00" + id }

// Count returns the number of songs matching the filter
func (r *memorySongRepository) Count(ctx context.Context, filter SongFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, &StoreError{Operation: "count", Key: filter.PartitionKey, Err: err}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, entry := range r.songs {
		if matches(filter, entry.song) {
			count++
		}
	}
	return count, nil
}

// Page returns up to limit songs starting at offset in insertion order
func (r *memorySongRepository) Page(ctx context.Context, filter SongFilter, offset, limit int64) ([]*models.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StoreError{Operation: "page", Key: filter.PartitionKey, Err: err}
	}

	r.mu.RLock()
	entries := make([]*memoryEntry, 0, len(r.songs))
	for _, entry := range r.songs {
		if matches(filter, entry.song) {
			entries = append(entries, entry)
		}
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	if offset < 0 {
		offset = 0
	}
	if offset >= int64(len(entries)) {
		return []*models.Song{}, nil
	}
	entries = entries[offset:]
	if limit > 0 && limit < int64(len(entries)) {
		entries = entries[:limit]
	}

	songs := make([]*models.Song, 0, len(entries))
	for _, entry := range entries {
		songs = append(songs, entry.song.Clone())
	}
	return songs, nil
}

// FindByID finds a song by id within a partition
func (r *memorySongRepository) FindByID(ctx context.Context, id, partitionKey string) (*models.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StoreError{Operation: "find", Key: id, Err: err}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.songs[memoryKey(partitionKey, id)]
	if !ok {
		return nil, nil
	}
	return entry.song.Clone(), nil
}

// InsertIfAbsent stores the song unless its id is already taken in its partition
func (r *memorySongRepository) InsertIfAbsent(ctx context.Context, song *models.Song) (InsertOutcome, error) {
	if err := ctx.Err(); err != nil {
		return Inserted, &StoreError{Operation: "insert", Key: song.ID, Err: err}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := memoryKey(song.PartitionKey, song.ID)
	if _, exists := r.songs[key]; exists {
		return AlreadyExists, nil
	}

	doc := song.Clone()
	doc.IngestedAt = time.Now().UTC()
	if doc.ETag == "" {
		doc.ETag = uuid.NewString()
	}

	r.seq++
	r.songs[key] = &memoryEntry{song: doc, seq: r.seq}
	return Inserted, nil
}

// EnsureContainer is a no-op for the in-memory store
func (r *memorySongRepository) EnsureContainer(ctx context.Context) error {
	return ctx.Err()
}

// Health always succeeds unless the context is done
func (r *memorySongRepository) Health(ctx context.Context) error {
	return ctx.Err()
}

func matches(filter SongFilter, song *models.Song) bool {
	return filter.PartitionKey == "" || filter.PartitionKey == song.PartitionKey
}
