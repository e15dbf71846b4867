package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"

	"parodioczolko/internal/models"
)

// valkeySongRepository implements SongRepository on a key-value store.
// Each song is a JSON string key; a sorted set scored by an ingestion
// sequence gives the stable order used for offset paging.
type valkeySongRepository struct {
	client       valkey.Client
	partitionKey string
}

// Key generators
func songKey(partition, id string) string { return "catalog:" + partition + ":song:" + id }
func orderKey(partition string) string    { return "catalog:" + partition + ":order" }
func seqKey(partition string) string      { return "catalog:" + partition + ":seq" }

// NewValkeySongRepository connects to Valkey and returns a repository for the
// given default partition
func NewValkeySongRepository(valkeyURL, partitionKey string) (SongRepository, func() error, error) {
	addr, password, err := parseValkeyURL(valkeyURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse Valkey URL: %w", err)
	}

	clientOption := valkey.ClientOption{
		InitAddress: []string{addr},
	}
	if password != "" {
		clientOption.Password = password
	}

	client, err := valkey.NewClient(clientOption)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Valkey client: %w", err)
	}

	repo := &valkeySongRepository{
		client:       client,
		partitionKey: partitionKey,
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := repo.Health(ctx); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	closeFn := func() error {
		client.Close()
		return nil
	}
	return repo, closeFn, nil
}

// partition resolves the partition a filter addresses
func (r *valkeySongRepository) partition(pk string) string {
	if pk == "" {
		return r.partitionKey
	}
	return pk
}

// Count returns the size of the ordering index
func (r *valkeySongRepository) Count(ctx context.Context, filter SongFilter) (int64, error) {
	key := orderKey(r.partition(filter.PartitionKey))
	count, err := r.client.Do(ctx, r.client.B().Zcard().Key(key).Build()).AsInt64()
	if err != nil {
		return 0, &StoreError{Operation: "count", Key: key, Err: err}
	}
	return count, nil
}

// Page reads a slice of the ordering index and fetches the songs it names.
// A limit of zero or less returns every song from offset on.
func (r *valkeySongRepository) Page(ctx context.Context, filter SongFilter, offset, limit int64) ([]*models.Song, error) {
	partition := r.partition(filter.PartitionKey)
	if offset < 0 {
		offset = 0
	}
	stop := int64(-1)
	if limit > 0 {
		stop = offset + limit - 1
	}

	cmd := r.client.B().Zrange().Key(orderKey(partition)).
		Min(strconv.FormatInt(offset, 10)).
		Max(strconv.FormatInt(stop, 10)).
		Build()
	ids, err := r.client.Do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &StoreError{Operation: "page", Key: orderKey(partition), Err: err}
	}
	if len(ids) == 0 {
		return []*models.Song{}, nil
	}

	cmds := make(valkey.Commands, 0, len(ids))
	for _, id := range ids {
		cmds = append(cmds, r.client.B().Get().Key(songKey(partition, id)).Build())
	}

	songs := make([]*models.Song, 0, len(ids))
	for i, result := range r.client.DoMulti(ctx, cmds...) {
		data, err := result.AsBytes()
		if err != nil {
			if valkey.IsValkeyNil(err) {
				// Indexed but removed out of band
				continue
			}
			return nil, &StoreError{Operation: "page", Key: songKey(partition, ids[i]), Err: err}
		}

		var song models.Song
		if err := json.Unmarshal(data, &song); err != nil {
			return nil, &StoreError{Operation: "decode", Key: songKey(partition, ids[i]), Err: err}
		}
		songs = append(songs, &song)
	}
	return songs, nil
}

// FindByID fetches a single song
func (r *valkeySongRepository) FindByID(ctx context.Context, id, partitionKey string) (*models.Song, error) {
	key := songKey(r.partition(partitionKey), id)
	data, err := r.client.Do(ctx, r.client.B().Get().Key(key).Build()).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, &StoreError{Operation: "find", Key: key, Err: err}
	}

	var song models.Song
	if err := json.Unmarshal(data, &song); err != nil {
		return nil, &StoreError{Operation: "decode", Key: key, Err: err}
	}
	return &song, nil
}

// InsertIfAbsent claims the song key with SET NX, then indexes the id.
// The index write uses ZADD NX so a rerun repairs an id whose indexing failed
// without moving ids that are already ordered.
func (r *valkeySongRepository) InsertIfAbsent(ctx context.Context, song *models.Song) (InsertOutcome, error) {
	partition := r.partition(song.PartitionKey)
	key := songKey(partition, song.ID)

	doc := song.Clone()
	if doc.ETag == "" {
		doc.ETag = uuid.NewString()
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return Inserted, &StoreError{Operation: "encode", Key: key, Err: err}
	}

	outcome := Inserted
	err = r.client.Do(ctx, r.client.B().Set().Key(key).Value(string(data)).Nx().Build()).Error()
	if err != nil {
		if !valkey.IsValkeyNil(err) {
			return Inserted, &StoreError{Operation: "insert", Key: key, Err: err}
		}
		outcome = AlreadyExists
	}

	if err := r.index(ctx, partition, song.ID); err != nil {
		return outcome, err
	}
	return outcome, nil
}

func (r *valkeySongRepository) index(ctx context.Context, partition, id string) error {
	seq, err := r.client.Do(ctx, r.client.B().Incr().Key(seqKey(partition)).Build()).AsInt64()
	if err != nil {
		return &StoreError{Operation: "index", Key: seqKey(partition), Err: err}
	}

	cmd := r.client.B().Zadd().Key(orderKey(partition)).Nx().ScoreMember().ScoreMember(float64(seq), id).Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return &StoreError{Operation: "index", Key: orderKey(partition), Err: err}
	}
	return nil
}

// EnsureContainer has nothing to create on a key-value store; it verifies the
// server is reachable
func (r *valkeySongRepository) EnsureContainer(ctx context.Context) error {
	return r.Health(ctx)
}

// Health checks Valkey health
func (r *valkeySongRepository) Health(ctx context.Context) error {
	if err := r.client.Do(ctx, r.client.B().Ping().Build()).Error(); err != nil {
		return &StoreError{Operation: "ping", Err: err}
	}
	return nil
}

// parseValkeyURL extracts connection details from Valkey URL
func parseValkeyURL(valkeyURL string) (address, password string, err error) {
	u, err := url.Parse(valkeyURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid URL format: %w", err)
	}

	if u.Host == "" {
		return "", "", fmt.Errorf("missing host in URL")
	}
	address = u.Host

	if u.User != nil {
		password, _ = u.User.Password()
	}

	return address, password, nil
}
