package repositories

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"parodioczolko/internal/models"
)

// ingestionOrder is the stable order used for offset paging
var ingestionOrder = bson.D{{Key: "ingestedAt", Value: 1}, {Key: "_id", Value: 1}}

// mongoSongRepository implements SongRepository using MongoDB or the
// Cosmos DB MongoDB API
type mongoSongRepository struct {
	collection *mongo.Collection
	ensure     func(ctx context.Context) error
}

// NewMongoSongRepository creates a new MongoDB-backed song repository
func NewMongoSongRepository(db *models.Database, collectionName string) SongRepository {
	return &mongoSongRepository{
		collection: db.DB.Collection(collectionName),
		ensure: func(ctx context.Context) error {
			_, err := db.EnsureCollection(ctx, collectionName)
			return err
		},
	}
}

// Count returns the number of songs matching the filter
func (r *mongoSongRepository) Count(ctx context.Context, filter SongFilter) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, mongoFilter(filter))
	if err != nil {
		return 0, &StoreError{Operation: "count", Key: filter.PartitionKey, Err: err}
	}
	return count, nil
}

// Page returns up to limit songs starting at offset in ingestion order.
// A limit of zero or less returns every song from offset on.
func (r *mongoSongRepository) Page(ctx context.Context, filter SongFilter, offset, limit int64) ([]*models.Song, error) {
	opts := options.Find().SetSort(ingestionOrder)
	if offset > 0 {
		opts.SetSkip(offset)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, mongoFilter(filter), opts)
	if err != nil {
		return nil, &StoreError{Operation: "page", Key: filter.PartitionKey, Err: err}
	}
	defer cursor.Close(ctx)

	songs := make([]*models.Song, 0)
	for cursor.Next(ctx) {
		var song models.Song
		if err := cursor.Decode(&song); err != nil {
			slog.Error("Failed to decode song", "error", err)
			continue
		}
		songs = append(songs, &song)
	}

	if err := cursor.Err(); err != nil {
		return nil, &StoreError{Operation: "page", Key: filter.PartitionKey, Err: err}
	}
	return songs, nil
}

// FindByID finds a song by id within a partition
func (r *mongoSongRepository) FindByID(ctx context.Context, id, partitionKey string) (*models.Song, error) {
	var song models.Song
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "partitionKey": partitionKey}).Decode(&song)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, &StoreError{Operation: "find", Key: id, Err: err}
	}
	return &song, nil
}

// InsertIfAbsent writes the song unless its id is already taken
func (r *mongoSongRepository) InsertIfAbsent(ctx context.Context, song *models.Song) (InsertOutcome, error) {
	doc := song.Clone()
	doc.IngestedAt = time.Now().UTC()
	if doc.ETag == "" {
		doc.ETag = uuid.NewString()
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return AlreadyExists, nil
		}
		return Inserted, &StoreError{Operation: "insert", Key: song.ID, Err: err}
	}
	return Inserted, nil
}

// EnsureContainer creates the collection and its indexes if absent
func (r *mongoSongRepository) EnsureContainer(ctx context.Context) error {
	if r.ensure == nil {
		return nil
	}
	if err := r.ensure(ctx); err != nil {
		return &StoreError{Operation: "ensure_container", Key: r.collection.Name(), Err: err}
	}
	return nil
}

// Health pings the deployment
func (r *mongoSongRepository) Health(ctx context.Context) error {
	if err := r.collection.Database().Client().Ping(ctx, nil); err != nil {
		return &StoreError{Operation: "ping", Err: err}
	}
	return nil
}

func mongoFilter(filter SongFilter) bson.M {
	if filter.PartitionKey == "" {
		return bson.M{}
	}
	return bson.M{"partitionKey": filter.PartitionKey}
}
