package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"parodioczolko/internal/models"
)

const testNamespace = "ParodioczolkoDb.Songs"

func songDoc(id, artist, name string, year int32) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "partitionKey", Value: "song"},
		{Key: "artist", Value: artist},
		{Key: "name", Value: name},
		{Key: "year", Value: year},
		{Key: "_etag", Value: "rev-" + id},
	}
}

func TestMongoSongRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("count", func(mt *mtest.T) {
		repo := &mongoSongRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch,
			bson.D{{Key: "n", Value: int32(3)}}))

		count, err := repo.Count(ctx, SongFilter{PartitionKey: "song"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	mt.Run("count failure is wrapped", func(mt *mtest.T) {
		repo := &mongoSongRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 2, Name: "BadValue", Message: "boom",
		}))

		_, err := repo.Count(ctx, SongFilter{})
		require.Error(t, err)

		var storeErr *StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "count", storeErr.Operation)
	})

	mt.Run("page decodes songs in order", func(mt *mtest.T) {
		repo := &mongoSongRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch,
			songDoc("A", "Queen", "Bohemian Rhapsody", 1975),
			songDoc("B", "Nirvana", "Smells Like Teen Spirit", 1991),
		))

		songs, err := repo.Page(ctx, SongFilter{PartitionKey: "song"}, 0, 2)
		require.NoError(t, err)
		require.Len(t, songs, 2)
		assert.Equal(t, "A", songs[0].ID)
		assert.Equal(t, "Queen", songs[0].Artist)
		assert.Equal(t, 1975, songs[0].Year)
		assert.Equal(t, "rev-A", songs[0].ETag)
		assert.Equal(t, "B", songs[1].ID)
	})

	mt.Run("page of empty collection", func(mt *mtest.T) {
		repo := &mongoSongRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch))

		songs, err := repo.Page(ctx, SongFilter{}, 5, 1)
		require.NoError(t, err)
		assert.NotNil(t, songs)
		assert.Empty(t, songs)
	})

	mt.Run("find by id", func(mt *mtest.T) {
		repo := &mongoSongRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch,
			songDoc("A", "Queen", "Bohemian Rhapsody", 1975)))

		song, err := repo.FindByID(ctx, "A", "song")
		require.NoError(t, err)
		require.NotNil(t, song)
		assert.Equal(t, "Bohemian Rhapsody", song.Name)
	})

	mt.Run("find by id missing", func(mt *mtest.T) {
		repo := &mongoSongRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch))

		song, err := repo.FindByID(ctx, "Z", "song")
		assert.NoError(t, err)
		assert.Nil(t, song)
	})

	mt.Run("insert", func(mt *mtest.T) {
		repo := &mongoSongRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		song := models.NewSong("A", "Queen", "Bohemian Rhapsody", 1975)
		outcome, err := repo.InsertIfAbsent(ctx, song)
		require.NoError(t, err)
		assert.Equal(t, Inserted, outcome)

		// The caller's value is not modified
		assert.Empty(t, song.ETag)
		assert.True(t, song.IngestedAt.IsZero())
	})

	mt.Run("insert duplicate", func(mt *mtest.T) {
		repo := &mongoSongRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "E11000 duplicate key error",
		}))

		outcome, err := repo.InsertIfAbsent(ctx, models.NewSong("A", "Queen", "Bohemian Rhapsody", 1975))
		require.NoError(t, err)
		assert.Equal(t, AlreadyExists, outcome)
	})

	mt.Run("insert failure", func(mt *mtest.T) {
		repo := &mongoSongRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 13, Name: "Unauthorized", Message: "not authorized",
		}))

		_, err := repo.InsertIfAbsent(ctx, models.NewSong("A", "Queen", "Bohemian Rhapsody", 1975))
		require.Error(t, err)

		var storeErr *StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "insert", storeErr.Operation)
		assert.Equal(t, "A", storeErr.Key)
	})

	mt.Run("ensure container without hook", func(mt *mtest.T) {
		repo := &mongoSongRepository{collection: mt.Coll}
		assert.NoError(t, repo.EnsureContainer(ctx))
	})
}

func TestMongoFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, mongoFilter(SongFilter{}))
	assert.Equal(t, bson.M{"partitionKey": "song"}, mongoFilter(SongFilter{PartitionKey: "song"}))
}
