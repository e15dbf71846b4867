package testutil

import (
	"context"

	"parodioczolko/internal/models"
	"parodioczolko/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// MockSongRepository is a mock implementation of SongRepository for testing
type MockSongRepository struct {
	mock.Mock
}

func (m *MockSongRepository) Count(ctx context.Context, filter repositories.SongFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSongRepository) Page(ctx context.Context, filter repositories.SongFilter, offset, limit int64) ([]*models.Song, error) {
	args := m.Called(ctx, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Song), args.Error(1)
}

func (m *MockSongRepository) FindByID(ctx context.Context, id, partitionKey string) (*models.Song, error) {
	args := m.Called(ctx, id, partitionKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Song), args.Error(1)
}

func (m *MockSongRepository) InsertIfAbsent(ctx context.Context, song *models.Song) (repositories.InsertOutcome, error) {
	args := m.Called(ctx, song)
	return args.Get(0).(repositories.InsertOutcome), args.Error(1)
}

func (m *MockSongRepository) EnsureContainer(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSongRepository) Health(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Helper functions for setting up mock expectations

// ExpectCount sets up expectation for Count in a partition
func ExpectCount(mockRepo *MockSongRepository, partitionKey string, count int64, err error) *mock.Call {
	return mockRepo.On("Count", mock.Anything, repositories.SongFilter{PartitionKey: partitionKey}).Return(count, err)
}

// ExpectPage sets up expectation for a Page call at an exact offset and limit
func ExpectPage(mockRepo *MockSongRepository, partitionKey string, offset, limit int64, songs []*models.Song, err error) *mock.Call {
	return mockRepo.On("Page", mock.Anything, repositories.SongFilter{PartitionKey: partitionKey}, offset, limit).Return(songs, err)
}

// ExpectFindByID sets up expectation for FindByID
func ExpectFindByID(mockRepo *MockSongRepository, id, partitionKey string, song *models.Song, err error) *mock.Call {
	return mockRepo.On("FindByID", mock.Anything, id, partitionKey).Return(song, err)
}

// ExpectInsert sets up expectation for InsertIfAbsent of the song with the given id
func ExpectInsert(mockRepo *MockSongRepository, id string, outcome repositories.InsertOutcome, err error) *mock.Call {
	return mockRepo.On("InsertIfAbsent", mock.Anything, mock.MatchedBy(func(song *models.Song) bool {
		return song != nil && song.ID == id
	})).Return(outcome, err)
}
