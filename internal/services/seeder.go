package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"parodioczolko/internal/models"
	"parodioczolko/internal/repositories"
)

// SeedFailure records a fixture that could not be written
type SeedFailure struct {
	Index int
	Song  *models.Song
	Err   error
}

// SeedReport summarises a seeding run
type SeedReport struct {
	Total    int
	Inserted int
	Skipped  int // already present
	Failed   int
	Failures []SeedFailure
}

// Present is the number of fixtures known to be in the catalog after the run
func (r *SeedReport) Present() int {
	return r.Inserted + r.Skipped
}

// Seeder loads a fixed set of songs into the catalog. Running it again
// against the same store changes nothing: every song is skipped.
type Seeder struct {
	repository  repositories.SongRepository
	concurrency int
	logger      *slog.Logger
}

// NewSeeder creates a seeder issuing up to concurrency inserts at a time
func NewSeeder(repository repositories.SongRepository, concurrency int, logger *slog.Logger) *Seeder {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		repository:  repository,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Seed ensures the container exists and inserts every song that is not
// already stored. Per-song failures are counted and logged without stopping
// the run; only a failure to prepare the container is returned as an error.
func (s *Seeder) Seed(ctx context.Context, songs []*models.Song) (*SeedReport, error) {
	s.logger.InfoContext(ctx, "Ensuring catalog container exists")
	if err := s.repository.EnsureContainer(ctx); err != nil {
		return nil, fmt.Errorf("failed to prepare catalog container: %w", err)
	}

	report := &SeedReport{Total: len(songs)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, song := range songs {
		g.Go(func() error {
			outcome, err := s.insert(gctx, song)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				report.Failed++
				report.Failures = append(report.Failures, SeedFailure{Index: i, Song: song, Err: err})
				s.logger.ErrorContext(ctx, "Failed to add song",
					"index", i, "songID", songID(song), "song", songLabel(song), "error", err)
			case outcome == repositories.AlreadyExists:
				report.Skipped++
				s.logger.InfoContext(ctx, "Skipped (already exists)", "songID", song.ID, "song", song.String())
			default:
				report.Inserted++
				s.logger.InfoContext(ctx, "Added song", "songID", song.ID, "song", song.String())
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(report.Failures, func(i, j int) bool {
		return report.Failures[i].Index < report.Failures[j].Index
	})

	s.logger.InfoContext(ctx, "Seeding completed",
		"total", report.Total,
		"inserted", report.Inserted,
		"skipped", report.Skipped,
		"failed", report.Failed)

	return report, nil
}

func (s *Seeder) insert(ctx context.Context, song *models.Song) (repositories.InsertOutcome, error) {
	if song == nil {
		return repositories.Inserted, fmt.Errorf("fixture is nil")
	}
	if err := song.Validate(); err != nil {
		return repositories.Inserted, fmt.Errorf("invalid fixture: %w", err)
	}
	return s.repository.InsertIfAbsent(ctx, song)
}

func songID(song *models.Song) string {
	if song == nil {
		return ""
	}
	return song.ID
}

func songLabel(song *models.Song) string {
	if song == nil {
		return "<nil>"
	}
	return song.String()
}
