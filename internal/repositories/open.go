package repositories

import (
	"context"
	"fmt"
	"log/slog"

	"parodioczolko/internal/config"
	"parodioczolko/internal/models"
)

// CloseFunc releases the resources held by an opened repository
type CloseFunc func(ctx context.Context) error

// Open connects to the configured catalog backend
func Open(ctx context.Context, cfg *config.StoreConfig, appName string) (SongRepository, CloseFunc, error) {
	switch cfg.Backend {
	case config.BackendMongo:
		db, err := models.NewDatabase(ctx, models.DatabaseOptions{
			URL:         cfg.MongodbURL,
			Name:        cfg.DatabaseName,
			Username:    cfg.Username,
			Password:    cfg.Key,
			InsecureTLS: cfg.Emulator,
			AppName:     appName,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		slog.Info("Connected to document store", "database", cfg.DatabaseName, "collection", cfg.Collection)
		return NewMongoSongRepository(db, cfg.Collection), db.Close, nil

	case config.BackendValkey:
		repo, closeFn, err := NewValkeySongRepository(cfg.ValkeyURL, cfg.PartitionKey)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("Connected to key-value store", "partition", cfg.PartitionKey)
		return repo, func(context.Context) error { return closeFn() }, nil

	case config.BackendMemory:
		slog.Warn("Using in-memory catalog store; data is lost on exit")
		return NewMemorySongRepository(), func(context.Context) error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported catalog backend: %q", cfg.Backend)
	}
}
