package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"parodioczolko/internal/config"
	"parodioczolko/internal/fixtures"
	"parodioczolko/internal/logging"
	"parodioczolko/internal/models"
	"parodioczolko/internal/repositories"
	"parodioczolko/internal/services"
)

// databaseGuard must appear in the target database name
const databaseGuard = "Parodioczolko"

var errCancelled = errors.New("operation cancelled")

// storeOpener connects to the catalog backend
type storeOpener func(ctx context.Context, cfg *config.StoreConfig, appName string) (repositories.SongRepository, repositories.CloseFunc, error)

type seedOptions struct {
	yes          bool
	fixturesPath string
	concurrency  int
	backend      string
	failOnError  bool
}

func newRootCmd(open storeOpener) *cobra.Command {
	var opts seedOptions

	cmd := &cobra.Command{
		Use:   "seeder [emulator]",
		Short: "Seed the song catalog with fixture data",
		Long: `Load the fixture songs into the catalog store. Songs that already exist are
skipped, so the seeder can be run any number of times.

Pass "emulator" to target the local Cosmos DB emulator. Any other target asks
for confirmation unless --yes is given.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			useEmulator := len(args) == 1 && strings.EqualFold(args[0], "emulator")
			if len(args) == 1 && !useEmulator {
				return fmt.Errorf("unknown target %q, expected \"emulator\"", args[0])
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err := runSeed(ctx, open, useEmulator, opts, cmd.InOrStdin(), cmd.OutOrStdout())
			if errors.Is(err, errCancelled) {
				fmt.Fprintln(cmd.OutOrStdout(), "❌ Operation cancelled.")
				return nil
			}
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "\n❌ Error: %v\n", err)
				fmt.Fprintln(cmd.OutOrStdout(), "Please check your configuration and try again.")
			}
			return err
		},
	}

	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Seed a non-emulator target without asking")
	cmd.Flags().StringVar(&opts.fixturesPath, "fixtures", "", "JSON file of songs to load instead of the built-in set")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "Parallel inserts (default SEED_CONCURRENCY)")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "Catalog backend: mongo, valkey or memory (default CATALOG_BACKEND)")
	cmd.Flags().BoolVar(&opts.failOnError, "fail-on-error", false, "Exit with status 1 when any song fails to insert")

	return cmd
}

func loadConfig(useEmulator bool, opts seedOptions) (*config.Config, error) {
	// Load .env file for local development
	_ = godotenv.Load()

	explicitURL := os.Getenv("MONGODB_URL") != ""
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if opts.backend != "" {
		cfg.Store.Backend = strings.ToLower(strings.TrimSpace(opts.backend))
	}
	// Only an explicit emulator target counts as the emulator here
	cfg.Store.Emulator = false

	if cfg.Store.Backend == config.BackendMongo {
		if useEmulator {
			cfg.UseEmulator()
		} else if !explicitURL {
			return nil, fmt.Errorf("MONGODB_URL must be set for a non-emulator target")
		}
		if !strings.Contains(strings.ToLower(cfg.Store.DatabaseName), strings.ToLower(databaseGuard)) {
			return nil, fmt.Errorf("database name %q must contain %q to guard against seeding the wrong database",
				cfg.Store.DatabaseName, databaseGuard)
		}
	}

	if opts.concurrency != 0 {
		cfg.SeedConcurrency = opts.concurrency
	}
	return cfg, cfg.Validate()
}

func loadSongs(path, partitionKey string) ([]*models.Song, error) {
	songs := fixtures.Default()
	if path != "" {
		var err error
		if songs, err = fixtures.LoadFile(path); err != nil {
			return nil, err
		}
	}
	return fixtures.InPartition(songs, partitionKey), nil
}

func confirm(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, "⚠️  You are about to seed a non-emulator database. Continue? (y/N): ")
	answer, _ := bufio.NewReader(in).ReadString('\n')
	return strings.EqualFold(strings.TrimSpace(answer), "y")
}

func runSeed(ctx context.Context, open storeOpener, useEmulator bool, opts seedOptions, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "🎵 Parodioczolko Database Seeder")
	fmt.Fprintln(out, "================================")

	cfg, err := loadConfig(useEmulator, opts)
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	fmt.Fprintf(out, "📍 Target: %s\n", cfg.Target())
	switch cfg.Store.Backend {
	case config.BackendMongo:
		fmt.Fprintf(out, "🌐 Endpoint: %s\n", cfg.Store.MongodbURL)
		fmt.Fprintf(out, "📊 Database: %s\n", cfg.Store.DatabaseName)
		fmt.Fprintf(out, "📦 Collection: %s\n", cfg.Store.Collection)
	case config.BackendValkey:
		fmt.Fprintf(out, "🌐 Endpoint: %s\n", cfg.Store.ValkeyURL)
	}
	fmt.Fprintln(out)

	songs, err := loadSongs(opts.fixturesPath, cfg.Store.PartitionKey)
	if err != nil {
		return err
	}

	if !cfg.Store.Emulator && cfg.Store.Backend != config.BackendMemory {
		if opts.yes {
			fmt.Fprintln(out, "⚠️  Auto-confirm enabled. Proceeding with non-emulator database seeding...")
		} else if !confirm(in, out) {
			return errCancelled
		}
	}

	repo, closeStore, err := open(ctx, &cfg.Store, "parodioczolko-seeder")
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			logger.Warn("Failed to close catalog store", "error", err)
		}
	}()

	fmt.Fprintf(out, "🎶 Prepared %d songs for seeding\n", len(songs))

	report, err := services.NewSeeder(repo, cfg.SeedConcurrency, logger).Seed(ctx, songs)
	if err != nil {
		return err
	}

	printReport(out, report)

	if opts.failOnError && report.Failed > 0 {
		return fmt.Errorf("%d of %d songs failed to insert", report.Failed, report.Total)
	}

	fmt.Fprintln(out, "\n🎉 Database seeding completed successfully!")
	fmt.Fprintln(out, "Your Parodioczolko game is ready to play! 🎮")
	return nil
}

func printReport(out io.Writer, report *services.SeedReport) {
	fmt.Fprintln(out, "\n🎉 Seeding completed!")
	fmt.Fprintf(out, "✅ Successfully added: %d songs\n", report.Inserted)
	fmt.Fprintf(out, "⏭️  Skipped (already existed): %d songs\n", report.Skipped)
	if report.Failed > 0 {
		fmt.Fprintf(out, "❌ Failed: %d songs\n", report.Failed)
		for _, failure := range report.Failures {
			label := "<nil>"
			if failure.Song != nil {
				label = failure.Song.String()
			}
			fmt.Fprintf(out, "   #%d %s: %v\n", failure.Index, label, failure.Err)
		}
	}
	fmt.Fprintf(out, "🎵 Total songs in database: %d\n", report.Present())
}
