package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Catalog store backends
const (
	BackendMongo  = "mongo"
	BackendValkey = "valkey"
	BackendMemory = "memory"
)

// Cosmos DB emulator (MongoDB API) connection defaults
const (
	EmulatorEndpoint = "mongodb://localhost:10255/?ssl=true&retrywrites=false"
	EmulatorUsername = "localhost"
	EmulatorKey      = "C2y6yDjf5/R+ob0N8A7Cgv30VRDJIWEHLM+4QDU5DE2nQ9nDuVTqobD4b8mGGyPMbIZnqyMsEcaGQy67XIw/Jw=="
)

// StoreConfig selects and configures the catalog store backend
type StoreConfig struct {
	Backend      string        `envconfig:"CATALOG_BACKEND" default:"mongo"`
	MongodbURL   string        `envconfig:"MONGODB_URL"`
	Username     string        `envconfig:"MONGODB_USERNAME"`
	Key          string        `envconfig:"MONGODB_KEY"`
	DatabaseName string        `envconfig:"MONGODB_DATABASE" default:"ParodioczolkoDb"`
	Collection   string        `envconfig:"MONGODB_COLLECTION" default:"Songs"`
	ValkeyURL    string        `envconfig:"VALKEY_URL" default:"valkey://localhost:6379"`
	PartitionKey string        `envconfig:"SONG_PARTITION_KEY" default:"song"`
	Timeout      time.Duration `envconfig:"STORE_TIMEOUT" default:"5s"`

	// Emulator relaxes TLS verification for the emulator's self-signed certificate
	Emulator bool `ignored:"true"`
}

// Config holds all configuration for the application
type Config struct {
	// Application settings
	Port          string `envconfig:"PORT" default:"8080"`
	FunctionsPort string `envconfig:"FUNCTIONS_CUSTOMHANDLER_PORT"`
	RoutePrefix   string `envconfig:"ROUTE_PREFIX"`
	GinMode       string `envconfig:"GIN_MODE" default:"debug"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat     string `envconfig:"LOG_FORMAT" default:"json"`

	SeedConcurrency int `envconfig:"SEED_CONCURRENCY" default:"4"`

	Store StoreConfig
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	cfg.RoutePrefix = NormalizePrefix(cfg.RoutePrefix)

	// Local development falls back to the emulator when no endpoint is set
	if cfg.Store.Backend == BackendMongo && cfg.Store.MongodbURL == "" {
		cfg.UseEmulator()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UseEmulator points the store at the local Cosmos DB emulator. A credential
// that was set explicitly is kept.
func (c *Config) UseEmulator() {
	c.Store.Emulator = true
	c.Store.MongodbURL = EmulatorEndpoint
	if c.Store.Key == "" {
		c.Store.Username = EmulatorUsername
		c.Store.Key = EmulatorKey
	}
}

// Validate checks the configuration for values the application cannot run with
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMongo:
		if c.Store.MongodbURL == "" {
			return fmt.Errorf("MONGODB_URL is required for the %s backend", BackendMongo)
		}
		if c.Store.DatabaseName == "" || c.Store.Collection == "" {
			return fmt.Errorf("database and collection names cannot be empty")
		}
	case BackendValkey:
		if c.Store.ValkeyURL == "" {
			return fmt.Errorf("VALKEY_URL is required for the %s backend", BackendValkey)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unsupported catalog backend: %q", c.Store.Backend)
	}

	if c.Store.PartitionKey == "" {
		return fmt.Errorf("partition key cannot be empty")
	}
	if c.SeedConcurrency < 1 {
		return fmt.Errorf("seed concurrency must be positive, got %d", c.SeedConcurrency)
	}
	if c.Store.Timeout <= 0 {
		return fmt.Errorf("store timeout must be positive, got %s", c.Store.Timeout)
	}
	return nil
}

// ListenAddr returns the address the HTTP server binds to. The Functions
// custom handler port wins over PORT when the app runs under the function host.
func (c *Config) ListenAddr() string {
	if c.FunctionsPort != "" {
		return ":" + c.FunctionsPort
	}
	return ":" + c.Port
}

// Target describes where the store points, for startup logs and the seeder banner
func (c *Config) Target() string {
	switch {
	case c.Store.Backend == BackendMongo && c.Store.Emulator:
		return "Cosmos DB Emulator"
	case c.Store.Backend == BackendMongo:
		return "Cosmos DB / MongoDB"
	case c.Store.Backend == BackendValkey:
		return "Valkey"
	default:
		return "in-memory"
	}
}

// NormalizePrefix turns " api/ " into "/api". An empty prefix stays empty.
func NormalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return "/" + prefix
}
