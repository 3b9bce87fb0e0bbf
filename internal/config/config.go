package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/osse101/LunaBet_Go/internal/domain"
)

// Config holds the application configuration
type Config struct {
	Port        int
	APIKey      string // API key for authentication
	LogLevel    string
	LogFormat   string
	LogDir      string
	Environment string
	ServiceName string
	Version     string

	// Storage
	StorageDriver string
	SQLitePath    string
	DBUser        string
	DBPassword    string
	DBHost        string
	DBPort        string
	DBName        string
	DBMaxConns    int

	// Ledger policy
	DefaultStartingPoints  int64
	AllowCrossOptionWagers bool

	// Settlement recovery
	ReconcileInterval    time.Duration
	ReconcileJournalPath string

	// Operator alerts; disabled when the token is empty
	DiscordToken        string
	DiscordLogChannelID string

	TrustedProxies []string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		return nil, errors.New(ErrMsgAPIKeyRequired)
	}
	return cfg, nil
}

// LoadForOperator loads the configuration for command line tools that talk to the
// ledger store directly and never serve the API, so API_KEY is optional.
func LoadForOperator() (*Config, error) {
	return load()
}

func load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:      getEnv("API_KEY", ""),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", DefaultLogLevel)),
		LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", DefaultLogFormat)),
		LogDir:      getEnv("LOG_DIR", DefaultLogDir),
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),
		ServiceName: getEnv("SERVICE_NAME", DefaultServiceName),
		Version:     getEnv("VERSION", DefaultVersion),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", DefaultStorageDriver)),
		SQLitePath:    getEnv("SQLITE_PATH", DefaultSQLitePath),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBName:        getEnv("DB_NAME", DefaultDBName),
		DBMaxConns:    getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),

		DefaultStartingPoints:  getEnvAsInt64("DEFAULT_STARTING_POINTS", domain.DefaultStartingPoints),
		AllowCrossOptionWagers: getEnvAsBool("ALLOW_CROSS_OPTION_WAGERS", true),

		ReconcileInterval:    getEnvAsDuration("RECONCILE_INTERVAL", DefaultReconcileInterval),
		ReconcileJournalPath: getEnv("RECONCILE_JOURNAL_PATH", DefaultJournalPath),

		DiscordToken:        getEnv("DISCORD_TOKEN", ""),
		DiscordLogChannelID: getEnv("DISCORD_LOG_CHANNEL_ID", ""),

		TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),
	}

	port, err := strconv.Atoi(getEnv("PORT", strconv.Itoa(DefaultPort)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInvalidPort, err)
	}
	cfg.Port = port

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that have no safe fallback
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf(ErrMsgPortOutOfRange, c.Port)
	}
	switch c.StorageDriver {
	case domain.StorageDriverPostgres:
		if c.DBMaxConns < 1 {
			return fmt.Errorf(ErrMsgInvalidMaxConns, c.DBMaxConns)
		}
	case domain.StorageDriverSQLite:
		if c.SQLitePath == "" {
			return errors.New(ErrMsgSQLitePathRequired)
		}
	default:
		return fmt.Errorf(ErrMsgUnknownStorageDriver, c.StorageDriver)
	}
	if c.DefaultStartingPoints < 0 {
		return fmt.Errorf(ErrMsgNegativeStartingPoint, c.DefaultStartingPoints)
	}
	return nil
}

// IsDevelopment reports whether the environment enables developer conveniences
func (c *Config) IsDevelopment() bool {
	return c.Environment == "dev" || c.Environment == "development"
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if v, err := strconv.ParseInt(os.Getenv(key), 10, 64); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

// getEnvAsList splits a comma separated value, dropping empty entries
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
