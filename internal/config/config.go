// Package config handles loading and validating runtime configuration for the Season API.
// Values are read from environment variables (optionally seeded from a .env file) and may be
// overridden by command line flags, so the same binary runs against a local DynamoDB, a real
// AWS table, Postgres, or the in-memory store without code changes.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	// godotenv reads a .env file and loads its key=value pairs into the process environment.
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Store backends understood by the server.
const (
	BackendDynamoDB = "dynamodb"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// DefaultLeagueSize is the number of teams in the league, and so the highest valid rank.
const DefaultLeagueSize = 12

// Config holds all runtime configuration values for the application.
type Config struct {
	Port     string // The TCP port the HTTP server will listen on (e.g., "8080")
	Env      string // The runtime environment: "development", "staging", or "production"
	LogLevel string // zerolog level name: "debug", "info", "warn", "error"

	APIPrefix    string // Mount point for the season routes (e.g., "/v1")
	StoreBackend string // One of BackendDynamoDB, BackendPostgres, BackendMemory

	DynamoDB DynamoDBConfig
	// DatabaseURL is the PostgreSQL connection string, required for the postgres backend.
	DatabaseURL string
	// MigrationsPath is the golang-migrate source URL for the postgres schema.
	MigrationsPath string
	// AutoProvision creates the table (or runs migrations) when the server starts.
	AutoProvision bool

	LeagueSize      int           // Highest valid rank
	StrictWrites    bool          // Validate id/rank/playoffRank on POST, PUT and PATCH
	ShutdownTimeout time.Duration // Budget for draining in-flight requests on shutdown
}

// DynamoDBConfig describes how to reach the Season table.
type DynamoDBConfig struct {
	Table           string
	Endpoint        string // Optional endpoint override, e.g. http://localhost:8000 for DynamoDB Local
	Region          string
	AccessKeyID     string // Optional static credentials; the default AWS chain is used when empty
	SecretAccessKey string
	OnDemand        bool // Provision the table with PAY_PER_REQUEST billing
}

// flagKeys maps command line flag names onto configuration keys.
var flagKeys = map[string]string{
	"port":      "port",
	"store":     "store_backend",
	"log-level": "log_level",
}

// Load reads configuration from a .env file, the environment and, when flags is non-nil, the
// flags that were explicitly set on the command line. The result is validated before return.
func Load(flags *pflag.FlagSet) (*Config, error) {
	// A missing .env file is fine: real environment variables are set by the deployment platform.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{
		Port:         v.GetString("port"),
		Env:          v.GetString("env"),
		LogLevel:     v.GetString("log_level"),
		APIPrefix:    normalizePrefix(v.GetString("api_prefix")),
		StoreBackend: strings.ToLower(strings.TrimSpace(v.GetString("store_backend"))),
		DynamoDB: DynamoDBConfig{
			Table:           v.GetString("dynamodb_table"),
			Endpoint:        v.GetString("dynamodb_endpoint"),
			Region:          v.GetString("aws_region"),
			AccessKeyID:     v.GetString("aws_access_key_id"),
			SecretAccessKey: v.GetString("aws_secret_access_key"),
			OnDemand:        v.GetBool("dynamodb_on_demand"),
		},
		DatabaseURL:     v.GetString("database_url"),
		MigrationsPath:  v.GetString("migrations_path"),
		AutoProvision:   v.GetBool("auto_provision"),
		LeagueSize:      v.GetInt("league_size"),
		StrictWrites:    v.GetBool("strict_writes"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("api_prefix", "/v1")
	v.SetDefault("store_backend", BackendDynamoDB)
	v.SetDefault("dynamodb_table", "Season")
	v.SetDefault("dynamodb_endpoint", "")
	v.SetDefault("dynamodb_on_demand", false)
	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("aws_access_key_id", "")
	v.SetDefault("aws_secret_access_key", "")
	v.SetDefault("database_url", "")
	v.SetDefault("migrations_path", "file://migrations")
	v.SetDefault("auto_provision", true)
	v.SetDefault("league_size", DefaultLeagueSize)
	v.SetDefault("strict_writes", false)
	v.SetDefault("shutdown_timeout", 10*time.Second)
}

// Validate reports configuration that the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	switch c.StoreBackend {
	case BackendDynamoDB:
		if c.DynamoDB.Table == "" {
			errs = append(errs, errors.New("DYNAMODB_TABLE must not be empty"))
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q (expected dynamodb, postgres or memory)", c.StoreBackend))
	}
	if c.LeagueSize < 1 {
		errs = append(errs, fmt.Errorf("LEAGUE_SIZE must be at least 1, got %d", c.LeagueSize))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	return errors.Join(errs...)
}

// IsDevelopment reports whether the server runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// normalizePrefix turns "v1", "/v1/" and "/v1" into "/v1"; an empty or "/" prefix mounts at the root.
func normalizePrefix(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
