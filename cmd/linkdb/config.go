package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hlop3z/linkdb/internal/alerr"
	"github.com/hlop3z/linkdb/pkg/linkdb"
)

const defaultConfigFile = "linkdb.yaml"

// Config represents the linkdb.yaml configuration file.
type Config struct {
	DatabaseURL string                          `yaml:"database_url"`
	Dialect     string                          `yaml:"dialect"`
	Driver      string                          `yaml:"driver"`
	OwnerKey    string                          `yaml:"owner_key"`
	Messages    string                          `yaml:"messages"`
	Timeout     time.Duration                   `yaml:"timeout"`
	Tables      map[string]linkdb.TableOverride `yaml:"tables"`
	Server      linkdb.ServerConfig             `yaml:"server"`
}

// Global flags
var (
	configFile  string
	envFile     string
	databaseURL string
	dialect     string
	driver      string
	ownerKey    string
	principal   string
	jsonOutput  bool
	verbose     bool
)

func addGlobalFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVarP(&configFile, "config", "c", defaultConfigFile, "Path to config file")
	f.StringVar(&envFile, "env-file", ".env", "Path to a dotenv file loaded before the environment is read")
	f.StringVarP(&databaseURL, "database-url", "d", "", "Database connection URL")
	f.StringVar(&dialect, "dialect", "", "Database dialect: sqlite, postgres or mysql (default: detected from URL)")
	f.StringVar(&driver, "driver", "", "PostgreSQL driver: postgres (lib/pq) or pgx")
	f.StringVar(&ownerKey, "owner-key", "", "Column that scopes rows to their owner")
	f.StringVar(&principal, "as", "", "Run as this user id (scopes owned rows)")
	f.BoolVar(&jsonOutput, "json", false, "Output JSON")
	f.BoolVarP(&verbose, "verbose", "v", false, "Log engine activity to stderr")
}

// loadConfig loads configuration from file, env vars, and CLI flags.
// Precedence: CLI flags > env vars > config file > defaults
func loadConfig(cmd *cobra.Command) (*Config, error) {
	cfg := &Config{
		Timeout: 30 * time.Second,
	}

	// A missing dotenv file is normal; a malformed one is not.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, alerr.Wrap(alerr.ErrConfigInvalid, err, "failed to load env file").
			With("path", envFile)
	}

	data, err := os.ReadFile(configFile)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, alerr.Wrap(alerr.ErrConfigInvalid, err, "failed to parse config file").
				With("path", configFile)
		}
		cfg.DatabaseURL = expandEnvVars(cfg.DatabaseURL)
	case errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config"):
		// no config file is fine unless one was asked for
	default:
		return nil, alerr.Wrap(alerr.ErrConfigInvalid, err, "failed to read config file").
			With("path", configFile)
	}

	overrideFromEnv(&cfg.DatabaseURL, "LINKDB_DATABASE_URL", "DATABASE_URL")
	overrideFromEnv(&cfg.Dialect, "LINKDB_DIALECT")
	overrideFromEnv(&cfg.Driver, "LINKDB_DRIVER")
	overrideFromEnv(&cfg.OwnerKey, "LINKDB_OWNER_KEY")
	overrideFromEnv(&cfg.Messages, "LINKDB_MESSAGES")
	overrideFromEnv(&cfg.Server.Addr, "LINKDB_ADDR")

	flags := cmd.Flags()
	if flags.Changed("database-url") {
		cfg.DatabaseURL = databaseURL
	}
	if flags.Changed("dialect") {
		cfg.Dialect = dialect
	}
	if flags.Changed("driver") {
		cfg.Driver = driver
	}
	if flags.Changed("owner-key") {
		cfg.OwnerKey = ownerKey
	}

	return cfg, nil
}

// overrideFromEnv sets dst from the first non-empty variable.
func overrideFromEnv(dst *string, keys ...string) {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			*dst = v
			return
		}
	}
}

// expandEnvVars expands ${VAR} patterns in a string.
func expandEnvVars(s string) string {
	return os.Expand(s, os.Getenv)
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newClient creates a linkdb client from the merged configuration, scoped
// to --as when given.
func newClient(cmd *cobra.Command) (*linkdb.Client, *Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	opts := []linkdb.Option{
		linkdb.WithDatabaseURL(cfg.DatabaseURL),
		linkdb.WithDialect(cfg.Dialect),
		linkdb.WithDriver(cfg.Driver),
		linkdb.WithOwnerKey(cfg.OwnerKey),
		linkdb.WithOverrides(cfg.Tables),
		linkdb.WithTimeout(cfg.Timeout),
		linkdb.WithLogger(newLogger()),
	}
	if cfg.Messages != "" {
		opts = append(opts, linkdb.WithMessages(cfg.Messages))
	}

	client, err := linkdb.New(cmd.Context(), opts...)
	if err != nil {
		return nil, nil, err
	}
	return client.As(principal), cfg, nil
}
