package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Storage backends supported by the storage factory.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	CORS    CORSConfig    `toml:"cors"`
	Logging LoggingConfig `toml:"logging"`
	Backup  BackupConfig  `toml:"backup"`
	Display DisplayConfig `toml:"display"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string `toml:"port"`
	Host string `toml:"host"`
	Addr string `toml:"-"` // Combined host:port for convenience
}

// StorageConfig selects and configures the key-value backend holding the portfolio collection.
type StorageConfig struct {
	Backend    string `toml:"backend"`
	Path       string `toml:"path"`        // SQLite database file
	BadgerPath string `toml:"badger_path"` // Badger directory
	Key        string `toml:"key"`         // key of the collection blob
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // console or json
}

// BackupConfig holds settings for collection snapshots.
// An empty Schedule disables scheduled backups; an empty EncryptionKey writes plain JSON.
type BackupConfig struct {
	Dir           string `toml:"dir"`
	Schedule      string `toml:"schedule"`
	EncryptionKey string `toml:"encryption_key"`
}

// DisplayConfig holds presentation settings.
type DisplayConfig struct {
	Currency string `toml:"currency"`
}

// NewDefaultConfig returns the configuration used when nothing is overridden.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "5001",
			Host: "localhost",
		},
		Storage: StorageConfig{
			Backend:    BackendSQLite,
			Path:       "./data/asset_portfolios.db",
			BadgerPath: "./data/badger",
			Key:        "asset-portfolios",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Backup: BackupConfig{
			Dir: "./data/backups",
		},
		Display: DisplayConfig{
			Currency: "CNY",
		},
	}
}

// Load reads configuration with priority: defaults -> CONFIG_FILE (TOML) -> .env file and environment.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := NewDefaultConfig()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.validate(); err != nil {
		return nil, err
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

func applyEnvOverrides(config *Config) {
	config.Server.Port = getEnv("SERVER_PORT", config.Server.Port)
	config.Server.Host = getEnv("SERVER_HOST", config.Server.Host)

	config.Storage.Backend = strings.ToLower(getEnv("STORAGE_BACKEND", config.Storage.Backend))
	config.Storage.Path = getEnv("DB_PATH", config.Storage.Path)
	config.Storage.BadgerPath = getEnv("BADGER_PATH", config.Storage.BadgerPath)
	config.Storage.Key = getEnv("STORAGE_KEY", config.Storage.Key)

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		config.CORS.AllowedOrigins = splitList(origins)
	}

	config.Logging.Level = getEnv("LOG_LEVEL", config.Logging.Level)
	config.Logging.Format = getEnv("LOG_FORMAT", config.Logging.Format)

	config.Backup.Dir = getEnv("BACKUP_DIR", config.Backup.Dir)
	config.Backup.Schedule = getEnv("BACKUP_SCHEDULE", config.Backup.Schedule)
	config.Backup.EncryptionKey = getEnv("BACKUP_ENCRYPTION_KEY", config.Backup.EncryptionKey)

	config.Display.Currency = strings.ToUpper(getEnv("DISPLAY_CURRENCY", config.Display.Currency))
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendBadger, BackendMemory:
	default:
		return fmt.Errorf("invalid storage backend %q: must be one of %s, %s, %s",
			c.Storage.Backend, BackendSQLite, BackendBadger, BackendMemory)
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return fmt.Errorf("storage key cannot be empty")
	}
	if money.GetCurrency(c.Display.Currency) == nil {
		return fmt.Errorf("unknown display currency %q", c.Display.Currency)
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
