package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DataDir         string
	StorageBackend  string // "file" or "sqlite"
	SQLitePath      string
	Port            string
	IsProduction    bool
	DefaultCurrency string

	// A non-empty RemoteBaseURL switches clients from local storage to the
	// development HTTP server.
	RemoteBaseURL string
	RemoteTimeout time.Duration

	// Rate limit for mutating routes, in ulule/limiter notation (e.g. "60-M").
	RateLimit string

	// Google OAuth credentials for the Drive backup integration. All three
	// must be set for cloud backup to function.
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("DATA_DIR", "./data")
	viper.SetDefault("STORAGE_BACKEND", "file")
	viper.SetDefault("SQLITE_PATH", "./data/khata.db")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("DEFAULT_CURRENCY", "BDT")
	viper.SetDefault("REMOTE_BASE_URL", "")
	viper.SetDefault("REMOTE_TIMEOUT", "5s")
	viper.SetDefault("RATE_LIMIT", "60-M")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")

	viper.AutomaticEnv()

	cfg := &Config{}
	cfg.DataDir = viper.GetString("DATA_DIR")
	cfg.StorageBackend = viper.GetString("STORAGE_BACKEND")
	cfg.SQLitePath = viper.GetString("SQLITE_PATH")
	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.DefaultCurrency = viper.GetString("DEFAULT_CURRENCY")
	cfg.RemoteBaseURL = viper.GetString("REMOTE_BASE_URL")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")

	if cfg.StorageBackend != "file" && cfg.StorageBackend != "sqlite" {
		log.Printf("Warning: unknown STORAGE_BACKEND %q, defaulting to file\n", cfg.StorageBackend)
		cfg.StorageBackend = "file"
	}

	timeoutStr := viper.GetString("REMOTE_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 5 * time.Second
		if timeoutStr != "" {
			log.Printf("Warning: Invalid value for REMOTE_TIMEOUT ('%s'). Defaulting to %s.\n", timeoutStr, timeout)
		}
	}
	cfg.RemoteTimeout = timeout

	return cfg, nil
}
