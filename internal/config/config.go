// ===============================
// internal/config/config.go - Application Configuration
// ===============================

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// R2Config holds Cloudflare R2 configuration
type R2Config struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

// Config holds all application configuration
type Config struct {
	// Server configuration
	Environment string
	Port        string
	LogLevel    string

	// Database configuration
	DatabaseURL string

	// Redis is optional; an empty URL disables the stats cache
	RedisURL      string
	StatsCacheTTL time.Duration

	// Firebase configuration
	FirebaseProjectID   string
	FirebaseCredentials string // Path to service account JSON file

	// R2 Storage configuration
	R2Config R2Config

	// Upload handling
	UploadTmpDir   string
	MaxUploadBytes int64

	// Timeouts
	RequestTimeout time.Duration
	MediaTimeout   time.Duration

	// CORS configuration
	AllowedOrigins []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	config := &Config{
		Environment:         getEnv("GIN_MODE", "debug"),
		Port:                getEnv("PORT", "8000"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		RedisURL:            getEnv("REDIS_URL", ""),
		FirebaseProjectID:   getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
		UploadTmpDir:        getEnv("UPLOAD_TMP_DIR", os.TempDir()),
		R2Config: R2Config{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", "videotube"),
			PublicURL:  strings.TrimRight(getEnv("R2_PUBLIC_URL", ""), "/"),
		},
	}

	var err error
	if config.StatsCacheTTL, err = getDuration("STATS_CACHE_TTL", 30*time.Second); err != nil {
		return nil, err
	}
	if config.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if config.MediaTimeout, err = getDuration("MEDIA_TIMEOUT", 2*time.Minute); err != nil {
		return nil, err
	}

	maxUploadMB, err := strconv.ParseInt(getEnv("MAX_UPLOAD_MB", "200"), 10, 64)
	if err != nil || maxUploadMB <= 0 {
		return nil, ConfigError{Message: "MAX_UPLOAD_MB must be a positive integer"}
	}
	config.MaxUploadBytes = maxUploadMB << 20

	// Fall back to the bucket endpoint when no public domain is configured
	if config.R2Config.PublicURL == "" && config.R2Config.AccountID != "" && config.R2Config.BucketName != "" {
		config.R2Config.PublicURL = fmt.Sprintf("https://%s.%s.r2.cloudflarestorage.com",
			config.R2Config.BucketName, config.R2Config.AccountID)
	}

	// Parse allowed origins
	originsStr := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	config.AllowedOrigins = strings.Split(originsStr, ",")
	for i, origin := range config.AllowedOrigins {
		config.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	// Validate required configuration
	if config.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}

	if config.R2Config.AccountID == "" || config.R2Config.AccessKey == "" || config.R2Config.SecretKey == "" {
		return nil, ErrMissingR2Config
	}

	if config.FirebaseProjectID == "" {
		return nil, ErrMissingFirebaseConfig
	}

	return config, nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, ConfigError{Message: fmt.Sprintf("%s must be a non-negative duration (e.g. 30s), got %q", key, raw)}
	}
	return d, nil
}

// Configuration errors
var (
	ErrMissingDatabaseURL    = ConfigError{Message: "DATABASE_URL environment variable is required"}
	ErrMissingR2Config       = ConfigError{Message: "R2 configuration (R2_ACCOUNT_ID, R2_ACCESS_KEY, R2_SECRET_KEY) is required"}
	ErrMissingFirebaseConfig = ConfigError{Message: "FIREBASE_PROJECT_ID is required"}
)

// ConfigError represents a configuration error
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string {
	return e.Message
}
