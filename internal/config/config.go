package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AssetBackend selects where image bytes are persisted.
type AssetBackend string

const (
	AssetBackendDisk AssetBackend = "disk"
	AssetBackendS3   AssetBackend = "s3"
)

type Config struct {
	Addr          string
	DBPath        string
	LogLevel      slog.Level
	AssetBackend  AssetBackend
	UploadDir     string
	S3Bucket      string
	S3Region      string
	S3Prefix      string
	JWTSecret     string
	TokenTTL      time.Duration
	AdminEmail    string
	AdminPassword string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:          getString("PHOTOWALL_ADDR", ":8080"),
		DBPath:        getString("PHOTOWALL_DB_PATH", "data/photowall.db"),
		LogLevel:      getLogLevel("PHOTOWALL_LOG_LEVEL", slog.LevelInfo),
		AssetBackend:  AssetBackend(getString("PHOTOWALL_ASSET_BACKEND", string(AssetBackendDisk))),
		UploadDir:     getString("PHOTOWALL_UPLOAD_DIR", "data/uploads"),
		S3Bucket:      strings.TrimSpace(os.Getenv("PHOTOWALL_S3_BUCKET")),
		S3Region:      getString("PHOTOWALL_S3_REGION", "us-east-1"),
		S3Prefix:      strings.TrimSpace(os.Getenv("PHOTOWALL_S3_PREFIX")),
		JWTSecret:     strings.TrimSpace(os.Getenv("PHOTOWALL_JWT_SECRET")),
		TokenTTL:      getDuration("PHOTOWALL_TOKEN_TTL", 24*time.Hour),
		AdminEmail:    strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword: strings.TrimSpace(os.Getenv("ADMIN_PASSWORD")),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("PHOTOWALL_JWT_SECRET must be set")
	}

	switch cfg.AssetBackend {
	case AssetBackendDisk:
	case AssetBackendS3:
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("PHOTOWALL_S3_BUCKET must be set when the s3 backend is selected")
		}
	default:
		return nil, fmt.Errorf("PHOTOWALL_ASSET_BACKEND must be %q or %q", AssetBackendDisk, AssetBackendS3)
	}

	if (cfg.AdminEmail == "") != (cfg.AdminPassword == "") {
		return nil, fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func getLogLevel(key string, fallback slog.Level) slog.Level {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch value {
	case "":
		return fallback
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return fallback
	}
}
