package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/Oxyrus/photowall/internal/assets"
	"github.com/Oxyrus/photowall/internal/auth"
	"github.com/Oxyrus/photowall/internal/config"
	"github.com/Oxyrus/photowall/internal/gallery"
	"github.com/Oxyrus/photowall/internal/logging"
	"github.com/Oxyrus/photowall/internal/router"
	"github.com/Oxyrus/photowall/internal/storage/sqlite"
)

func main() {
	bootstrapLogger := logging.New(slog.LevelInfo)

	cfg, err := config.Load()
	if err != nil {
		bootstrapLogger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)
	ctx := context.Background()

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open sqlite database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close sqlite database", "error", err)
		}
	}()

	assetStore, err := openAssets(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open asset store", "backend", string(cfg.AssetBackend), "error", err)
		os.Exit(1)
	}

	if err := auth.SeedAdmin(ctx, store.Users(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Error("failed to seed admin account", "error", err)
		os.Exit(1)
	}

	svc := gallery.NewService(logger, store.Photos(), assetStore)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	logger.Info("starting server", "addr", cfg.Addr, "assetBackend", string(cfg.AssetBackend))

	r := router.New(logger, svc, store.Users(), tokens)

	if err := r.Run(cfg.Addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func openAssets(ctx context.Context, cfg *config.Config, logger *slog.Logger) (assets.Store, error) {
	if cfg.AssetBackend == config.AssetBackendS3 {
		return assets.NewS3Store(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3Prefix, logger)
	}
	return assets.NewDiskStore(cfg.UploadDir, logger)
}
