package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jwd-portfolio/portfolio-backend/config"
	"github.com/jwd-portfolio/portfolio-backend/internal/bootstrap"
	"github.com/jwd-portfolio/portfolio-backend/internal/projects/seed"
	"github.com/jwd-portfolio/portfolio-backend/internal/projects/service"
	"github.com/jwd-portfolio/portfolio-backend/internal/projects/upload"
)

const serviceName = "portfolio-backend"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := bootstrap.NewLogger(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	bootstrap.SetGinMode(cfg.App.Environment)

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore()

	images := upload.New(cfg.Assets.ImageDir, cfg.Assets.UploadMaxBytes)
	svc := service.NewProjectService(store, images, logger.Named("projects"))

	if cfg.Store.SeedFile != "" {
		seeds, err := seed.Load(cfg.Store.SeedFile, logger)
		if err != nil {
			return err
		}
		added, err := svc.Seed(ctx, seeds)
		if err != nil {
			return err
		}
		logger.Info("seeded projects", zap.Int("added", added), zap.String("file", cfg.Store.SeedFile))
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		Logger:         logger,
		Projects:       svc,
		CORSOrigins:    cfg.Server.CORSOrigins,
		WriteRatePerS:  cfg.Server.WriteRatePerS,
		WriteRateBurst: cfg.Server.WriteRateBurst,
		MaxBodyBytes:   cfg.Assets.UploadMaxBytes + 1<<20,
		PublicDir:      cfg.Assets.PublicDir,
		ImageDir:       cfg.Assets.ImageDir,
		CacheSeconds:   cfg.Assets.CacheSeconds,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("store", cfg.Store.Backend),
			zap.String("env", cfg.App.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}
