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

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"estatehub/internal/auth"
	"estatehub/internal/config"
	"estatehub/internal/database"
	"estatehub/internal/logging"
	"estatehub/internal/storage"
	"estatehub/internal/store"
	"estatehub/internal/web"
)

const shutdownTimeout = 10 * time.Second

func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	site, err := config.LoadSite(cfg.SiteConfigPath)
	if err != nil {
		return err
	}
	for _, problem := range site.Lint() {
		logger.Warn("site config", zap.Error(problem))
	}
	if err := site.Check(); err != nil {
		return fmt.Errorf("site config rejected: %w", err)
	}

	bucket, err := storage.New(storage.LoadConfig(os.Getenv))
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warn("failed to close database", zap.Error(err))
		}
	}()

	sessions, err := auth.NewManager(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		return err
	}

	srv, err := web.NewServer(web.Options{
		Store:   store.New(db),
		Storage: bucket,
		Auth:    sessions,
		Logger:  logger,
		Site:    site,
		Images:  config.NewImagePolicy(site, bucket.PublicHost()),
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", httpServer.Addr), zap.String("bucket", bucket.Bucket()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
