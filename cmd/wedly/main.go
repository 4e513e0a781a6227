// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/wedly-admin/wedly-be/internal/auth"
	"github.com/wedly-admin/wedly-be/internal/cache"
	"github.com/wedly-admin/wedly-be/internal/config"
	"github.com/wedly-admin/wedly-be/internal/handler/api"
	"github.com/wedly-admin/wedly-be/internal/imaging"
	"github.com/wedly-admin/wedly-be/internal/logging"
	"github.com/wedly-admin/wedly-be/internal/mail"
	"github.com/wedly-admin/wedly-be/internal/middleware"
	"github.com/wedly-admin/wedly-be/internal/scheduler"
	"github.com/wedly-admin/wedly-be/internal/service"
	"github.com/wedly-admin/wedly-be/internal/storage"
	"github.com/wedly-admin/wedly-be/internal/store"
	"github.com/wedly-admin/wedly-be/internal/version"
)

// Build-time variables injected via ldflags.
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// Guest photo processing.
const (
	photoMaxDimension = 1920
	photoQuality      = 82
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "wedly - wedding planner API server\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  WEDLY_JWT_ACCESS_SECRET   Access token signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  WEDLY_JWT_REFRESH_SECRET  Refresh token signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  WEDLY_DB_PATH             SQLite database path (default: ./data/wedly.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  WEDLY_SERVER_PORT         Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  WEDLY_ENV                 Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  WEDLY_UPLOADS_DIR         Upload directory, empty disables uploads (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  WEDLY_REDIS_URL           Redis URL for the public microsite cache (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
	if *showVersion {
		_, _ = fmt.Println(info.String())
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	slog.Info("starting wedly", "version", info.Version, "commit", info.GitCommit)

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	backend := cache.New(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      cfg.CacheDefaultTTL(),
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	}, logger)
	defer func() {
		if err := backend.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	sites := cache.NewSiteCache(backend, logger)

	tokens := auth.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL(), cfg.RefreshTokenTTL())
	hasher := auth.NewHasher(auth.Params{})

	objects := storage.New(cfg.UploadsDir, cfg.UploadsURL)
	if cfg.StorageEnabled() {
		slog.Info("uploads enabled", "dir", cfg.UploadsDir, "url", cfg.UploadsURL)
	} else {
		slog.Warn("uploads disabled, WEDLY_UPLOADS_DIR is empty")
	}
	processor := imaging.NewProcessor(photoMaxDimension, photoQuality)

	seating := service.NewSeatingService(db, logger)
	login := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	accounts := service.NewAccountService(db, hasher, tokens, mail.NewLogMailer(cfg.AppURL, logger), logger)

	jobs := scheduler.New(logger)
	if err := scheduler.RegisterMaintenance(jobs, seating, cfg.SeatSweepSchedule, login); err != nil {
		return fmt.Errorf("registering maintenance jobs: %w", err)
	}
	if err := scheduler.RegisterTokenSweep(jobs, accounts); err != nil {
		return fmt.Errorf("registering token sweep: %w", err)
	}
	jobs.Start()
	defer jobs.Stop()

	tenants := service.NewTenantResolver(db)
	apiHandler := api.NewHandler(api.Deps{
		DB:            db,
		Logger:        logger,
		Version:       info,
		Tokens:        tokens,
		Tenants:       tenants,
		EventTenants:  tenants,
		Accounts:      accounts,
		Events:        service.NewEventService(db, sites, logger),
		Guests:        service.NewGuestService(db, logger),
		Checklist:     service.NewChecklistService(db, logger),
		Budget:        service.NewBudgetService(db, logger),
		Seating:       seating,
		Microsites:    service.NewMicrositeService(db, sites, logger),
		Media:         service.NewMediaService(db, objects, logger),
		GuestPhotos:   service.NewGuestPhotoService(db, objects, processor, logger),
		Dashboard:     service.NewDashboardService(db, logger),
		Login:         login,
		PublicLimiter: middleware.NewRateLimiter(cfg.PublicRateLimit, cfg.PublicRateBurst),
		UploadsDir:    cfg.UploadsDir,
		UploadsURL:    cfg.UploadsURL,
	})

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(cfg.RequestTimeoutDuration()))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.NewRateLimiter(cfg.APIRateLimit, cfg.APIRateBurst).Middleware())
	r.Mount("/", apiHandler.Routes())

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // uploads and photo downloads
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
