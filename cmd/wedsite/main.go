// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the wedsite server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wedsite/internal/cache"
	"wedsite/internal/config"
	"wedsite/internal/database"
	"wedsite/internal/editor"
	"wedsite/internal/engine"
	"wedsite/internal/handlers"
	"wedsite/internal/middleware"
	"wedsite/internal/models"
	"wedsite/internal/router"
	"wedsite/internal/session"
	"wedsite/internal/storage"
	"wedsite/internal/store"
)

// Login attempts allowed per client IP and window.
const (
	loginLimit  = 10
	loginWindow = time.Minute
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: JSON in production, text in development.
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"public_url", cfg.PublicBaseURL,
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed the admin account and starter cards (no-op if present).
	if err := database.Seed(db, cfg.AdminPassword); err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}

	// Connect to Valkey (Redis-compatible cache + session store).
	valkeyClient, err := cache.ConnectValkey(context.Background(), cache.ValkeyOptions{
		Host:     cfg.ValkeyHost,
		Port:     cfg.ValkeyPort,
		Password: cfg.ValkeyPassword,
		DB:       cfg.ValkeyDB,
	})
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// A deploy may ship changed templates, so cached pages start fresh.
	pageCache := cache.NewPageCache(valkeyClient, cfg.PageCacheTTL)
	pageCache.InvalidateAll(context.Background())

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	weddingStore := store.NewWeddingStore(db)
	requestStore := store.NewClientRequestStore(db)
	cardStore := store.NewCardStore(db)
	mediaStore := store.NewMediaStore(db)

	// Connect to S3-compatible object storage (optional: uploads answer
	// 503 without it).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	var objects handlers.ObjectStore
	var imageSources []string
	if storageClient != nil {
		objects = storageClient
		imageSources = append(imageSources, storageClient.FileURL(""))
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, media uploads disabled")
	}

	eng := engine.New()

	// Editor sessions drop the public page of a wedding once it is saved.
	registry := editor.NewRegistry(weddingStore, editor.RegistryConfig{
		SaveTimeout: cfg.EditorSaveTimeout,
		IdleTimeout: cfg.EditorIdleTimeout,
		Notifier:    editor.LogNotifier{},
		OnSaved: func(w *models.Wedding) {
			pageCache.Invalidate(context.Background(), cache.WeddingKey(w.Slug))
		},
	})
	defer registry.Stop()

	loginLimiter := middleware.NewRateLimiter(loginLimit, loginWindow)
	defer loginLimiter.Stop()

	// Create handler groups with their dependencies.
	r := router.New(router.Config{
		Sessions:      sessionStore,
		LoginLimiter:  loginLimiter,
		SecureCookies: secureCookies,
		ImageSources:  imageSources,
	}, router.Handlers{
		Auth:    handlers.NewAuth(sessionStore, userStore),
		Partner: handlers.NewPartner(weddingStore, requestStore, cfg.WeddingURL),
		Editor:  handlers.NewEditor(registry, weddingStore, requestStore, eng, cfg.WeddingURL),
		Media:   handlers.NewMedia(objects, mediaStore, weddingStore, requestStore, cfg.UploadMaxBytes),
		Admin:   handlers.NewAdmin(requestStore, userStore, cardStore, sessionStore, pageCache),
		Public:  handlers.NewPublic(eng, weddingStore, cardStore, pageCache),
	})

	// WriteTimeout must outlast the editor save timeout.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.EditorSaveTimeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully", "open_editors", registry.Len())
}
