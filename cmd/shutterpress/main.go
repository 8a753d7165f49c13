// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the shutterpress API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"shutterpress/internal/cache"
	"shutterpress/internal/config"
	"shutterpress/internal/database"
	"shutterpress/internal/handlers"
	"shutterpress/internal/middleware"
	"shutterpress/internal/router"
	"shutterpress/internal/session"
	"shutterpress/internal/storage"
	"shutterpress/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"posts_per_page", cfg.PostsPerPage,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(ctx, db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	valkeyClient, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Session cookies are Secure outside development.
	sessionStore := session.NewStore(valkeyClient, session.Options{
		TTL:    cfg.SessionTTL,
		Secure: !cfg.IsDev(),
	})

	// Object storage is optional; without it deleting a post leaves its
	// objects in the bucket.
	var objects handlers.ObjectDeleter
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		objects = storageClient
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", storageClient.Bucket())
	} else {
		slog.Warn("s3 storage not configured, file objects will not be deleted")
	}

	postStore := store.NewPostStore(db)
	auditStore := store.NewAuditStore(db)
	fileStore := store.NewFileStore(db)
	tagStore := store.NewTagStore(db)
	userStore := store.NewUserStore(db)
	accessLogStore := store.NewAccessLogStore(db)

	events := cache.NewEvents(valkeyClient)
	access := middleware.NewAccess(accessLogStore, events)

	if cfg.IsDev() {
		go watchAccessLog(ctx, events.SubscribeAccessLog(ctx))
	}

	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer loginLimiter.Stop()

	r := router.New(
		router.Options{AllowOrigin: cfg.AllowOrigin, PostsPerPage: cfg.PostsPerPage, HSTS: !cfg.IsDev()},
		sessionStore,
		access,
		loginLimiter,
		router.Handlers{
			Posts:     handlers.NewPosts(postStore, auditStore, fileStore, tagStore, objects),
			AuditLogs: handlers.NewAuditLogs(auditStore, postStore),
			Users:     handlers.NewUsers(userStore, sessionStore),
			Search:    handlers.NewSearch(tagStore, fileStore, userStore),
			Dashboard: handlers.NewDashboard(accessLogStore),
			Health:    handlers.Health(db),
		},
	)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received")

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// watchAccessLog logs access events published on Valkey until ctx ends.
func watchAccessLog(ctx context.Context, sub *redis.PubSub) {
	defer sub.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			ev, err := cache.DecodeAccessEvent(msg)
			if err != nil {
				slog.Warn("malformed access event", "error", err)
				continue
			}
			slog.Debug("access event",
				"action", ev.Action,
				"resource_type", ev.ResourceType,
				"resource_id", ev.ResourceID,
				"user_id", ev.UserID,
			)
		}
	}
}
