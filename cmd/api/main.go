package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clubsuite/elections-api/internal/config"
	"github.com/clubsuite/elections-api/internal/domain/election"
	"github.com/clubsuite/elections-api/internal/logger"
	"github.com/clubsuite/elections-api/internal/notification"
	"github.com/clubsuite/elections-api/internal/scheduler"
	"github.com/clubsuite/elections-api/internal/server"
	"github.com/clubsuite/elections-api/internal/storage/postgres"
	"github.com/clubsuite/elections-api/internal/storage/rediscache"
)

func main() {
	cfg := config.Load()

	logger.Initialize(os.Getenv("LOG_LEVEL"))
	log := logger.Get()

	store, err := postgres.NewContainer(cfg)
	if err != nil {
		log.Fatal("Failed to initialize storage", "error", err)
	}

	// Redis is advisory. Without it the engine still works; live
	// counters and the dashboard cache are skipped and notifications
	// fall back to log dispatch.
	var (
		cache      *rediscache.Cache
		tallyCache election.TallyCache
		dispatcher notification.Dispatcher
	)
	cache, err = rediscache.Connect(cfg)
	if err != nil {
		log.Warn("Redis unavailable, running without cache and outbox", "error", err)
		cache = nil
		dispatcher = notification.NewLogDispatcher()
	} else {
		tallyCache = cache
		dispatcher = notification.NewRedisDispatcher(cache.Client())
	}

	service := election.NewService(
		store.Events,
		store.Positions,
		store.Candidates,
		store.Votes,
		store.Winners,
		store.Users,
		store.Clubs,
		dispatcher,
		tallyCache,
		election.SystemClock{},
		cfg.Notify.TieDebounce,
	)

	sched := scheduler.New(service, cfg.Scheduler.CheckInterval, cfg.Scheduler.Workers)
	sched.Start()

	srv := server.New(cfg, store, cache, service)

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal("Server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutdown signal received")

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		log.Error("Forced shutdown", "error", err)
	}

	if cache != nil {
		if err := cache.Close(); err != nil {
			log.Error("Failed to close Redis connection", "error", err)
		}
	}
	if err := postgres.Close(); err != nil {
		log.Error("Failed to close database connection", "error", err)
	}

	log.Info("Server stopped")
}
