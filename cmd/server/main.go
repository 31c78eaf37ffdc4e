package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"

	"github.com/lauraqiu/clio-lunch-analyzer/internal/analyzer"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/cache"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/config"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/domain"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/lexicon"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/logging"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/server"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/slack"
)

// Daily refresh runs mid-afternoon, after the lunch thread has collected
// most of its reactions.
const (
	refreshHour   = 14
	refreshMinute = 0
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupStore(ctx context.Context, cfg *config.Config, loc *time.Location) *cache.RedisStore {
	if cfg.RedisURL == "" {
		return nil
	}
	store, err := cache.NewRedisStore(ctx, cfg.RedisURL, loc)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return store
}

func setupScheduler(snapshots *cache.Service, loc *time.Location) gocron.Scheduler {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(loc),
		gocron.WithLogger(logging.NewGocronAdapter(logging.Logger)),
	)
	if err != nil {
		slog.Error("Failed to create scheduler", "error", err)
		os.Exit(1)
	}

	_, err = scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(refreshHour, refreshMinute, 0))),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			if _, err := snapshots.Refresh(ctx, "scheduled"); err != nil {
				slog.Error("Scheduled refresh failed", "error", err)
			}
		}),
		gocron.WithName("daily-lunch-refresh"),
	)
	if err != nil {
		slog.Error("Failed to schedule daily refresh", "error", err)
		os.Exit(1)
	}

	return scheduler
}

func runGracefulShutdown(srv *server.Server, scheduler gocron.Scheduler, store *cache.RedisStore) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		if err := scheduler.Shutdown(); err != nil {
			slog.Error("Scheduler shutdown error", "error", err)
		}

		if store != nil {
			if err := store.Close(); err != nil {
				slog.Error("Redis close error", "error", err)
			}
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	loc, err := cfg.Location()
	if err != nil {
		slog.Error("Failed to load timezone", "error", err)
		os.Exit(1)
	}

	source := slack.New(cfg.SlackToken, cfg.ChannelID)
	pipeline := analyzer.New(source, lexicon.Default(), loc,
		analyzer.WithReplyTimeout(cfg.ReplyFetchTimeout))

	refresh := func(ctx context.Context) ([]domain.LunchRecord, error) {
		since := clock.Now().AddDate(0, 0, -cfg.LookbackDays)
		return pipeline.Analyze(ctx, since)
	}

	store := setupStore(context.Background(), cfg, loc)

	// Pass nil explicitly to avoid a typed-nil interface inside the cache
	var snapshots *cache.Service
	if store != nil {
		snapshots = cache.NewService(refresh, cfg.CacheTTL, clock, store)
	} else {
		snapshots = cache.NewService(refresh, cfg.CacheTTL, clock, nil)
	}
	snapshots.Warm(context.Background())

	scheduler := setupScheduler(snapshots, loc)
	scheduler.Start()

	var (
		srv    *server.Server
		srvErr error
	)
	if store != nil {
		srv, srvErr = server.NewServer(cfg, snapshots, store)
	} else {
		srv, srvErr = server.NewServer(cfg, snapshots, nil)
	}
	if srvErr != nil {
		slog.Error("Failed to create server", "error", srvErr)
		os.Exit(1)
	}

	done := runGracefulShutdown(srv, scheduler, store)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
