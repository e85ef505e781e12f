package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"editor-board/internal/api/backend"
	"editor-board/internal/bot"
	"editor-board/internal/bot/scheduler"
	"editor-board/internal/catalog"
	"editor-board/internal/config"
	"editor-board/internal/logger"
	"editor-board/internal/storage/postgres"
	"editor-board/internal/storage/redis"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewForEnv(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting editor board bot",
		zap.String("log_level", cfg.LogLevel),
		zap.String("api_base_url", cfg.APIBaseURL),
		zap.Duration("check_interval", cfg.CheckInterval),
	)

	log.Info("connecting to PostgreSQL...")
	store, err := postgres.New(cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}
	defer store.Close()

	log.Info("connecting to Redis...")
	cache, err := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
	if err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer cache.Close()

	client := backend.New(cfg.APIBaseURL, cfg.BackendTimeout, log)
	cat := catalog.New(client, cache, store, cfg.JobsURL, cfg.PostsURL, log)

	log.Info("initializing Telegram bot...")
	tgBot, err := bot.New(cfg, store, cache, client, cat, log)
	if err != nil {
		log.Fatal("failed to create bot", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	checker := scheduler.New(tgBot.GetBot(), store, cat, scheduler.Options{
		Interval:     cfg.CheckInterval,
		MaxPerCheck:  cfg.MaxListingsPerCheck,
		ImageBaseURL: cfg.ImageBaseURL,
		SendDelay:    500 * time.Millisecond,
	}, log)

	go func() {
		if err := checker.Start(ctx); err != nil {
			log.Error("listing checker stopped with error", zap.Error(err))
		}
	}()

	log.Info("bot is running...")

	if err := tgBot.Start(ctx); err != nil {
		log.Error("bot stopped with error", zap.Error(err))
	}

	log.Info("bot stopped")
}
