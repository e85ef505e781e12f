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

	"editor-board/internal/config"
	"editor-board/internal/imageproxy"
	"editor-board/internal/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadProxy()
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := imageproxy.NewS3Client(ctx, cfg)
	if err != nil {
		log.Fatal("failed to create s3 client", zap.Error(err))
	}

	handler := imageproxy.NewHandler(imageproxy.NewS3Store(client, cfg.S3Bucket), cfg.MaxAge, log)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      imageproxy.Recovery(log)(imageproxy.Logger(log)(handler)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info("image proxy listening",
			zap.String("addr", cfg.Addr),
			zap.String("bucket", cfg.S3Bucket),
			zap.Duration("max_age", cfg.MaxAge),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	log.Info("shutting down image proxy...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
	log.Info("image proxy stopped")
}
