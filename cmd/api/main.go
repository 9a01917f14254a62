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

	"convertly-go/internal/codec"
	"convertly-go/internal/config"
	"convertly-go/internal/logger"
	"convertly-go/internal/server"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("Convertly %s\n", formatVersionInfo())
		return
	}

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Server stopped with error")
	}
	log.Info().Msg("Server shutdown completed")
}

func run() error {
	// Logger comes first so config errors are readable
	env := os.Getenv("APP_ENV")
	if env == "local" || env == "development" {
		logger.Init("development")
	} else {
		logger.Init("production")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	cfg.Version = version
	logger.Init(cfg.Env)

	log.Info().
		Str("environment", cfg.Env).
		Str("log_level", zerolog.GlobalLevel().String()).
		Str("version", version).
		Str("commit", commit).
		Str("built", date).
		Msg("Starting Convertly")
	cfg.Log()

	c, err := codec.New(cfg.CodecBackend)
	if err != nil {
		return fmt.Errorf("initializing %q codec: %w", cfg.CodecBackend, err)
	}

	srv, err := server.NewServer(cfg, c)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	httpServer, err := srv.Start()
	if err != nil {
		return fmt.Errorf("starting server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("url", cfg.BaseURL).Msg("Server is ready to handle requests")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		log.Info().Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// In-flight conversions get the drain period to finish
	httpServer.SetKeepAlivesEnabled(false)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func formatVersionInfo() string {
	return fmt.Sprintf(`Version: %s
Commit: %s
Built: %s`, version, commit, date)
}
