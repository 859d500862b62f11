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

	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/config"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/infra"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/router"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		// Redis powers the catalog cache and the batch DLQ; the engine runs
		// without either.
		log.Warn().Err(err).Msg("redis unavailable, cache and DLQ disabled")
		rdb = nil
	}

	cb := infra.NewCircuitBreaker(infra.DefaultCBConfig())

	app := router.New(cfg, db, rdb, cb)

	// Hydrate the board and persist the startup normalization pass before
	// accepting traffic.
	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := app.Menu.LoadBoard(startCtx); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("load board")
	}
	cancel()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      app.Engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("bye")
}
