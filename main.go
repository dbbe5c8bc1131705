package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mindreader/internal/config"
	"github.com/robalobadob/mindreader/internal/httpserver"
	"github.com/robalobadob/mindreader/internal/ledger"
	"github.com/robalobadob/mindreader/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	led, err := ledger.Open(ctx, cfg.LedgerDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open game ledger")
	}

	players := store.NewMemoryStore()
	go store.Sweeper(ctx, players, cfg.SweepInterval, cfg.IdleTimeout)

	srv := httpserver.New(cfg, players, led)
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting mindreader")
	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		_ = led.Close()
		os.Exit(0)
	}()
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
