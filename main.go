package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	addr := flag.String("addr", cfg.Addr, "HTTP listen address (overrides PORT)")
	flag.Parse()

	log, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	ledger, err := OpenLedger(cfg.LedgerPath, log.Named("ledger"))
	if err != nil {
		return err
	}
	defer ledger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	game := NewGame(cfg.Game, log.Named("game"), ledger)
	go game.Run(ctx)

	hub := NewHub(game, log.Named("hub"), cfg.MaxConnsPerIP, cfg.MaxConns)
	go hub.Run(ctx)

	server := &http.Server{Addr: *addr, Handler: SetupRoutes(hub, ledger, cfg.PublicURL)}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting",
			zap.String("addr", *addr),
			zap.Float64("arena", cfg.Game.ArenaSize),
			zap.Int("tick_rate", cfg.Game.TickRate),
		)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
