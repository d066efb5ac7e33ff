package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/voteledger/roundvote/cliparse"
	"github.com/voteledger/roundvote/coordinator"
	"github.com/voteledger/roundvote/db"
	"github.com/voteledger/roundvote/ledger"
	"github.com/voteledger/roundvote/metrics"
	"github.com/voteledger/roundvote/middleware"
	"github.com/voteledger/roundvote/router"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect and verify
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(ctx, dbConn); err != nil {
		return err
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	store := ledger.NewStore(dbConn, cfg.DatabaseType)

	var (
		sink           metrics.Sink = metrics.Nop{}
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		reg := metrics.NewRegistry()
		sink = metrics.NewPrometheus(reg, "roundvote")
		metricsHandler = metrics.Handler(reg)
	}

	coord := coordinator.New(store, sink, coordinator.Config{
		Timeout:   cfg.StoreTimeout,
		VoterSalt: cfg.VoterTokenSalt,
		Logger:    slog.Default(),
	})

	if _, err := coord.RestoreOpenRounds(ctx); err != nil {
		slog.Warn("failed to restore open rounds", "error", err)
	}

	server := &http.Server{
		Handler:           middleware.CORS(router.NewRouter(coord, metricsHandler)),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("Shutting down")
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("Server closed")
	return nil
}
