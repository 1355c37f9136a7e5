package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/eventbroker/nats"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/repository/postgres"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/config"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/service/reconcile"
)

// The reconciler removes image records whose file was deleted from the
// upload directory, driven by the files.deleted events of the API.
func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to read .env file", "error", err)
	}

	// Load config
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.NATS.URL == "" {
		logger.Error("NATS_URL is required by the reconciler")
		os.Exit(1)
	}

	// Initialize database
	db, err := initDB(cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()
	logger.Info("db connection established")

	unitOfWork := postgres.NewUnitOfWork(db)
	reconcileService := reconcile.NewReconcileService(unitOfWork, logger)

	// Initialize NATS consumer
	natsConsumer, err := nats.NewNATSConsumer(cfg.NATS, logger)
	if err != nil {
		logger.Error("failed to create NATS consumer", "error", err)
		os.Exit(1)
	}
	logger.Info("NATS consumer initialized", "stream", cfg.NATS.StreamName, "consumer", cfg.NATS.ConsumerName)

	// Subscribe to NATS
	if err := natsConsumer.Subscribe(ctx, reconcileService); err != nil {
		logger.Error("failed to subscribe to NATS", "error", err)
		_ = natsConsumer.Close()
		os.Exit(1)
	}
	logger.Info("NATS subscription active", "subject", cfg.NATS.Subject)

	// Wait for termination signal
	<-ctx.Done()
	logger.Info("gracefully shutting down reconciler")

	done := make(chan error, 1)
	go func() {
		done <- natsConsumer.Close()
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.Error("failed to close NATS consumer during shutdown", "error", err)
		}
	case <-time.After(10 * time.Second):
		logger.Info("shutdown timeout exceeded")
	}

	logger.Info("reconciler shutdown complete")
}

func initDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenCons)
	db.SetMaxIdleConns(cfg.MaxIdleCons)
	db.SetConnMaxLifetime(cfg.ConMaxLifeTime)

	return db, nil
}
