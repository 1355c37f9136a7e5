package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/eventbroker/nats"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/handlers/http/chi"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/handlers/http/chi/upload"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/handlers/http/chi/v1/document"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/repository/postgres"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/storage/filesystem"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/storage/minio"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/config"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/port"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/service/cleanup"
	documentservice "github.com/toyzinger/toyzinger-pim-sub000/internal/core/service/document"
	uploadservice "github.com/toyzinger/toyzinger-pim-sub000/internal/core/service/upload"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// .env is optional, real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to read .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := initDB(cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}(db)
	logger.Info("db connection established")

	//storage
	fileStorage, err := initStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to init storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	logger.Info("storage initialized", "driver", cfg.Storage.Driver)

	//events
	var publisher port.EventPublisher
	if cfg.NATS.URL != "" {
		natsPublisher, err := nats.NewNATSPublisher(ctx, cfg.NATS, logger)
		if err != nil {
			logger.Error("failed to create NATS publisher", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := natsPublisher.Close(); err != nil {
				logger.Error("failed to close NATS publisher", "error", err)
			}
		}()
		publisher = natsPublisher
		logger.Info("NATS publisher initialized", "stream", cfg.NATS.StreamName)
	}

	//repositories
	unitOfWork := postgres.NewUnitOfWork(db)
	documentRepo := postgres.NewSqlDocumentRepository(db)

	documentService := documentservice.NewDocumentService(documentRepo, logger)
	uploadService := uploadservice.NewUploadService(fileStorage, publisher, cfg.Upload, logger)
	cleanupService := cleanup.NewCleanupService(unitOfWork, fileStorage, logger)

	//http
	documentHandler := document.NewDocumentHandlerV1(documentService, logger)
	uploadHandler := upload.NewHandler(uploadService, cfg.Upload, logger)

	if cfg.Auth.JWTSecret == "" {
		logger.Warn("AUTH_JWT_SECRET is empty, mutating routes are not protected")
	}

	router := chi.NewRouter(logger, uploadHandler, documentHandler, cfg.Env.Env, cfg.Auth.JWTSecret)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	// init cleanup task
	if cfg.Upload.CleanupEvery > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			initCleanupTask(ctx, cleanupService, cfg.Upload.CleanupEvery, logger)
		}()
	}

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()
	logger.Info("app shutdown complete")

}

func initStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (port.FileStorage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMinio:
		return minio.NewAdapter(ctx, cfg.Minio, logger)
	default:
		return filesystem.NewAdapter(cfg.Upload.Dir, logger)
	}
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

func initCleanupTask(ctx context.Context, service port.CleanupService, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	logger.Info("cleanup task initialized", "interval", every)

	for {
		select {
		case <-ticker.C:
			logger.Info("cleanup task starting")
			removed, err := service.CleanupOrphanImages(ctx)
			if err != nil {
				logger.Error("failed to cleanup orphan images", "error", err)
			} else {
				logger.Info("cleanup task completed successfully", "removed", removed)
			}
		case <-ctx.Done():
			logger.Info("cleanup task stopped")
			return
		}
	}

}
