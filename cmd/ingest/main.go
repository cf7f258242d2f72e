// Command ingest serves the incident upload form and writes every accepted
// spreadsheet row to the configured store.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	firebaseadapter "github.com/couchcryptid/incident-ingest-service/internal/adapter/firebase"
	httpadapter "github.com/couchcryptid/incident-ingest-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/incident-ingest-service/internal/adapter/kafka"
	"github.com/couchcryptid/incident-ingest-service/internal/adapter/sqlstore"
	"github.com/couchcryptid/incident-ingest-service/internal/config"
	"github.com/couchcryptid/incident-ingest-service/internal/observability"
	"github.com/couchcryptid/incident-ingest-service/internal/pipeline"
	"github.com/couchcryptid/incident-ingest-service/internal/pushid"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err := run(cfg, logger); err != nil {
		logger.Error("service stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics()

	store, closer, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	logger.Info("store opened", "backend", cfg.StoreBackend)

	archiver, err := pipeline.NewArchiver(cfg.UploadDir)
	if err != nil {
		return err
	}

	writer := pipeline.NewWriter(store, logger, metrics, cfg.WriteTimeout)
	ingester := pipeline.NewIngester(writer, archiver, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, ingester, pipeline.NewStoreReadiness(store), logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
		if err := writer.Drain(shutdownCtx); err != nil {
			// Closing the store now would fail the writes still running.
			logger.Error("incident writes still in flight at shutdown, store left open", "error", err)
			return nil
		}
		if err := closer.Close(); err != nil {
			logger.Error("store close error", "error", err)
		}

		logger.Info("shutdown complete")
		return nil
	})

	return g.Wait()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openStore builds the backend named by STORE_BACKEND. Every backend shares
// the same push key generator.
func openStore(ctx context.Context, cfg *config.Config) (pipeline.Store, io.Closer, error) {
	keys := pushid.New()

	switch cfg.StoreBackend {
	case config.BackendFirebase:
		s, err := firebaseadapter.NewStore(ctx, firebaseadapter.Config{
			DatabaseURL:     cfg.FirebaseDatabaseURL,
			ProjectID:       cfg.FirebaseProjectID,
			CredentialsFile: cfg.FirebaseCredentialsFile,
			Path:            cfg.FirebaseIncidentsPath,
		}, keys)
		if err != nil {
			return nil, nil, err
		}
		return s, nopCloser{}, nil
	case config.BackendKafka:
		s := kafkaadapter.NewStore(cfg.KafkaBrokers, cfg.KafkaTopic, keys)
		return s, s, nil
	case config.BackendSQLite:
		s, err := sqlstore.OpenSQLite(ctx, cfg.SQLitePath, keys)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.BackendPostgres:
		s, err := sqlstore.OpenPostgres(ctx, cfg.DatabaseURL, keys)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
