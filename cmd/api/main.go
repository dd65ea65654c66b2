package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"example.com/strengthlog/internal/api"
	"example.com/strengthlog/internal/config"
	"example.com/strengthlog/internal/importer"
	"example.com/strengthlog/internal/outbox"
	"example.com/strengthlog/internal/persistence/postgres"
	httptransport "example.com/strengthlog/internal/transport/http"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.RunMigrations {
		if err := postgres.RunMigrations(ctx, cfg.PostgresURL); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	activities := postgres.NewActivitiesRepo(pool)
	activityEvents := postgres.NewActivityEventsRepo(pool)
	users := postgres.NewUsersRepo(pool)
	maintenance := postgres.NewMaintenance(pool)
	recorder := postgres.NewOutboxRecorder(pool)

	producer := outbox.NewKafkaProducer(cfg.KafkaBrokers)
	defer producer.Close()

	dispatcher := outbox.NewDispatcher(pool, producer, cfg.OutboxPollInterval, cfg.OutboxBatchSize)
	go dispatcher.Start(ctx)

	imp := importer.NewImporter(activities, activityEvents, recorder)
	fetcher := importer.NewHTTPFetcher(cfg.StrengthURL, cfg.FetchTimeout)

	handler := api.NewHandler(activities, activityEvents, users, imp, fetcher, maintenance)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	cors := httptransport.CORS(cfg.CORSOrigin)
	server := httptransport.NewServer(httptransport.ServerConfig{
		Address: cfg.HTTPAddress,
		// Imports fetch and persist a whole sheet in one request.
		WriteTimeout: 60 * time.Second,
	}, httptransport.RequestLogger(cors(mux)))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("strengthlog listening on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	dispatcher.Wait()
}
