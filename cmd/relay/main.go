package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/asistoya/shared-services/internal/adapters/messaging"
	"github.com/asistoya/shared-services/internal/adapters/metrics"
	"github.com/asistoya/shared-services/internal/adapters/postgres"
	"github.com/asistoya/shared-services/internal/adapters/pushrelay"
	"github.com/asistoya/shared-services/internal/adapters/realtime"
	"github.com/asistoya/shared-services/internal/config"
	"github.com/asistoya/shared-services/internal/core/domain"
	"github.com/asistoya/shared-services/internal/core/services"
	"github.com/asistoya/shared-services/internal/logger"
)

const tag = "relay"

func main() {
	logger.Info(tag, "starting push relay")

	cfg := config.LoadRelayConfig()

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error(tag, "failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	m := metrics.New(prometheus.DefaultRegisterer)
	store := postgres.NewStore(db, m)
	feed := realtime.NewFeed(cfg.DatabaseURL, store, m)
	defer feed.Close()

	broker, err := messaging.NewRabbitMQBroker(cfg.RabbitMQURL, cfg.PushQueueName, cfg.MailQueueName)
	if err != nil {
		logger.Error(tag, "failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer broker.Close()
	logger.Info(tag, "connected to RabbitMQ", "queue", cfg.PushQueueName)

	notes := services.NewNotificationService(store, feed, domain.SystemClock{})
	worker := pushrelay.NewRelay(feed, notes, broker, pushrelay.Options{Metrics: m})

	mux := http.NewServeMux()
	mux.HandleFunc("/health", probe(worker.IsHealthy))
	mux.HandleFunc("/health/ready", probe(worker.IsReady))
	mux.Handle("/metrics", promhttp.Handler())

	probeServer := &http.Server{
		Addr:              ":8090",
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info(tag, "starting probe server", "addr", probeServer.Addr)
		if err := probeServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(tag, "probe server error", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		if err := worker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info(tag, "received signal, shutting down", "signal", sig.String())
	case err := <-errChan:
		logger.Error(tag, "relay failed, shutting down", "error", err)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := probeServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn(tag, "probe server shutdown", "error", err)
	}

	logger.Success(tag, "shutdown complete")
}

func probe(check func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, code := "UP", http.StatusOK
		if !check() {
			status, code = "DOWN", http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":    status,
			"component": "push-relay",
		})
	}
}
