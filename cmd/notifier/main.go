package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"mentorbook/internal/notifier"
	"mentorbook/pkg/app"
	"mentorbook/pkg/config"
	"mentorbook/pkg/kafka"
	kafka_config "mentorbook/pkg/kafka/config"
	kafka_middleware "mentorbook/pkg/kafka/middleware"
	"mentorbook/pkg/locale"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	if !kafkaCfg.Enabled {
		cfg.Log.Fatal("Notifier requires Kafka, set KAFKA_ENABLED=true")
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	n := notifier.NewLogNotifier(cfg.Log, locale.New(cfg.Location))
	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.Log,
		kafkaCfg.BookingEventsTopic,
		kafkaCfg.NotifierGroupID,
		kafkaCfg.BookingEventsDLQ,
		notifier.NewHandler(n, cfg.Log),
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka consumer", "error", err)
		}
	}()

	registry := prometheus.NewRegistry()
	if kafkaCfg.EnableMiddleware {
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
		consumer.Use(kafka_middleware.MetricsConsumerMiddleware(kafka_middleware.NewMetrics(registry, app.MetricsNamespace)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if cfg.MetricsEnabled {
		mux.Handle(cfg.MetricsPath, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cfg.Log.Info("Starting notifier consumer",
			"topic", kafkaCfg.BookingEventsTopic,
			"group_id", kafkaCfg.NotifierGroupID,
		)
		return consumer.Start(gctx)
	})
	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Fatal("Notifier stopped with error", "error", err)
	}
	cfg.Log.Info("Notifier stopped gracefully")
}
