package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"fulfillment/cmd"
	kafkain "fulfillment/internal/adapters/in/kafka"
	"fulfillment/internal/adapters/out/badger"
	"fulfillment/internal/adapters/out/notification"

	"github.com/labstack/gommon/log"
)

// The notifier consumes lifecycle events and hands each one to the
// notification sink at most once.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	configs, err := cmd.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	obs, err := cmd.SetupObservability(ctx, configs)
	if err != nil {
		log.Fatalf("Error setting up telemetry: %v", err)
	}
	logger := obs.Logger.With("component", "notifier")

	dedup, err := badger.Open(configs.DedupDir, configs.DedupTTL)
	if err != nil {
		log.Fatalf("Error opening dedup store: %v", err)
	}

	handler := kafkain.NewNotificationHandler(dedup, notification.NewLogSink(obs.Logger), obs.Logger)
	consumer := kafkain.NewConsumer(configs.KafkaBrokers, configs.KafkaLifecycleTopic, configs.KafkaConsumerGroup)

	logger.Info("Consuming lifecycle events",
		"topic", configs.KafkaLifecycleTopic, "group", configs.KafkaConsumerGroup)
	if err := consumer.Consume(ctx, handler.Handle); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Consumer stopped", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := consumer.Close(); err != nil {
		logger.Error("Closing consumer failed", "error", err)
	}
	if err := dedup.Close(); err != nil {
		logger.Error("Closing dedup store failed", "error", err)
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		logger.Error("Telemetry shutdown failed", "error", err)
	}
}
