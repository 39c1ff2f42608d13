package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/spacesedan/centiment-forwarder/config"
	"github.com/spacesedan/centiment-forwarder/internal/clients"
	"github.com/spacesedan/centiment-forwarder/internal/clients/kafka_client"
	"github.com/spacesedan/centiment-forwarder/internal/consumers"
	"github.com/spacesedan/centiment-forwarder/internal/forwarder"
	"github.com/spacesedan/centiment-forwarder/internal/logging"
	"github.com/spacesedan/centiment-forwarder/internal/monitoring"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	logging.InitLogger(cfg.LogLevel)
	if err != nil {
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	wh, closeWarehouse, err := clients.NewWarehouse(context.Background(), cfg)
	if err != nil {
		slog.Error("[Main] Failed to connect to warehouse", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeWarehouse()

	fw := forwarder.New(forwarder.FromConfig(cfg), wh)

	var warehouseHealthy atomic.Bool
	warehouseHealthy.Store(true)
	go monitoring.MonitorWarehouseHealth(ctx, wh, fw.Config().Dataset,
		monitoring.HEALTHCHECK_TIMER, fw.Config().CallTimeout, &warehouseHealthy)

	consumer, err := kafka_client.NewConsumer(kafka_client.GetKafkaConfig(cfg))
	if err != nil {
		slog.Error("[Main] Failed to start consumer", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer consumer.Close()

	err = consumers.StartSentimentConsumer(ctx, fw,
		kafka_client.NewKafkaMessageIterator(ctx, consumer),
		kafka_client.NewCommitHandler(ctx, consumer))
	if err != nil {
		slog.Error("[Main] Consumer stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("[Main] Consumer shut down", slog.Bool("warehouse_healthy", warehouseHealthy.Load()))
}
