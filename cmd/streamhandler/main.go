package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/spacesedan/centiment-forwarder/config"
	"github.com/spacesedan/centiment-forwarder/internal/clients"
	"github.com/spacesedan/centiment-forwarder/internal/forwarder"
	"github.com/spacesedan/centiment-forwarder/internal/logging"
	"github.com/spacesedan/centiment-forwarder/internal/streams"
)

var fw *forwarder.Forwarder

// init runs once per Lambda cold start
func init() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	logging.InitLogger(cfg.LogLevel)
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	fw, err = clients.GetForwarder(context.Background(), cfg)
	if err != nil {
		slog.Error("Failed to initialize forwarder", "error", err)
		os.Exit(1)
	}

	slog.Info("Initialization complete.", "environment", env, "warehouse", cfg.Warehouse)
}

// HandleRequest forwards every INSERT record in a DynamoDB stream batch. The
// first failure fails the batch; Lambda redelivers it and the warehouse drops
// rows it has already seen by insert ID.
func HandleRequest(ctx context.Context, event events.DynamoDBEvent) error {
	slog.Info("Received DynamoDB event", "recordCount", len(event.Records))

	for _, record := range event.Records {
		slog.Debug("Processing record",
			"eventId", record.EventID,
			"eventName", record.EventName,
			"eventSourceArn", record.EventSourceArn)

		if err := streams.ProcessSentimentRecord(ctx, fw, record); err != nil {
			slog.Error("Error processing sentiment record, failing batch.", "eventId", record.EventID, "error", err)
			return err
		}
	}

	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
