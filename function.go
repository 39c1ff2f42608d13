// Package centiment forwards newly created sentiment documents to an
// analytical warehouse table.
//
// The package registers the SentimentsToBQ CloudEvent function, triggered by
// document creation in the Firestore sentiments collection.
package centiment

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/spacesedan/centiment-forwarder/config"
	"github.com/spacesedan/centiment-forwarder/internal/clients"
	"github.com/spacesedan/centiment-forwarder/internal/logging"
	"github.com/spacesedan/centiment-forwarder/internal/streams"
)

func init() {
	functions.CloudEvent("SentimentsToBQ", SentimentsToBQ)
}

var (
	setupOnce sync.Once
	setupCfg  config.Config
	setupErr  error
)

// setup loads configuration and installs the logger once per instance.
func setup() (config.Config, error) {
	setupOnce.Do(func() {
		env := os.Getenv("APP_ENV")
		if env == "" {
			env = "dev"
		}
		config.LoadEnv(env)

		setupCfg, setupErr = config.Load()
		logging.InitLogger(setupCfg.LogLevel)
	})
	return setupCfg, setupErr
}

// SentimentsToBQ handles a Firestore document-created CloudEvent. An insert
// failure is returned to the runtime, which redelivers the event when
// retries are enabled on the trigger.
func SentimentsToBQ(ctx context.Context, e event.Event) error {
	cfg, err := setup()
	if err != nil {
		slog.Error("[SentimentsToBQ] Invalid configuration", slog.String("error", err.Error()))
		return err
	}

	// The warehouse client outlives this invocation, so it must not be
	// bound to the request context.
	fw, err := clients.GetForwarder(context.Background(), cfg)
	if err != nil {
		slog.Error("[SentimentsToBQ] Failed to initialize forwarder", slog.String("error", err.Error()))
		return err
	}

	return handleEvent(ctx, fw, e)
}

func handleEvent(ctx context.Context, fw streams.Forwarder, e event.Event) error {
	doc, err := streams.DecodeFirestoreEvent(e)
	if errors.Is(err, streams.ErrNotCreateEvent) {
		slog.Debug("[SentimentsToBQ] Skipping event", slog.String("eventId", e.ID()), slog.String("type", e.Type()))
		return nil
	}
	if err != nil {
		slog.Error("[SentimentsToBQ] Failed to decode event",
			slog.String("eventId", e.ID()),
			slog.String("error", err.Error()))
		return err
	}

	return fw.Forward(ctx, doc)
}
