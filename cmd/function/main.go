// Command function serves the SentimentsToBQ CloudEvent function locally.
package main

import (
	"log/slog"
	"os"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"

	_ "github.com/spacesedan/centiment-forwarder"
)

func main() {
	port := "8080"
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}

	slog.Info("[Main] Starting functions framework", slog.String("port", port))
	if err := funcframework.Start(port); err != nil {
		slog.Error("[Main] funcframework.Start failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
