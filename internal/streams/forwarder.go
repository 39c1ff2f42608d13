package streams

import (
	"context"

	"github.com/spacesedan/centiment-forwarder/internal/models"
)

// Forwarder is implemented by *forwarder.Forwarder.
type Forwarder interface {
	Forward(ctx context.Context, doc models.SentimentDocument) error
}
