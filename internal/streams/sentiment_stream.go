package streams

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/spacesedan/centiment-forwarder/internal/models"
)

// ProcessSentimentRecord forwards the sentiment document carried by a
// DynamoDB stream INSERT record. Other event names are skipped.
func ProcessSentimentRecord(ctx context.Context, fw Forwarder, record events.DynamoDBEventRecord) error {
	if record.EventName != string(events.DynamoDBOperationTypeInsert) {
		slog.Debug("Skipping non-INSERT event for sentiment record", "eventId", record.EventID, "eventName", record.EventName)
		return nil
	}

	var doc models.SentimentDocument
	if err := UnmarshalEventStreamImage(record.Change.NewImage, &doc); err != nil {
		slog.Error("Failed to unmarshal sentiment document from DynamoDB stream record",
			"eventId", record.EventID,
			"error", err.Error())
		return err
	}

	if doc.ID == "" {
		if id, ok := record.Change.Keys["id"]; ok && id.DataType() == events.DataTypeString {
			doc.ID = id.String()
		}
	}
	if doc.ID == "" {
		slog.Error("Sentiment record has no id", "eventId", record.EventID)
		return errors.New("sentiment record has no id")
	}

	return fw.Forward(ctx, doc)
}
