package consumers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/spacesedan/centiment-forwarder/internal/clients/kafka_client"
	"github.com/spacesedan/centiment-forwarder/internal/streams"
)

// StartSentimentConsumer forwards each message on the created-sentiments
// topic, one at a time, and commits its offset once the forward attempt has
// finished. It returns nil when ctx is cancelled.
//
// A failed forward is logged and committed like any other message: the topic
// offers no per-message redelivery, and the forwarder does not retry.
func StartSentimentConsumer(ctx context.Context, fw streams.Forwarder, iterator *kafka_client.KafkaMessageIterator, committer *kafka_client.KafkaCommitHandler) error {
	slog.Info("[SentimentConsumer] Listening for messages...")

	for {
		msg, err := iterator.Next()
		if err != nil {
			if ctx.Err() != nil {
				slog.Warn("[SentimentConsumer] Stopping consumer...")
				return nil
			}
			return err
		}

		handleMessage(ctx, fw, msg)

		if err := committer.Commit(msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			slog.Warn("[SentimentConsumer] Failed to commit offset",
				slog.String("error", err.Error()))
		}
	}
}

func handleMessage(ctx context.Context, fw streams.Forwarder, msg *kafka.Message) {
	doc, err := streams.DecodeSentimentMessage(msg.Key, msg.Value)
	if err != nil {
		slog.Warn("[SentimentConsumer] Failed to deserialize message, skipping...",
			slog.String("offset", msg.TopicPartition.Offset.String()),
			slog.String("error", err.Error()))
		return
	}

	if err := fw.Forward(ctx, doc); err != nil {
		slog.Error("[SentimentConsumer] Forward failed",
			slog.String("id", doc.ID),
			slog.String("error", err.Error()))
	}
}
