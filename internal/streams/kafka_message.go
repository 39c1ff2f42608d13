package streams

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spacesedan/centiment-forwarder/internal/models"
)

// sentimentMessage mirrors models.SentimentDocument on the wire. lastSeenID
// may arrive as a JSON string or number.
type sentimentMessage struct {
	ID         string          `json:"id"`
	Count      int64           `json:"count"`
	FetchedAt  time.Time       `json:"fetchedAt"`
	LastSeenID json.RawMessage `json:"lastSeenID"`
	Score      float64         `json:"score"`
	Variance   float64         `json:"variance"`
	StdDev     float64         `json:"stdDev"`
	SearchTerm string          `json:"searchTerm"`
	Query      string          `json:"query"`
	Topic      string          `json:"topic"`
}

// DecodeSentimentMessage decodes a JSON sentiment document published to the
// created-sentiments topic. The message key is used as the ID when the body
// has none.
func DecodeSentimentMessage(key, value []byte) (models.SentimentDocument, error) {
	var msg sentimentMessage

	dec := json.NewDecoder(bytes.NewReader(value))
	if err := dec.Decode(&msg); err != nil {
		return models.SentimentDocument{}, fmt.Errorf("failed to decode sentiment message: %w", err)
	}

	lastSeenID, err := rawIDString(msg.LastSeenID)
	if err != nil {
		return models.SentimentDocument{}, fmt.Errorf("lastSeenID: %w", err)
	}

	doc := models.SentimentDocument{
		ID:         msg.ID,
		Count:      msg.Count,
		FetchedAt:  msg.FetchedAt,
		LastSeenID: lastSeenID,
		Score:      msg.Score,
		Variance:   msg.Variance,
		StdDev:     msg.StdDev,
		SearchTerm: msg.SearchTerm,
		Query:      msg.Query,
		Topic:      msg.Topic,
	}
	if doc.ID == "" {
		doc.ID = string(key)
	}
	if doc.ID == "" {
		return doc, errors.New("sentiment message has no id")
	}

	return doc, nil
}

// rawIDString accepts a JSON string, integer or null.
func rawIDString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	if _, err := n.Int64(); err != nil {
		return "", fmt.Errorf("not an integer: %s", n)
	}
	return n.String(), nil
}
