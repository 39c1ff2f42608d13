package streams

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cloudevents/sdk-go/v2/event"
	"github.com/googleapis/google-cloudevents-go/cloud/firestoredata"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/spacesedan/centiment-forwarder/internal/models"
)

// FirestoreCreatedEvent is the CloudEvent type emitted when a document is created.
const FirestoreCreatedEvent = "google.cloud.firestore.document.v1.created"

// ErrNotCreateEvent is returned for Firestore events that do not describe a
// newly created document.
var ErrNotCreateEvent = errors.New("not a document create event")

// DecodeFirestoreEvent extracts the created sentiment document from a
// Firestore CloudEvent. The payload may be protobuf or, when the content type
// says so, JSON.
func DecodeFirestoreEvent(e event.Event) (models.SentimentDocument, error) {
	var doc models.SentimentDocument

	if t := e.Type(); t != "" && t != FirestoreCreatedEvent {
		return doc, fmt.Errorf("%w: type %s", ErrNotCreateEvent, t)
	}

	var data firestoredata.DocumentEventData
	if strings.HasPrefix(e.DataContentType(), "application/json") {
		if err := protojson.Unmarshal(e.Data(), &data); err != nil {
			return doc, fmt.Errorf("failed to decode firestore event json: %w", err)
		}
	} else {
		if err := proto.Unmarshal(e.Data(), &data); err != nil {
			return doc, fmt.Errorf("failed to decode firestore event: %w", err)
		}
	}

	value := data.GetValue()
	if value == nil || data.GetOldValue() != nil {
		return doc, ErrNotCreateEvent
	}

	doc.ID = documentID(value.GetName())
	if doc.ID == "" {
		doc.ID = documentID(e.Subject())
	}
	if doc.ID == "" {
		return doc, errors.New("firestore event has no document name")
	}

	fields := value.GetFields()
	var err error
	if doc.Count, err = intField(fields, "count"); err != nil {
		return doc, err
	}
	if doc.FetchedAt, err = timeField(fields, "fetchedAt"); err != nil {
		return doc, err
	}
	if doc.LastSeenID, err = stringField(fields, "lastSeenID"); err != nil {
		return doc, err
	}
	if doc.Score, err = floatField(fields, "score"); err != nil {
		return doc, err
	}
	if doc.Variance, err = floatField(fields, "variance"); err != nil {
		return doc, err
	}
	if doc.StdDev, err = floatField(fields, "stdDev"); err != nil {
		return doc, err
	}
	if doc.SearchTerm, err = stringField(fields, "searchTerm"); err != nil {
		return doc, err
	}
	if doc.Query, err = stringField(fields, "query"); err != nil {
		return doc, err
	}
	if doc.Topic, err = stringField(fields, "topic"); err != nil {
		return doc, err
	}

	return doc, nil
}

// documentID returns the last segment of a document resource name such as
// projects/p/databases/(default)/documents/sentiments/abc123.
func documentID(name string) string {
	name = strings.TrimSuffix(name, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Missing and null fields decode to the zero value.

func intField(fields map[string]*firestoredata.Value, key string) (int64, error) {
	switch v := fields[key].GetValueType().(type) {
	case nil, *firestoredata.Value_NullValue:
		return 0, nil
	case *firestoredata.Value_IntegerValue:
		return v.IntegerValue, nil
	case *firestoredata.Value_DoubleValue:
		x := v.DoubleValue
		if math.Trunc(x) != x || x < math.MinInt64 || x >= math.MaxInt64 {
			return 0, fmt.Errorf("field %s: not an integer: %v", key, x)
		}
		return int64(x), nil
	default:
		return 0, fmt.Errorf("field %s: unexpected type %T", key, v)
	}
}

func floatField(fields map[string]*firestoredata.Value, key string) (float64, error) {
	switch v := fields[key].GetValueType().(type) {
	case nil, *firestoredata.Value_NullValue:
		return 0, nil
	case *firestoredata.Value_DoubleValue:
		return v.DoubleValue, nil
	case *firestoredata.Value_IntegerValue:
		return float64(v.IntegerValue), nil
	default:
		return 0, fmt.Errorf("field %s: unexpected type %T", key, v)
	}
}

func stringField(fields map[string]*firestoredata.Value, key string) (string, error) {
	switch v := fields[key].GetValueType().(type) {
	case nil, *firestoredata.Value_NullValue:
		return "", nil
	case *firestoredata.Value_StringValue:
		return v.StringValue, nil
	case *firestoredata.Value_IntegerValue:
		return strconv.FormatInt(v.IntegerValue, 10), nil
	default:
		return "", fmt.Errorf("field %s: unexpected type %T", key, v)
	}
}

func timeField(fields map[string]*firestoredata.Value, key string) (time.Time, error) {
	switch v := fields[key].GetValueType().(type) {
	case nil, *firestoredata.Value_NullValue:
		return time.Time{}, nil
	case *firestoredata.Value_TimestampValue:
		return v.TimestampValue.AsTime(), nil
	case *firestoredata.Value_StringValue:
		t, err := time.Parse(time.RFC3339Nano, v.StringValue)
		if err != nil {
			return time.Time{}, fmt.Errorf("field %s: %w", key, err)
		}
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("field %s: unexpected type %T", key, v)
	}
}
