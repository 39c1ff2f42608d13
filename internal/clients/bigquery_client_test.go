package clients

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"google.golang.org/api/option"

	"github.com/spacesedan/centiment-forwarder/internal/models"
)

func testRow() models.InsertRow {
	return models.Project(models.SentimentDocument{
		ID:         "abc123",
		Count:      5,
		FetchedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		LastSeenID: "x9",
		Score:      0.42,
		Variance:   0.01,
		StdDev:     0.1,
		SearchTerm: "brand",
		Query:      "brand OR brandname",
		Topic:      "brand",
	})
}

func TestRowSaver(t *testing.T) {
	values, insertID, err := rowSaver(testRow()).Save()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if insertID != "abc123" {
		t.Errorf("expected insert ID 'abc123', got %q", insertID)
	}
	if len(values) != len(models.WarehouseColumns) {
		t.Errorf("expected %d values, got %d", len(models.WarehouseColumns), len(values))
	}
	if values["id"] != "abc123" || values["query"] != "brand OR brandname" {
		t.Errorf("unexpected values: %v", values)
	}
}

type bigQueryStub struct {
	mu       sync.Mutex
	requests []string
	bodies   [][]byte
}

func (s *bigQueryStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path)
	s.bodies = append(s.bodies, body)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/insertAll"):
		w.Write([]byte(`{"kind":"bigquery#tableDataInsertAllResponse"}`))
	case strings.HasSuffix(r.URL.Path, "/datasets/missing"):
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"code":404,"message":"Not found: Dataset p:missing","status":"NOT_FOUND"}}`))
	default:
		http.NotFound(w, r)
	}
}

func newTestBigQuery(t *testing.T, stub *bigQueryStub) *BigQuery {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	bq, err := NewBigQuery(context.Background(), "p",
		option.WithEndpoint(srv.URL),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	t.Cleanup(func() { bq.Close() })
	return bq
}

func TestBigQueryInsertSendsInsertID(t *testing.T) {
	stub := &bigQueryStub{}
	bq := newTestBigQuery(t, stub)

	if err := bq.Insert(context.Background(), "centiment", "sentiments", testRow()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stub.requests) != 1 {
		t.Fatalf("expected 1 request, got %v", stub.requests)
	}
	if !strings.HasSuffix(stub.requests[0], "/datasets/centiment/tables/sentiments/insertAll") {
		t.Errorf("unexpected request %q", stub.requests[0])
	}

	var req struct {
		Rows []struct {
			InsertID string         `json:"insertId"`
			JSON     map[string]any `json:"json"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(stub.bodies[0], &req); err != nil {
		t.Fatalf("failed to decode insert body: %v", err)
	}
	if len(req.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(req.Rows))
	}
	if req.Rows[0].InsertID != "abc123" {
		t.Errorf("expected insertId 'abc123', got %q", req.Rows[0].InsertID)
	}
	if req.Rows[0].JSON["id"] != "abc123" || req.Rows[0].JSON["topic"] != "brand" {
		t.Errorf("unexpected row json: %v", req.Rows[0].JSON)
	}
}

func TestBigQueryDatasetExistsNotFound(t *testing.T) {
	stub := &bigQueryStub{}
	bq := newTestBigQuery(t, stub)

	err := bq.DatasetExists(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error for missing dataset")
	}
	if !strings.Contains(err.Error(), "dataset missing") {
		t.Errorf("expected error to name the dataset, got %v", err)
	}
}
