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

	"github.com/opensearch-project/opensearch-go/v4"
)

type opensearchStub struct {
	mu      sync.Mutex
	indexed map[string][]byte
	indices map[string]bool
	health  int
}

func (s *opensearchStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	path := strings.Trim(r.URL.Path, "/")
	parts := strings.Split(path, "/")

	switch {
	case path == "":
		w.Write([]byte(`{"version":{"number":"2.11.0","distribution":"opensearch"}}`))
	case path == "_cluster/health":
		w.WriteHeader(s.health)
		w.Write([]byte(`{"status":"green"}`))
	case r.Method == http.MethodHead && len(parts) == 1:
		if !s.indices[parts[0]] {
			w.WriteHeader(http.StatusNotFound)
		}
	case len(parts) == 3 && parts[1] == "_doc":
		body, _ := io.ReadAll(r.Body)
		s.indexed[parts[0]+"/"+parts[2]] = body
		s.indices[parts[0]] = true
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"result":"created"}`))
	default:
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"unexpected request"}`))
	}
}

func newTestOpensearch(t *testing.T, stub *opensearchStub) *Opensearch {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	client, err := NewOpensearch(opensearch.Config{Addresses: []string{srv.URL}})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestIndexName(t *testing.T) {
	if got := IndexName("Centiment", "Sentiments"); got != "centiment-sentiments" {
		t.Errorf("expected 'centiment-sentiments', got %q", got)
	}
}

func TestOpensearchInsertUsesInsertIDAsDocumentID(t *testing.T) {
	stub := &opensearchStub{indexed: map[string][]byte{}, indices: map[string]bool{}, health: http.StatusOK}
	client := newTestOpensearch(t, stub)

	if err := client.Insert(context.Background(), "centiment", "sentiments", testRow()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body, ok := stub.indexed["centiment-sentiments/abc123"]
	if !ok {
		t.Fatalf("expected document centiment-sentiments/abc123, got %v", stub.indexed)
	}

	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		t.Fatalf("failed to decode indexed body: %v", err)
	}
	if doc["id"] != "abc123" || doc["fetchedAt"] != "2024-01-01T00:00:00Z" {
		t.Errorf("unexpected indexed document: %v", doc)
	}
}

func TestOpensearchTableExists(t *testing.T) {
	stub := &opensearchStub{indexed: map[string][]byte{}, indices: map[string]bool{}, health: http.StatusOK}
	client := newTestOpensearch(t, stub)
	ctx := context.Background()

	if err := client.TableExists(ctx, "centiment", "sentiments"); err == nil {
		t.Error("expected missing index to be reported")
	}

	stub.indices["centiment-sentiments"] = true
	if err := client.TableExists(ctx, "centiment", "sentiments"); err != nil {
		t.Errorf("expected index to exist, got %v", err)
	}
}

func TestOpensearchDatasetExistsUsesClusterHealth(t *testing.T) {
	stub := &opensearchStub{indexed: map[string][]byte{}, indices: map[string]bool{}, health: http.StatusOK}
	client := newTestOpensearch(t, stub)

	if err := client.DatasetExists(context.Background(), "centiment"); err != nil {
		t.Errorf("expected healthy cluster, got %v", err)
	}

	stub.mu.Lock()
	stub.health = http.StatusUnauthorized
	stub.mu.Unlock()

	if err := client.DatasetExists(context.Background(), "centiment"); err == nil {
		t.Error("expected unhealthy cluster to be reported")
	}
}
