package clients

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/option"

	"github.com/spacesedan/centiment-forwarder/internal/models"
)

// BigQuery forwards rows with the streaming insert API.
type BigQuery struct {
	Client *bigquery.Client
}

func NewBigQuery(ctx context.Context, projectID string, opts ...option.ClientOption) (*BigQuery, error) {
	slog.Info("[BigQueryClient] Initializing BigQuery client...", slog.String("project", projectID))

	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("[BigQueryClient] failed to create client: %w", err)
	}

	return &BigQuery{Client: client}, nil
}

func (b *BigQuery) DatasetExists(ctx context.Context, dataset string) error {
	if _, err := b.Client.Dataset(dataset).Metadata(ctx); err != nil {
		return fmt.Errorf("dataset %s: %w", dataset, err)
	}
	return nil
}

func (b *BigQuery) TableExists(ctx context.Context, dataset, table string) error {
	if _, err := b.Client.Dataset(dataset).Table(table).Metadata(ctx); err != nil {
		return fmt.Errorf("table %s.%s: %w", dataset, table, err)
	}
	return nil
}

// Insert streams a single row. The row is sent as-is; BigQuery matches it
// against the existing table schema and drops repeats of the same insert ID.
func (b *BigQuery) Insert(ctx context.Context, dataset, table string, row models.InsertRow) error {
	inserter := b.Client.Dataset(dataset).Table(table).Inserter()
	inserter.SkipInvalidRows = false
	inserter.IgnoreUnknownValues = false

	return inserter.Put(ctx, rowSaver(row))
}

func (b *BigQuery) Close() error {
	return b.Client.Close()
}

type rowSaver models.InsertRow

// Save implements bigquery.ValueSaver.
func (r rowSaver) Save() (map[string]bigquery.Value, string, error) {
	values := r.Body.Values()
	out := make(map[string]bigquery.Value, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out, r.InsertID, nil
}
