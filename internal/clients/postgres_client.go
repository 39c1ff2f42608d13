package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spacesedan/centiment-forwarder/internal/models"
)

// pgExecer is the subset of pgxpool.Pool the Postgres warehouse uses.
type pgExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres maps a dataset to a schema and a table to a table in that schema.
// Rows carry an insert_id column with a unique constraint; repeated inserts
// are ignored.
type Postgres struct {
	DB pgExecer
}

func NewPostgres(ctx context.Context, dsn string) (*Postgres, *pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("[PostgresClient] failed to create client: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("[PostgresClient] failed to ping PostgreSQL: %w", err)
	}

	slog.Info("[PostgresClient] Connected to PostgreSQL successfully")
	return &Postgres{DB: pool}, pool, nil
}

const schemaExistsSQL = `SELECT EXISTS (SELECT 1 FROM information_schema.schemata WHERE schema_name = $1)`

const tableExistsSQL = `SELECT EXISTS (
	SELECT 1 FROM information_schema.tables WHERE table_schema = $1 AND table_name = $2
)`

func (p *Postgres) DatasetExists(ctx context.Context, dataset string) error {
	var exists bool
	if err := p.DB.QueryRow(ctx, schemaExistsSQL, dataset).Scan(&exists); err != nil {
		return fmt.Errorf("schema %s: %w", dataset, err)
	}
	if !exists {
		return fmt.Errorf("schema %s: not found", dataset)
	}
	return nil
}

func (p *Postgres) TableExists(ctx context.Context, dataset, table string) error {
	var exists bool
	if err := p.DB.QueryRow(ctx, tableExistsSQL, dataset, table).Scan(&exists); err != nil {
		return fmt.Errorf("table %s.%s: %w", dataset, table, err)
	}
	if !exists {
		return fmt.Errorf("table %s.%s: not found", dataset, table)
	}
	return nil
}

func (p *Postgres) Insert(ctx context.Context, dataset, table string, row models.InsertRow) error {
	sql := insertSQL(dataset, table)
	values := row.Body.Values()

	args := make([]any, 0, len(models.WarehouseColumns)+1)
	args = append(args, row.InsertID)
	for _, col := range models.WarehouseColumns {
		args = append(args, values[col])
	}

	tag, err := p.DB.Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return fmt.Errorf("insert into %s.%s: %s (%s): %w", dataset, table, pgErr.Message, pgErr.Code, err)
		}
		return fmt.Errorf("insert into %s.%s: %w", dataset, table, err)
	}

	if tag.RowsAffected() == 0 {
		slog.Debug("[PostgresClient] Duplicate insert ignored", slog.String("insert_id", row.InsertID))
	}
	return nil
}

func insertSQL(dataset, table string) string {
	cols := make([]string, 0, len(models.WarehouseColumns)+1)
	params := make([]string, 0, len(models.WarehouseColumns)+1)

	cols = append(cols, pgx.Identifier{"insert_id"}.Sanitize())
	params = append(params, "$1")
	for i, col := range models.WarehouseColumns {
		cols = append(cols, pgx.Identifier{col}.Sanitize())
		params = append(params, fmt.Sprintf("$%d", i+2))
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (insert_id) DO NOTHING",
		pgx.Identifier{dataset, table}.Sanitize(),
		strings.Join(cols, ", "),
		strings.Join(params, ", "))
}
