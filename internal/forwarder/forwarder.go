package forwarder

import (
	"context"
	"log/slog"
	"time"

	"github.com/spacesedan/centiment-forwarder/config"
	"github.com/spacesedan/centiment-forwarder/internal/models"
)

// Warehouse is the analytical store sentiment rows are forwarded to.
type Warehouse interface {
	DatasetExists(ctx context.Context, dataset string) error
	TableExists(ctx context.Context, dataset, table string) error
	Insert(ctx context.Context, dataset, table string, row models.InsertRow) error
}

// Config names the insert target. Zero values fall back to the package
// defaults in config.
type Config struct {
	Dataset     string
	Table       string
	CallTimeout time.Duration
}

// FromConfig picks the forwarder settings out of the process config.
func FromConfig(cfg config.Config) Config {
	return Config{
		Dataset:     cfg.Dataset,
		Table:       cfg.Table,
		CallTimeout: cfg.CallTimeout,
	}
}

// Resolve returns c with defaults applied.
func (c Config) Resolve() Config {
	if c.Dataset == "" {
		c.Dataset = config.DefaultDataset
	}
	if c.Table == "" {
		c.Table = config.DefaultTable
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = config.DefaultCallTimeout
	}
	return c
}

// Forwarder appends newly created sentiment documents to a warehouse table.
// It holds no per-invocation state and is safe for concurrent use.
type Forwarder struct {
	cfg       Config
	warehouse Warehouse
	logger    *slog.Logger
}

// New creates a Forwarder writing to wh.
func New(cfg Config, wh Warehouse) *Forwarder {
	return &Forwarder{
		cfg:       cfg.Resolve(),
		warehouse: wh,
		logger:    slog.Default(),
	}
}

// WithLogger returns a copy of f that logs to logger.
func (f *Forwarder) WithLogger(logger *slog.Logger) *Forwarder {
	c := *f
	c.logger = logger
	return &c
}

// Config returns the resolved settings.
func (f *Forwarder) Config() Config {
	return f.cfg
}

// Forward inserts doc as a single warehouse row keyed by its ID.
//
// The dataset and table checks only log; a missing target shows up as an
// insert failure. An insert failure is logged and returned unchanged so the
// caller's runtime decides whether to redeliver.
func (f *Forwarder) Forward(ctx context.Context, doc models.SentimentDocument) error {
	dataset, table := f.cfg.Dataset, f.cfg.Table

	f.logger.Info("[Forwarder] New create event",
		slog.String("id", doc.ID),
		slog.String("dataset", dataset),
		slog.String("table", table))

	f.checkDataset(ctx, dataset)
	f.checkTable(ctx, dataset, table)

	row := models.Project(doc)

	callCtx, cancel := context.WithTimeout(ctx, f.cfg.CallTimeout)
	defer cancel()

	if err := f.warehouse.Insert(callCtx, dataset, table, row); err != nil {
		f.logger.Error("[Forwarder] Insert failed",
			slog.String("id", doc.ID),
			slog.String("dataset", dataset),
			slog.String("table", table),
			slog.String("error", err.Error()))
		return err
	}

	f.logger.Debug("[Forwarder] Row inserted", slog.String("id", doc.ID))
	return nil
}

func (f *Forwarder) checkDataset(ctx context.Context, dataset string) {
	callCtx, cancel := context.WithTimeout(ctx, f.cfg.CallTimeout)
	defer cancel()

	if err := f.warehouse.DatasetExists(callCtx, dataset); err != nil {
		f.logger.Warn("[Forwarder] Dataset does not exist",
			slog.String("dataset", dataset),
			slog.String("error", err.Error()))
	}
}

func (f *Forwarder) checkTable(ctx context.Context, dataset, table string) {
	callCtx, cancel := context.WithTimeout(ctx, f.cfg.CallTimeout)
	defer cancel()

	if err := f.warehouse.TableExists(callCtx, dataset, table); err != nil {
		f.logger.Warn("[Forwarder] Table does not exist",
			slog.String("dataset", dataset),
			slog.String("table", table),
			slog.String("error", err.Error()))
	}
}
