package clients

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/opensearch-project/opensearch-go/v4"
	"google.golang.org/api/option"

	"github.com/spacesedan/centiment-forwarder/config"
	"github.com/spacesedan/centiment-forwarder/internal/forwarder"
)

// NewWarehouse connects to the warehouse selected by cfg.Warehouse. The
// returned func releases the underlying client.
func NewWarehouse(ctx context.Context, cfg config.Config) (forwarder.Warehouse, func(), error) {
	switch cfg.Warehouse {
	case config.WarehouseBigQuery:
		bq, err := NewBigQuery(ctx, cfg.ProjectID, option.WithUserAgent(USER_AGENT))
		if err != nil {
			return nil, nil, err
		}
		return bq, func() { bq.Close() }, nil

	case config.WarehousePostgres:
		pg, pool, err := NewPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return pg, pool.Close, nil

	case config.WarehouseOpensearch:
		var (
			client *Opensearch
			err    error
		)
		if cfg.AppEnv == "prod" {
			awsCfg, awsErr := LoadAWSConfig(ctx, cfg.AWSRegion)
			if awsErr != nil {
				return nil, nil, awsErr
			}
			client, err = NewOpensearchSigV4(awsCfg, cfg.AWSOpensearchEndpoint)
		} else {
			client, err = NewOpensearch(opensearch.Config{
				Addresses: []string{cfg.OpensearchEndpoint},
				Username:  cfg.OpensearchUsername,
				Password:  cfg.OpensearchPassword,
			})
		}
		if err != nil {
			return nil, nil, err
		}
		return client, func() {}, nil

	case config.WarehouseDynamoDB:
		awsCfg, err := LoadAWSConfig(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, nil, err
		}
		return NewDynamoDB(awsCfg, cfg.AWSEndpoint), func() {}, nil
	}

	return nil, nil, fmt.Errorf("unknown warehouse %q", cfg.Warehouse)
}

var (
	forwarderInstance *forwarder.Forwarder
	forwarderMu       sync.Mutex
)

// GetForwarder builds the process-wide Forwarder on first use. Later calls
// return the same instance, so warm invocations reuse the warehouse client.
// A failed build is not cached; the next call tries again.
func GetForwarder(ctx context.Context, cfg config.Config) (*forwarder.Forwarder, error) {
	forwarderMu.Lock()
	defer forwarderMu.Unlock()

	if forwarderInstance != nil {
		return forwarderInstance, nil
	}

	wh, _, err := NewWarehouse(ctx, cfg)
	if err != nil {
		return nil, err
	}

	forwarderInstance = forwarder.New(forwarder.FromConfig(cfg), wh)
	slog.Info("[Forwarder] Initialized",
		slog.String("warehouse", cfg.Warehouse),
		slog.String("dataset", forwarderInstance.Config().Dataset),
		slog.String("table", forwarderInstance.Config().Table))

	return forwarderInstance, nil
}
