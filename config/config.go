package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	DefaultDataset     = "centiment"
	DefaultTable       = "sentiments"
	DefaultCallTimeout = 10 * time.Second
	DefaultWarehouse   = WarehouseBigQuery
	DefaultAWSRegion   = "us-west-2"
)

const (
	WarehouseBigQuery   = "bigquery"
	WarehouseOpensearch = "opensearch"
	WarehousePostgres   = "postgres"
	WarehouseDynamoDB   = "dynamodb"
)

// Config holds everything the forwarder binaries read from the environment.
type Config struct {
	AppEnv string

	Dataset     string
	Table       string
	CallTimeout time.Duration
	Warehouse   string

	ProjectID string

	PostgresDSN string

	OpensearchEndpoint    string
	OpensearchUsername    string
	OpensearchPassword    string
	AWSOpensearchEndpoint string

	AWSRegion   string
	AWSEndpoint string

	KafkaBroker  string
	KafkaGroupID string
	KafkaTopic   string

	LogLevel string
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

// Load reads the configuration from the environment and applies defaults.
func Load() (Config, error) {
	cfg := Config{
		AppEnv:                getEnv("APP_ENV", "dev"),
		Dataset:               getEnv("CENTIMENT_DATASET", DefaultDataset),
		Table:                 getEnv("CENTIMENT_TABLE", DefaultTable),
		CallTimeout:           DefaultCallTimeout,
		Warehouse:             strings.ToLower(getEnv("CENTIMENT_WAREHOUSE", DefaultWarehouse)),
		ProjectID:             getEnv("GOOGLE_CLOUD_PROJECT", os.Getenv("GCP_PROJECT")),
		PostgresDSN:           os.Getenv("POSTGRES_DSN"),
		OpensearchEndpoint:    os.Getenv("OPENSEARCH_ENDPOINT"),
		OpensearchUsername:    getEnv("OPENSEARCH_USERNAME", "admin"),
		OpensearchPassword:    os.Getenv("OPENSEARCH_PASSWORD"),
		AWSOpensearchEndpoint: os.Getenv("AWS_OPENSEARCH_ENDPOINT"),
		AWSRegion:             getEnv("AWS_REGION", DefaultAWSRegion),
		AWSEndpoint:           os.Getenv("AWS_ENDPOINT"),
		KafkaBroker:           getEnv("KAFKA_BROKER", "localhost:29092"),
		KafkaGroupID:          getEnv("KAFKA_CONSUMER_GROUP_ID", "centiment-forwarder"),
		KafkaTopic:            getEnv("KAFKA_CONSUMER_TOPIC", "sentiments-created"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
	}

	if raw := os.Getenv("CENTIMENT_CALL_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return cfg, fmt.Errorf("invalid CENTIMENT_CALL_TIMEOUT %q: %w", raw, err)
		}
		if d <= 0 {
			return cfg, fmt.Errorf("CENTIMENT_CALL_TIMEOUT must be positive, got %s", d)
		}
		cfg.CallTimeout = d
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks that the selected warehouse has what it needs to connect.
func (c Config) Validate() error {
	switch c.Warehouse {
	case WarehouseBigQuery:
		if c.ProjectID == "" {
			return fmt.Errorf("GOOGLE_CLOUD_PROJECT is required for the %s warehouse", c.Warehouse)
		}
	case WarehousePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the %s warehouse", c.Warehouse)
		}
	case WarehouseOpensearch:
		if c.AppEnv == "prod" {
			if c.AWSOpensearchEndpoint == "" {
				return fmt.Errorf("AWS_OPENSEARCH_ENDPOINT is required for the %s warehouse in prod", c.Warehouse)
			}
		} else if c.OpensearchEndpoint == "" || c.OpensearchPassword == "" {
			return fmt.Errorf("OPENSEARCH_ENDPOINT and OPENSEARCH_PASSWORD are required for the %s warehouse", c.Warehouse)
		}
	case WarehouseDynamoDB:
	default:
		return fmt.Errorf("unknown warehouse %q (want %s, %s, %s or %s)",
			c.Warehouse, WarehouseBigQuery, WarehouseOpensearch, WarehousePostgres, WarehouseDynamoDB)
	}
	return nil
}
