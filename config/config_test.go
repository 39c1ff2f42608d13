package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "CENTIMENT_DATASET", "CENTIMENT_TABLE", "CENTIMENT_CALL_TIMEOUT",
		"CENTIMENT_WAREHOUSE", "GOOGLE_CLOUD_PROJECT", "GCP_PROJECT", "POSTGRES_DSN",
		"OPENSEARCH_ENDPOINT", "OPENSEARCH_USERNAME", "OPENSEARCH_PASSWORD",
		"AWS_OPENSEARCH_ENDPOINT", "AWS_REGION", "AWS_ENDPOINT", "KAFKA_BROKER", "KAFKA_CONSUMER_GROUP_ID",
		"KAFKA_CONSUMER_TOPIC", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_CLOUD_PROJECT", "centiment-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Dataset != "centiment" {
		t.Errorf("expected dataset 'centiment', got %q", cfg.Dataset)
	}
	if cfg.Table != "sentiments" {
		t.Errorf("expected table 'sentiments', got %q", cfg.Table)
	}
	if cfg.CallTimeout != 10*time.Second {
		t.Errorf("expected call timeout 10s, got %s", cfg.CallTimeout)
	}
	if cfg.Warehouse != WarehouseBigQuery {
		t.Errorf("expected warehouse %q, got %q", WarehouseBigQuery, cfg.Warehouse)
	}
	if cfg.AWSRegion != "us-west-2" {
		t.Errorf("expected default AWS region 'us-west-2', got %q", cfg.AWSRegion)
	}
	if cfg.KafkaTopic != "sentiments-created" {
		t.Errorf("expected default kafka topic, got %q", cfg.KafkaTopic)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CENTIMENT_DATASET", "analytics")
	t.Setenv("CENTIMENT_TABLE", "scores")
	t.Setenv("CENTIMENT_CALL_TIMEOUT", "3s")
	t.Setenv("CENTIMENT_WAREHOUSE", "Postgres")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/centiment")
	t.Setenv("AWS_REGION", "eu-central-1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Dataset != "analytics" {
		t.Errorf("expected dataset 'analytics', got %q", cfg.Dataset)
	}
	if cfg.Table != "scores" {
		t.Errorf("expected table 'scores', got %q", cfg.Table)
	}
	if cfg.CallTimeout != 3*time.Second {
		t.Errorf("expected call timeout 3s, got %s", cfg.CallTimeout)
	}
	if cfg.AWSRegion != "eu-central-1" {
		t.Errorf("expected AWS region 'eu-central-1', got %q", cfg.AWSRegion)
	}
	if cfg.Warehouse != WarehousePostgres {
		t.Errorf("expected warehouse %q, got %q", WarehousePostgres, cfg.Warehouse)
	}
}

func TestLoadInvalidTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_CLOUD_PROJECT", "centiment-test")

	for _, raw := range []string{"soon", "-1s", "0s"} {
		t.Setenv("CENTIMENT_CALL_TIMEOUT", raw)
		if _, err := Load(); err == nil {
			t.Errorf("expected error for CENTIMENT_CALL_TIMEOUT=%q", raw)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := (Config{Warehouse: WarehouseBigQuery}).Validate(); err == nil {
		t.Error("expected error for bigquery without project")
	}
	if err := (Config{Warehouse: WarehousePostgres}).Validate(); err == nil {
		t.Error("expected error for postgres without DSN")
	}
	if err := (Config{Warehouse: WarehouseOpensearch, OpensearchEndpoint: "http://localhost:9200"}).Validate(); err == nil {
		t.Error("expected error for opensearch without password")
	}
	if err := (Config{Warehouse: WarehouseOpensearch, AppEnv: "prod", AWSOpensearchEndpoint: "https://search.example"}).Validate(); err != nil {
		t.Errorf("expected prod opensearch config to validate, got %v", err)
	}
	if err := (Config{Warehouse: WarehouseDynamoDB}).Validate(); err != nil {
		t.Errorf("expected dynamodb config to validate, got %v", err)
	}
	if err := (Config{Warehouse: "snowflake"}).Validate(); err == nil {
		t.Error("expected error for unknown warehouse")
	}
}
