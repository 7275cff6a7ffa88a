package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("expected default addr :8080, got %s", cfg.HTTPAddr)
	}
	if cfg.MySQL.MaxOpenConns != 50 {
		t.Errorf("expected default max open conns 50, got %d", cfg.MySQL.MaxOpenConns)
	}
	if cfg.Kafka.Topic != "order-events" {
		t.Errorf("expected default topic, got %s", cfg.Kafka.Topic)
	}
	if cfg.Product.BaseURL != "" {
		t.Errorf("expected product validation disabled by default, got %s", cfg.Product.BaseURL)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
http_addr: ":9090"
log_level: debug
mysql:
  dsn: "app:secret@tcp(db:3306)/orders?parseTime=true"
product:
  base_url: "http://products:3001"
kafka:
  brokers: ["kafka-1:9092", "kafka-2:9092"]
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTPAddr != ":9090" {
		t.Errorf("expected :9090, got %s", cfg.HTTPAddr)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug, got %s", cfg.LogLevel)
	}
	if cfg.MySQL.DSN != "app:secret@tcp(db:3306)/orders?parseTime=true" {
		t.Errorf("unexpected DSN: %s", cfg.MySQL.DSN)
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("expected 2 brokers, got %v", cfg.Kafka.Brokers)
	}
	// File values must not clobber unrelated defaults
	if cfg.MySQL.MaxOpenConns != 50 {
		t.Errorf("expected default max open conns preserved, got %d", cfg.MySQL.MaxOpenConns)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ORDERS_HTTP_ADDR", ":7070")
	t.Setenv("ORDERS_PRODUCT_URL", "http://localhost:3001")
	t.Setenv("ORDERS_KAFKA_BROKERS", "a:9092, b:9092 ,")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTPAddr != ":7070" {
		t.Errorf("expected env override :7070, got %s", cfg.HTTPAddr)
	}
	if cfg.Product.BaseURL != "http://localhost:3001" {
		t.Errorf("expected product url override, got %s", cfg.Product.BaseURL)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "b:9092" {
		t.Errorf("expected trimmed broker list, got %v", cfg.Kafka.Brokers)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/does/not/exist.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}
