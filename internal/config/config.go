package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPAddr string        `yaml:"http_addr"`
	LogLevel string        `yaml:"log_level"`
	MySQL    MySQLConfig   `yaml:"mysql"`
	Redis    RedisConfig   `yaml:"redis"`
	Product  ProductConfig `yaml:"product"`
	Kafka    KafkaConfig   `yaml:"kafka"`
	Jaeger   JaegerConfig  `yaml:"jaeger"`
}

type MySQLConfig struct {
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// RedisConfig enables the product cache; an empty Addr leaves it off.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	PoolSize int    `yaml:"pool_size"`
}

// ProductConfig points at the remote product service; an empty BaseURL
// disables remote validation entirely.
type ProductConfig struct {
	BaseURL string `yaml:"base_url"`
}

// KafkaConfig enables event publishing; no brokers leaves it off.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// JaegerConfig enables tracing; an empty Endpoint leaves it off.
type JaegerConfig struct {
	Endpoint string `yaml:"endpoint"`
}

func defaults() *Config {
	return &Config{
		HTTPAddr: ":8080",
		LogLevel: "info",
		MySQL: MySQLConfig{
			DSN:          "root:root@tcp(localhost:3306)/orders?parseTime=true",
			MaxOpenConns: 50,
			MaxIdleConns: 25,
		},
		Redis: RedisConfig{
			PoolSize: 100,
		},
		Kafka: KafkaConfig{
			Topic: "order-events",
		},
	}
}

// Load reads an optional YAML file and applies environment overrides on
// top of it. An empty path loads defaults plus environment only.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setFromEnv(&cfg.HTTPAddr, "ORDERS_HTTP_ADDR")
	setFromEnv(&cfg.LogLevel, "ORDERS_LOG_LEVEL")
	setFromEnv(&cfg.MySQL.DSN, "ORDERS_MYSQL_DSN")
	setFromEnv(&cfg.Redis.Addr, "ORDERS_REDIS_ADDR")
	setFromEnv(&cfg.Product.BaseURL, "ORDERS_PRODUCT_URL")
	setFromEnv(&cfg.Kafka.Topic, "ORDERS_KAFKA_TOPIC")
	setFromEnv(&cfg.Jaeger.Endpoint, "ORDERS_JAEGER_ENDPOINT")

	if v, ok := os.LookupEnv("ORDERS_KAFKA_BROKERS"); ok {
		cfg.Kafka.Brokers = splitBrokers(v)
	}
}

func setFromEnv(target *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*target = v
	}
}

func splitBrokers(csv string) []string {
	brokers := []string{}
	for _, b := range strings.Split(csv, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
