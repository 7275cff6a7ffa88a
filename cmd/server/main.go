package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rl1809/order-service/internal/adapter/handler"
	"github.com/rl1809/order-service/internal/adapter/messaging"
	"github.com/rl1809/order-service/internal/adapter/product"
	"github.com/rl1809/order-service/internal/adapter/storage"
	"github.com/rl1809/order-service/internal/config"
	"github.com/rl1809/order-service/internal/core/service"
	"github.com/rl1809/order-service/internal/observability"
	"github.com/rl1809/order-service/internal/port"
)

const serviceName = "order-service"

func main() {
	cfgPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", serviceName).
		Logger().
		Level(level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing
	if cfg.Jaeger.Endpoint != "" {
		tp, err := observability.InitTracerProvider(serviceName, cfg.Jaeger.Endpoint)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize tracing")
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				logger.Warn().Err(err).Msg("failed to shut down tracer provider")
			}
		}()
		logger.Info().Str("endpoint", cfg.Jaeger.Endpoint).Msg("tracing enabled")
	}

	// MySQL
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open mysql")
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping mysql")
	}
	logger.Info().Msg("connected to mysql")

	orderRepo := storage.NewMySQLAdapter(db)

	// Product validation, optional and optionally cached
	var validator port.ProductValidator
	if cfg.Product.BaseURL != "" {
		validator = product.NewHTTPValidator(cfg.Product.BaseURL)

		if cfg.Redis.Addr != "" {
			rdb := redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				PoolSize: cfg.Redis.PoolSize,
			})
			if err := rdb.Ping(ctx).Err(); err != nil {
				logger.Fatal().Err(err).Msg("failed to connect redis")
			}
			defer rdb.Close()
			validator = product.NewRedisCache(rdb, validator, logger)
			logger.Info().Str("addr", cfg.Redis.Addr).Msg("product cache enabled")
		}
		logger.Info().Str("url", cfg.Product.BaseURL).Msg("product validation enabled")
	} else {
		logger.Warn().Msg("product validation disabled, trusting caller-supplied prices")
	}

	// Event publishing, optional
	var events port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher := messaging.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer publisher.Close()
		events = publisher
		logger.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("event publishing enabled")
	}

	orderService := service.NewOrderService(orderRepo, validator, events, logger)

	// HTTP server
	metrics := observability.NewServerMetrics("api")
	httpHandler := handler.NewHTTPHandler(orderService)

	mux := http.NewServeMux()
	httpHandler.Register(mux, metrics)
	mux.Handle("GET /metrics", observability.Handler())

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("failed to shut down HTTP server")
	}
	logger.Info().Msg("HTTP server stopped")
}
