package product

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rl1809/order-service/internal/core/domain"
	"github.com/rl1809/order-service/internal/port"
)

const (
	productKeyPrefix = "product:"
	productCacheTTL  = 5 * time.Minute
)

// RedisCache is a read-through cache in front of another ProductValidator.
// A cached record can lag the catalog by up to the TTL; Redis being
// unreachable degrades to a pass-through, never to a failed validation.
type RedisCache struct {
	client *redis.Client
	next   port.ProductValidator
	logger zerolog.Logger
}

func NewRedisCache(client *redis.Client, next port.ProductValidator, logger zerolog.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		next:   next,
		logger: logger,
	}
}

func (c *RedisCache) Validate(ctx context.Context, ids []string) ([]domain.Product, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKeyPrefix + id
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		c.logger.Warn().Err(err).Msg("product cache read failed, falling through to validator")
		return c.next.Validate(ctx, ids)
	}

	products := make([]domain.Product, 0, len(ids))
	missing := []string{}
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			missing = append(missing, ids[i])
			continue
		}
		var record productRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			missing = append(missing, ids[i])
			continue
		}
		products = append(products, domain.Product{ID: record.ID, Name: record.Name, Price: record.Price})
	}

	if len(missing) == 0 {
		return products, nil
	}

	fetched, err := c.next.Validate(ctx, missing)
	if err != nil {
		return nil, err
	}
	c.store(ctx, fetched)

	return append(products, fetched...), nil
}

func (c *RedisCache) store(ctx context.Context, products []domain.Product) {
	pipe := c.client.Pipeline()
	for _, product := range products {
		data, err := json.Marshal(productRecord{ID: product.ID, Name: product.Name, Price: product.Price})
		if err != nil {
			continue
		}
		pipe.Set(ctx, productKeyPrefix+product.ID, data, productCacheTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("product cache write failed")
	}
}
