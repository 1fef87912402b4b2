package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"pharmafind/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CacheService caches read-mostly catalog data. Inventory is never cached:
// price and stock change too often for a stale read to be acceptable.
type CacheService interface {
	// Typeahead results
	GetProductSummaries(ctx context.Context, query, language string, limit int) ([]*models.ProductSummary, error)
	SetProductSummaries(ctx context.Context, query, language string, limit int, summaries []*models.ProductSummary, ttl time.Duration) error

	// Product identity with translations
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
	SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

// NewRedisClient builds a client from a plain host:port or a redis:// URL.
func NewRedisClient(addr, password string, db int, logger *zap.Logger) *redis.Client {
	opts := &redis.Options{Addr: addr, Password: password, DB: db}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			logger.Warn("Invalid redis URL, using it as address", zap.String("addr", addr), zap.Error(err))
		} else {
			opts = parsed
			if password != "" {
				opts.Password = password
			}
		}
	}

	client := redis.NewClient(opts)

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		logger.Warn("Redis ping failed on initialization", zap.String("addr", opts.Addr), zap.Error(pingErr))
	} else {
		logger.Debug("Redis connection established", zap.String("addr", opts.Addr))
	}
	return client
}

func NewRedisCacheService(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

// SummariesKey normalises the query so that "Ibu " and "ibu" share an entry.
func SummariesKey(query, language string, limit int) string {
	return fmt.Sprintf("pharmafind:search:%s:%d:%s",
		strings.ToLower(strings.TrimSpace(language)), limit, strings.ToLower(strings.TrimSpace(query)))
}

func productKey(productID string) string {
	return fmt.Sprintf("pharmafind:product:%s", productID)
}

func (r *redisCacheService) GetProductSummaries(ctx context.Context, query, language string, limit int) ([]*models.ProductSummary, error) {
	data, err := r.client.Get(ctx, SummariesKey(query, language, limit)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}
		return nil, err
	}

	summaries := []*models.ProductSummary{}
	if err := json.Unmarshal(data, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *redisCacheService) SetProductSummaries(ctx context.Context, query, language string, limit int, summaries []*models.ProductSummary, ttl time.Duration) error {
	data, err := json.Marshal(summaries)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, SummariesKey(query, language, limit), data, ttl).Err()
}

func (r *redisCacheService) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	data, err := r.client.Get(ctx, productKey(productID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *redisCacheService) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, productKey(product.ID), data, ttl).Err()
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("pharmafind:ratelimit:%s", key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return false, err
	}

	// Set expiry on first request
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
