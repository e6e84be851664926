package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lifearc-ai/engine/pkg/common/config"
	"github.com/lifearc-ai/engine/pkg/common/logger"
)

// Client is an optional response cache in front of the engine. Because the
// engine is deterministic, a cached response for the same request bytes is
// always still correct; the TTL only bounds memory.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(cfg *config.Config) *Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.WithError(err).Error("Failed to connect to Redis")
	} else {
		logger.Log.Info("Connected to Redis")
	}

	return &Client{rdb: rdb, ttl: cfg.CacheTTL}
}

// Key builds a content-addressed cache key from the request scope and raw
// request bytes.
func Key(scope string, payload []byte) string {
	sum := sha256.Sum256(payload)
	return fmt.Sprintf("engine:%s:%s", scope, hex.EncodeToString(sum[:]))
}

func (c *Client) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.WithError(err).Warn("Cache lookup failed")
		}
		return nil, false
	}
	return value, true
}

func (c *Client) Set(ctx context.Context, key string, payload []byte) {
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		logger.Log.WithError(err).Warn("Cache write failed")
	}
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
