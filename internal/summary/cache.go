package summary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix        = "summary"
	versionKeyPrefix = "summary:version:"
	// DefaultCacheTTL applies when the configured TTL is not positive.
	DefaultCacheTTL = 10 * time.Minute
)

// Cache stores computed summaries in Redis under a per-user version, so a
// single INCR invalidates every cached range of that user. A nil Cache or
// one without a client is a pass-through.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCache instantiates the cache helper. client may be nil.
func NewCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{client: client, ttl: ttl, logger: logger}
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil
}

// Version returns the user's current cache version, initialising when missing.
func (c *Cache) Version(ctx context.Context, userID string) (int64, error) {
	if !c.enabled() {
		return 0, nil
	}
	key := versionKeyPrefix + userID
	ver, err := c.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.SetNX(ctx, key, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, key).Int64()
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// BuildKey composes the cache key for a user with the current version.
func (c *Cache) BuildKey(ctx context.Context, userID string, parts ...string) (string, error) {
	base := strings.Join(append([]string{keyPrefix, userID}, parts...), ":")
	if !c.enabled() {
		return base, nil
	}
	ver, err := c.Version(ctx, userID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d", base, ver), nil
}

// FetchJSON loads a cached value or populates it using the loader. Redis
// failures degrade to calling the loader directly.
func (c *Cache) FetchJSON(ctx context.Context, userID string, parts []string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("summary cache: loader required")
	}
	if !c.enabled() {
		return load(ctx, dest, loader)
	}

	key, err := c.BuildKey(ctx, userID, parts...)
	if err != nil {
		c.logger.Warn("summary cache unavailable", slog.Any("error", err))
		return load(ctx, dest, loader)
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		if err := json.Unmarshal(payload, dest); err == nil {
			return nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("summary cache read failed", slog.String("key", key), slog.Any("error", err))
		return load(ctx, dest, loader)
	}

	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("summary cache write failed", slog.String("key", key), slog.Any("error", err))
	}
	return json.Unmarshal(raw, dest)
}

// Invalidate bumps the user's version so cached summaries are no longer read.
func (c *Cache) Invalidate(ctx context.Context, userID string) {
	if !c.enabled() {
		return
	}
	if err := c.client.Incr(ctx, versionKeyPrefix+userID).Err(); err != nil {
		c.logger.Warn("summary cache invalidation failed", slog.String("user_id", userID), slog.Any("error", err))
	}
}

func load(ctx context.Context, dest any, loader func(context.Context) (any, error)) error {
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
