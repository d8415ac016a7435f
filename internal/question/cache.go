package question

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultCacheTTL = 5 * time.Minute
	categoriesKey   = "trivia:categories"
)

// CategoryCache holds the category list, which changes far less often than it is read.
type CategoryCache interface {
	Get(ctx context.Context) ([]Category, error)
	Set(ctx context.Context, categories []Category) error
}

// Cache is the Redis-backed CategoryCache.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ CategoryCache = (*Cache)(nil)

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

type cachedCategory struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
}

// Get returns nil, nil on a cache miss.
func (c *Cache) Get(ctx context.Context) ([]Category, error) {
	data, err := c.client.Get(ctx, categoriesKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var raw []cachedCategory
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make([]Category, 0, len(raw))
	for _, r := range raw {
		out = append(out, Category{ID: r.ID, Type: r.Type})
	}
	return out, nil
}

func (c *Cache) Set(ctx context.Context, categories []Category) error {
	raw := make([]cachedCategory, 0, len(categories))
	for _, cat := range categories {
		raw = append(raw, cachedCategory{ID: cat.ID, Type: cat.Type})
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, categoriesKey, data, c.ttl).Err()
}
