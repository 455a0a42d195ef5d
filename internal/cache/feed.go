package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const feedTTL = 5 * time.Minute

// FeedCache is a cache-aside layer for the public merged feed. Writes to a
// category invalidate its entry; a miss just falls through to the database.
type FeedCache struct {
	client *redis.Client
}

func NewFeedCache(client *redis.Client) *FeedCache {
	return &FeedCache{client: client}
}

func feedKey(categoryID string) string {
	return fmt.Sprintf("feed:%s", categoryID)
}

func (c *FeedCache) Get(ctx context.Context, categoryID string, dest any) bool {
	if c == nil || c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, feedKey(categoryID)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (c *FeedCache) Set(ctx context.Context, categoryID string, value any) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.client.Set(ctx, feedKey(categoryID), raw, feedTTL)
}

func (c *FeedCache) Invalidate(ctx context.Context, categoryID string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, feedKey(categoryID))
}
