package verify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/classleaf/quizport/internal/quiz"
)

// Cache is a read-through Redis cache for token lookups. Verification links
// are shared publicly (QR codes on certificates), so the same token tends to
// be resolved in bursts; a short TTL keeps hot records out of the store.
// Cache errors degrade to misses.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(token string) string { return "verify:sub:" + token }

func (c *Cache) Get(ctx context.Context, token string) (quiz.Submission, bool) {
	raw, err := c.client.Get(ctx, c.key(token)).Bytes()
	if err != nil {
		return quiz.Submission{}, false
	}
	var sub quiz.Submission
	if err := json.Unmarshal(raw, &sub); err != nil {
		return quiz.Submission{}, false
	}
	return sub, true
}

func (c *Cache) Set(ctx context.Context, sub quiz.Submission) {
	raw, err := json.Marshal(sub)
	if err != nil {
		return
	}
	c.client.Set(ctx, c.key(sub.ID), raw, c.ttl)
}

func (c *Cache) Delete(ctx context.Context, token string) {
	c.client.Del(ctx, c.key(token))
}
