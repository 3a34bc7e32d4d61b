package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/donan22/shortlink-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

const linkKeyPrefix = "shortlink:link:"

// LinkCache keeps resolved links in Redis so the redirect hot path
// usually skips the database.
type LinkCache struct {
	client *redis.Client
}

func NewLinkCache(client *redis.Client) *LinkCache {
	return &LinkCache{client: client}
}

func (c *LinkCache) GetLink(ctx context.Context, shortCode string) (*domain.MonetizedLink, error) {
	data, err := c.client.Get(ctx, linkKeyPrefix+shortCode).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var link domain.MonetizedLink
	if err := json.Unmarshal(data, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

func (c *LinkCache) SetLink(ctx context.Context, link *domain.MonetizedLink, ttl time.Duration) error {
	data, err := json.Marshal(link)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, linkKeyPrefix+link.ShortCode, data, ttl).Err()
}

func (c *LinkCache) InvalidateLink(ctx context.Context, shortCode string) error {
	return c.client.Del(ctx, linkKeyPrefix+shortCode).Err()
}
