package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const statusTTL = 60 * time.Second

// StatusCache keeps serialized subscription-status responses hot for a
// minute. Entries are dropped on any subscription mutation.
type StatusCache struct {
	client *redis.Client
}

func NewStatusCache(client *redis.Client) *StatusCache {
	return &StatusCache{client: client}
}

func (c *StatusCache) Get(ctx context.Context, userID string, out interface{}) (bool, error) {
	val, err := c.client.Get(ctx, "sub_status:"+userID).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false, err
	}
	return true, nil
}

func (c *StatusCache) Set(ctx context.Context, userID string, status interface{}) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "sub_status:"+userID, data, statusTTL).Err()
}

func (c *StatusCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, "sub_status:"+userID).Err()
}
