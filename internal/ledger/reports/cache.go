package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keeps rendered period balances in Redis. Posting and voiding
// invalidate the whole company namespace; a short TTL bounds staleness if an
// invalidation is missed.
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

func balancesKey(companyID int64, start, end time.Time) string {
	return fmt.Sprintf("ledger:balances:%d:%s:%s", companyID, start.Format("2006-01-02"), end.Format("2006-01-02"))
}

// Get returns the cached balances and whether the key was present.
func (c *Cache) Get(ctx context.Context, companyID int64, start, end time.Time) ([]AccountBalance, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, balancesKey(companyID, start, end)).Bytes()
	if err != nil {
		return nil, false
	}
	var balances []AccountBalance
	if err := json.Unmarshal(raw, &balances); err != nil {
		return nil, false
	}
	return balances, true
}

// Set stores balances under the period key.
func (c *Cache) Set(ctx context.Context, companyID int64, start, end time.Time, balances []AccountBalance) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(balances)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, balancesKey(companyID, start, end), raw, c.ttl).Err()
}

// Invalidate drops every cached period for the company.
func (c *Cache) Invalidate(ctx context.Context, companyID int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	pattern := fmt.Sprintf("ledger:balances:%d:*", companyID)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
