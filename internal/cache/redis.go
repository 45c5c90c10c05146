// Package cache stores proposed settlement plans in Redis so that repeated
// reads of an unchanged group return the same settlement IDs.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mmynk/settle/internal/models"
)

const keyPrefix = "settle:plan:"

// PlanCache stores the proposed settlements for a group together with the
// fingerprint of the snapshot they were computed from.
type PlanCache interface {
	// Get returns the cached plan. ok is false on a miss or when the stored
	// fingerprint differs from fingerprint.
	Get(ctx context.Context, groupID, fingerprint string) (plan []models.Settlement, ok bool, err error)
	Set(ctx context.Context, groupID, fingerprint string, plan []models.Settlement) error
	Invalidate(ctx context.Context, groupID string) error
}

type entry struct {
	Fingerprint string              `json:"fingerprint"`
	Settlements []models.Settlement `json:"settlements"`
}

// RedisPlanCache implements PlanCache on a go-redis client.
// A nil *RedisPlanCache is a valid cache that never hits.
type RedisPlanCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ PlanCache = (*RedisPlanCache)(nil)

// NewRedisPlanCache wraps client. Entries expire after ttl; 0 means no expiry.
// Returns nil if client is nil.
func NewRedisPlanCache(client redis.UniversalClient, ttl time.Duration) *RedisPlanCache {
	if client == nil {
		return nil
	}
	return &RedisPlanCache{client: client, ttl: ttl}
}

// Connect parses a redis:// URL, pings the server and returns a client.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// Get retrieves the plan for groupID if it was computed from a snapshot with
// the given fingerprint.
func (c *RedisPlanCache) Get(ctx context.Context, groupID, fingerprint string) ([]models.Settlement, bool, error) {
	if c == nil {
		return nil, false, nil
	}

	val, err := c.client.Get(ctx, keyPrefix+groupID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var e entry
	if err := json.Unmarshal(val, &e); err != nil {
		return nil, false, fmt.Errorf("decode cached plan: %w", err)
	}
	if e.Fingerprint != fingerprint {
		return nil, false, nil
	}
	if e.Settlements == nil {
		e.Settlements = []models.Settlement{}
	}
	return e.Settlements, true, nil
}

// Set stores plan for groupID under fingerprint. An empty plan is cached too.
func (c *RedisPlanCache) Set(ctx context.Context, groupID, fingerprint string, plan []models.Settlement) error {
	if c == nil {
		return nil
	}
	if plan == nil {
		plan = []models.Settlement{}
	}

	val, err := json.Marshal(entry{Fingerprint: fingerprint, Settlements: plan})
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+groupID, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate drops the cached plan. Missing keys are not an error.
func (c *RedisPlanCache) Invalidate(ctx context.Context, groupID string) error {
	if c == nil {
		return nil
	}
	if err := c.client.Del(ctx, keyPrefix+groupID).Err(); err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}
