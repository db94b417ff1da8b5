package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vidtube/video-platform/internal/core/domain"
)

const identityTTL = 5 * time.Minute

// IdentityCache keeps sanitized identities in Redis for the access guard so a
// guarded request does not always cost a Mongo round trip.
// Key format: identity:<id>
//
// Entries hold only sanitized fields and expire after identityTTL; identity
// profile fields never change through this core, so no explicit invalidation
// is wired.
type IdentityCache struct {
	client *redis.Client
}

// NewIdentityCache creates an IdentityCache wrapping the given Redis client.
func NewIdentityCache(client *redis.Client) *IdentityCache {
	return &IdentityCache{client: client}
}

// Get returns the cached sanitized identity, or (nil, nil) on a miss.
func (c *IdentityCache) Get(ctx context.Context, id string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("identity cache get: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("identity cache decode: %w", err)
	}
	return &user, nil
}

// Set stores the sanitized identity (expires after identityTTL).
func (c *IdentityCache) Set(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(user.Sanitized())
	if err != nil {
		return fmt.Errorf("identity cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(user.ID), raw, identityTTL).Err()
}

func (c *IdentityCache) key(id string) string {
	return "identity:" + id
}
