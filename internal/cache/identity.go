package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tasklane/tasklane/internal/model"
)

const (
	// identityCachePrefix is the Redis key prefix for verified identities.
	identityCachePrefix = "identity:token:"
	// identityCacheTTL bounds how long a verified token skips re-verification.
	identityCacheTTL = 5 * time.Minute
)

// cachedIdentity represents a verified identity stored in Redis.
type cachedIdentity struct {
	Subject   string `json:"subject"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// GetIdentity retrieves a cached identity by token hash.
// Returns nil if not found (cache miss).
func (c *Cache) GetIdentity(ctx context.Context, tokenHash string) (*model.Identity, error) {
	key := identityCachePrefix + tokenHash

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var cached cachedIdentity
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &model.Identity{
		Subject:   cached.Subject,
		Email:     cached.Email,
		Name:      cached.Name,
		AvatarURL: cached.AvatarURL,
	}, nil
}

// SetIdentity caches a verified identity under the token hash.
func (c *Cache) SetIdentity(ctx context.Context, tokenHash string, id *model.Identity) error {
	key := identityCachePrefix + tokenHash

	cached := cachedIdentity{
		Subject:   id.Subject,
		Email:     id.Email,
		Name:      id.Name,
		AvatarURL: id.AvatarURL,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}

	return c.client.Set(ctx, key, data, identityCacheTTL).Err()
}

// DeleteIdentity removes a cached identity.
func (c *Cache) DeleteIdentity(ctx context.Context, tokenHash string) error {
	key := identityCachePrefix + tokenHash
	return c.client.Del(ctx, key).Err()
}
