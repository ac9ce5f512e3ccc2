package cache

import (
	"context"
	"fmt"
	"time"
)

// Refresh-token sessions are an allowlist keyed by token ID. A refresh token
// whose ID is absent from the allowlist is rejected even when its signature
// is valid, which is what makes rotation and logout effective.
const sessionPrefix = "session:refresh:"

// PutSession registers a refresh token ID for a user with the given TTL.
func (c *Cache) PutSession(ctx context.Context, tokenID, userID string, ttl time.Duration) error {
	if err := c.client.Set(ctx, sessionPrefix+tokenID, userID, ttl).Err(); err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

// SessionUser returns the user ID a refresh token ID was issued to, or the
// empty string when the session does not exist (revoked, rotated, expired).
func (c *Cache) SessionUser(ctx context.Context, tokenID string) (string, error) {
	userID, err := c.client.Get(ctx, sessionPrefix+tokenID).Result()
	if err != nil {
		// Missing key and transport errors are both "no session" to callers;
		// refresh fails closed either way.
		return "", nil //nolint:nilerr
	}
	return userID, nil
}

// RevokeSession removes a refresh token ID from the allowlist.
func (c *Cache) RevokeSession(ctx context.Context, tokenID string) error {
	if err := c.client.Del(ctx, sessionPrefix+tokenID).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// RotateSession atomically revokes the old token ID and registers the new
// one. Used on every refresh so a stolen token can be used at most once.
func (c *Cache) RotateSession(ctx context.Context, oldTokenID, newTokenID, userID string, ttl time.Duration) error {
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, sessionPrefix+oldTokenID)
	pipe.Set(ctx, sessionPrefix+newTokenID, userID, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("rotate session: %w", err)
	}
	return nil
}
