package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// sessionKeyPrefix namespaces session entries in Redis.  The full key is
// refresh_token:<userID>.
const sessionKeyPrefix = "refresh_token:"

// SessionRepo stores the currently valid refresh token per user in Redis.
// One key per user means at most one live session: a second login or
// refresh overwrites the previous token, which then fails the equality
// check during refresh even though its signature is still valid.
type SessionRepo struct{ RDB *redis.Client }

func NewSessionRepo(rdb *redis.Client) *SessionRepo { return &SessionRepo{RDB: rdb} }

// Store upserts the refresh token for a user and resets the TTL.
func (r *SessionRepo) Store(ctx context.Context, userID, token string, ttl time.Duration) error {
	return r.RDB.Set(ctx, sessionKeyPrefix+userID, token, ttl).Err()
}

// Get returns the stored refresh token or ErrSessionNotFound when the key
// is absent or its TTL has elapsed.
func (r *SessionRepo) Get(ctx context.Context, userID string) (string, error) {
	v, err := r.RDB.Get(ctx, sessionKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSessionNotFound
	}
	return v, err
}

// Delete removes the session entry.  Deleting an absent key is a no-op.
func (r *SessionRepo) Delete(ctx context.Context, userID string) error {
	return r.RDB.Del(ctx, sessionKeyPrefix+userID).Err()
}
