package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const revokedKeyPrefix = "session:revoked:"

// SessionStore tracks revoked session tokens in Redis. Logout writes the
// token's JTI with a TTL matching the token's remaining lifetime, so the
// denylist cleans itself up.
type SessionStore struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewSessionStore creates a session revocation store.
func NewSessionStore(rdb *redis.Client, logger *zap.Logger) *SessionStore {
	return &SessionStore{rdb: rdb, logger: logger}
}

// Revoke denylists a token id until its expiry time.
func (s *SessionStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil // already expired, nothing to deny
	}
	return s.rdb.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether a token id has been denylisted. A Redis error is
// surfaced so the gate can fail closed.
func (s *SessionStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
