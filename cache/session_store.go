// Package cache provides the Redis-backed session store. A session is a JSON
// payload under "session:<token>" with a TTL; Redis expiry is the only expiry
// mechanism, there is no server-side sweep.
package cache

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"tynda/model"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SessionStore stores sessions in Redis with a fixed TTL.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a session store on top of an existing Redis client.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// Create stores the session payload under a fresh random token and returns
// the token.
func (s *SessionStore) Create(ctx context.Context, sess *model.Session) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+token, data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// Read returns the session for a token, or nil if the token is unknown or
// expired. A corrupted entry is treated as a miss.
func (s *SessionStore) Read(ctx context.Context, token string) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	sess := &model.Session{}
	if err := json.Unmarshal(data, sess); err != nil {
		return nil, nil
	}
	return sess, nil
}

// Destroy removes the session for a token. Destroying an unknown token is
// not an error.
func (s *SessionStore) Destroy(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

// newToken generates a 32-hex-char session token.
func newToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
