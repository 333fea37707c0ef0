// Package session provides the Session capability: the identity of the
// currently authenticated user. The production lookup lives in Redis, keyed
// by the caller's session token; a static variant serves tests and offline
// composition.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/TintinDu/BilledApp/internal/application/port"
	"github.com/TintinDu/BilledApp/internal/domain/entity"
)

const keyPrefix = "session:"

// OpenRedis connects to Redis and verifies the connection.
func OpenRedis(addr string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

// Store resolves session tokens to users.
type Store struct {
	client  *redis.Client
	timeout time.Duration
	ttl     time.Duration
}

// NewStore creates a new session store. ttl bounds how long a stored
// session stays valid.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client:  client,
		timeout: 5 * time.Second,
		ttl:     ttl,
	}
}

// Put stores the user under the token.
func (s *Store) Put(ctx context.Context, token string, user *entity.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal session user: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+token, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Delete removes the session stored under the token (logout).
func (s *Store) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, keyPrefix+token).Err()
}

// ForToken returns the Session capability bound to one token. The read is
// synchronous from the caller's perspective; failures surface as errors the
// consuming paths are required to degrade on, never panic.
func (s *Store) ForToken(token string) port.Session {
	return port.SessionFunc(func() (*entity.User, error) {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		payload, err := s.client.Get(ctx, keyPrefix+token).Bytes()
		if err != nil {
			return nil, fmt.Errorf("session lookup failed: %w", err)
		}

		var user entity.User
		if err := json.Unmarshal(payload, &user); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session user: %w", err)
		}
		return &user, nil
	})
}

// Static returns a Session that always yields the given user.
func Static(user *entity.User) port.Session {
	return port.SessionFunc(func() (*entity.User, error) {
		return user, nil
	})
}
