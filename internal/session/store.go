package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("pending login not found")

// PendingLogin is the state parked between a successful password check and
// the matching code submission. It lives only in Redis, keyed by challenge
// ID, and vanishes when the TTL runs out.
type PendingLogin struct {
	UserID   uuid.UUID `json:"user_id"`
	Code     string    `json:"code"`
	IssuedAt time.Time `json:"issued_at"`
}

// Store keeps pending logins in Redis with a server-side TTL.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		prefix: "otp",
		ttl:    ttl,
	}
}

func (s *Store) key(challenge string) string {
	return fmt.Sprintf("%s:%s", s.prefix, challenge)
}

// Put stores a pending login under the challenge ID, replacing any previous
// state for that challenge. Expiry is enforced by Redis.
func (s *Store) Put(ctx context.Context, challenge string, pending *PendingLogin) error {
	data, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("failed to marshal pending login: %w", err)
	}
	return s.client.Set(ctx, s.key(challenge), data, s.ttl).Err()
}

// Get retrieves a pending login. Expired or unknown challenges report
// ErrNotFound.
func (s *Store) Get(ctx context.Context, challenge string) (*PendingLogin, error) {
	data, err := s.client.Get(ctx, s.key(challenge)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var pending PendingLogin
	if err := json.Unmarshal(data, &pending); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending login: %w", err)
	}

	return &pending, nil
}

// Delete removes a pending login. Deleting an already expired challenge is
// not an error.
func (s *Store) Delete(ctx context.Context, challenge string) error {
	return s.client.Del(ctx, s.key(challenge)).Err()
}
