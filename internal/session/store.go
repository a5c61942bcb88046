// Package session keeps bearer sessions in redis. A session is a uuid
// token mapped to a user id with a sliding TTL.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "github.com/francisco-dev-ao/angohost-api/pkg/errors"
)

const keyPrefix = "session:"

// Store persists sessions in redis.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a session store with the given lifetime.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Create mints a token for a user.
func (s *Store) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	token := uuid.New().String()
	if err := s.client.Set(ctx, keyPrefix+token, userID.String(), s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the user id behind a token and refreshes its TTL.
func (s *Store) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	val, err := s.client.Get(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, &apperrors.ErrUnauthorized{Message: "session expired or invalid"}
	}
	if err != nil {
		return uuid.Nil, err
	}

	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, &apperrors.ErrUnauthorized{Message: "session expired or invalid"}
	}

	// Sliding expiry: activity keeps the session alive.
	s.client.Expire(ctx, keyPrefix+token, s.ttl)
	return userID, nil
}

// Destroy removes a token. Destroying an unknown token is a no-op.
func (s *Store) Destroy(ctx context.Context, token string) error {
	return s.client.Del(ctx, keyPrefix+token).Err()
}
