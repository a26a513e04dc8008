// Package redisstore implements the server-side session token mapping on
// Redis. The client-held cookie carries only the random token value; the
// username it stands for lives here, under a TTL matching the token's
// lifetime.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rakapradana/fitness-tracker/internal/application"
	"github.com/rakapradana/fitness-tracker/pkg/helpers"
)

const tokenBytes = 32

func tokenKey(token string) string {
	return "session:token:" + token
}

type TokenStore struct {
	rdb *redis.Client
}

func NewTokenStore(rdb *redis.Client) *TokenStore {
	return &TokenStore{rdb: rdb}
}

func (s *TokenStore) Issue(ctx context.Context, username string, ttl time.Duration) (string, error) {
	token, err := helpers.GenToken(tokenBytes)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	if err := s.rdb.Set(ctx, tokenKey(token), username, ttl).Err(); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return token, nil
}

func (s *TokenStore) Resolve(ctx context.Context, token string) (string, error) {
	username, err := s.rdb.Get(ctx, tokenKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", application.ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("resolve token: %w", err)
	}
	return username, nil
}

func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, tokenKey(token)).Err()
}

var _ application.TokenStore = (*TokenStore)(nil)
