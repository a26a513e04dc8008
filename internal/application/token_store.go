package application

import (
	"context"
	"time"
)

// TokenStore is the server-side mapping from opaque session tokens to
// usernames. The client only ever holds the token value; restoring a
// session resolves it here and then re-validates against the user
// directory.
type TokenStore interface {
	// Issue creates a fresh random token for the username, valid for ttl.
	Issue(ctx context.Context, username string, ttl time.Duration) (string, error)

	// Resolve returns the username a token maps to, or ErrTokenNotFound
	// when the token is unknown or has expired.
	Resolve(ctx context.Context, token string) (string, error)

	// Revoke removes the mapping immediately. Revoking an unknown token is
	// not an error.
	Revoke(ctx context.Context, token string) error
}
