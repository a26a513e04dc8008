package repository

import (
	"context"

	"github.com/rakapradana/fitness-tracker/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
// Username is the primary key; lookups are case-sensitive exact matches.
type UserRepository interface {
	// FindByUsername returns the user, or (nil, nil) when no user exists.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// InsertIfAbsent atomically inserts the user unless the username is
	// already taken. Returns true iff the row was inserted. Uniqueness is
	// enforced by the storage layer, not by a prior existence check.
	InsertIfAbsent(ctx context.Context, u *entity.User) (bool, error)

	// UpdateEmail returns true iff a matching record existed and was modified.
	UpdateEmail(ctx context.Context, username, email string) (bool, error)

	// UpdatePassword stores a new password hash. Returns true iff a matching
	// record existed and was modified.
	UpdatePassword(ctx context.Context, username, passwordHash string) (bool, error)
}
