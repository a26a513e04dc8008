package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Username is the primary key; passwords are stored as bcrypt hashes
// in PasswordHash and never in plain text.
type User struct {
	Username     string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
