package entity

import "time"

// Note is a free-form text note attached to a user's profile.
type Note struct {
	ID        string
	Username  string
	Text      string
	CreatedAt time.Time
}
