package entity

import "time"

// SessionToken is the long-lived identifier persisted on the client and
// re-presented on later visits. Value is a random opaque string; the
// username it belongs to is only resolvable server-side.
type SessionToken struct {
	Value    string
	Username string
	IssuedAt time.Time
	MaxAge   time.Duration
}
