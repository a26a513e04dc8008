package application

import (
	"time"

	"github.com/rakapradana/fitness-tracker/internal/domain/entity"
)

// SessionState is the authentication state of one visitor session.
type SessionState int

const (
	Anonymous SessionState = iota
	Authenticated
)

// Session is the session-scoped context object for a single visit. It is
// created when the visit starts, carried through every operation of that
// visitor, and discarded on logout or visit end. It replaces any notion of
// process-global authentication flags: nothing here is shared between
// visitors.
//
// Session is not safe for concurrent use; each visit owns exactly one.
type Session struct {
	state     SessionState
	username  string
	startedAt time.Time

	// per-visit caches, rebuilt on next authenticated visit after logout
	profile *entity.Profile
	notes   []entity.Note
}

// NewSession returns a fresh anonymous session.
func NewSession() *Session {
	return &Session{state: Anonymous, startedAt: time.Now()}
}

// NewAuthenticatedSession returns a session already bound to a validated
// username. Use only after the username has been confirmed against the
// user directory (login, signup, or token restore).
func NewAuthenticatedSession(username string) *Session {
	return &Session{state: Authenticated, username: username, startedAt: time.Now()}
}

func (s *Session) Authenticated() bool { return s.state == Authenticated }
func (s *Session) Username() string    { return s.username }
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// Reset transitions to Anonymous and discards all per-visit caches.
func (s *Session) Reset() {
	s.state = Anonymous
	s.username = ""
	s.DiscardCaches()
}

func (s *Session) CacheProfile(p *entity.Profile) { s.profile = p }
func (s *Session) CachedProfile() *entity.Profile { return s.profile }

func (s *Session) CacheNotes(notes []entity.Note) { s.notes = notes }
func (s *Session) CachedNotes() ([]entity.Note, bool) {
	if s.notes == nil {
		return nil, false
	}
	return s.notes, true
}

// DiscardCaches drops cached profile and notes; they are rebuilt lazily on
// the next authenticated operation.
func (s *Session) DiscardCaches() {
	s.profile = nil
	s.notes = nil
}
