package application

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

// ErrStoreNotReady means the client-side token store has not initialized
// at all yet — not even an empty set could be read. Distinct from a store
// that is readable but simply lacks the session key.
var ErrStoreNotReady = errors.New("token store not initialized")

// TokenSource abstracts the client-side token store as seen during one
// visit. The store is populated asynchronously relative to the first
// render, so early reads may fail with ErrStoreNotReady.
type TokenSource interface {
	Cookies(ctx context.Context) (map[string]string, error)
}

// RestoreState tracks the per-visit restoration state machine.
type RestoreState int

const (
	RestoreUnchecked RestoreState = iota
	RestorePending
	RestoreRestored
	RestoreNotFound
)

func (s RestoreState) String() string {
	switch s {
	case RestoreUnchecked:
		return "unchecked"
	case RestorePending:
		return "pending"
	case RestoreRestored:
		return "restored"
	case RestoreNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

var errInconclusive = errors.New("restoration inconclusive")

// Restorer reconciles "is a persisted token available yet" against "has
// enough time passed to conclude none exists". A single synchronous read
// on first load cannot tell "no session" from "store not yet populated",
// so the restorer re-reads up to maxAttempts times with a fixed delay
// before settling on NotFound. A definitive read — the store is readable
// and carries the session key — short-circuits immediately.
//
// The trade-off is deliberate: a genuinely anonymous visitor waits at most
// maxAttempts*delay before seeing the login screen, while a visitor with a
// slow-loading but valid token is never bounced to re-login within that
// window. Beyond it, a sluggish store is indistinguishable from an absent
// token and the visitor is asked to log in again.
//
// A Restorer serves exactly one visit and is not safe for concurrent use.
// While pending it holds no server-side resources, so abandoning it on
// context cancellation needs no cleanup.
type Restorer struct {
	auth       *AuthService
	source     TokenSource
	cookieName string

	maxAttempts int
	delay       time.Duration

	state    RestoreState
	attempts int
	session  *Session
}

func NewRestorer(auth *AuthService, source TokenSource, cookieName string, maxAttempts int, delay time.Duration) *Restorer {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Restorer{
		auth:        auth,
		source:      source,
		cookieName:  cookieName,
		maxAttempts: maxAttempts,
		delay:       delay,
		state:       RestoreUnchecked,
	}
}

func (r *Restorer) State() RestoreState { return r.state }
func (r *Restorer) Attempts() int       { return r.attempts }

// Run drives the state machine to a definite outcome and returns the
// resulting session: authenticated when a valid token was recovered,
// anonymous otherwise. It blocks only the calling visitor's request and
// returns early on context cancellation.
func (r *Restorer) Run(ctx context.Context) (*Session, error) {
	backoff := retry.WithMaxRetries(uint64(r.maxAttempts-1), retry.NewConstant(r.delay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if r.step(ctx) {
			return nil
		}
		return retry.RetryableError(errInconclusive)
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			// visitor navigated away; nothing to clean up
			return nil, ctxErr
		}
		// attempts exhausted while still ambiguous: assume no session
		r.state = RestoreNotFound
		r.session = NewSession()
	}

	return r.session, nil
}

// step performs one read of the token store. It returns true when the
// state machine has settled on Restored or NotFound.
func (r *Restorer) step(ctx context.Context) bool {
	r.attempts++

	cookies, err := r.source.Cookies(ctx)
	if err != nil {
		// store not initialized (or transiently unreadable): stay pending
		r.state = RestorePending
		return false
	}

	token, ok := cookies[r.cookieName]
	if !ok || token == "" {
		// readable but missing the key; ambiguous until attempts run out
		r.state = RestorePending
		return false
	}

	sess, err := r.auth.RestoreFromToken(ctx, token)
	if err != nil {
		// token store backend unavailable; treat like an unready store
		r.state = RestorePending
		return false
	}

	r.session = sess
	if sess.Authenticated() {
		r.state = RestoreRestored
	} else {
		r.state = RestoreNotFound
	}
	return true
}
