package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rakapradana/fitness-tracker/internal/domain/entity"
	"github.com/rakapradana/fitness-tracker/internal/domain/repository"
	"github.com/rakapradana/fitness-tracker/pkg/helpers"
)

// dummyHash keeps login cost constant when the username does not exist:
// the bcrypt comparison runs either way, so the two failure paths are
// indistinguishable by timing. Hash of an unguessable throwaway value.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

const minPasswordLen = 6

// AuthService orchestrates login, signup, logout and token restoration.
// It delegates credential hashing to the helpers package, identity lookups
// to the user repository, and token persistence to the TokenStore.
type AuthService struct {
	users  repository.UserRepository
	tokens TokenStore
	logger *logrus.Logger

	bcryptCost     int
	sessionTTL     time.Duration
	storageTimeout time.Duration
}

func NewAuthService(users repository.UserRepository, tokens TokenStore, logger *logrus.Logger, bcryptCost int, sessionTTL, storageTimeout time.Duration) *AuthService {
	return &AuthService{
		users:          users,
		tokens:         tokens,
		logger:         logger,
		bcryptCost:     bcryptCost,
		sessionTTL:     sessionTTL,
		storageTimeout: storageTimeout,
	}
}

// SignupInput carries the signup form fields.
type SignupInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	Name            string
}

func (in SignupInput) validate() error {
	if in.Username == "" || in.Email == "" || in.Password == "" || in.ConfirmPassword == "" || in.Name == "" {
		return &ValidationError{Reason: "please fill in all fields"}
	}
	if in.Password != in.ConfirmPassword {
		return &ValidationError{Reason: "passwords do not match"}
	}
	if len(in.Password) < minPasswordLen {
		return &ValidationError{Reason: "password must be at least 6 characters long"}
	}
	return nil
}

func (s *AuthService) storageCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storageTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.storageTimeout)
}

// storageErr folds repository and token-store failures into the retryable
// ErrStorageUnavailable kind; the underlying cause is logged, not surfaced.
func (s *AuthService) storageErr(op string, err error) error {
	if s.logger != nil {
		s.logger.WithError(err).WithField("op", op).Error("storage call failed")
	}
	return fmt.Errorf("%s: %w", op, ErrStorageUnavailable)
}

// Signup validates the form, creates the user atomically, and on success
// returns an authenticated session with a fresh persistent token.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*Session, *entity.SessionToken, error) {
	if err := in.validate(); err != nil {
		return nil, nil, err
	}

	hash, err := helpers.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Username:     in.Username,
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
	}

	dbCtx, cancel := s.storageCtx(ctx)
	defer cancel()
	inserted, err := s.users.InsertIfAbsent(dbCtx, user)
	if err != nil {
		return nil, nil, s.storageErr("insert user", err)
	}
	if !inserted {
		return nil, nil, fmt.Errorf("signup %q: %w", in.Username, ErrUsernameTaken)
	}

	token, err := s.issueToken(ctx, in.Username)
	if err != nil {
		return nil, nil, err
	}

	if s.logger != nil {
		s.logger.WithField("username", in.Username).Info("user registered")
	}
	return NewAuthenticatedSession(in.Username), token, nil
}

// Login verifies the credentials and on success returns an authenticated
// session with a fresh persistent token. A missing user and a wrong
// password produce the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, *entity.SessionToken, error) {
	if username == "" || password == "" {
		return nil, nil, &ValidationError{Reason: "please enter both username and password"}
	}

	dbCtx, cancel := s.storageCtx(ctx)
	defer cancel()
	user, err := s.users.FindByUsername(dbCtx, username)
	if err != nil {
		return nil, nil, s.storageErr("find user", err)
	}

	if user == nil {
		// burn the same bcrypt work as the found-user path
		helpers.CompareHashAndPassword(dummyHash, password)
		return nil, nil, fmt.Errorf("authenticate %q: %w", username, ErrInvalidCredentials)
	}
	if !helpers.CompareHashAndPassword(user.PasswordHash, password) {
		return nil, nil, fmt.Errorf("authenticate %q: %w", username, ErrInvalidCredentials)
	}

	token, err := s.issueToken(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	if s.logger != nil {
		s.logger.WithField("username", username).Info("login successful")
	}
	return NewAuthenticatedSession(username), token, nil
}

func (s *AuthService) issueToken(ctx context.Context, username string) (*entity.SessionToken, error) {
	storeCtx, cancel := s.storageCtx(ctx)
	defer cancel()
	value, err := s.tokens.Issue(storeCtx, username, s.sessionTTL)
	if err != nil {
		return nil, s.storageErr("issue token", err)
	}
	return &entity.SessionToken{
		Value:    value,
		Username: username,
		IssuedAt: time.Now(),
		MaxAge:   s.sessionTTL,
	}, nil
}

// Logout revokes the persistent token, discards the session's caches and
// transitions it to Anonymous. Revocation is best-effort: a failure to
// reach the token store never blocks the logout itself (the cookie is
// expired client-side regardless).
func (s *AuthService) Logout(ctx context.Context, sess *Session, tokenValue string) {
	if tokenValue != "" {
		storeCtx, cancel := s.storageCtx(ctx)
		defer cancel()
		if err := s.tokens.Revoke(storeCtx, tokenValue); err != nil && s.logger != nil {
			s.logger.WithError(err).Warn("token revoke failed")
		}
	}
	sess.Reset()
}

// RestoreFromToken re-establishes a session from a previously issued
// token. The token must still resolve server-side AND the username it
// names must still exist in the directory; otherwise the visitor stays
// anonymous. A stale client-side cookie is left alone — once the mapping
// or the user record is gone the token is harmless.
//
// The only error returned is ErrStorageUnavailable; an invalid token is
// an anonymous session, not a failure.
func (s *AuthService) RestoreFromToken(ctx context.Context, tokenValue string) (*Session, error) {
	storeCtx, cancel := s.storageCtx(ctx)
	defer cancel()
	username, err := s.tokens.Resolve(storeCtx, tokenValue)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return NewSession(), nil
		}
		return nil, s.storageErr("resolve token", err)
	}

	dbCtx, cancel2 := s.storageCtx(ctx)
	defer cancel2()
	user, err := s.users.FindByUsername(dbCtx, username)
	if err != nil {
		return nil, s.storageErr("find user", err)
	}
	if user == nil {
		return NewSession(), nil
	}

	return NewAuthenticatedSession(username), nil
}

// UpdateEmail changes the account email for the session's user.
func (s *AuthService) UpdateEmail(ctx context.Context, sess *Session, email string) error {
	if email == "" {
		return &ValidationError{Reason: "please provide an email"}
	}
	dbCtx, cancel := s.storageCtx(ctx)
	defer cancel()
	ok, err := s.users.UpdateEmail(dbCtx, sess.Username(), email)
	if err != nil {
		return s.storageErr("update email", err)
	}
	if !ok {
		return fmt.Errorf("update email %q: %w", sess.Username(), ErrInvalidCredentials)
	}
	return nil
}

// UpdatePassword re-hashes and stores a new password. Existing session
// tokens stay valid; tokens are not bound to credential state.
func (s *AuthService) UpdatePassword(ctx context.Context, sess *Session, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return &ValidationError{Reason: "password must be at least 6 characters long"}
	}
	hash, err := helpers.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	dbCtx, cancel := s.storageCtx(ctx)
	defer cancel()
	ok, err := s.users.UpdatePassword(dbCtx, sess.Username(), hash)
	if err != nil {
		return s.storageErr("update password", err)
	}
	if !ok {
		return fmt.Errorf("update password %q: %w", sess.Username(), ErrInvalidCredentials)
	}
	return nil
}

// User returns the directory record for the session's user.
func (s *AuthService) User(ctx context.Context, sess *Session) (*entity.User, error) {
	dbCtx, cancel := s.storageCtx(ctx)
	defer cancel()
	user, err := s.users.FindByUsername(dbCtx, sess.Username())
	if err != nil {
		return nil, s.storageErr("find user", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %q: %w", sess.Username(), ErrInvalidCredentials)
	}
	return user, nil
}
