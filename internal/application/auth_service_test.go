package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rakapradana/fitness-tracker/internal/domain/entity"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
	fail  bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errors.New("connection refused")
	}
	u, ok := f.users[username]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) InsertIfAbsent(_ context.Context, u *entity.User) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return false, errors.New("connection refused")
	}
	if _, ok := f.users[u.Username]; ok {
		return false, nil
	}
	cp := *u
	f.users[u.Username] = &cp
	return true, nil
}

func (f *fakeUserRepo) UpdateEmail(_ context.Context, username, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return false, errors.New("connection refused")
	}
	u, ok := f.users[username]
	if !ok {
		return false, nil
	}
	u.Email = email
	return true, nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, username, hash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return false, errors.New("connection refused")
	}
	u, ok := f.users[username]
	if !ok {
		return false, nil
	}
	u.PasswordHash = hash
	return true, nil
}

type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]string
	next   int
	fail   bool
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]string{}}
}

func (f *fakeTokenStore) Issue(_ context.Context, username string, _ time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", errors.New("connection refused")
	}
	f.next++
	value := fmt.Sprintf("tok-%d", f.next)
	f.tokens[value] = username
	return value, nil
}

func (f *fakeTokenStore) Resolve(_ context.Context, token string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", errors.New("connection refused")
	}
	username, ok := f.tokens[token]
	if !ok {
		return "", ErrTokenNotFound
	}
	return username, nil
}

func (f *fakeTokenStore) Revoke(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("connection refused")
	}
	delete(f.tokens, token)
	return nil
}

func newTestAuthService() (*AuthService, *fakeUserRepo, *fakeTokenStore) {
	users := newFakeUserRepo()
	tokens := newFakeTokenStore()
	svc := NewAuthService(users, tokens, nil, bcrypt.MinCost, time.Hour, time.Second)
	return svc, users, tokens
}

func validSignup() SignupInput {
	return SignupInput{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Name:            "Alice",
	}
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, users, tokens := newTestAuthService()

		sess, token, err := svc.Signup(ctx, validSignup())
		require.NoError(t, err)
		require.True(t, sess.Authenticated())
		assert.Equal(t, "alice", sess.Username())
		require.NotNil(t, token)
		assert.Equal(t, "alice", token.Username)
		assert.Equal(t, time.Hour, token.MaxAge)

		stored := users.users["alice"]
		require.NotNil(t, stored)
		assert.NotEqual(t, "secret1", stored.PasswordHash, "password must not be stored in plain text")
		assert.Equal(t, "alice", tokens.tokens[token.Value])
	})

	t.Run("missing fields", func(t *testing.T) {
		svc, _, _ := newTestAuthService()

		in := validSignup()
		in.Email = ""
		_, _, err := svc.Signup(ctx, in)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
		assert.EqualError(t, err, "please fill in all fields")
	})

	t.Run("password mismatch", func(t *testing.T) {
		svc, _, _ := newTestAuthService()

		in := validSignup()
		in.ConfirmPassword = "different"
		_, _, err := svc.Signup(ctx, in)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
		assert.EqualError(t, err, "passwords do not match")
	})

	t.Run("password too short", func(t *testing.T) {
		svc, _, _ := newTestAuthService()

		in := validSignup()
		in.Password = "abc"
		in.ConfirmPassword = "abc"
		_, _, err := svc.Signup(ctx, in)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
		assert.EqualError(t, err, "password must be at least 6 characters long")
	})

	t.Run("username taken", func(t *testing.T) {
		svc, users, tokens := newTestAuthService()

		_, _, err := svc.Signup(ctx, validSignup())
		require.NoError(t, err)
		before := *users.users["alice"]

		in := validSignup()
		in.Email = "other@example.com"
		_, tok, err := svc.Signup(ctx, in)
		require.ErrorIs(t, err, ErrUsernameTaken)
		assert.Nil(t, tok)

		// existing record untouched, no extra token issued
		assert.Equal(t, before, *users.users["alice"])
		assert.Len(t, tokens.tokens, 1)
	})

	t.Run("storage down", func(t *testing.T) {
		svc, users, _ := newTestAuthService()
		users.fail = true

		_, _, err := svc.Signup(ctx, validSignup())
		require.ErrorIs(t, err, ErrStorageUnavailable)
	})

	t.Run("concurrent same username", func(t *testing.T) {
		svc, users, _ := newTestAuthService()

		const n = 8
		errs := make(chan error, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, err := svc.Signup(ctx, validSignup())
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		var ok, taken int
		for err := range errs {
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrUsernameTaken):
				taken++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, ok, "exactly one signup wins")
		assert.Equal(t, n-1, taken)
		assert.Len(t, users.users, 1)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) (*AuthService, *fakeUserRepo, *fakeTokenStore) {
		t.Helper()
		svc, users, tokens := newTestAuthService()
		_, _, err := svc.Signup(ctx, validSignup())
		require.NoError(t, err)
		return svc, users, tokens
	}

	t.Run("success", func(t *testing.T) {
		svc, _, tokens := seed(t)

		sess, token, err := svc.Login(ctx, "alice", "secret1")
		require.NoError(t, err)
		require.True(t, sess.Authenticated())
		assert.Equal(t, "alice", sess.Username())
		require.NotNil(t, token)
		assert.Equal(t, "alice", tokens.tokens[token.Value])
	})

	t.Run("wrong password and unknown user are indistinguishable", func(t *testing.T) {
		svc, _, _ := seed(t)

		_, _, errWrongPass := svc.Login(ctx, "alice", "nope99")
		require.ErrorIs(t, errWrongPass, ErrInvalidCredentials)

		_, _, errNoUser := svc.Login(ctx, "nobody", "secret1")
		require.ErrorIs(t, errNoUser, ErrInvalidCredentials)
	})

	t.Run("empty input", func(t *testing.T) {
		svc, _, _ := seed(t)

		_, _, err := svc.Login(ctx, "", "secret1")
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})

	t.Run("storage down", func(t *testing.T) {
		svc, users, _ := seed(t)
		users.fail = true

		_, _, err := svc.Login(ctx, "alice", "secret1")
		require.ErrorIs(t, err, ErrStorageUnavailable)
	})

	t.Run("token store down after valid credentials", func(t *testing.T) {
		svc, _, tokens := seed(t)
		tokens.fail = true

		_, _, err := svc.Login(ctx, "alice", "secret1")
		require.ErrorIs(t, err, ErrStorageUnavailable)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	svc, _, tokens := newTestAuthService()

	sess, token, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)
	sess.CacheNotes([]entity.Note{{ID: "n1", Text: "leg day"}})

	svc.Logout(ctx, sess, token.Value)

	assert.False(t, sess.Authenticated())
	assert.Empty(t, sess.Username())
	_, cached := sess.CachedNotes()
	assert.False(t, cached, "per-visit caches are discarded on logout")
	_, err = tokens.Resolve(ctx, token.Value)
	require.ErrorIs(t, err, ErrTokenNotFound)
}

func TestLogoutTokenStoreDown(t *testing.T) {
	ctx := context.Background()
	svc, _, tokens := newTestAuthService()

	sess, token, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	tokens.fail = true
	svc.Logout(ctx, sess, token.Value)

	// revocation is best-effort; the session is reset regardless
	assert.False(t, sess.Authenticated())
}

func TestRestoreFromToken(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		svc, _, _ := newTestAuthService()
		_, token, err := svc.Signup(ctx, validSignup())
		require.NoError(t, err)

		sess, err := svc.RestoreFromToken(ctx, token.Value)
		require.NoError(t, err)
		assert.True(t, sess.Authenticated())
		assert.Equal(t, "alice", sess.Username())
	})

	t.Run("unknown token yields anonymous session", func(t *testing.T) {
		svc, _, _ := newTestAuthService()

		sess, err := svc.RestoreFromToken(ctx, "bogus")
		require.NoError(t, err)
		assert.False(t, sess.Authenticated())
	})

	t.Run("token resolves but user is gone", func(t *testing.T) {
		svc, users, _ := newTestAuthService()
		_, token, err := svc.Signup(ctx, validSignup())
		require.NoError(t, err)

		delete(users.users, "alice")

		sess, err := svc.RestoreFromToken(ctx, token.Value)
		require.NoError(t, err)
		assert.False(t, sess.Authenticated())
	})

	t.Run("storage down", func(t *testing.T) {
		svc, _, tokens := newTestAuthService()
		tokens.fail = true

		_, err := svc.RestoreFromToken(ctx, "any")
		require.ErrorIs(t, err, ErrStorageUnavailable)
	})
}

func TestUpdatePassword(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuthService()

	sess, token, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	require.NoError(t, svc.UpdatePassword(ctx, sess, "newsecret"))

	_, _, err = svc.Login(ctx, "alice", "secret1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "alice", "newsecret")
	require.NoError(t, err)

	// previously issued tokens stay valid
	restored, err := svc.RestoreFromToken(ctx, token.Value)
	require.NoError(t, err)
	assert.True(t, restored.Authenticated())
}

func TestUpdatePasswordTooShort(t *testing.T) {
	svc, _, _ := newTestAuthService()
	sess := NewAuthenticatedSession("alice")

	err := svc.UpdatePassword(context.Background(), sess, "abc")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestUpdateEmail(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newTestAuthService()

	sess, _, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	require.NoError(t, svc.UpdateEmail(ctx, sess, "new@example.com"))
	assert.Equal(t, "new@example.com", users.users["alice"].Email)

	err = svc.UpdateEmail(ctx, sess, "")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}
