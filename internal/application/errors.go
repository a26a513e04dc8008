package application

import "errors"

// Sentinel errors for authentication and storage operations. Wrap with
// fmt.Errorf("...: %w") when adding context; match with errors.Is at the
// HTTP boundary.
var (
	// ErrInvalidCredentials covers both "no such user" and "wrong password";
	// callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUsernameTaken indicates the username already exists. The existing
	// record is left untouched and no token is issued.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrStorageUnavailable indicates a storage call failed or timed out.
	// Retryable; authentication state is unchanged.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrTokenNotFound indicates the session token does not resolve to a
	// username (unknown, revoked, or expired).
	ErrTokenNotFound = errors.New("session token not found")
)

// ValidationError is a client-correctable input failure. The reason is
// safe to surface inline next to the form.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
