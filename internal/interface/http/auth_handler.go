package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rakapradana/fitness-tracker/internal/application"
	"github.com/rakapradana/fitness-tracker/internal/interface/middleware"
	"github.com/rakapradana/fitness-tracker/pkg/helpers"
	"github.com/rakapradana/fitness-tracker/pkg/response"
	"github.com/rakapradana/fitness-tracker/pkg/validation"
)

// CookieStoreHeader lets a client that has not finished booting its
// cookie component signal "store not initialized yet" explicitly, which
// keeps the restorer pending instead of settling on not-found.
const CookieStoreHeader = "X-Cookie-Store"

type AuthHandler struct {
	Auth     *application.AuthService
	Profiles *application.ProfileService
	Cookies  *helpers.Manager
	Logger   *logrus.Logger

	RestoreMaxAttempts int
	RestoreRetryDelay  time.Duration
}

func NewAuthHandler(auth *application.AuthService, profiles *application.ProfileService, cookies *helpers.Manager, logger *logrus.Logger, restoreMaxAttempts int, restoreRetryDelay time.Duration) *AuthHandler {
	return &AuthHandler{
		Auth:               auth,
		Profiles:           profiles,
		Cookies:            cookies,
		Logger:             logger,
		RestoreMaxAttempts: restoreMaxAttempts,
		RestoreRetryDelay:  restoreRetryDelay,
	}
}

type signupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type updateEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type updatePasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,pwd"`
}

// failAuth maps application errors onto the response taxonomy. Invalid
// credentials stay deliberately undifferentiated.
func failAuth(c *gin.Context, err error) {
	var ve *application.ValidationError
	switch {
	case errors.As(err, &ve):
		response.Error[any](c, http.StatusBadRequest, ve.Reason, nil)
	case errors.Is(err, application.ErrUsernameTaken):
		response.Error[any](c, http.StatusConflict, "username already exists, please choose a different username", nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "invalid username or password", nil)
	case errors.Is(err, application.ErrStorageUnavailable):
		response.Error[any](c, http.StatusServiceUnavailable, "service temporarily unavailable, please retry", nil)
	default:
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}

// Signup handles POST /api/signup. Field-level validation lives in the
// application layer so the inline messages match the auth forms.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	sess, token, err := h.Auth.Signup(c.Request.Context(), application.SignupInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Name:            req.Name,
	})
	if err != nil {
		failAuth(c, err)
		return
	}

	h.Cookies.SetSession(c, token.Value, token.MaxAge)
	response.Success(c, http.StatusCreated, gin.H{
		"username": sess.Username(),
	}, "account created successfully", gin.H{"session_expires_at": token.IssuedAt.Add(token.MaxAge)})
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	sess, token, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		failAuth(c, err)
		return
	}

	h.Cookies.SetSession(c, token.Value, token.MaxAge)
	response.Success(c, http.StatusOK, gin.H{
		"username": sess.Username(),
	}, "login successful", gin.H{"session_expires_at": token.IssuedAt.Add(token.MaxAge)})
}

// requestCookieSource adapts one inbound request's cookie jar to the
// restorer's TokenSource. A booting client marks the store pending via
// the X-Cookie-Store header.
type requestCookieSource struct {
	c *gin.Context
}

func (s requestCookieSource) Cookies(_ context.Context) (map[string]string, error) {
	if strings.EqualFold(s.c.GetHeader(CookieStoreHeader), "pending") {
		return nil, application.ErrStoreNotReady
	}
	jar := make(map[string]string)
	for _, ck := range s.c.Request.Cookies() {
		jar[ck.Name] = ck.Value
	}
	return jar, nil
}

// Session handles GET /api/session: it drives the restoration state
// machine to a definite outcome before answering, so a client never has
// to render the auth forms while restoration is still ambiguous.
func (h *AuthHandler) Session(c *gin.Context) {
	restorer := application.NewRestorer(h.Auth, requestCookieSource{c: c}, h.Cookies.Name, h.RestoreMaxAttempts, h.RestoreRetryDelay)

	sess, err := restorer.Run(c.Request.Context())
	if err != nil {
		// visitor gone; nothing meaningful to answer
		c.Abort()
		return
	}

	body := gin.H{
		"authenticated": sess.Authenticated(),
		"state":         restorer.State().String(),
	}
	if sess.Authenticated() {
		body["username"] = sess.Username()
	}
	response.Success(c, http.StatusOK, body, "session state", gin.H{"attempts": restorer.Attempts()})
}

// Logout handles POST /api/logout (protected). The persistent token is
// revoked server-side and the cookie replaced with an immediately expiring
// one; cached profile data for the visit is discarded.
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	username := sess.Username()

	h.Auth.Logout(c.Request.Context(), sess, c.GetString(middleware.CtxTokenKey))
	if username != "" {
		h.Profiles.InvalidateCache(c.Request.Context(), username)
	}
	h.Cookies.Clear(c)

	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

// Me handles GET /api/me (protected).
func (h *AuthHandler) Me(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	user, err := h.Auth.User(c.Request.Context(), sess)
	if err != nil {
		failAuth(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"username": user.Username,
		"email":    user.Email,
		"name":     user.Name,
	}, "current user", nil)
}

// UpdateEmail handles PUT /api/account/email (protected).
func (h *AuthHandler) UpdateEmail(c *gin.Context) {
	var req updateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	sess := middleware.SessionFrom(c)
	if err := h.Auth.UpdateEmail(c.Request.Context(), sess, req.Email); err != nil {
		failAuth(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"updated": true}, "email updated", nil)
}

// UpdatePassword handles PUT /api/account/password (protected). Existing
// session tokens remain valid after the change.
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	sess := middleware.SessionFrom(c)
	if err := h.Auth.UpdatePassword(c.Request.Context(), sess, req.NewPassword); err != nil {
		failAuth(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"updated": true}, "password updated", nil)
}
