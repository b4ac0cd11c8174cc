// Package auth tracks who is signed in. The persisted token is the source
// of truth; role and user are derived from its claims.
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/mmcdole/campus/internal/domain"
	"github.com/mmcdole/campus/internal/state"
	"github.com/mmcdole/campus/internal/validate"
)

// TokenStore persists the session token
type TokenStore interface {
	Token() (string, bool)
	SetToken(token string) error
	ClearToken() error
}

// Dispatcher receives auth actions
type Dispatcher interface {
	Dispatch(a state.Action)
}

// Holder owns the session
type Holder struct {
	repo   domain.AuthRepository
	tokens TokenStore
	store  Dispatcher
	logger *slog.Logger

	mu   sync.Mutex
	last bool
	subs map[chan bool]struct{}
}

// NewHolder creates a new auth holder
func NewHolder(repo domain.AuthRepository, tokens TokenStore, store Dispatcher, logger *slog.Logger) *Holder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Holder{
		repo:   repo,
		tokens: tokens,
		store:  store,
		logger: logger,
		subs:   make(map[chan bool]struct{}),
	}
}

// Initialize restores role and user from a persisted token
func (h *Holder) Initialize() {
	token, ok := h.tokens.Token()
	if !ok {
		return
	}
	if !ValidToken(token) {
		h.logger.Warn("discarding invalid persisted token")
		h.Logout()
		return
	}
	h.applyToken(token)
	h.setAuthenticated(true)
}

// IsAuthenticated reports whether a well-formed token is present. A present
// but malformed token is removed.
func (h *Holder) IsAuthenticated() bool {
	token, ok := h.tokens.Token()
	if !ok {
		return false
	}
	if !ValidToken(token) {
		h.logger.Warn("stored token is invalid, logging out")
		h.Logout()
		return false
	}
	return true
}

// Token returns the current token, or ""
func (h *Holder) Token() string {
	token, _ := h.tokens.Token()
	return token
}

// Username returns the username claim of the current token
func (h *Holder) Username() string {
	token, ok := h.tokens.Token()
	if !ok {
		return ""
	}
	return UserFromClaims(DecodeClaims(token, h.logger)).Username
}

// Role returns the role of the current token, or RoleNone when signed out
func (h *Holder) Role() domain.Role {
	if !h.IsAuthenticated() {
		return domain.RoleNone
	}
	return RoleFromClaims(DecodeClaims(h.Token(), h.logger))
}

// IsAdmin reports whether the signed-in user is an administrator
func (h *Holder) IsAdmin() bool {
	return h.Role() == domain.RoleAdmin
}

// Login exchanges credentials for a token and signs in
func (h *Holder) Login(ctx context.Context, username, password string) (string, error) {
	token, err := h.repo.Login(ctx, username, password)
	if err != nil {
		h.logger.Error("login failed", "username", username, "error", err)
		h.setAuthenticated(false)
		switch domain.StatusOf(err) {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
			return "", domain.ErrInvalidCredentials
		}
		return "", errors.Wrap(err, "login")
	}
	if !ValidToken(token) {
		h.logger.Error("login response had no usable token", "username", username)
		h.setAuthenticated(false)
		return "", domain.ErrMalformedToken
	}

	if err := h.tokens.SetToken(token); err != nil {
		return "", errors.Wrap(err, "failed to persist token")
	}
	h.applyToken(token)
	h.setAuthenticated(true)
	h.logger.Info("logged in", "username", username)
	return token, nil
}

// Logout drops the token and all per-user state
func (h *Holder) Logout() {
	if err := h.tokens.ClearToken(); err != nil {
		h.logger.Error("failed to clear token", "error", err)
	}
	h.store.Dispatch(state.ClearAuth{})
	h.setAuthenticated(false)
}

// Signup registers an account after local validation. The user must log
// in afterwards.
func (h *Holder) Signup(ctx context.Context, req domain.SignupRequest) (string, error) {
	if err := validate.Signup(req); err != nil {
		return "", err
	}
	msg, err := h.repo.Signup(ctx, req)
	if err != nil {
		h.logger.Error("signup failed", "username", req.Username, "error", err)
		return "", domain.Fail(err, "Signup failed")
	}
	h.Logout()
	return msg, nil
}

// CheckUsername reports whether username is free
func (h *Holder) CheckUsername(ctx context.Context, username string) (bool, error) {
	return h.repo.CheckUsername(ctx, username)
}

// CheckEmail reports whether email is free
func (h *Holder) CheckEmail(ctx context.Context, email string) (bool, error) {
	return h.repo.CheckEmail(ctx, email)
}

// UserID resolves the signed-in user's id; 0 when signed out or on failure
func (h *Holder) UserID(ctx context.Context) int64 {
	if !h.IsAuthenticated() {
		return 0
	}
	id, err := h.repo.CurrentUserID(ctx)
	if err != nil {
		h.logger.Error("failed to fetch user id", "error", err)
		return 0
	}
	return id
}

// Subscribe delivers the authentication state now and on every change,
// latest value only. The channel closes when ctx is done.
func (h *Holder) Subscribe(ctx context.Context) <-chan bool {
	ch := make(chan bool, 1)
	h.mu.Lock()
	ch <- h.last
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, ch)
		close(ch)
		h.mu.Unlock()
	}()
	return ch
}

// Watch re-reads the token whenever changes fires, so a login or logout in
// another process is reflected here. It returns when changes closes or ctx
// is done.
func (h *Holder) Watch(ctx context.Context, changes <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			h.sync()
		}
	}
}

func (h *Holder) sync() {
	token, ok := h.tokens.Token()
	switch {
	case ok && ValidToken(token):
		h.applyToken(token)
		h.setAuthenticated(true)
	case ok:
		h.Logout()
	default:
		h.store.Dispatch(state.ClearAuth{})
		h.setAuthenticated(false)
	}
}

// applyToken dispatches role and user from token's claims
func (h *Holder) applyToken(token string) {
	claims := DecodeClaims(token, h.logger)
	h.store.Dispatch(state.SetAuth{
		Role: RoleFromClaims(claims),
		User: UserFromClaims(claims),
	})
}

// setAuthenticated publishes v to subscribers when it changes
func (h *Holder) setAuthenticated(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.last == v {
		return
	}
	h.last = v
	for ch := range h.subs {
		select {
		case ch <- v:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- v
		}
	}
}

var _ domain.Session = (*Holder)(nil)
