package domain

import "context"

// TokenStore persists the session token across restarts
type TokenStore interface {
	Token() (string, bool)
	SetToken(token string) error
	ClearToken() error
	// Watch signals when the token may have been changed by another process.
	// The channel closes when ctx is cancelled.
	Watch(ctx context.Context) (<-chan struct{}, error)
	Close() error
}
