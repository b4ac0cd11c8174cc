package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/mmcdole/campus/internal/domain"
)

const (
	usernameAvailable = "Username is available"
	emailAvailable    = "Email is available"
)

// Login posts credentials and returns the token from the response.
// The token may arrive as {"token": ...}, {"jwt": ...} or a bare string.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	data, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   loginRequest{Username: username, Password: password},
	})
	if err != nil {
		return "", err
	}
	return extractToken(data), nil
}

func extractToken(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	var resp loginResponse
	if err := json.Unmarshal(trimmed, &resp); err == nil {
		if resp.Token != "" {
			return resp.Token
		}
		return resp.JWT
	}
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return ""
	}
	return text(trimmed)
}

// Signup registers an account and returns the server's text reply
func (c *Client) Signup(ctx context.Context, req domain.SignupRequest) (string, error) {
	data, err := c.do(ctx, request{method: http.MethodPost, path: "/auth/signup", body: req})
	if err != nil {
		return "", err
	}
	return text(data), nil
}

// CheckUsername reports whether username is free
func (c *Client) CheckUsername(ctx context.Context, username string) (bool, error) {
	data, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/auth/check-username",
		query:  url.Values{"username": {username}},
	})
	if err != nil {
		return false, err
	}
	return text(data) == usernameAvailable, nil
}

// CheckEmail reports whether email is free
func (c *Client) CheckEmail(ctx context.Context, email string) (bool, error) {
	data, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/auth/check-email",
		query:  url.Values{"email": {email}},
	})
	if err != nil {
		return false, err
	}
	return text(data) == emailAvailable, nil
}

// CurrentUserID resolves the numeric id of the signed-in user
func (c *Client) CurrentUserID(ctx context.Context) (int64, error) {
	data, err := c.do(ctx, request{method: http.MethodGet, path: "/user/me", auth: true})
	if err != nil {
		return 0, err
	}
	var resp currentUserResponse
	if err := decode(data, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}
