package auth

import (
	"encoding/base64"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/campus/internal/domain"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestValidToken(t *testing.T) {
	seg := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"signed token", signToken(t, jwt.MapClaims{"sub": "ann"}), true},
		{"no alg header", seg(`{"typ":"JWT"}`) + "." + seg(`{"sub":"ann"}`) + ".sig", true},
		{"header not json", seg("not-json") + "." + seg(`{"sub":"alice","role":"ROLE_ADMIN"}`) + ".c2ln", true},
		{"payload is null", seg(`{"alg":"HS256"}`) + "." + seg("null") + ".sig", false},
		{"empty", "", false},
		{"two segments", seg(`{}`) + "." + seg(`{}`), false},
		{"payload not json", seg(`{"alg":"HS256"}`) + "." + seg("hello") + ".sig", false},
		{"payload not base64", seg(`{"alg":"HS256"}`) + ".***.sig", false},
		{"payload is an array", seg(`{"alg":"HS256"}`) + "." + seg(`[1,2]`) + ".sig", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidToken(tt.token))
		})
	}
}

func TestRoleFromClaims(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
		want   domain.Role
	}{
		{"role claim with prefix", jwt.MapClaims{"role": "ROLE_ADMIN"}, domain.RoleAdmin},
		{"lowercase admin", jwt.MapClaims{"role": "admin"}, domain.RoleAdmin},
		{"plain user", jwt.MapClaims{"role": "USER"}, domain.RoleUser},
		{"authorities string", jwt.MapClaims{"authorities": "ROLE_ADMIN"}, domain.RoleAdmin},
		{"authorities array first wins", jwt.MapClaims{"authorities": []any{"ROLE_USER", "ROLE_ADMIN"}}, domain.RoleUser},
		{"authorities array admin", jwt.MapClaims{"authorities": []any{"ROLE_ADMIN"}}, domain.RoleAdmin},
		{"nothing defaults to user", jwt.MapClaims{}, domain.RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoleFromClaims(tt.claims))
		})
	}
}

func TestUserFromClaims(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
		want   domain.UserDetails
	}{
		{
			name:   "username and numeric id",
			claims: jwt.MapClaims{"username": "ann", "email": "ann@example.com", "userId": float64(7)},
			want:   domain.UserDetails{ID: 7, Email: "ann@example.com", Username: "ann"},
		},
		{
			name:   "sub fallback and string id",
			claims: jwt.MapClaims{"sub": "bob", "userId": "12"},
			want:   domain.UserDetails{ID: 12, Username: "bob"},
		},
		{
			name:   "unparseable id",
			claims: jwt.MapClaims{"sub": "cy", "userId": "abc"},
			want:   domain.UserDetails{Username: "cy"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, *UserFromClaims(tt.claims))
		})
	}
}

func TestDecodeClaims_FailureYieldsEmptyClaims(t *testing.T) {
	claims := DecodeClaims("garbage", nil)

	assert.Empty(t, claims)
	assert.Equal(t, domain.RoleUser, RoleFromClaims(claims))
}

func TestDecodeClaims_IgnoresHeader(t *testing.T) {
	seg := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }
	token := seg("not-json") + "." + seg(`{"sub":"alice","role":"ROLE_ADMIN"}`) + ".c2ln"

	claims := DecodeClaims(token, nil)

	assert.Equal(t, domain.RoleAdmin, RoleFromClaims(claims))
	assert.Equal(t, "alice", UserFromClaims(claims).Username)
}
