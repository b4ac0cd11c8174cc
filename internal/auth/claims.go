package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mmcdole/campus/internal/domain"
)

var parser = jwt.NewParser()

var errNotAnObject = errors.New("token payload is not a JSON object")

// parseClaims decodes the payload segment without verifying the signature.
// The header is never read, so its contents do not matter.
func parseClaims(token string) (jwt.MapClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, jwt.ErrTokenMalformed
	}
	payload, err := parser.DecodeSegment(parts[1])
	if err != nil {
		return nil, err
	}
	var claims jwt.MapClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, err
	}
	if claims == nil {
		return nil, errNotAnObject
	}
	return claims, nil
}

// ValidToken reports whether token has three segments and a JSON object payload
func ValidToken(token string) bool {
	if token == "" || strings.Count(token, ".") != 2 {
		return false
	}
	_, err := parseClaims(token)
	return err == nil
}

// DecodeClaims returns the token's claims, or empty claims when it cannot
// be decoded
func DecodeClaims(token string, logger *slog.Logger) jwt.MapClaims {
	claims, err := parseClaims(token)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to decode token", "error", err)
		}
		return jwt.MapClaims{}
	}
	return claims
}

// RoleFromClaims reads role, falling back to authorities, then USER.
// ROLE_ADMIN, admin and Admin all map to ADMIN.
func RoleFromClaims(claims jwt.MapClaims) domain.Role {
	raw := stringClaim(claims, "role")
	if raw == "" {
		switch v := claims["authorities"].(type) {
		case string:
			raw = v
		case []any:
			if len(v) > 0 {
				raw, _ = v[0].(string)
			}
		}
	}
	if raw == "" {
		raw = string(domain.RoleUser)
	}
	if strings.Contains(domain.NormalizeRole(raw), "admin") {
		return domain.RoleAdmin
	}
	return domain.RoleUser
}

// UserFromClaims reads username (or sub), email and a numeric userId
func UserFromClaims(claims jwt.MapClaims) *domain.UserDetails {
	username := stringClaim(claims, "username")
	if username == "" {
		username = stringClaim(claims, "sub")
	}
	return &domain.UserDetails{
		ID:       int64Claim(claims, "userId"),
		Email:    stringClaim(claims, "email"),
		Username: username,
	}
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}

func int64Claim(claims jwt.MapClaims, key string) int64 {
	switch v := claims[key].(type) {
	case float64:
		return int64(v)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
