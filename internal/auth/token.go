package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid marks a bearer token whose claims cannot be recovered.
// Callers must treat the holder as unauthenticated.
var ErrTokenInvalid = errors.New("invalid session token")

// Claims are the identity fields embedded in a platform bearer token.
// ExpiresAt is the raw `exp` claim in epoch seconds.
type Claims struct {
	UserID       int
	EventID      int
	Login        string
	AllowedRoles []string
	ExpiresAt    int64
}

// tokenPayload is the platform's JWT payload shape: a nested user object
// next to the registered claims, plus the Hasura role namespace.
type tokenPayload struct {
	jwt.RegisteredClaims
	User struct {
		ID      int    `json:"id"`
		EventID int    `json:"eventId"`
		Login   string `json:"login"`
	} `json:"user"`
	Hasura struct {
		AllowedRoles []string `json:"x-hasura-allowed-roles"`
	} `json:"https://hasura.io/jwt/claims"`
}

// DecodeToken recovers the claims from a bearer token without verifying
// its signature. The platform is the sole authority on signature
// validity; it rejects tampered tokens at query time, and that rejection
// is handled like an expiry. Any structural defect (missing segments,
// bad base64url, bad JSON, missing identity fields) yields ErrTokenInvalid.
func DecodeToken(token string) (Claims, error) {
	var payload tokenPayload
	if _, _, err := jwt.NewParser().ParseUnverified(token, &payload); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if payload.User.ID == 0 {
		return Claims{}, fmt.Errorf("%w: missing user id claim", ErrTokenInvalid)
	}
	if payload.ExpiresAt == nil {
		return Claims{}, fmt.Errorf("%w: missing exp claim", ErrTokenInvalid)
	}

	return Claims{
		UserID:       payload.User.ID,
		EventID:      payload.User.EventID,
		Login:        payload.User.Login,
		AllowedRoles: payload.Hasura.AllowedRoles,
		ExpiresAt:    payload.ExpiresAt.Unix(),
	}, nil
}

// Expired reports whether the token's expiry has passed. The exp claim
// is in seconds; the comparison is done in milliseconds to keep the unit
// conversion in one place.
func (c Claims) Expired(now time.Time) bool {
	return c.ExpiresAt*1000 < now.UnixMilli()
}
