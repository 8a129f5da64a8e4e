package auth

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeToken builds an unsigned JWT-shaped token around the given
// payload object. The signature segment is garbage on purpose; decoding
// must not care.
func makeToken(t *testing.T, payload any) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	return header + "." + base64.RawURLEncoding.EncodeToString(body) + ".c2lnbmF0dXJl"
}

func validPayload(exp int64) map[string]any {
	return map[string]any{
		"user": map[string]any{
			"id":      42,
			"eventId": 20,
			"login":   "jsmith",
		},
		"exp": exp,
		"https://hasura.io/jwt/claims": map[string]any{
			"x-hasura-allowed-roles": []string{"user", "student"},
		},
	}
}

func TestDecodeToken(t *testing.T) {
	token := makeToken(t, validPayload(1_900_000_000))

	claims, err := DecodeToken(token)
	require.NoError(t, err)

	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, 20, claims.EventID)
	assert.Equal(t, "jsmith", claims.Login)
	assert.Equal(t, int64(1_900_000_000), claims.ExpiresAt)
	assert.Equal(t, []string{"user", "student"}, claims.AllowedRoles)
}

func TestDecodeToken_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty":             "",
		"one segment":       "justonesegment",
		"two segments":      "aGVhZGVy.cGF5bG9hZA",
		"bad base64":        "aGVhZGVy.!!!not-base64!!!.c2ln",
		"payload not json":  "eyJhbGciOiJIUzI1NiJ9." + base64.RawURLEncoding.EncodeToString([]byte("not json")) + ".c2ln",
		"empty payload seg": "eyJhbGciOiJIUzI1NiJ9..c2ln",
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeToken(token)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestDecodeToken_MissingClaims(t *testing.T) {
	noExp := validPayload(0)
	delete(noExp, "exp")
	_, err := DecodeToken(makeToken(t, noExp))
	assert.ErrorIs(t, err, ErrTokenInvalid)

	noUser := validPayload(1_900_000_000)
	noUser["user"] = map[string]any{"eventId": 20}
	_, err = DecodeToken(makeToken(t, noUser))
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestClaimsExpired(t *testing.T) {
	c := Claims{ExpiresAt: 1000}

	// exp is seconds; the clock is milliseconds. 1000s = 1_000_000ms.
	assert.True(t, c.Expired(time.UnixMilli(1_000_001)))
	assert.False(t, c.Expired(time.UnixMilli(999_999)))
	assert.False(t, c.Expired(time.UnixMilli(1_000_000))) // strictly less
}
