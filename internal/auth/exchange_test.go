package auth

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchange_TrimsUsernameAndBuildsBasicAuth(t *testing.T) {
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("tok123"))
	}))
	defer srv.Close()

	ex := NewExchanger(srv.URL)
	token, err := ex.Exchange(context.Background(), "  jsmith ", "p@ss word")
	require.NoError(t, err)
	assert.Equal(t, "tok123", token)

	// Username trimmed, password untouched.
	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("jsmith:p@ss word"))
	assert.Equal(t, want, gotAuth)
}

func TestExchange_UnwrapsQuotedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("\n  \"abc123\"  \n"))
	}))
	defer srv.Close()

	ex := NewExchanger(srv.URL)
	token, err := ex.Exchange(context.Background(), "u", "p")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)
}

func TestExchange_UnquotedTokenUnchanged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("abc123"))
	}))
	defer srv.Close()

	ex := NewExchanger(srv.URL)
	token, err := ex.Exchange(context.Background(), "u", "p")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)
}

func TestExchange_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "User does not exist or password incorrect", http.StatusForbidden)
	}))
	defer srv.Close()

	ex := NewExchanger(srv.URL)
	_, err := ex.Exchange(context.Background(), "u", "wrong")
	assert.ErrorIs(t, err, ErrAuthFailed)
	assert.NotErrorIs(t, err, ErrExchange)
}

func TestExchange_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	ex := NewExchanger(srv.URL)
	_, err := ex.Exchange(context.Background(), "u", "p")
	assert.ErrorIs(t, err, ErrExchange)
	assert.NotErrorIs(t, err, ErrAuthFailed)
}
