package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrAuthFailed means the platform rejected the credentials.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrExchange means the signin request itself failed. Distinct from
	// ErrAuthFailed so callers can tell "wrong password" apart from
	// "platform unreachable".
	ErrExchange = errors.New("signin exchange failed")
)

// Exchanger trades a username/password pair for a platform bearer token.
type Exchanger struct {
	endpoint   string
	httpClient *http.Client
}

// NewExchanger creates a client for the platform's signin endpoint.
func NewExchanger(endpoint string) *Exchanger {
	return &Exchanger{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Exchange performs the Basic-auth handshake. The username is trimmed
// before building the credential; the password is used as typed. The
// response body is the bearer token, sometimes delivered as a quoted
// JSON string scalar, so one pair of surrounding quotes is stripped.
// The token is returned as-is; decoding happens at consumption time.
func (e *Exchanger) Exchange(ctx context.Context, username, password string) (string, error) {
	cred := base64.StdEncoding.EncodeToString([]byte(strings.TrimSpace(username) + ":" + password))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", ErrExchange, err)
	}
	req.Header.Set("Authorization", "Basic "+cred)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExchange, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrAuthFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrExchange, err)
	}

	token := strings.TrimSpace(string(body))
	if len(token) >= 2 && strings.HasPrefix(token, `"`) && strings.HasSuffix(token, `"`) {
		token = token[1 : len(token)-1]
	}

	return token, nil
}
