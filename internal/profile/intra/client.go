package intra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Fetch error classes. Network problems are retryable; an auth
// rejection is session-fatal; a query error is a programming error; a
// missing user leaves the session alone.
var (
	ErrNetwork      = errors.New("platform unreachable")
	ErrAuthRejected = errors.New("platform rejected token")
	ErrQuery        = errors.New("profile query failed")
	ErrNoSuchUser   = errors.New("no such user")
)

// Client is a GraphQL client for the platform's Hasura endpoint.
// The bearer token is per-call, not per-client: one client serves
// every session.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a platform GraphQL client.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// profileQuery fetches the whole dashboard payload in one round trip:
// identity, event-scoped XP transactions, the user's audits with their
// aggregate, project progresses, per-type skill totals, and the event
// level.
const profileQuery = `
query($userId: Int!, $eventId: Int!) {
  user(where: {id: {_eq: $userId}}) {
    id
    login
    firstName
    lastName
    email
    auditRatio
    totalUp
    totalDown
    campus
    xp_transactions: transactions(
      where: {
        userId: { _eq: $userId },
        type: { _eq: "xp" },
        eventId: { _eq: $eventId }
      },
      order_by: { createdAt: desc }
    ) {
      id
      amount
      createdAt
      path
      object {
        id
        name
        type
      }
    }
    audits: audits_aggregate(
      where: {
        auditorId: {_eq: $userId},
        grade: {_is_null: false}
      }
    ) {
      nodes {
        id
        grade
        createdAt
        group {
          captainLogin
          object {
            name
          }
        }
      }
      aggregate {
        count
        avg {
          grade
        }
      }
    }
    progresses(
      where: {
        userId: { _eq: $userId },
        object: { type: { _eq: "project" } }
      },
      order_by: {updatedAt: desc}
    ) {
      id
      object {
        id
        name
        type
      }
      grade
      createdAt
      updatedAt
    }
    skills: transactions(
      order_by: [{type: desc}, {amount: desc}],
      distinct_on: [type],
      where: {
        userId: {_eq: $userId},
        type: {_in: ["skill_js", "skill_go", "skill_html", "skill_prog", "skill_front-end", "skill_back-end"]}
      }
    ) {
      type
      amount
      createdAt
    }
  }
  event_user(where: { userId: { _eq: $userId }, eventId: {_eq: $eventId}}) {
    level
  }
}
`

// authErrorMarkers are the substrings Hasura uses when it refuses a
// token. Any of these means the session is no longer valid, exactly
// like a local expiry.
var authErrorMarkers = []string{
	"JWSInvalidSignature",
	"Could not verify JWT",
	"invalid token",
}

func isAuthError(msg string) bool {
	for _, marker := range authErrorMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// FetchProfile runs the profile query for one (userId, eventId) pair.
// Every call hits the network; nothing is memoized here, so the result
// always reflects current server state.
func (c *Client) FetchProfile(ctx context.Context, token string, userID, eventID int) (*ResponseData, error) {
	start := time.Now()
	LogRequest("intra", "POST", c.endpoint, map[string]any{
		"userId":  userID,
		"eventId": eventID,
	})

	reqBody := GraphQLRequest{
		Query: profileQuery,
		Variables: map[string]any{
			"userId":  userID,
			"eventId": eventID,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		LogError("intra", "fetch", err)
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		err := fmt.Errorf("%w: status %d", ErrAuthRejected, resp.StatusCode)
		LogError("intra", "fetch", err)
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)
		LogError("intra", "fetch", err)
		return nil, err
	}

	var gqlResp GraphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		LogError("intra", "decode", err)
		return nil, fmt.Errorf("%w: decode response: %v", ErrNetwork, err)
	}

	if len(gqlResp.Errors) > 0 {
		msg := gqlResp.Errors[0].Message
		if isAuthError(msg) {
			err := fmt.Errorf("%w: %s", ErrAuthRejected, msg)
			LogError("intra", "graphql", err)
			return nil, err
		}
		err := fmt.Errorf("%w: %s", ErrQuery, msg)
		LogError("intra", "graphql", err)
		return nil, err
	}

	if gqlResp.Data == nil || len(gqlResp.Data.User) == 0 {
		// The token may still be fine; the id may be transiently
		// inconsistent. The caller keeps the session.
		return nil, fmt.Errorf("%w: id %d", ErrNoSuchUser, userID)
	}

	LogResponse("intra", resp.StatusCode, time.Since(start), len(gqlResp.Data.User[0].XPTransactions))
	return gqlResp.Data, nil
}
