package auth_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/RebootDash/RD-Backend/internal/auth"
	"github.com/RebootDash/RD-Backend/internal/config"
	"github.com/RebootDash/RD-Backend/internal/db"
	"github.com/RebootDash/RD-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

const (
	testUsername = "jsmith"
	testPassword = "TestPass123!"
	testUserID   = 42
	testEventID  = 20
)

// dbAvailable tracks whether the database connection was established.
var dbAvailable bool

// testServer is the shared httptest server for all integration tests.
var testServer *httptest.Server

// signinServer stands in for the upstream platform signin endpoint. It
// accepts exactly one Basic credential pair and answers with a bearer
// token whose claims decode like the real platform's.
var signinServer *httptest.Server

func mintToken(exp time.Time) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, _ := json.Marshal(map[string]any{
		"user": map[string]any{
			"id":      testUserID,
			"eventId": testEventID,
			"login":   testUsername,
		},
		"https://hasura.io/jwt/claims": map[string]any{
			"x-hasura-allowed-roles": []string{"user"},
		},
		"exp": exp.Unix(),
	})
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".c2lnbmF0dXJl"
}

func TestMain(m *testing.M) {
	// Load .env.local relative to the repo root (two directories up from internal/auth/).
	_ = godotenv.Load("../../.env.local")

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		// No database available — skip all integration tests gracefully.
		os.Exit(m.Run())
	}

	signinServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := "Basic " + base64.StdEncoding.EncodeToString([]byte(testUsername+":"+testPassword))
		if r.Header.Get("Authorization") != want {
			http.Error(w, "User does not exist or password incorrect", http.StatusForbidden)
			return
		}
		w.Write([]byte(`"` + mintToken(time.Now().Add(time.Hour)) + `"`))
	}))
	defer signinServer.Close()

	cfg := config.Config{
		DatabaseURL:        databaseURL,
		SigninEndpoint:     signinServer.URL,
		LoginRatePerMinute: 100,
		SecureCookies:      false, // httptest serves plain HTTP
	}

	db.Connect(cfg.DatabaseURL)
	dbAvailable = true

	// Set up the session table (idempotent).
	auth.Init(cfg)

	// Mount auth routes on a Chi router, matching production setup in main.go.
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.CORSMiddleware(nil))
	r.Mount("/auth", auth.SetupRoutes())

	testServer = httptest.NewServer(r)
	defer testServer.Close()

	os.Exit(m.Run())
}

func requireDB(t *testing.T) {
	t.Helper()
	if testing.Short() || !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	t.Cleanup(func() {
		db.DB.Where("user_id = ?", testUserID).Delete(&auth.Session{})
	})
}

// newClientWithJar returns an http.Client with a fresh cookie jar that automatically
// carries cookies between requests.
func newClientWithJar(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New: %v", err)
	}
	return &http.Client{Jar: jar}
}

// loginUser posts to /auth/login and returns the response. The client's cookie jar
// is populated with the session_id cookie on success.
func loginUser(t *testing.T, client *http.Client, username, password string) *http.Response {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	resp, err := client.Post(testServer.URL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /auth/login: %v", err)
	}
	return resp
}

// readBody reads and returns the response body as a string, draining and closing it.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

// TestLoginReturnsSessionCookie verifies that POST /auth/login with valid credentials
// returns 200, Set-Cookie headers for session_id and auth_token, and a JSON body
// carrying the bearer token.
func TestLoginReturnsSessionCookie(t *testing.T) {
	requireDB(t)
	client := newClientWithJar(t)

	resp := loginUser(t, client, testUsername, testPassword)
	body := readBody(t, resp)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", resp.StatusCode, body)
	}

	cookies := map[string]bool{}
	for _, c := range resp.Cookies() {
		cookies[c.Name] = true
	}
	if !cookies["session_id"] || !cookies["auth_token"] {
		t.Errorf("expected session_id and auth_token cookies, got: %v", cookies)
	}

	var result auth.LoginResponse
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		t.Fatalf("invalid JSON body: %s", body)
	}
	if result.Token == "" {
		t.Error("expected token in response body")
	}
	if result.Message != "Authentication successful" {
		t.Errorf("expected success message, got %q", result.Message)
	}
}

// TestLoginBadCredentials verifies that the upstream 403 surfaces as a 401 with
// no cookies set and nothing persisted.
func TestLoginBadCredentials(t *testing.T) {
	requireDB(t)
	client := newClientWithJar(t)

	resp := loginUser(t, client, testUsername, "wrong-password")
	body := readBody(t, resp)

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d; body: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, "Authentication failed") {
		t.Errorf("expected body to contain %q, got: %q", "Authentication failed", body)
	}
	if len(resp.Cookies()) != 0 {
		t.Errorf("expected no cookies on failed login, got: %v", resp.Cookies())
	}
}

// TestSessionPersistsAcrossRequests verifies that after login, GET /auth/me returns 200
// with the correct user data when the same cookie-jar client is used.
func TestSessionPersistsAcrossRequests(t *testing.T) {
	requireDB(t)
	client := newClientWithJar(t)

	loginResp := loginUser(t, client, testUsername, testPassword)
	loginBody := readBody(t, loginResp)
	if loginResp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d %s", loginResp.StatusCode, loginBody)
	}

	// GET /auth/me — cookie jar carries session_id automatically.
	meResp, err := client.Get(testServer.URL + "/auth/me")
	if err != nil {
		t.Fatalf("GET /auth/me: %v", err)
	}
	meBody := readBody(t, meResp)

	if meResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /auth/me, got %d; body: %s", meResp.StatusCode, meBody)
	}

	var me auth.MeResponse
	if err := json.Unmarshal([]byte(meBody), &me); err != nil {
		t.Fatalf("invalid JSON body: %s", meBody)
	}
	if me.UserID != testUserID || me.Login != testUsername {
		t.Errorf("expected user %d/%q from /auth/me, got %d/%q", testUserID, testUsername, me.UserID, me.Login)
	}
}

// TestRepeatLoginReplacesSession verifies the one-session-per-user rule: a second
// login invalidates the first client's session cookie.
func TestRepeatLoginReplacesSession(t *testing.T) {
	requireDB(t)
	first := newClientWithJar(t)
	second := newClientWithJar(t)

	resp := loginUser(t, first, testUsername, testPassword)
	readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first login failed: %d", resp.StatusCode)
	}

	resp = loginUser(t, second, testUsername, testPassword)
	readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second login failed: %d", resp.StatusCode)
	}

	// The first client's session id no longer exists.
	meResp, err := first.Get(testServer.URL + "/auth/me")
	if err != nil {
		t.Fatalf("GET /auth/me: %v", err)
	}
	readBody(t, meResp)
	if meResp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for replaced session, got %d", meResp.StatusCode)
	}

	// The second client is still signed in.
	meResp, err = second.Get(testServer.URL + "/auth/me")
	if err != nil {
		t.Fatalf("GET /auth/me: %v", err)
	}
	readBody(t, meResp)
	if meResp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for current session, got %d", meResp.StatusCode)
	}
}

// TestLogoutClearsSession verifies the full logout flow: login, logout, then /auth/me
// returns 401. This confirms the session is deleted from the database on logout.
func TestLogoutClearsSession(t *testing.T) {
	requireDB(t)
	client := newClientWithJar(t)

	loginResp := loginUser(t, client, testUsername, testPassword)
	loginBody := readBody(t, loginResp)
	if loginResp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d %s", loginResp.StatusCode, loginBody)
	}

	logoutResp, err := client.Post(testServer.URL+"/auth/logout", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /auth/logout: %v", err)
	}
	logoutBody := readBody(t, logoutResp)
	if logoutResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /auth/logout, got %d; body: %s", logoutResp.StatusCode, logoutBody)
	}

	meResp, err := client.Get(testServer.URL + "/auth/me")
	if err != nil {
		t.Fatalf("GET /auth/me after logout: %v", err)
	}
	meBody := readBody(t, meResp)

	if meResp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 from /auth/me after logout, got %d; body: %s", meResp.StatusCode, meBody)
	}
}

// TestExpiredSessionRejected verifies that a session manually expired in the database
// is rejected with 401 and the body contains "Session expired".
func TestExpiredSessionRejected(t *testing.T) {
	requireDB(t)
	client := newClientWithJar(t)

	loginResp := loginUser(t, client, testUsername, testPassword)
	loginBody := readBody(t, loginResp)
	if loginResp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d %s", loginResp.StatusCode, loginBody)
	}

	// Manually expire the session in the database.
	if err := db.DB.Model(&auth.Session{}).
		Where("user_id = ?", testUserID).
		Update("expires_at", time.Now().Add(-1*time.Hour)).Error; err != nil {
		t.Fatalf("failed to expire session: %v", err)
	}

	meResp, err := client.Get(testServer.URL + "/auth/me")
	if err != nil {
		t.Fatalf("GET /auth/me after expiry: %v", err)
	}
	meBody := readBody(t, meResp)

	if meResp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 from /auth/me with expired session, got %d; body: %s", meResp.StatusCode, meBody)
	}
	if !strings.Contains(meBody, "Session expired") {
		t.Errorf("expected body to contain %q, got: %q", "Session expired", meBody)
	}
}
