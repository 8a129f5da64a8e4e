package middleware

import (
	"net/http"
	"time"

	"github.com/RebootDash/RD-Backend/internal/utils"
)

// Cookie names shared by the auth handlers and the session guard.
const (
	SessionCookie  = "session_id"
	TokenCookie    = "auth_token"
	RememberCookie = "remembered_username"
)

// SessionStore is what the guard needs from the session layer. The
// implementation re-decodes the persisted token on lookup and fails for
// sessions whose token turned out corrupt.
type SessionStore interface {
	FindSessionByID(id string) (utils.SessionData, error)
	DestroySession(id string) error
}

// SessionMiddleware is the guard in front of every protected route. A
// request passes only with a session cookie pointing at a stored session
// whose token still decodes and has not expired. Failing sessions are
// destroyed first, then the cookies are cleared and a 401 returned, so
// token eviction is observable before the redirect happens client-side.
func SessionMiddleware(store SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				http.Error(w, "Not signed in", http.StatusUnauthorized)
				return
			}

			session, err := store.FindSessionByID(cookie.Value)
			if err != nil {
				ClearSessionCookies(w)
				http.Error(w, "Invalid session", http.StatusUnauthorized)
				return
			}

			if session.ExpiresAt.Before(time.Now()) {
				// Destroy before responding: the persisted token must be
				// gone by the time the caller sees the 401.
				_ = store.DestroySession(cookie.Value)
				ClearSessionCookies(w)
				http.Error(w, "Session expired", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.WithSession(r.Context(), session)))
		})
	}
}

// ClearSessionCookies expires the session and token cookies. Safe to
// call on already-cleared responses; clearing twice is harmless.
func ClearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{SessionCookie, TokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:   name,
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
	}
}

// CORSMiddleware echoes the origin back only if it is on the allow-list.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if _, ok := allowed[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin") // important for caches
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods",
					"GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers",
					"Content-Type, Authorization")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
