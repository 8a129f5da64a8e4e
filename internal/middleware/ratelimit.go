package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// visitor tracks one client IP's limiter.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginRateLimiter caps requests per client IP. Used on /auth/login so a
// credential-stuffing run cannot hammer the upstream signin endpoint.
func LoginRateLimiter(perMinute int) func(http.Handler) http.Handler {
	var (
		mu       sync.Mutex
		visitors = make(map[string]*visitor)
	)

	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()

		// Drop entries idle for more than ten minutes.
		for k, v := range visitors {
			if time.Since(v.lastSeen) > 10*time.Minute {
				delete(visitors, k)
			}
		}

		v, ok := visitors[ip]
		if !ok {
			v = &visitor{limiter: rate.NewLimiter(rate.Limit(perMinute)/60, perMinute)}
			visitors[ip] = v
		}
		v.lastSeen = time.Now()
		return v.limiter
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !limiterFor(ip).Allow() {
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Too many login attempts", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
