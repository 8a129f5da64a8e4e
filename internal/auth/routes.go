package auth

import (
	"net/http"

	"github.com/RebootDash/RD-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	guard := middleware.SessionMiddleware(SessionInfo{})

	r.With(middleware.LoginRateLimiter(loginRate)).Post("/login", LoginHandler)
	r.With(guard).Post("/logout", LogoutHandler)
	r.With(guard).Get("/me", MeHandler)

	return r
}
