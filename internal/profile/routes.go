package profile

import (
	"net/http"

	"github.com/RebootDash/RD-Backend/internal/auth"
	"github.com/RebootDash/RD-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	guard := middleware.SessionMiddleware(auth.SessionInfo{})

	r.With(guard).Get("/", ProfileHandler)

	return r
}
