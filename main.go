package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/RebootDash/RD-Backend/internal/auth"
	"github.com/RebootDash/RD-Backend/internal/config"
	"github.com/RebootDash/RD-Backend/internal/db"
	"github.com/RebootDash/RD-Backend/internal/middleware"
	"github.com/RebootDash/RD-Backend/internal/profile"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	db.Connect(cfg.DatabaseURL)

	auth.Init(cfg)
	profile.Init(cfg)

	poller := profile.StartPoller(cfg.PollInterval)
	defer poller.Stop()

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Get("/", RootHandler)

	r.Mount("/auth", auth.SetupRoutes())
	r.Mount("/profile", profile.SetupRoutes())

	fmt.Printf("Server listening on port :%s...\n", cfg.Port)

	srv := &http.Server{Addr: "0.0.0.0:" + cfg.Port, Handler: r}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Stop the poller before the listener so no refresh lands mid-restart.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	srv.Close()
}
