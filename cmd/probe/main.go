package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/RebootDash/RD-Backend/internal/auth"
	"github.com/RebootDash/RD-Backend/internal/config"
	"github.com/RebootDash/RD-Backend/internal/profile"
	"github.com/RebootDash/RD-Backend/internal/profile/intra"
	"github.com/RebootDash/RD-Backend/internal/profile/metrics"
	"github.com/joho/godotenv"
)

// probe signs in with PROBE_USERNAME/PROBE_PASSWORD, runs one profile
// fetch, and prints the derived figures. Useful for checking platform
// connectivity and query shape without starting the full server.
func main() {
	if err := godotenv.Load(".env.local"); err != nil {
		log.Printf("Warning: .env.local not found, using system environment variables")
	}

	username := os.Getenv("PROBE_USERNAME")
	password := os.Getenv("PROBE_PASSWORD")
	if username == "" || password == "" {
		log.Fatal("PROBE_USERNAME and PROBE_PASSWORD environment variables not set")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fmt.Printf("Signing in as %s...\n", username)
	token, err := auth.NewExchanger(cfg.SigninEndpoint).Exchange(ctx, username, password)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	claims, err := auth.DecodeToken(token)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	fmt.Printf("Token decoded: user %d, event %d, expires %s\n",
		claims.UserID, claims.EventID, time.Unix(claims.ExpiresAt, 0).Format(time.RFC3339))

	fmt.Println("Fetching profile...")
	data, err := intra.NewClient(cfg.GraphQLEndpoint).FetchProfile(ctx, token, claims.UserID, claims.EventID)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	snap := profile.BuildSnapshot(data, time.Now())
	passed := metrics.AuditPartition(snap.Audits, metrics.AuditsPassed)
	failed := metrics.AuditPartition(snap.Audits, metrics.AuditsFailed)
	projCount, projXP := metrics.ProjectsCompleted(snap.Transactions)

	fmt.Println()
	fmt.Printf("Login:      %s (%s %s)\n", snap.User.Login, snap.User.FirstName, snap.User.LastName)
	fmt.Printf("Level:      %.2f\n", snap.Level)
	fmt.Printf("Total XP:   %s\n", metrics.FormatXP(metrics.TotalXP(snap.Transactions)))
	fmt.Printf("Audits:     %d passed / %d failed (ratio %.2f)\n", len(passed), len(failed), snap.User.AuditRatio)
	fmt.Printf("Projects:   %d completed, %s\n", projCount, metrics.FormatXP(projXP))
	fmt.Printf("Skills:     %d categories\n", len(snap.Skills))

	fmt.Println("\n✓ Complete")
}
