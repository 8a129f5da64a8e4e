package auth

import (
	"log"

	"github.com/RebootDash/RD-Backend/internal/config"
	"github.com/RebootDash/RD-Backend/internal/db"
)

var (
	exchanger     *Exchanger
	secureCookies bool
	loginRate     int
)

// Init prepares the session schema and wires the signin exchanger.
func Init(cfg config.Config) {
	if err := db.EnsureSchema(db.DB, "app_auth"); err != nil {
		log.Fatal("Failed to ensure schema app_auth: ", err)
	}

	if err := db.DB.AutoMigrate(&Session{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}

	exchanger = NewExchanger(cfg.SigninEndpoint)
	secureCookies = cfg.SecureCookies
	loginRate = cfg.LoginRatePerMinute
}
