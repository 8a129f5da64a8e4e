package db

import "gorm.io/gorm"

// EnsureSchema creates the named postgres schema if it does not exist yet.
// Migrations run per package against their own schema.
func EnsureSchema(d *gorm.DB, schema string) error {
	return d.Exec(`CREATE SCHEMA IF NOT EXISTS "` + schema + `"`).Error
}
