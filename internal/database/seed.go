package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates the database with initial development data. It records a
// sample audit entry so the dashboard activity panel has something to show
// on a fresh install. Operator rows are created lazily on first login, so
// there is nothing to pre-create in console_admins.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM audit_log").Scan(&count); err != nil {
		return fmt.Errorf("seed check audit log: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	_, err := db.Exec(`
		INSERT INTO audit_log (admin_email, action, entity_type, entity_id, detail)
		VALUES ($1, $2, $3, $4, $5)
	`, "system", "seed", "console", "", "development database initialized")
	if err != nil {
		return fmt.Errorf("seed insert audit entry: %w", err)
	}

	slog.Info("database seeded")
	return nil
}
