package store

import (
	"database/sql"
	"fmt"

	"fastadmin/internal/models"
)

// AuditStore writes and reads the append-only audit trail.
type AuditStore struct {
	db *sql.DB
}

// NewAuditStore creates a new AuditStore with the given database connection.
func NewAuditStore(db *sql.DB) *AuditStore {
	return &AuditStore{db: db}
}

// Log appends one audit entry. Audit failures should not abort the
// operation that triggered them; callers log the returned error instead.
func (s *AuditStore) Log(adminEmail, action, entityType, entityID, detail string) error {
	_, err := s.db.Exec(`
		INSERT INTO audit_log (admin_email, action, entity_type, entity_id, detail)
		VALUES ($1, $2, $3, $4, $5)
	`, adminEmail, action, entityType, entityID, detail)
	if err != nil {
		return fmt.Errorf("audit log: %w", err)
	}
	return nil
}

// Recent returns the newest audit entries, most recent first.
func (s *AuditStore) Recent(limit int) ([]models.AuditEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, admin_email, action, entity_type, entity_id, detail, created_at
		FROM audit_log ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent audit entries: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(
			&e.ID, &e.AdminEmail, &e.Action, &e.EntityType, &e.EntityID,
			&e.Detail, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
