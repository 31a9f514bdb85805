// Package store provides database access for the console's local entities.
// Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"fastadmin/internal/models"
)

// AdminStore handles console operator enrollment records.
type AdminStore struct {
	db *sql.DB
}

// NewAdminStore creates a new AdminStore with the given database connection.
func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

// FindByEmail retrieves an operator by email. Returns nil if not found.
func (s *AdminStore) FindByEmail(email string) (*models.ConsoleAdmin, error) {
	a := &models.ConsoleAdmin{}
	err := s.db.QueryRow(`
		SELECT id, email, platform_id, totp_secret, totp_enabled, created_at, updated_at
		FROM console_admins WHERE email = $1
	`, email).Scan(
		&a.ID, &a.Email, &a.PlatformID,
		&a.TOTPSecret, &a.TOTPEnabled, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find admin by email: %w", err)
	}
	return a, nil
}

// FindByID retrieves an operator by their UUID. Returns nil if not found.
func (s *AdminStore) FindByID(id uuid.UUID) (*models.ConsoleAdmin, error) {
	a := &models.ConsoleAdmin{}
	err := s.db.QueryRow(`
		SELECT id, email, platform_id, totp_secret, totp_enabled, created_at, updated_at
		FROM console_admins WHERE id = $1
	`, id).Scan(
		&a.ID, &a.Email, &a.PlatformID,
		&a.TOTPSecret, &a.TOTPEnabled, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find admin by id: %w", err)
	}
	return a, nil
}

// Ensure returns the enrollment row for an operator, creating it on first
// login. The platform ID is refreshed on every call in case the upstream
// account was recreated.
func (s *AdminStore) Ensure(email, platformID string) (*models.ConsoleAdmin, error) {
	a := &models.ConsoleAdmin{}
	err := s.db.QueryRow(`
		INSERT INTO console_admins (email, platform_id)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET platform_id = $2, updated_at = NOW()
		RETURNING id, email, platform_id, totp_secret, totp_enabled, created_at, updated_at
	`, email, platformID).Scan(
		&a.ID, &a.Email, &a.PlatformID,
		&a.TOTPSecret, &a.TOTPEnabled, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("ensure admin: %w", err)
	}
	return a, nil
}

// SetTOTPSecret saves the TOTP secret for an operator (during 2FA setup).
func (s *AdminStore) SetTOTPSecret(adminID uuid.UUID, secret string) error {
	_, err := s.db.Exec(`
		UPDATE console_admins SET totp_secret = $1, updated_at = NOW() WHERE id = $2
	`, secret, adminID)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks 2FA as active for an operator (after successful code
// verification).
func (s *AdminStore) EnableTOTP(adminID uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE console_admins SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1
	`, adminID)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}

// ResetTOTP clears the TOTP secret and disables 2FA for an operator.
// They will be forced to set up 2FA again on their next login.
func (s *AdminStore) ResetTOTP(adminID uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE console_admins SET totp_secret = NULL, totp_enabled = FALSE, updated_at = NOW() WHERE id = $1
	`, adminID)
	if err != nil {
		return fmt.Errorf("reset totp: %w", err)
	}
	return nil
}
