// Package models defines the data structures that map to the console's
// local database tables. Platform entities (users, domains, websites, leads,
// prompts) live upstream and are typed in the platform package; only
// operator enrollment and the audit trail are stored here.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ConsoleAdmin is a console operator's local enrollment record. Credentials
// are verified upstream at login; this row only tracks TOTP state for the
// console's own second factor.
type ConsoleAdmin struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	PlatformID  string    `json:"platform_id"`
	TOTPSecret  *string   `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled bool      `json:"totp_enabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Needs2FASetup returns true if the operator has not completed 2FA
// enrollment. All operators must set up 2FA on their first login.
func (a *ConsoleAdmin) Needs2FASetup() bool {
	return !a.TOTPEnabled
}
