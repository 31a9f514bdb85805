package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntry records one destructive or state-changing operation performed
// through the console: who did it, what kind of entity it touched, and the
// identifier involved. Entries are append-only.
type AuditEntry struct {
	ID         uuid.UUID `json:"id"`
	AdminEmail string    `json:"admin_email"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Detail     string    `json:"detail"`
	CreatedAt  time.Time `json:"created_at"`
}

// Audit actions written by the handlers.
const (
	AuditRoleChange     = "role_change"
	AuditUserDelete     = "user_delete"
	AuditDomainDelete   = "domain_delete"
	AuditLeadDelete     = "lead_delete"
	AuditPromptCreate   = "prompt_create"
	AuditPromptUpdate   = "prompt_update"
	AuditPromptDelete   = "prompt_delete"
	AuditWebsiteUpdate  = "website_update"
	AuditAdsApproval    = "ads_approval"
	AuditSectionDelete  = "section_delete"
	AuditBlockDelete    = "block_delete"
	AuditContentWipe    = "content_wipe"
	AuditProviderSwitch = "provider_switch"
)
