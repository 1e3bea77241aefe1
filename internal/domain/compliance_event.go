package domain

import (
	"encoding/json"
	"time"
)

// Compliance event types. The event log is the sole source of historical truth
// once brand/campaign rows have been overwritten by synchronization, so every
// registrar interaction produces exactly one event, win or lose.
const (
	EventBrandCreated        = "brand_created"
	EventBrandCreationFailed = "brand_creation_failed"
	EventBrandDBSaveFailed   = "brand_db_save_failed"
	EventBrandStatusUpdated  = "brand_status_updated"

	EventCampaignCreated        = "campaign_created"
	EventCampaignCreationFailed = "campaign_creation_failed"
	EventCampaignDBSaveFailed   = "campaign_db_save_failed"
	EventCampaignStatusUpdated  = "campaign_status_updated"

	EventPhoneAssignSuccess      = "phone_assign_success"
	EventPhoneAssignFailed       = "phone_assign_failed"
	EventPhoneAssignDBSaveFailed = "phone_assign_db_save_failed"

	EventPhoneUnassignSuccess        = "phone_unassign_success"
	EventPhoneUnassignFailed         = "phone_unassign_failed"
	EventPhoneUnassignDBDeleteFailed = "phone_unassign_db_delete_failed"
)

// ComplianceEvent is an immutable audit fact (corresponds to the
// compliance_events table). Rows are append-only: never updated, never deleted.
type ComplianceEvent struct {
	// Primary key
	EventID string `db:"event_id"` // UUID, PRIMARY KEY

	// Tenant scope
	TenantID string `db:"tenant_id"` // UUID, NOT NULL

	// Event type (see constants above)
	EventType string `db:"event_type"` // VARCHAR(50), NOT NULL

	// Structured payload (upstream bodies, old/new statuses, ids)
	Payload json.RawMessage `db:"payload"` // JSONB, DEFAULT '{}'::JSONB

	CreatedAt time.Time `db:"created_at"` // TIMESTAMPTZ, NOT NULL
}
