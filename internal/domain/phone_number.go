package domain

import "time"

// Phone number lifecycle statuses.
const (
	PhoneStatusActive   = "active"
	PhoneStatusReleased = "released"
)

// PhoneNumber is a tenant-owned messaging-capable number (corresponds to the
// phone_numbers table). Numbers exist independently of compliance state; only
// an Assignment ties one to a campaign.
type PhoneNumber struct {
	// Primary key
	PhoneNumberID string `db:"phone_number_id"` // UUID, PRIMARY KEY

	// Tenant scope
	TenantID string `db:"tenant_id"` // UUID, NOT NULL

	// Telephony provider identity
	ExternalID string `db:"external_id"` // VARCHAR(64), NOT NULL

	// Display number in E.164 (e.g. +15551230101)
	Number string `db:"number"` // VARCHAR(20), NOT NULL

	// Capability flags
	SMSEnabled   bool `db:"sms_enabled"`   // BOOLEAN, DEFAULT true
	VoiceEnabled bool `db:"voice_enabled"` // BOOLEAN, DEFAULT false

	// Lifecycle: active | released
	Status string `db:"status"` // VARCHAR(20), NOT NULL, DEFAULT 'active'

	CreatedAt time.Time `db:"created_at"` // TIMESTAMPTZ, NOT NULL
}

// Assignment binds one PhoneNumber to one Campaign (corresponds to the
// phone_campaign_assignments table). The central exclusivity rule: at most one
// row per phone_number_id at any time, enforced by a UNIQUE index, not by
// application-level check-then-act.
type Assignment struct {
	// Primary key
	AssignmentID string `db:"assignment_id"` // UUID, PRIMARY KEY

	// Tenant scope
	TenantID string `db:"tenant_id"` // UUID, NOT NULL

	// Binding
	PhoneNumberID string `db:"phone_number_id"` // UUID, NOT NULL, UNIQUE
	CampaignID    string `db:"campaign_id"`     // UUID, NOT NULL, UNIQUE(phone_number_id, campaign_id)

	AssignedAt time.Time `db:"assigned_at"` // TIMESTAMPTZ, NOT NULL
}
