package domain

import "time"

// Campaign use-case classifications accepted by the registrar. Closed set;
// unknown campaign keys map to UseCaseMixed (the dashboard can introduce new
// campaign keys without a registrar-side update).
const (
	UseCaseCustomerCare        = "CUSTOMER_CARE"
	UseCaseMarketing           = "MARKETING"
	UseCaseAccountNotification = "ACCOUNT_NOTIFICATION"
	UseCaseTwoFactor           = "2FA"
	UseCaseMixed               = "MIXED"
)

// useCaseByCampaignKey maps tenant-facing campaign keys to registrar use-case
// classifications.
var useCaseByCampaignKey = map[string]string{
	"AI_ENGAGEMENT":        UseCaseCustomerCare,
	"LEAD_FOLLOWUP":        UseCaseCustomerCare,
	"BROADCAST":            UseCaseMarketing,
	"PROMOTIONS":           UseCaseMarketing,
	"APPOINTMENT_REMINDER": UseCaseAccountNotification,
	"ACCOUNT_ALERTS":       UseCaseAccountNotification,
	"VERIFICATION":         UseCaseTwoFactor,
}

// UseCaseForCampaignKey returns the registrar use case for a campaign key,
// defaulting to MIXED for keys the table does not know.
func UseCaseForCampaignKey(campaignKey string) string {
	if uc, ok := useCaseByCampaignKey[campaignKey]; ok {
		return uc
	}
	return UseCaseMixed
}

// Campaign is a registered messaging use case under a verified Brand
// (corresponds to the campaigns table). The (tenant_id, campaign_key) pair is
// unique; status is only ever changed by synchronization.
type Campaign struct {
	// Primary key
	CampaignID string `db:"campaign_id"` // UUID, PRIMARY KEY

	// Tenant scope and owning brand
	TenantID string `db:"tenant_id"` // UUID, NOT NULL
	BrandID  string `db:"brand_id"`  // UUID, NOT NULL, REFERENCES brands(brand_id)

	// Business identity
	CampaignKey string `db:"campaign_key"` // VARCHAR(100), NOT NULL, UNIQUE(tenant_id, campaign_key)

	// External registrar identity
	ExternalID *string `db:"external_id"` // VARCHAR(64), nullable

	// Registration content
	UseCase        string   `db:"use_case"`        // VARCHAR(50), NOT NULL
	Description    string   `db:"description"`     // TEXT, NOT NULL
	MessageFlow    string   `db:"message_flow"`    // TEXT, NOT NULL
	SampleMessages []string `db:"sample_messages"` // JSONB, NOT NULL, at least one entry

	// Keyword sets
	OptInKeywords  []string `db:"opt_in_keywords"`  // JSONB, DEFAULT '["START"]'
	OptOutKeywords []string `db:"opt_out_keywords"` // JSONB, DEFAULT '["STOP"]'
	HelpKeywords   []string `db:"help_keywords"`    // JSONB, DEFAULT '["HELP"]'

	// Risk flags
	AgeGated           bool `db:"age_gated"`           // BOOLEAN, DEFAULT false
	DirectLending      bool `db:"direct_lending"`      // BOOLEAN, DEFAULT false
	AffiliateMarketing bool `db:"affiliate_marketing"` // BOOLEAN, DEFAULT false
	NumberPooling      bool `db:"number_pooling"`      // BOOLEAN, DEFAULT false
	EmbeddedLink       bool `db:"embedded_link"`       // BOOLEAN, DEFAULT false
	EmbeddedPhone      bool `db:"embedded_phone"`      // BOOLEAN, DEFAULT false

	// Lifecycle (same vocabulary as Brand)
	Status        RegistrationStatus `db:"status"`         // VARCHAR(20), NOT NULL, DEFAULT 'UNSUBMITTED'
	FailureReason *string            `db:"failure_reason"` // TEXT, nullable

	CreatedAt time.Time `db:"created_at"` // TIMESTAMPTZ, NOT NULL
	UpdatedAt time.Time `db:"updated_at"` // TIMESTAMPTZ, NOT NULL
}
