package domain

import "time"

// Brand is a tenant's registered business identity with the external
// compliance registrar (corresponds to the brands table).
// At most one brand exists per tenant (UNIQUE on tenant_id). Once ExternalID
// is set the legal fields are immutable; re-registration means a new external
// entity, never an update.
type Brand struct {
	// Primary key
	BrandID string `db:"brand_id"` // UUID, PRIMARY KEY

	// Tenant scope
	TenantID string `db:"tenant_id"` // UUID, NOT NULL, UNIQUE

	// External registrar identity (nullable until the registrar accepted it)
	ExternalID *string `db:"external_id"` // VARCHAR(64), nullable

	// Legal company fields
	LegalName         string  `db:"legal_name"`           // VARCHAR(255), NOT NULL
	EntityType        string  `db:"entity_type"`          // VARCHAR(50), NOT NULL (PRIVATE_PROFIT/PUBLIC_PROFIT/NON_PROFIT/SOLE_PROPRIETOR)
	TaxID             *string `db:"tax_id"`               // VARCHAR(50), nullable
	Vertical          string  `db:"vertical"`             // VARCHAR(50), NOT NULL
	Email             string  `db:"email"`                // VARCHAR(255), NOT NULL
	Phone             string  `db:"phone"`                // VARCHAR(50), NOT NULL
	Website           *string `db:"website"`              // VARCHAR(255), nullable
	Street            string  `db:"street"`               // VARCHAR(255), NOT NULL
	City              string  `db:"city"`                 // VARCHAR(100), NOT NULL
	State             string  `db:"state"`                // VARCHAR(50), NOT NULL
	PostalCode        string  `db:"postal_code"`          // VARCHAR(20), NOT NULL
	Country           string  `db:"country"`              // VARCHAR(2), NOT NULL, DEFAULT 'US'
	AltBusinessID     *string `db:"alt_business_id"`      // VARCHAR(50), nullable
	AltBusinessIDType *string `db:"alt_business_id_type"` // VARCHAR(20), nullable (DUNS/LEI/GIIN)

	// Lifecycle
	Status        RegistrationStatus `db:"status"`         // VARCHAR(20), NOT NULL, DEFAULT 'UNSUBMITTED'
	FailureReason *string            `db:"failure_reason"` // TEXT, nullable

	// External timestamps as reported by the registrar
	ExternalCreatedAt *time.Time `db:"external_created_at"` // TIMESTAMPTZ, nullable
	ExternalUpdatedAt *time.Time `db:"external_updated_at"` // TIMESTAMPTZ, nullable

	CreatedAt time.Time `db:"created_at"` // TIMESTAMPTZ, NOT NULL
	UpdatedAt time.Time `db:"updated_at"` // TIMESTAMPTZ, NOT NULL
}
