package domain

// Tenant statuses.
const (
	TenantStatusActive    = "active"
	TenantStatusSuspended = "suspended"
	TenantStatusDeleted   = "deleted"
)

// Tenant is the owning organization for all compliance rows (corresponds to
// the tenants table). The CRM's user/session store lives elsewhere; this
// service only needs the tenant row to scope data and to refuse suspended
// tenants at the auth layer.
type Tenant struct {
	// Primary key
	TenantID string `db:"tenant_id"` // UUID, PRIMARY KEY

	// Basic info
	TenantName string `db:"tenant_name"` // VARCHAR(255), NOT NULL

	// Status: active | suspended | deleted
	Status string `db:"status"` // VARCHAR(50), DEFAULT 'active'
}
