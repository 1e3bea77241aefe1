package repository

import (
	"context"

	"engage-a2p/internal/domain"
)

// TenantsRepository minimal tenant access. The CRM's user/session store owns
// tenant management; this service only reads tenant rows to scope data and to
// refuse suspended tenants, plus create/status for provisioning and tests.
type TenantsRepository interface {
	GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error)
	CreateTenant(ctx context.Context, tenant *domain.Tenant) (string, error)
	SetTenantStatus(ctx context.Context, tenantID, status string) error
}
