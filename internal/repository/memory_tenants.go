package repository

import (
	"context"
	"sync"

	"engage-a2p/internal/domain"

	"github.com/google/uuid"
)

// MemoryTenantsRepository backs dev mode and unit tests.
// NOTE: tenants are platform-level data (not per-tenant).
type MemoryTenantsRepository struct {
	mu      sync.RWMutex
	tenants map[string]*domain.Tenant
}

func NewMemoryTenantsRepository() *MemoryTenantsRepository {
	return &MemoryTenantsRepository{tenants: map[string]*domain.Tenant{}}
}

var _ TenantsRepository = (*MemoryTenantsRepository)(nil)

func (r *MemoryTenantsRepository) GetTenant(_ context.Context, tenantID string) (*domain.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tenants[tenantID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *MemoryTenantsRepository) CreateTenant(_ context.Context, tenant *domain.Tenant) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tenant.TenantID == "" {
		tenant.TenantID = uuid.NewString()
	}
	if tenant.Status == "" {
		tenant.Status = domain.TenantStatusActive
	}
	if _, exists := r.tenants[tenant.TenantID]; exists {
		return "", ErrDuplicate
	}
	copied := *tenant
	r.tenants[tenant.TenantID] = &copied
	return tenant.TenantID, nil
}

func (r *MemoryTenantsRepository) SetTenantStatus(_ context.Context, tenantID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tenants[tenantID]
	if !ok {
		return ErrNotFound
	}
	t.Status = status
	return nil
}
