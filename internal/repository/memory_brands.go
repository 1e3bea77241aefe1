package repository

import (
	"context"
	"sync"
	"time"

	"engage-a2p/internal/domain"

	"github.com/google/uuid"
)

// MemoryBrandsRepository backs dev mode and unit tests. It enforces the same
// one-brand-per-tenant constraint the database does, so service-level tests
// exercise the real conflict paths.
type MemoryBrandsRepository struct {
	mu       sync.RWMutex
	byTenant map[string]*domain.Brand // tenantID -> brand
}

func NewMemoryBrandsRepository() *MemoryBrandsRepository {
	return &MemoryBrandsRepository{byTenant: map[string]*domain.Brand{}}
}

var _ BrandsRepository = (*MemoryBrandsRepository)(nil)

func (r *MemoryBrandsRepository) GetBrandByTenant(_ context.Context, tenantID string) (*domain.Brand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.byTenant[tenantID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *MemoryBrandsRepository) CreateBrand(_ context.Context, brand *domain.Brand) (*domain.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byTenant[brand.TenantID]; exists {
		return nil, ErrDuplicate
	}
	if brand.BrandID == "" {
		brand.BrandID = uuid.NewString()
	}
	now := time.Now()
	brand.CreatedAt = now
	brand.UpdatedAt = now
	copied := *brand
	r.byTenant[brand.TenantID] = &copied
	return brand, nil
}

func (r *MemoryBrandsRepository) UpdateBrandStatus(_ context.Context, brandID string, status domain.RegistrationStatus, failureReason *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.byTenant {
		if b.BrandID == brandID {
			b.Status = status
			b.FailureReason = failureReason
			b.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrNotFound
}
