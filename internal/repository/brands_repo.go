package repository

import (
	"context"

	"engage-a2p/internal/domain"
)

// BrandsRepository data access for the brands table.
// One brand per tenant; uniqueness is enforced by the database, callers map
// ErrDuplicate back to the existing row.
type BrandsRepository interface {
	// GetBrandByTenant returns the tenant's brand, ErrNotFound if none.
	GetBrandByTenant(ctx context.Context, tenantID string) (*domain.Brand, error)

	// CreateBrand inserts a new brand row. ErrDuplicate when the tenant
	// already has one.
	CreateBrand(ctx context.Context, brand *domain.Brand) (*domain.Brand, error)

	// UpdateBrandStatus is used only by status synchronization. Legal fields
	// stay immutable once the external id is assigned.
	UpdateBrandStatus(ctx context.Context, brandID string, status domain.RegistrationStatus, failureReason *string) error
}
