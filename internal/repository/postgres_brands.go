package repository

import (
	"context"
	"database/sql"
	"fmt"

	"engage-a2p/internal/domain"

	"github.com/google/uuid"
)

// PostgresBrandsRepository brands table implementation.
type PostgresBrandsRepository struct {
	db *sql.DB
}

func NewPostgresBrandsRepository(db *sql.DB) *PostgresBrandsRepository {
	return &PostgresBrandsRepository{db: db}
}

var _ BrandsRepository = (*PostgresBrandsRepository)(nil)

const brandColumns = `
	brand_id::text,
	tenant_id::text,
	external_id,
	legal_name,
	entity_type,
	tax_id,
	vertical,
	email,
	phone,
	website,
	street,
	city,
	state,
	postal_code,
	country,
	alt_business_id,
	alt_business_id_type,
	status,
	failure_reason,
	external_created_at,
	external_updated_at,
	created_at,
	updated_at
`

func scanBrand(row interface{ Scan(...any) error }) (*domain.Brand, error) {
	var b domain.Brand
	var status string
	err := row.Scan(
		&b.BrandID,
		&b.TenantID,
		&b.ExternalID,
		&b.LegalName,
		&b.EntityType,
		&b.TaxID,
		&b.Vertical,
		&b.Email,
		&b.Phone,
		&b.Website,
		&b.Street,
		&b.City,
		&b.State,
		&b.PostalCode,
		&b.Country,
		&b.AltBusinessID,
		&b.AltBusinessIDType,
		&status,
		&b.FailureReason,
		&b.ExternalCreatedAt,
		&b.ExternalUpdatedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Status = domain.RegistrationStatus(status)
	return &b, nil
}

// GetBrandByTenant returns the tenant's brand (at most one exists).
func (r *PostgresBrandsRepository) GetBrandByTenant(ctx context.Context, tenantID string) (*domain.Brand, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant_id is required")
	}

	query := `SELECT ` + brandColumns + ` FROM brands WHERE tenant_id = $1::uuid`

	brand, err := scanBrand(r.db.QueryRowContext(ctx, query, tenantID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get brand: %w", err)
	}
	return brand, nil
}

// CreateBrand inserts the brand row; the UNIQUE(tenant_id) constraint turns a
// concurrent duplicate into ErrDuplicate.
func (r *PostgresBrandsRepository) CreateBrand(ctx context.Context, brand *domain.Brand) (*domain.Brand, error) {
	if brand.TenantID == "" {
		return nil, fmt.Errorf("tenant_id is required")
	}
	if brand.BrandID == "" {
		brand.BrandID = uuid.NewString()
	}

	query := `
		INSERT INTO brands (
			brand_id, tenant_id, external_id,
			legal_name, entity_type, tax_id, vertical,
			email, phone, website,
			street, city, state, postal_code, country,
			alt_business_id, alt_business_id_type,
			status, failure_reason,
			external_created_at, external_updated_at
		) VALUES (
			$1::uuid, $2::uuid, $3,
			$4, $5, $6, $7,
			$8, $9, $10,
			$11, $12, $13, $14, $15,
			$16, $17,
			$18, $19,
			$20, $21
		)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		brand.BrandID, brand.TenantID, brand.ExternalID,
		brand.LegalName, brand.EntityType, brand.TaxID, brand.Vertical,
		brand.Email, brand.Phone, brand.Website,
		brand.Street, brand.City, brand.State, brand.PostalCode, brand.Country,
		brand.AltBusinessID, brand.AltBusinessIDType,
		string(brand.Status), brand.FailureReason,
		brand.ExternalCreatedAt, brand.ExternalUpdatedAt,
	).Scan(&brand.CreatedAt, &brand.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create brand: %w", err)
	}

	return brand, nil
}

// UpdateBrandStatus overwrites status and failure reason (sync only).
func (r *PostgresBrandsRepository) UpdateBrandStatus(ctx context.Context, brandID string, status domain.RegistrationStatus, failureReason *string) error {
	query := `
		UPDATE brands
		SET status = $2, failure_reason = $3, updated_at = NOW()
		WHERE brand_id = $1::uuid
	`

	res, err := r.db.ExecContext(ctx, query, brandID, string(status), failureReason)
	if err != nil {
		return fmt.Errorf("failed to update brand status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
