package repository

import (
	"context"
	"database/sql"
	"fmt"

	"engage-a2p/internal/domain"

	"github.com/google/uuid"
)

// PostgresTenantsRepository tenants table implementation.
type PostgresTenantsRepository struct {
	db *sql.DB
}

func NewPostgresTenantsRepository(db *sql.DB) *PostgresTenantsRepository {
	return &PostgresTenantsRepository{db: db}
}

var _ TenantsRepository = (*PostgresTenantsRepository)(nil)

// GetTenant returns the tenant row.
func (r *PostgresTenantsRepository) GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant_id is required")
	}

	query := `
		SELECT
			tenant_id::text,
			tenant_name,
			COALESCE(status, 'active') as status
		FROM tenants
		WHERE tenant_id = $1::uuid
	`

	var tenant domain.Tenant
	err := r.db.QueryRowContext(ctx, query, tenantID).Scan(
		&tenant.TenantID,
		&tenant.TenantName,
		&tenant.Status,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return &tenant, nil
}

// CreateTenant inserts a tenant row (provisioning and tests).
func (r *PostgresTenantsRepository) CreateTenant(ctx context.Context, tenant *domain.Tenant) (string, error) {
	if tenant.TenantName == "" {
		return "", fmt.Errorf("tenant_name is required")
	}
	if tenant.TenantID == "" {
		tenant.TenantID = uuid.NewString()
	}
	if tenant.Status == "" {
		tenant.Status = domain.TenantStatusActive
	}

	query := `
		INSERT INTO tenants (tenant_id, tenant_name, status)
		VALUES ($1::uuid, $2, $3)
	`

	if _, err := r.db.ExecContext(ctx, query, tenant.TenantID, tenant.TenantName, tenant.Status); err != nil {
		if isUniqueViolation(err) {
			return "", ErrDuplicate
		}
		return "", fmt.Errorf("failed to create tenant: %w", err)
	}
	return tenant.TenantID, nil
}

// SetTenantStatus updates the tenant lifecycle status.
func (r *PostgresTenantsRepository) SetTenantStatus(ctx context.Context, tenantID, status string) error {
	query := `UPDATE tenants SET status = $2 WHERE tenant_id = $1::uuid`

	res, err := r.db.ExecContext(ctx, query, tenantID, status)
	if err != nil {
		return fmt.Errorf("failed to set tenant status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
