package service

import (
	"context"
	"errors"
	"testing"

	"engage-a2p/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBrandRequest(tenantID string) CreateBrandRequest {
	return CreateBrandRequest{
		TenantID:   tenantID,
		LegalName:  "Acme Realty LLC",
		EntityType: "PRIVATE_PROFIT",
		TaxID:      "12-3456789",
		Vertical:   "REAL_ESTATE",
		Email:      "compliance@acme-realty.test",
		Phone:      "+15550100000",
		Street:     "100 Main St",
		City:       "Austin",
		State:      "TX",
		PostalCode: "78701",
	}
}

func TestCreateBrand_Success(t *testing.T) {
	env := newTestEnv()
	svc := env.brandService()

	brand, err := svc.CreateBrand(context.Background(), validBrandRequest("tenant-1"))
	require.NoError(t, err)
	require.NotNil(t, brand)

	assert.NotEmpty(t, brand.BrandID)
	require.NotNil(t, brand.ExternalID)
	assert.Equal(t, "EXT-BRAND-1", *brand.ExternalID)
	assert.Equal(t, domain.StatusPending, brand.Status)
	assert.Equal(t, "US", brand.Country) // defaulted

	assert.Equal(t, 1, env.registrar.createBrandCalls)
	assert.True(t, env.hasEvent("tenant-1", domain.EventBrandCreated))
}

func TestCreateBrand_MissingFields(t *testing.T) {
	env := newTestEnv()
	svc := env.brandService()

	req := validBrandRequest("tenant-1")
	req.LegalName = ""
	req.Email = ""

	_, err := svc.CreateBrand(context.Background(), req)
	var validation *domain.ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Contains(t, validation.Fields, "legal_name")
	assert.Contains(t, validation.Fields, "email")

	// No external call on validation failure.
	assert.Equal(t, 0, env.registrar.createBrandCalls)
}

func TestCreateBrand_AltBusinessIDRequiresType(t *testing.T) {
	env := newTestEnv()
	svc := env.brandService()

	req := validBrandRequest("tenant-1")
	req.AltBusinessID = "DUNS-123"

	_, err := svc.CreateBrand(context.Background(), req)
	var validation *domain.ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Contains(t, validation.Fields, "alt_business_id_type")
}

func TestCreateBrand_DuplicateReturnsExisting(t *testing.T) {
	env := newTestEnv()
	svc := env.brandService()

	first, err := svc.CreateBrand(context.Background(), validBrandRequest("tenant-1"))
	require.NoError(t, err)

	_, err = svc.CreateBrand(context.Background(), validBrandRequest("tenant-1"))
	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))

	existing, ok := conflict.Existing.(*domain.Brand)
	require.True(t, ok)
	assert.Equal(t, first.BrandID, existing.BrandID)

	// The retry must not trigger a second paid registration.
	assert.Equal(t, 1, env.registrar.createBrandCalls)
}

func TestCreateBrand_TenantsIsolated(t *testing.T) {
	env := newTestEnv()
	svc := env.brandService()

	_, err := svc.CreateBrand(context.Background(), validBrandRequest("tenant-1"))
	require.NoError(t, err)

	brand, err := svc.CreateBrand(context.Background(), validBrandRequest("tenant-2"))
	require.NoError(t, err)
	assert.Equal(t, "tenant-2", brand.TenantID)
	assert.Equal(t, 2, env.registrar.createBrandCalls)
}

func TestCreateBrand_UpstreamFailureLeavesNoRow(t *testing.T) {
	env := newTestEnv()
	env.registrar.createBrandErr = &domain.UpstreamError{
		Operation:  "create_brand",
		StatusCode: 422,
		Body:       `{"error":"invalid EIN"}`,
	}
	svc := env.brandService()

	_, err := svc.CreateBrand(context.Background(), validBrandRequest("tenant-1"))
	var upstream *domain.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, 422, upstream.StatusCode)

	// No local row means the operation is cleanly retryable.
	_, getErr := env.brands.GetBrandByTenant(context.Background(), "tenant-1")
	assert.Error(t, getErr)
	assert.True(t, env.hasEvent("tenant-1", domain.EventBrandCreationFailed))

	// And the retry succeeds once upstream recovers.
	env.registrar.createBrandErr = nil
	brand, err := svc.CreateBrand(context.Background(), validBrandRequest("tenant-1"))
	require.NoError(t, err)
	assert.NotEmpty(t, brand.BrandID)
}

func TestCreateBrand_StatusNormalized(t *testing.T) {
	env := newTestEnv()
	env.registrar.brandStatus = "SOMETHING_NEW"
	svc := env.brandService()

	brand, err := svc.CreateBrand(context.Background(), validBrandRequest("tenant-1"))
	require.NoError(t, err)
	// Unknown upstream statuses collapse to FAILED rather than widening the enum.
	assert.Equal(t, domain.StatusFailed, brand.Status)
}
