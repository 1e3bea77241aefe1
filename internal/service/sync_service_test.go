package service

import (
	"context"
	"testing"

	"engage-a2p/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncTenant_NothingRegistered(t *testing.T) {
	env := newTestEnv()
	svc := env.syncService()

	result, err := svc.SyncTenant(context.Background(), "tenant-1")
	require.NoError(t, err)
	assert.Nil(t, result.Brand)
	assert.Empty(t, result.Campaigns)
}

func TestSyncTenant_NoChange(t *testing.T) {
	env := newTestEnv()
	brand := env.seedVerifiedBrand("tenant-1")
	env.seedVerifiedCampaign("tenant-1", brand.BrandID, "AI_ENGAGEMENT")
	svc := env.syncService()

	result, err := svc.SyncTenant(context.Background(), "tenant-1")
	require.NoError(t, err)

	require.NotNil(t, result.Brand)
	assert.Equal(t, SyncOK, result.Brand.SyncStatus)
	assert.Equal(t, domain.StatusVerified, result.Brand.Brand.Status)
	require.Len(t, result.Campaigns, 1)
	assert.Equal(t, SyncOK, result.Campaigns[0].SyncStatus)

	// No status change, no audit noise.
	assert.False(t, env.hasEvent("tenant-1", domain.EventBrandStatusUpdated))
	assert.False(t, env.hasEvent("tenant-1", domain.EventCampaignStatusUpdated))
}

func TestSyncTenant_BrandStatusChanged(t *testing.T) {
	env := newTestEnv()
	brand := env.seedVerifiedBrand("tenant-1")
	// Registrar now reports FAILED with a reason.
	env.registrar.brands[*brand.ExternalID] = &RegistrarBrand{
		BrandID:       *brand.ExternalID,
		Status:        "FAILED",
		FailureReason: "EIN mismatch",
	}
	svc := env.syncService()

	result, err := svc.SyncTenant(context.Background(), "tenant-1")
	require.NoError(t, err)

	require.NotNil(t, result.Brand)
	assert.Equal(t, domain.StatusFailed, result.Brand.Brand.Status)
	require.NotNil(t, result.Brand.Brand.FailureReason)
	assert.Equal(t, "EIN mismatch", *result.Brand.Brand.FailureReason)

	stored, err := env.brands.GetBrandByTenant(context.Background(), "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, stored.Status)

	assert.True(t, env.hasEvent("tenant-1", domain.EventBrandStatusUpdated))
}

func TestSyncTenant_CampaignFetchFailureIsolated(t *testing.T) {
	env := newTestEnv()
	brand := env.seedVerifiedBrand("tenant-1")
	broken := env.seedVerifiedCampaign("tenant-1", brand.BrandID, "AI_ENGAGEMENT")
	env.seedVerifiedCampaign("tenant-1", brand.BrandID, "BROADCAST")
	// Drop the registrar-side twin so its fetch 404s.
	delete(env.registrar.campaigns, *broken.ExternalID)

	svc := env.syncService()
	result, err := svc.SyncTenant(context.Background(), "tenant-1")
	require.NoError(t, err)

	require.Len(t, result.Campaigns, 2)
	byKey := map[string]CampaignSyncEntry{}
	for _, entry := range result.Campaigns {
		byKey[entry.Campaign.CampaignKey] = entry
	}

	assert.Equal(t, SyncError, byKey["AI_ENGAGEMENT"].SyncStatus)
	assert.NotEmpty(t, byKey["AI_ENGAGEMENT"].Error)
	// The failed fetch keeps the stored status untouched.
	assert.Equal(t, domain.StatusVerified, byKey["AI_ENGAGEMENT"].Campaign.Status)

	assert.Equal(t, SyncOK, byKey["BROADCAST"].SyncStatus)
}

func TestSyncTenant_UnknownStatusNormalized(t *testing.T) {
	env := newTestEnv()
	brand := env.seedVerifiedBrand("tenant-1")
	env.registrar.brands[*brand.ExternalID] = &RegistrarBrand{
		BrandID: *brand.ExternalID,
		Status:  "UNDER_REVIEW_V2",
	}
	svc := env.syncService()

	result, err := svc.SyncTenant(context.Background(), "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, result.Brand.Brand.Status)
}

func TestSyncTenant_PendingToVerified(t *testing.T) {
	env := newTestEnv()
	brand := env.seedVerifiedBrand("tenant-1")
	campaign := env.seedVerifiedCampaign("tenant-1", brand.BrandID, "AI_ENGAGEMENT")
	require.NoError(t, env.campaigns.UpdateCampaignStatus(context.Background(), campaign.CampaignID, domain.StatusPending, nil))

	svc := env.syncService()
	result, err := svc.SyncTenant(context.Background(), "tenant-1")
	require.NoError(t, err)

	require.Len(t, result.Campaigns, 1)
	assert.Equal(t, domain.StatusVerified, result.Campaigns[0].Campaign.Status)
	assert.True(t, env.hasEvent("tenant-1", domain.EventCampaignStatusUpdated))
}
