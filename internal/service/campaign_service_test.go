package service

import (
	"context"
	"errors"
	"testing"

	"engage-a2p/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCampaignRequest(tenantID, key string) CreateCampaignRequest {
	return CreateCampaignRequest{
		TenantID:       tenantID,
		CampaignKey:    key,
		Description:    "Conversational follow-up with engaged leads",
		SampleMessages: []string{"Hi {{name}}, thanks for reaching out about 100 Main St!"},
	}
}

func TestCreateCampaign_NoBrandRegistered(t *testing.T) {
	env := newTestEnv()
	svc := env.campaignService()

	_, err := svc.CreateCampaign(context.Background(), validCampaignRequest("tenant-1", "AI_ENGAGEMENT"))
	var precondition *domain.PreconditionError
	require.True(t, errors.As(err, &precondition))
	assert.Equal(t, "brand", precondition.Entity)
	assert.Equal(t, string(domain.StatusUnsubmitted), precondition.Current)

	assert.Equal(t, 0, env.registrar.createCampaignCalls)
}

func TestCreateCampaign_BrandNotVerified(t *testing.T) {
	for _, status := range []domain.RegistrationStatus{
		domain.StatusUnsubmitted,
		domain.StatusPending,
		domain.StatusFailed,
	} {
		t.Run(string(status), func(t *testing.T) {
			env := newTestEnv()
			brand := env.seedVerifiedBrand("tenant-1")
			require.NoError(t, env.brands.UpdateBrandStatus(context.Background(), brand.BrandID, status, nil))

			svc := env.campaignService()
			_, err := svc.CreateCampaign(context.Background(), validCampaignRequest("tenant-1", "AI_ENGAGEMENT"))

			var precondition *domain.PreconditionError
			require.True(t, errors.As(err, &precondition))
			assert.Equal(t, "brand", precondition.Entity)
			assert.Equal(t, string(status), precondition.Current)
			assert.Equal(t, 0, env.registrar.createCampaignCalls)
		})
	}
}

func TestCreateCampaign_Success(t *testing.T) {
	env := newTestEnv()
	env.seedVerifiedBrand("tenant-1")
	svc := env.campaignService()

	campaign, err := svc.CreateCampaign(context.Background(), validCampaignRequest("tenant-1", "AI_ENGAGEMENT"))
	require.NoError(t, err)

	assert.Equal(t, "AI_ENGAGEMENT", campaign.CampaignKey)
	assert.Equal(t, "CUSTOMER_CARE", campaign.UseCase)
	assert.Equal(t, domain.StatusPending, campaign.Status)
	require.NotNil(t, campaign.ExternalID)

	// Keyword defaults applied.
	assert.Equal(t, []string{"START"}, campaign.OptInKeywords)
	assert.Equal(t, []string{"STOP"}, campaign.OptOutKeywords)
	assert.Equal(t, []string{"HELP"}, campaign.HelpKeywords)
	assert.NotEmpty(t, campaign.MessageFlow)

	assert.True(t, env.hasEvent("tenant-1", domain.EventCampaignCreated))
}

func TestCreateCampaign_UseCaseMapping(t *testing.T) {
	cases := map[string]string{
		"AI_ENGAGEMENT":        "CUSTOMER_CARE",
		"LEAD_FOLLOWUP":        "CUSTOMER_CARE",
		"BROADCAST":            "MARKETING",
		"PROMOTIONS":           "MARKETING",
		"APPOINTMENT_REMINDER": "ACCOUNT_NOTIFICATION",
		"ACCOUNT_ALERTS":       "ACCOUNT_NOTIFICATION",
		"VERIFICATION":         "2FA",
		"SOMETHING_ELSE":       "MIXED",
	}
	env := newTestEnv()
	env.seedVerifiedBrand("tenant-1")
	svc := env.campaignService()

	for key, want := range cases {
		campaign, err := svc.CreateCampaign(context.Background(), validCampaignRequest("tenant-1", key))
		require.NoError(t, err, key)
		assert.Equal(t, want, campaign.UseCase, key)
	}
}

func TestCreateCampaign_MissingFields(t *testing.T) {
	env := newTestEnv()
	env.seedVerifiedBrand("tenant-1")
	svc := env.campaignService()

	_, err := svc.CreateCampaign(context.Background(), CreateCampaignRequest{TenantID: "tenant-1"})
	var validation *domain.ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Contains(t, validation.Fields, "campaign_id")
	assert.Contains(t, validation.Fields, "description")
	assert.Contains(t, validation.Fields, "sample_messages")
}

func TestCreateCampaign_DuplicateKeyReturnsExisting(t *testing.T) {
	env := newTestEnv()
	env.seedVerifiedBrand("tenant-1")
	svc := env.campaignService()

	first, err := svc.CreateCampaign(context.Background(), validCampaignRequest("tenant-1", "AI_ENGAGEMENT"))
	require.NoError(t, err)

	_, err = svc.CreateCampaign(context.Background(), validCampaignRequest("tenant-1", "AI_ENGAGEMENT"))
	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))

	existing, ok := conflict.Existing.(*domain.Campaign)
	require.True(t, ok)
	assert.Equal(t, first.CampaignID, existing.CampaignID)
	assert.Equal(t, 1, env.registrar.createCampaignCalls)
}

func TestCreateCampaign_UpstreamFailureLeavesNoRow(t *testing.T) {
	env := newTestEnv()
	env.seedVerifiedBrand("tenant-1")
	env.registrar.createCampaignErr = &domain.UpstreamError{
		Operation:  "create_campaign",
		StatusCode: 500,
		Body:       "internal error",
	}
	svc := env.campaignService()

	_, err := svc.CreateCampaign(context.Background(), validCampaignRequest("tenant-1", "AI_ENGAGEMENT"))
	require.Error(t, err)

	_, getErr := env.campaigns.GetCampaignByKey(context.Background(), "tenant-1", "AI_ENGAGEMENT")
	assert.Error(t, getErr)
	assert.True(t, env.hasEvent("tenant-1", domain.EventCampaignCreationFailed))
}
