package repository

import (
	"context"

	"engage-a2p/internal/domain"
)

// CampaignsRepository data access for the campaigns table.
type CampaignsRepository interface {
	// GetCampaignByKey returns the campaign for (tenant, campaign_key),
	// ErrNotFound if none.
	GetCampaignByKey(ctx context.Context, tenantID, campaignKey string) (*domain.Campaign, error)

	// GetCampaignByID returns the campaign row by primary key, tenant-scoped.
	GetCampaignByID(ctx context.Context, tenantID, campaignID string) (*domain.Campaign, error)

	// ListCampaignsByBrand returns every campaign registered under a brand.
	ListCampaignsByBrand(ctx context.Context, tenantID, brandID string) ([]*domain.Campaign, error)

	// CreateCampaign inserts a new campaign row. ErrDuplicate when
	// (tenant, campaign_key) already exists.
	CreateCampaign(ctx context.Context, campaign *domain.Campaign) (*domain.Campaign, error)

	// UpdateCampaignStatus is used only by status synchronization.
	UpdateCampaignStatus(ctx context.Context, campaignID string, status domain.RegistrationStatus, failureReason *string) error
}
