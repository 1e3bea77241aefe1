package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"engage-a2p/internal/domain"

	"github.com/google/uuid"
)

// MemoryCampaignsRepository backs dev mode and unit tests, enforcing the
// UNIQUE(tenant_id, campaign_key) constraint.
type MemoryCampaignsRepository struct {
	mu   sync.RWMutex
	byID map[string]*domain.Campaign // campaignID -> campaign
}

func NewMemoryCampaignsRepository() *MemoryCampaignsRepository {
	return &MemoryCampaignsRepository{byID: map[string]*domain.Campaign{}}
}

var _ CampaignsRepository = (*MemoryCampaignsRepository)(nil)

func (r *MemoryCampaignsRepository) GetCampaignByKey(_ context.Context, tenantID, campaignKey string) (*domain.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.byID {
		if c.TenantID == tenantID && c.CampaignKey == campaignKey {
			copied := *c
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryCampaignsRepository) GetCampaignByID(_ context.Context, tenantID, campaignID string) (*domain.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[campaignID]
	if !ok || c.TenantID != tenantID {
		return nil, ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *MemoryCampaignsRepository) ListCampaignsByBrand(_ context.Context, tenantID, brandID string) ([]*domain.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var campaigns []*domain.Campaign
	for _, c := range r.byID {
		if c.TenantID == tenantID && c.BrandID == brandID {
			copied := *c
			campaigns = append(campaigns, &copied)
		}
	}
	sort.Slice(campaigns, func(i, j int) bool {
		return campaigns[i].CampaignKey < campaigns[j].CampaignKey
	})
	return campaigns, nil
}

func (r *MemoryCampaignsRepository) CreateCampaign(_ context.Context, campaign *domain.Campaign) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.TenantID == campaign.TenantID && c.CampaignKey == campaign.CampaignKey {
			return nil, ErrDuplicate
		}
	}
	if campaign.CampaignID == "" {
		campaign.CampaignID = uuid.NewString()
	}
	now := time.Now()
	campaign.CreatedAt = now
	campaign.UpdatedAt = now
	copied := *campaign
	r.byID[campaign.CampaignID] = &copied
	return campaign, nil
}

func (r *MemoryCampaignsRepository) UpdateCampaignStatus(_ context.Context, campaignID string, status domain.RegistrationStatus, failureReason *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[campaignID]
	if !ok {
		return ErrNotFound
	}
	c.Status = status
	c.FailureReason = failureReason
	c.UpdatedAt = time.Now()
	return nil
}
