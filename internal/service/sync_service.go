package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"engage-a2p/internal/domain"
	"engage-a2p/internal/repository"

	"go.uber.org/zap"
)

// Sync entry states. OK means the registrar answered; ERROR means the fetch
// failed and the stored record is returned untouched.
const (
	SyncOK    = "OK"
	SyncError = "ERROR"
)

// SyncService reconciles local brand/campaign status against the registrar.
// The registrar is the source of truth for verification status, so
// reconciliation is always store ← registrar. It never mutates assignments.
type SyncService interface {
	SyncTenant(ctx context.Context, tenantID string) (*SyncResult, error)
}

// BrandSyncEntry one brand's reconciliation outcome.
type BrandSyncEntry struct {
	Brand       *domain.Brand   `json:"brand"`
	Detail      *RegistrarBrand `json:"detail,omitempty"`
	SyncStatus  string          `json:"sync_status"` // OK | ERROR
	Error       string          `json:"error,omitempty"`
	LastChecked time.Time       `json:"last_checked"`
}

// CampaignSyncEntry one campaign's reconciliation outcome. A registrar
// failure for one campaign never aborts the others.
type CampaignSyncEntry struct {
	Campaign    *domain.Campaign   `json:"campaign"`
	Detail      *RegistrarCampaign `json:"detail,omitempty"`
	SyncStatus  string             `json:"sync_status"` // OK | ERROR
	Error       string             `json:"error,omitempty"`
	LastChecked time.Time          `json:"last_checked"`
}

// SyncResult per-tenant reconciliation snapshot.
type SyncResult struct {
	Brand     *BrandSyncEntry     `json:"brand"`
	Campaigns []CampaignSyncEntry `json:"campaigns"`
}

type syncService struct {
	brands    repository.BrandsRepository
	campaigns repository.CampaignsRepository
	events    repository.EventsRepository
	registrar RegistrarClient
	logger    *zap.Logger
}

func NewSyncService(
	brands repository.BrandsRepository,
	campaigns repository.CampaignsRepository,
	events repository.EventsRepository,
	registrar RegistrarClient,
	logger *zap.Logger,
) SyncService {
	return &syncService{
		brands:    brands,
		campaigns: campaigns,
		events:    events,
		registrar: registrar,
		logger:    logger,
	}
}

// SyncTenant refreshes the tenant's brand and every campaign under it.
func (s *syncService) SyncTenant(ctx context.Context, tenantID string) (*SyncResult, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant_id is required")
	}

	result := &SyncResult{Campaigns: []CampaignSyncEntry{}}

	brand, err := s.brands.GetBrandByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return result, nil // nothing registered yet
		}
		return nil, &domain.PersistenceError{Operation: "brand_lookup", Err: err}
	}

	result.Brand = s.syncBrand(ctx, tenantID, brand)

	campaigns, err := s.campaigns.ListCampaignsByBrand(ctx, tenantID, brand.BrandID)
	if err != nil {
		return nil, &domain.PersistenceError{Operation: "campaign_list", Err: err}
	}
	for _, campaign := range campaigns {
		result.Campaigns = append(result.Campaigns, s.syncCampaign(ctx, tenantID, campaign))
	}

	return result, nil
}

func (s *syncService) syncBrand(ctx context.Context, tenantID string, brand *domain.Brand) *BrandSyncEntry {
	entry := &BrandSyncEntry{Brand: brand, SyncStatus: SyncOK, LastChecked: time.Now()}
	if brand.ExternalID == nil {
		return entry
	}

	detail, err := s.registrar.GetBrand(ctx, *brand.ExternalID)
	if err != nil {
		s.logger.Warn("Brand status fetch failed",
			zap.String("tenant_id", tenantID),
			zap.String("external_id", *brand.ExternalID),
			zap.Error(err),
		)
		entry.SyncStatus = SyncError
		entry.Error = err.Error()
		return entry
	}
	entry.Detail = detail

	newStatus := domain.NormalizeStatus(detail.Status)
	newReason := optional(detail.FailureReason)
	if newStatus == brand.Status && equalReason(newReason, brand.FailureReason) {
		return entry
	}

	if err := s.brands.UpdateBrandStatus(ctx, brand.BrandID, newStatus, newReason); err != nil {
		entry.SyncStatus = SyncError
		entry.Error = err.Error()
		return entry
	}

	appendEvent(ctx, s.events, s.logger, tenantID, domain.EventBrandStatusUpdated, map[string]any{
		"brand_id":   brand.BrandID,
		"old_status": string(brand.Status),
		"new_status": string(newStatus),
		"reason":     detail.FailureReason,
	})

	s.logger.Info("Brand status updated",
		zap.String("tenant_id", tenantID),
		zap.String("old_status", string(brand.Status)),
		zap.String("new_status", string(newStatus)),
	)

	updated := *brand
	updated.Status = newStatus
	updated.FailureReason = newReason
	entry.Brand = &updated
	return entry
}

func (s *syncService) syncCampaign(ctx context.Context, tenantID string, campaign *domain.Campaign) CampaignSyncEntry {
	entry := CampaignSyncEntry{Campaign: campaign, SyncStatus: SyncOK, LastChecked: time.Now()}
	if campaign.ExternalID == nil {
		return entry
	}

	detail, err := s.registrar.GetCampaign(ctx, *campaign.ExternalID)
	if err != nil {
		s.logger.Warn("Campaign status fetch failed",
			zap.String("tenant_id", tenantID),
			zap.String("campaign_key", campaign.CampaignKey),
			zap.Error(err),
		)
		entry.SyncStatus = SyncError
		entry.Error = err.Error()
		return entry
	}
	entry.Detail = detail

	newStatus := domain.NormalizeStatus(detail.Status)
	newReason := optional(detail.FailureReason)
	if newStatus == campaign.Status && equalReason(newReason, campaign.FailureReason) {
		return entry
	}

	if err := s.campaigns.UpdateCampaignStatus(ctx, campaign.CampaignID, newStatus, newReason); err != nil {
		entry.SyncStatus = SyncError
		entry.Error = err.Error()
		return entry
	}

	appendEvent(ctx, s.events, s.logger, tenantID, domain.EventCampaignStatusUpdated, map[string]any{
		"campaign_id":  campaign.CampaignID,
		"campaign_key": campaign.CampaignKey,
		"old_status":   string(campaign.Status),
		"new_status":   string(newStatus),
		"reason":       detail.FailureReason,
	})

	updated := *campaign
	updated.Status = newStatus
	updated.FailureReason = newReason
	entry.Campaign = &updated
	return entry
}

func equalReason(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
