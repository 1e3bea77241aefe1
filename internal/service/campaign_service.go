package service

import (
	"context"
	"errors"
	"fmt"

	"engage-a2p/internal/domain"
	"engage-a2p/internal/repository"
	"engage-a2p/internal/store"

	"go.uber.org/zap"
)

// CampaignService registers messaging use cases under a verified brand.
type CampaignService interface {
	CreateCampaign(ctx context.Context, req CreateCampaignRequest) (*domain.Campaign, error)
}

// CreateCampaignRequest campaign registration fields. CampaignKey is the
// tenant-scoped business key (e.g. "AI_ENGAGEMENT").
type CreateCampaignRequest struct {
	TenantID       string
	CampaignKey    string
	Description    string
	MessageFlow    string
	SampleMessages []string
	OptInKeywords  []string // defaults to ["START"]
	OptOutKeywords []string // defaults to ["STOP"]
	HelpKeywords   []string // defaults to ["HELP"]

	AgeGated           bool
	DirectLending      bool
	AffiliateMarketing bool
	NumberPooling      bool
	EmbeddedLink       bool
	EmbeddedPhone      bool
}

type campaignService struct {
	brands    repository.BrandsRepository
	campaigns repository.CampaignsRepository
	events    repository.EventsRepository
	registrar RegistrarClient
	locks     store.Locker
	logger    *zap.Logger
}

func NewCampaignService(
	brands repository.BrandsRepository,
	campaigns repository.CampaignsRepository,
	events repository.EventsRepository,
	registrar RegistrarClient,
	locks store.Locker,
	logger *zap.Logger,
) CampaignService {
	return &campaignService{
		brands:    brands,
		campaigns: campaigns,
		events:    events,
		registrar: registrar,
		locks:     locks,
		logger:    logger,
	}
}

// CreateCampaign registers a campaign under the tenant's verified brand.
// Creation never proceeds silently past a non-verified brand.
func (s *campaignService) CreateCampaign(ctx context.Context, req CreateCampaignRequest) (*domain.Campaign, error) {
	if req.TenantID == "" {
		return nil, fmt.Errorf("tenant_id is required")
	}

	var missing []string
	if req.CampaignKey == "" {
		missing = append(missing, "campaign_id")
	}
	if req.Description == "" {
		missing = append(missing, "description")
	}
	if len(req.SampleMessages) == 0 {
		missing = append(missing, "sample_messages")
	}
	if len(missing) > 0 {
		return nil, &domain.ValidationError{Fields: missing}
	}

	// The brand must exist and be VERIFIED before any campaign registration.
	brand, err := s.brands.GetBrandByTenant(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &domain.PreconditionError{
				Entity:   "brand",
				Required: string(domain.StatusVerified),
				Current:  string(domain.StatusUnsubmitted),
			}
		}
		return nil, &domain.PersistenceError{Operation: "brand_lookup", Err: err}
	}
	if !brand.Status.IsVerified() {
		return nil, &domain.PreconditionError{
			Entity:   "brand",
			Required: string(domain.StatusVerified),
			Current:  string(brand.Status),
		}
	}
	if brand.ExternalID == nil {
		return nil, &domain.PreconditionError{
			Entity:   "brand",
			Required: string(domain.StatusVerified),
			Current:  string(brand.Status),
		}
	}

	// (tenant, campaign_key) is unique: a retry gets the existing record back.
	if existing, err := s.campaigns.GetCampaignByKey(ctx, req.TenantID, req.CampaignKey); err == nil {
		return nil, &domain.ConflictError{Resource: "campaign", Existing: existing}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, &domain.PersistenceError{Operation: "campaign_lookup", Err: err}
	}

	lockKey := "a2p:campaign:" + req.TenantID + ":" + req.CampaignKey
	acquired, err := s.locks.Acquire(ctx, lockKey, lockTTL)
	if err != nil {
		s.logger.Warn("Campaign lock acquire failed, proceeding without lock", zap.Error(err))
	} else if !acquired {
		return nil, &domain.ConflictError{Resource: "campaign", Message: "campaign registration already in progress"}
	} else {
		defer func() { _ = s.locks.Release(ctx, lockKey) }()
	}

	useCase := domain.UseCaseForCampaignKey(req.CampaignKey)

	messageFlow := req.MessageFlow
	if messageFlow == "" {
		messageFlow = "End users opt in by providing their phone number through the web form and confirming via keyword."
	}
	optIn := defaultKeywords(req.OptInKeywords, "START")
	optOut := defaultKeywords(req.OptOutKeywords, "STOP")
	help := defaultKeywords(req.HelpKeywords, "HELP")

	registered, err := s.registrar.CreateCampaign(ctx, *brand.ExternalID, CampaignRegistration{
		UseCase:            useCase,
		Description:        req.Description,
		MessageFlow:        messageFlow,
		SampleMessages:     req.SampleMessages,
		OptInKeywords:      optIn,
		OptOutKeywords:     optOut,
		HelpKeywords:       help,
		AgeGated:           req.AgeGated,
		DirectLending:      req.DirectLending,
		AffiliateMarketing: req.AffiliateMarketing,
		NumberPooling:      req.NumberPooling,
		EmbeddedLink:       req.EmbeddedLink,
		EmbeddedPhone:      req.EmbeddedPhone,
	})
	if err != nil {
		payload := upstreamPayload(err)
		payload["campaign_key"] = req.CampaignKey
		appendEvent(ctx, s.events, s.logger, req.TenantID, domain.EventCampaignCreationFailed, payload)
		return nil, err
	}

	campaign := &domain.Campaign{
		TenantID:           req.TenantID,
		BrandID:            brand.BrandID,
		CampaignKey:        req.CampaignKey,
		ExternalID:         &registered.CampaignID,
		UseCase:            useCase,
		Description:        req.Description,
		MessageFlow:        messageFlow,
		SampleMessages:     req.SampleMessages,
		OptInKeywords:      optIn,
		OptOutKeywords:     optOut,
		HelpKeywords:       help,
		AgeGated:           req.AgeGated,
		DirectLending:      req.DirectLending,
		AffiliateMarketing: req.AffiliateMarketing,
		NumberPooling:      req.NumberPooling,
		EmbeddedLink:       req.EmbeddedLink,
		EmbeddedPhone:      req.EmbeddedPhone,
		Status:             domain.NormalizeStatus(registered.Status),
	}

	created, err := s.campaigns.CreateCampaign(ctx, campaign)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			appendEvent(ctx, s.events, s.logger, req.TenantID, domain.EventCampaignDBSaveFailed, map[string]any{
				"campaign_key": req.CampaignKey,
				"external_id":  registered.CampaignID,
				"error":        "campaign row already exists",
			})
			if existing, getErr := s.campaigns.GetCampaignByKey(ctx, req.TenantID, req.CampaignKey); getErr == nil {
				return nil, &domain.ConflictError{Resource: "campaign", Existing: existing}
			}
			return nil, &domain.PersistenceError{Operation: "campaign_create", AfterExternal: true, Err: err}
		}
		appendEvent(ctx, s.events, s.logger, req.TenantID, domain.EventCampaignDBSaveFailed, map[string]any{
			"campaign_key": req.CampaignKey,
			"external_id":  registered.CampaignID,
			"error":        err.Error(),
		})
		return nil, &domain.PersistenceError{Operation: "campaign_create", AfterExternal: true, Err: err}
	}

	appendEvent(ctx, s.events, s.logger, req.TenantID, domain.EventCampaignCreated, map[string]any{
		"campaign_id":  created.CampaignID,
		"campaign_key": created.CampaignKey,
		"external_id":  registered.CampaignID,
		"use_case":     useCase,
		"status":       string(created.Status),
	})

	s.logger.Info("Campaign registered",
		zap.String("tenant_id", req.TenantID),
		zap.String("campaign_key", created.CampaignKey),
		zap.String("external_id", registered.CampaignID),
		zap.String("use_case", useCase),
	)

	return created, nil
}

func defaultKeywords(keywords []string, def string) []string {
	if len(keywords) == 0 {
		return []string{def}
	}
	return keywords
}
