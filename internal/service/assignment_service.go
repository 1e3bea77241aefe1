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

// AssignmentService binds phone numbers to campaigns, enforcing the
// one-campaign-per-number exclusivity rule.
//
// Ordering is external-first on both paths: the registrar call must succeed
// before the local row is written (assign) or removed (unassign). A local
// failure after external success is drift; it gets its own event type and is
// left for manual reconciliation, never auto-compensated.
type AssignmentService interface {
	Assign(ctx context.Context, tenantID, phoneNumberID, campaignID string) (*domain.Assignment, error)
	Unassign(ctx context.Context, tenantID, phoneNumberID, campaignID string) error
}

type assignmentService struct {
	phones      repository.PhoneNumbersRepository
	campaigns   repository.CampaignsRepository
	brands      repository.BrandsRepository
	assignments repository.AssignmentsRepository
	events      repository.EventsRepository
	registrar   RegistrarClient
	locks       store.Locker
	logger      *zap.Logger
}

func NewAssignmentService(
	phones repository.PhoneNumbersRepository,
	campaigns repository.CampaignsRepository,
	brands repository.BrandsRepository,
	assignments repository.AssignmentsRepository,
	events repository.EventsRepository,
	registrar RegistrarClient,
	locks store.Locker,
	logger *zap.Logger,
) AssignmentService {
	return &assignmentService{
		phones:      phones,
		campaigns:   campaigns,
		brands:      brands,
		assignments: assignments,
		events:      events,
		registrar:   registrar,
		locks:       locks,
		logger:      logger,
	}
}

// resolveCampaign accepts either the campaign row id or the business key
// (the dashboard sends whichever it has on screen).
func (s *assignmentService) resolveCampaign(ctx context.Context, tenantID, campaignID string) (*domain.Campaign, error) {
	campaign, err := s.campaigns.GetCampaignByID(ctx, tenantID, campaignID)
	if err == nil {
		return campaign, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, &domain.PersistenceError{Operation: "campaign_lookup", Err: err}
	}
	campaign, err = s.campaigns.GetCampaignByKey(ctx, tenantID, campaignID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &domain.NotFoundError{Resource: "campaign", ID: campaignID}
		}
		return nil, &domain.PersistenceError{Operation: "campaign_lookup", Err: err}
	}
	return campaign, nil
}

// checkPreconditions loads the phone and campaign and verifies both sides are
// usable: phone active, campaign and owning brand VERIFIED.
func (s *assignmentService) checkPreconditions(ctx context.Context, tenantID, phoneNumberID, campaignID string) (*domain.PhoneNumber, *domain.Campaign, error) {
	phone, err := s.phones.GetPhoneNumber(ctx, tenantID, phoneNumberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, &domain.NotFoundError{Resource: "phone_number", ID: phoneNumberID}
		}
		return nil, nil, &domain.PersistenceError{Operation: "phone_lookup", Err: err}
	}
	if phone.Status != domain.PhoneStatusActive {
		return nil, nil, &domain.PreconditionError{
			Entity:   "phone_number",
			Required: domain.PhoneStatusActive,
			Current:  phone.Status,
		}
	}

	campaign, err := s.resolveCampaign(ctx, tenantID, campaignID)
	if err != nil {
		return nil, nil, err
	}
	if !campaign.Status.IsVerified() {
		return nil, nil, &domain.PreconditionError{
			Entity:   "campaign",
			Required: string(domain.StatusVerified),
			Current:  string(campaign.Status),
		}
	}

	brand, err := s.brands.GetBrandByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, &domain.PreconditionError{
				Entity:   "brand",
				Required: string(domain.StatusVerified),
				Current:  string(domain.StatusUnsubmitted),
			}
		}
		return nil, nil, &domain.PersistenceError{Operation: "brand_lookup", Err: err}
	}
	if !brand.Status.IsVerified() {
		return nil, nil, &domain.PreconditionError{
			Entity:   "brand",
			Required: string(domain.StatusVerified),
			Current:  string(brand.Status),
		}
	}

	return phone, campaign, nil
}

// conflictFor names the campaign currently holding the phone number so the
// caller knows what to unassign first.
func (s *assignmentService) conflictFor(ctx context.Context, tenantID string, existing *domain.Assignment) error {
	conflictKey := existing.CampaignID
	if held, err := s.campaigns.GetCampaignByID(ctx, tenantID, existing.CampaignID); err == nil {
		conflictKey = held.CampaignKey
	}
	return &domain.ConflictError{
		Resource:    "assignment",
		Existing:    existing,
		ConflictKey: conflictKey,
	}
}

// Assign attaches the phone number to the campaign.
func (s *assignmentService) Assign(ctx context.Context, tenantID, phoneNumberID, campaignID string) (*domain.Assignment, error) {
	if tenantID == "" || phoneNumberID == "" || campaignID == "" {
		return nil, fmt.Errorf("tenant_id, phone_number_id and campaign_id are required")
	}

	phone, campaign, err := s.checkPreconditions(ctx, tenantID, phoneNumberID, campaignID)
	if err != nil {
		return nil, err
	}

	// Idempotence: the exact pair already assigned means success with the
	// existing record and no external call.
	existing, err := s.assignments.GetAssignmentByPhone(ctx, tenantID, phoneNumberID)
	if err == nil {
		if existing.CampaignID == campaign.CampaignID {
			return existing, nil
		}
		return nil, s.conflictFor(ctx, tenantID, existing)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, &domain.PersistenceError{Operation: "assignment_lookup", Err: err}
	}

	lockKey := "a2p:assign:" + tenantID + ":" + phoneNumberID
	acquired, err := s.locks.Acquire(ctx, lockKey, lockTTL)
	if err != nil {
		s.logger.Warn("Assignment lock acquire failed, proceeding without lock", zap.Error(err))
	} else if !acquired {
		return nil, &domain.ConflictError{Resource: "assignment", Message: "assignment change already in progress"}
	} else {
		defer func() { _ = s.locks.Release(ctx, lockKey) }()
	}

	if campaign.ExternalID == nil {
		return nil, &domain.PreconditionError{
			Entity:   "campaign",
			Required: string(domain.StatusVerified),
			Current:  string(campaign.Status),
		}
	}

	if err := s.registrar.AttachPhoneNumber(ctx, *campaign.ExternalID, phone.ExternalID); err != nil {
		payload := upstreamPayload(err)
		payload["phone_number_id"] = phoneNumberID
		payload["campaign_key"] = campaign.CampaignKey
		appendEvent(ctx, s.events, s.logger, tenantID, domain.EventPhoneAssignFailed, payload)
		return nil, err
	}

	assignment := &domain.Assignment{
		TenantID:      tenantID,
		PhoneNumberID: phoneNumberID,
		CampaignID:    campaign.CampaignID,
	}
	created, err := s.assignments.CreateAssignment(ctx, assignment)
	if err != nil {
		// The registrar already attached the number: local state now lags
		// external truth. Distinct event type so operators can find and
		// reconcile the drift.
		appendEvent(ctx, s.events, s.logger, tenantID, domain.EventPhoneAssignDBSaveFailed, map[string]any{
			"phone_number_id": phoneNumberID,
			"campaign_id":     campaign.CampaignID,
			"campaign_key":    campaign.CampaignKey,
			"error":           err.Error(),
		})
		if errors.Is(err, repository.ErrPhoneAssigned) {
			if winner, getErr := s.assignments.GetAssignmentByPhone(ctx, tenantID, phoneNumberID); getErr == nil {
				if winner.CampaignID == campaign.CampaignID {
					return winner, nil
				}
				return nil, s.conflictFor(ctx, tenantID, winner)
			}
		}
		return nil, &domain.PersistenceError{Operation: "assignment_create", AfterExternal: true, Err: err}
	}

	appendEvent(ctx, s.events, s.logger, tenantID, domain.EventPhoneAssignSuccess, map[string]any{
		"assignment_id":   created.AssignmentID,
		"phone_number_id": phoneNumberID,
		"campaign_id":     campaign.CampaignID,
		"campaign_key":    campaign.CampaignKey,
	})

	s.logger.Info("Phone number assigned",
		zap.String("tenant_id", tenantID),
		zap.String("phone_number_id", phoneNumberID),
		zap.String("campaign_key", campaign.CampaignKey),
	)

	return created, nil
}

// Unassign detaches the phone number from the campaign. No assignment is an
// idempotent no-op.
func (s *assignmentService) Unassign(ctx context.Context, tenantID, phoneNumberID, campaignID string) error {
	if tenantID == "" || phoneNumberID == "" || campaignID == "" {
		return fmt.Errorf("tenant_id, phone_number_id and campaign_id are required")
	}

	phone, err := s.phones.GetPhoneNumber(ctx, tenantID, phoneNumberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &domain.NotFoundError{Resource: "phone_number", ID: phoneNumberID}
		}
		return &domain.PersistenceError{Operation: "phone_lookup", Err: err}
	}

	campaign, err := s.resolveCampaign(ctx, tenantID, campaignID)
	if err != nil {
		return err
	}

	existing, err := s.assignments.GetAssignmentByPhone(ctx, tenantID, phoneNumberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil // already unassigned
		}
		return &domain.PersistenceError{Operation: "assignment_lookup", Err: err}
	}
	if existing.CampaignID != campaign.CampaignID {
		return nil // not assigned to this campaign; nothing to undo
	}

	lockKey := "a2p:assign:" + tenantID + ":" + phoneNumberID
	acquired, err := s.locks.Acquire(ctx, lockKey, lockTTL)
	if err != nil {
		s.logger.Warn("Assignment lock acquire failed, proceeding without lock", zap.Error(err))
	} else if !acquired {
		return &domain.ConflictError{Resource: "assignment", Message: "assignment change already in progress"}
	} else {
		defer func() { _ = s.locks.Release(ctx, lockKey) }()
	}

	if campaign.ExternalID != nil {
		if err := s.registrar.DetachPhoneNumber(ctx, *campaign.ExternalID, phone.ExternalID); err != nil {
			payload := upstreamPayload(err)
			payload["phone_number_id"] = phoneNumberID
			payload["campaign_key"] = campaign.CampaignKey
			appendEvent(ctx, s.events, s.logger, tenantID, domain.EventPhoneUnassignFailed, payload)
			return err
		}
	}

	if err := s.assignments.DeleteAssignment(ctx, tenantID, phoneNumberID, campaign.CampaignID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil // deleted concurrently; the end state is what we wanted
		}
		// Detached externally but the local row survived: drift, mirrored to
		// the assign path's save-failure event.
		appendEvent(ctx, s.events, s.logger, tenantID, domain.EventPhoneUnassignDBDeleteFailed, map[string]any{
			"phone_number_id": phoneNumberID,
			"campaign_id":     campaign.CampaignID,
			"campaign_key":    campaign.CampaignKey,
			"error":           err.Error(),
		})
		return &domain.PersistenceError{Operation: "assignment_delete", AfterExternal: true, Err: err}
	}

	appendEvent(ctx, s.events, s.logger, tenantID, domain.EventPhoneUnassignSuccess, map[string]any{
		"phone_number_id": phoneNumberID,
		"campaign_id":     campaign.CampaignID,
		"campaign_key":    campaign.CampaignKey,
	})

	s.logger.Info("Phone number unassigned",
		zap.String("tenant_id", tenantID),
		zap.String("phone_number_id", phoneNumberID),
		zap.String("campaign_key", campaign.CampaignKey),
	)

	return nil
}
