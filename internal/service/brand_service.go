package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"engage-a2p/internal/domain"
	"engage-a2p/internal/repository"
	"engage-a2p/internal/store"

	"go.uber.org/zap"
)

// BrandService registers a tenant's business identity with the external
// compliance registrar.
type BrandService interface {
	CreateBrand(ctx context.Context, req CreateBrandRequest) (*domain.Brand, error)
}

// CreateBrandRequest legal company fields for brand registration.
type CreateBrandRequest struct {
	TenantID          string
	LegalName         string
	EntityType        string
	TaxID             string // optional
	Vertical          string
	Email             string
	Phone             string
	Website           string // optional
	Street            string
	City              string
	State             string
	PostalCode        string
	Country           string
	AltBusinessID     string // optional
	AltBusinessIDType string // optional, required when AltBusinessID is set
}

type brandService struct {
	brands    repository.BrandsRepository
	events    repository.EventsRepository
	registrar RegistrarClient
	locks     store.Locker
	logger    *zap.Logger
}

func NewBrandService(
	brands repository.BrandsRepository,
	events repository.EventsRepository,
	registrar RegistrarClient,
	locks store.Locker,
	logger *zap.Logger,
) BrandService {
	return &brandService{
		brands:    brands,
		events:    events,
		registrar: registrar,
		locks:     locks,
		logger:    logger,
	}
}

func (s *brandService) validate(req CreateBrandRequest) error {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"legal_name", req.LegalName},
		{"entity_type", req.EntityType},
		{"vertical", req.Vertical},
		{"email", req.Email},
		{"phone", req.Phone},
		{"street", req.Street},
		{"city", req.City},
		{"state", req.State},
		{"postal_code", req.PostalCode},
	}
	for _, f := range required {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	// Optional fields are format-checked only when present.
	if req.AltBusinessID != "" && req.AltBusinessIDType == "" {
		missing = append(missing, "alt_business_id_type")
	}
	if len(missing) > 0 {
		return &domain.ValidationError{Fields: missing}
	}
	return nil
}

// CreateBrand registers the tenant's brand. External call first, local
// persist second: an upstream failure leaves no local row, so creation stays
// safely retryable.
func (s *brandService) CreateBrand(ctx context.Context, req CreateBrandRequest) (*domain.Brand, error) {
	if req.TenantID == "" {
		return nil, fmt.Errorf("tenant_id is required")
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}

	// One brand per tenant: a retry gets the existing record back.
	if existing, err := s.brands.GetBrandByTenant(ctx, req.TenantID); err == nil {
		return nil, &domain.ConflictError{Resource: "brand", Existing: existing}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, &domain.PersistenceError{Operation: "brand_lookup", Err: err}
	}

	// Advisory lock closes the in-flight duplicate window: a concurrent retry
	// cannot start a second paid registration while this one runs.
	lockKey := "a2p:brand:" + req.TenantID
	acquired, err := s.locks.Acquire(ctx, lockKey, lockTTL)
	if err != nil {
		s.logger.Warn("Brand lock acquire failed, proceeding without lock", zap.Error(err))
	} else if !acquired {
		return nil, &domain.ConflictError{Resource: "brand", Message: "brand registration already in progress"}
	} else {
		defer func() { _ = s.locks.Release(ctx, lockKey) }()
	}

	country := req.Country
	if country == "" {
		country = "US"
	}

	registered, err := s.registrar.CreateBrand(ctx, BrandRegistration{
		LegalName:         req.LegalName,
		EntityType:        req.EntityType,
		TaxID:             req.TaxID,
		Vertical:          req.Vertical,
		Email:             req.Email,
		Phone:             req.Phone,
		Website:           req.Website,
		Street:            req.Street,
		City:              req.City,
		State:             req.State,
		PostalCode:        req.PostalCode,
		Country:           country,
		AltBusinessID:     req.AltBusinessID,
		AltBusinessIDType: req.AltBusinessIDType,
	})
	if err != nil {
		appendEvent(ctx, s.events, s.logger, req.TenantID, domain.EventBrandCreationFailed, upstreamPayload(err))
		return nil, err
	}

	now := time.Now()
	brand := &domain.Brand{
		TenantID:          req.TenantID,
		ExternalID:        &registered.BrandID,
		LegalName:         req.LegalName,
		EntityType:        req.EntityType,
		TaxID:             optional(req.TaxID),
		Vertical:          req.Vertical,
		Email:             req.Email,
		Phone:             req.Phone,
		Website:           optional(req.Website),
		Street:            req.Street,
		City:              req.City,
		State:             req.State,
		PostalCode:        req.PostalCode,
		Country:           country,
		AltBusinessID:     optional(req.AltBusinessID),
		AltBusinessIDType: optional(req.AltBusinessIDType),
		Status:            domain.NormalizeStatus(registered.Status),
		ExternalCreatedAt: &now,
		ExternalUpdatedAt: &now,
	}

	created, err := s.brands.CreateBrand(ctx, brand)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// A concurrent create won the constraint race; the registrar now
			// holds an extra entity. Drift-log it and hand back the winner.
			appendEvent(ctx, s.events, s.logger, req.TenantID, domain.EventBrandDBSaveFailed, map[string]any{
				"external_id": registered.BrandID,
				"error":       "brand row already exists",
			})
			if existing, getErr := s.brands.GetBrandByTenant(ctx, req.TenantID); getErr == nil {
				return nil, &domain.ConflictError{Resource: "brand", Existing: existing}
			}
			return nil, &domain.PersistenceError{Operation: "brand_create", AfterExternal: true, Err: err}
		}
		appendEvent(ctx, s.events, s.logger, req.TenantID, domain.EventBrandDBSaveFailed, map[string]any{
			"external_id": registered.BrandID,
			"error":       err.Error(),
		})
		return nil, &domain.PersistenceError{Operation: "brand_create", AfterExternal: true, Err: err}
	}

	appendEvent(ctx, s.events, s.logger, req.TenantID, domain.EventBrandCreated, map[string]any{
		"brand_id":    created.BrandID,
		"external_id": registered.BrandID,
		"status":      string(created.Status),
	})

	s.logger.Info("Brand registered",
		zap.String("tenant_id", req.TenantID),
		zap.String("brand_id", created.BrandID),
		zap.String("external_id", registered.BrandID),
		zap.String("status", string(created.Status)),
	)

	return created, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
