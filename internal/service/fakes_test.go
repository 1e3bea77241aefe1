package service

import (
	"context"
	"fmt"
	"sync"

	"engage-a2p/internal/domain"
	"engage-a2p/internal/repository"
	"engage-a2p/internal/store"

	"go.uber.org/zap"
)

// fakeRegistrar scripted registrar for unit tests. Counters verify that no
// duplicate paid registrations slip through.
type fakeRegistrar struct {
	mu sync.Mutex

	createBrandCalls    int
	createCampaignCalls int
	attachCalls         int
	detachCalls         int

	createBrandErr    error
	createCampaignErr error
	attachErr         error
	detachErr         error

	brandStatus    string
	campaignStatus string

	brands    map[string]*RegistrarBrand
	campaigns map[string]*RegistrarCampaign

	getBrandErr    error
	getCampaignErr error
}

var _ RegistrarClient = (*fakeRegistrar)(nil)

func newFakeRegistrar() *fakeRegistrar {
	return &fakeRegistrar{
		brandStatus:    "PENDING",
		campaignStatus: "PENDING",
		brands:         map[string]*RegistrarBrand{},
		campaigns:      map[string]*RegistrarCampaign{},
	}
}

func (f *fakeRegistrar) CreateBrand(_ context.Context, _ BrandRegistration) (*RegistrarBrand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createBrandCalls++
	if f.createBrandErr != nil {
		return nil, f.createBrandErr
	}
	brand := &RegistrarBrand{
		BrandID: fmt.Sprintf("EXT-BRAND-%d", f.createBrandCalls),
		Status:  f.brandStatus,
	}
	f.brands[brand.BrandID] = brand
	return brand, nil
}

func (f *fakeRegistrar) GetBrand(_ context.Context, externalID string) (*RegistrarBrand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getBrandErr != nil {
		return nil, f.getBrandErr
	}
	if brand, ok := f.brands[externalID]; ok {
		copied := *brand
		return &copied, nil
	}
	return nil, &domain.UpstreamError{Operation: "get_brand", StatusCode: 404}
}

func (f *fakeRegistrar) CreateCampaign(_ context.Context, brandExternalID string, _ CampaignRegistration) (*RegistrarCampaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCampaignCalls++
	if f.createCampaignErr != nil {
		return nil, f.createCampaignErr
	}
	campaign := &RegistrarCampaign{
		CampaignID: fmt.Sprintf("EXT-CAMPAIGN-%d", f.createCampaignCalls),
		BrandID:    brandExternalID,
		Status:     f.campaignStatus,
	}
	f.campaigns[campaign.CampaignID] = campaign
	return campaign, nil
}

func (f *fakeRegistrar) GetCampaign(_ context.Context, externalID string) (*RegistrarCampaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getCampaignErr != nil {
		return nil, f.getCampaignErr
	}
	if campaign, ok := f.campaigns[externalID]; ok {
		copied := *campaign
		return &copied, nil
	}
	return nil, &domain.UpstreamError{Operation: "get_campaign", StatusCode: 404}
}

func (f *fakeRegistrar) AttachPhoneNumber(_ context.Context, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attachCalls++
	return f.attachErr
}

func (f *fakeRegistrar) DetachPhoneNumber(_ context.Context, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detachCalls++
	return f.detachErr
}

// testEnv memory-backed wiring for service tests.
type testEnv struct {
	tenants     *repository.MemoryTenantsRepository
	brands      *repository.MemoryBrandsRepository
	campaigns   *repository.MemoryCampaignsRepository
	phones      *repository.MemoryPhoneNumbersRepository
	assignments *repository.MemoryAssignmentsRepository
	events      *repository.MemoryEventsRepository
	registrar   *fakeRegistrar
	locks       store.Locker
	logger      *zap.Logger
}

func newTestEnv() *testEnv {
	return &testEnv{
		tenants:     repository.NewMemoryTenantsRepository(),
		brands:      repository.NewMemoryBrandsRepository(),
		campaigns:   repository.NewMemoryCampaignsRepository(),
		phones:      repository.NewMemoryPhoneNumbersRepository(),
		assignments: repository.NewMemoryAssignmentsRepository(),
		events:      repository.NewMemoryEventsRepository(),
		registrar:   newFakeRegistrar(),
		locks:       store.NewMemoryLocker(),
		logger:      zap.NewNop(),
	}
}

func (e *testEnv) brandService() BrandService {
	return NewBrandService(e.brands, e.events, e.registrar, e.locks, e.logger)
}

func (e *testEnv) campaignService() CampaignService {
	return NewCampaignService(e.brands, e.campaigns, e.events, e.registrar, e.locks, e.logger)
}

func (e *testEnv) assignmentService() AssignmentService {
	return NewAssignmentService(e.phones, e.campaigns, e.brands, e.assignments, e.events, e.registrar, e.locks, e.logger)
}

func (e *testEnv) syncService() SyncService {
	return NewSyncService(e.brands, e.campaigns, e.events, e.registrar, e.logger)
}

// eventTypes returns the tenant's event log types, newest first.
func (e *testEnv) eventTypes(tenantID string) []string {
	events, _, _ := e.events.ListEvents(context.Background(), tenantID, repository.EventFilters{}, 1, 100)
	types := make([]string, 0, len(events))
	for _, ev := range events {
		types = append(types, ev.EventType)
	}
	return types
}

func (e *testEnv) hasEvent(tenantID, eventType string) bool {
	for _, t := range e.eventTypes(tenantID) {
		if t == eventType {
			return true
		}
	}
	return false
}

func strPtr(s string) *string { return &s }

// seedVerifiedBrand inserts a VERIFIED brand with a registrar-side twin.
func (e *testEnv) seedVerifiedBrand(tenantID string) *domain.Brand {
	externalID := "EXT-BRAND-SEED"
	e.registrar.brands[externalID] = &RegistrarBrand{BrandID: externalID, Status: "VERIFIED"}
	brand := &domain.Brand{
		TenantID:   tenantID,
		ExternalID: strPtr(externalID),
		LegalName:  "Acme Realty LLC",
		EntityType: "PRIVATE_PROFIT",
		Vertical:   "REAL_ESTATE",
		Email:      "compliance@acme-realty.test",
		Phone:      "+15550100000",
		Street:     "100 Main St",
		City:       "Austin",
		State:      "TX",
		PostalCode: "78701",
		Country:    "US",
		Status:     domain.StatusVerified,
	}
	created, err := e.brands.CreateBrand(context.Background(), brand)
	if err != nil {
		panic(err)
	}
	return created
}

// seedVerifiedCampaign inserts a VERIFIED campaign under the brand, with a
// registrar-side twin.
func (e *testEnv) seedVerifiedCampaign(tenantID, brandID, campaignKey string) *domain.Campaign {
	externalID := "EXT-CAMPAIGN-SEED-" + campaignKey
	e.registrar.campaigns[externalID] = &RegistrarCampaign{CampaignID: externalID, Status: "VERIFIED"}
	campaign := &domain.Campaign{
		TenantID:       tenantID,
		BrandID:        brandID,
		CampaignKey:    campaignKey,
		ExternalID:     strPtr(externalID),
		UseCase:        domain.UseCaseForCampaignKey(campaignKey),
		Description:    "Conversational follow-up with engaged leads",
		MessageFlow:    "Leads opt in via the web form.",
		SampleMessages: []string{"Hi {{name}}, thanks for reaching out!"},
		OptInKeywords:  []string{"START"},
		OptOutKeywords: []string{"STOP"},
		HelpKeywords:   []string{"HELP"},
		Status:         domain.StatusVerified,
	}
	created, err := e.campaigns.CreateCampaign(context.Background(), campaign)
	if err != nil {
		panic(err)
	}
	return created
}

// seedPhone inserts an active SMS-capable phone number.
func (e *testEnv) seedPhone(tenantID, number string) *domain.PhoneNumber {
	phone := &domain.PhoneNumber{
		TenantID:   tenantID,
		ExternalID: "PN-" + number,
		Number:     number,
		SMSEnabled: true,
		Status:     domain.PhoneStatusActive,
	}
	created, err := e.phones.CreatePhoneNumber(context.Background(), phone)
	if err != nil {
		panic(err)
	}
	return created
}
