package httpapi

import (
	"net/http"

	"engage-a2p/internal/domain"
	"engage-a2p/internal/repository"
	"engage-a2p/internal/service"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// A2PHandler HTTP surface for brand/campaign registration, phone-campaign
// assignment, status sync and the compliance audit log.
type A2PHandler struct {
	brands      service.BrandService
	campaigns   service.CampaignService
	assignments service.AssignmentService
	sync        service.SyncService

	phonesRepo      repository.PhoneNumbersRepository
	campaignsRepo   repository.CampaignsRepository
	assignmentsRepo repository.AssignmentsRepository
	eventsRepo      repository.EventsRepository

	auth   *Authenticator
	logger *zap.Logger
}

func NewA2PHandler(
	brands service.BrandService,
	campaigns service.CampaignService,
	assignments service.AssignmentService,
	sync service.SyncService,
	phonesRepo repository.PhoneNumbersRepository,
	campaignsRepo repository.CampaignsRepository,
	assignmentsRepo repository.AssignmentsRepository,
	eventsRepo repository.EventsRepository,
	auth *Authenticator,
	logger *zap.Logger,
) *A2PHandler {
	return &A2PHandler{
		brands:          brands,
		campaigns:       campaigns,
		assignments:     assignments,
		sync:            sync,
		phonesRepo:      phonesRepo,
		campaignsRepo:   campaignsRepo,
		assignmentsRepo: assignmentsRepo,
		eventsRepo:      eventsRepo,
		auth:            auth,
		logger:          logger,
	}
}

type createBrandBody struct {
	LegalName         string `json:"legal_name"`
	EntityType        string `json:"entity_type"`
	TaxID             string `json:"tax_id"`
	Vertical          string `json:"vertical"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Website           string `json:"website"`
	Street            string `json:"street"`
	City              string `json:"city"`
	State             string `json:"state"`
	PostalCode        string `json:"postal_code"`
	Country           string `json:"country"`
	AltBusinessID     string `json:"alt_business_id"`
	AltBusinessIDType string `json:"alt_business_id_type"`
}

// CreateBrand POST /a2p/brand
func (h *A2PHandler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireManager(w, r)
	if !ok {
		return
	}

	var body createBrandBody
	if err := readBodyJSON(r, maxBodyBytes, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "bad_request", Message: "invalid JSON body"})
		return
	}

	brand, err := h.brands.CreateBrand(r.Context(), service.CreateBrandRequest{
		TenantID:          identity.TenantID,
		LegalName:         body.LegalName,
		EntityType:        body.EntityType,
		TaxID:             body.TaxID,
		Vertical:          body.Vertical,
		Email:             body.Email,
		Phone:             body.Phone,
		Website:           body.Website,
		Street:            body.Street,
		City:              body.City,
		State:             body.State,
		PostalCode:        body.PostalCode,
		Country:           body.Country,
		AltBusinessID:     body.AltBusinessID,
		AltBusinessIDType: body.AltBusinessIDType,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, brand)
}

type createCampaignBody struct {
	CampaignID     string   `json:"campaign_id"` // business key, e.g. AI_ENGAGEMENT
	Description    string   `json:"description"`
	MessageFlow    string   `json:"message_flow"`
	SampleMessages []string `json:"sample_messages"`
	OptInKeywords  []string `json:"opt_in_keywords"`
	OptOutKeywords []string `json:"opt_out_keywords"`
	HelpKeywords   []string `json:"help_keywords"`

	AgeGated           bool `json:"age_gated"`
	DirectLending      bool `json:"direct_lending"`
	AffiliateMarketing bool `json:"affiliate_marketing"`
	NumberPooling      bool `json:"number_pooling"`
	EmbeddedLink       bool `json:"embedded_link"`
	EmbeddedPhone      bool `json:"embedded_phone"`
}

// CreateCampaign POST /a2p/campaign
func (h *A2PHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireManager(w, r)
	if !ok {
		return
	}

	var body createCampaignBody
	if err := readBodyJSON(r, maxBodyBytes, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "bad_request", Message: "invalid JSON body"})
		return
	}

	campaign, err := h.campaigns.CreateCampaign(r.Context(), service.CreateCampaignRequest{
		TenantID:           identity.TenantID,
		CampaignKey:        body.CampaignID,
		Description:        body.Description,
		MessageFlow:        body.MessageFlow,
		SampleMessages:     body.SampleMessages,
		OptInKeywords:      body.OptInKeywords,
		OptOutKeywords:     body.OptOutKeywords,
		HelpKeywords:       body.HelpKeywords,
		AgeGated:           body.AgeGated,
		DirectLending:      body.DirectLending,
		AffiliateMarketing: body.AffiliateMarketing,
		NumberPooling:      body.NumberPooling,
		EmbeddedLink:       body.EmbeddedLink,
		EmbeddedPhone:      body.EmbeddedPhone,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, campaign)
}

type phoneCampaignBody struct {
	PhoneNumberID string `json:"phone_number_id"`
	A2PCampaignID string `json:"a2p_campaign_id"` // row id or campaign key
	Action        string `json:"action"`          // assign | unassign
}

// PhoneCampaign POST /a2p/phone-campaign
func (h *A2PHandler) PhoneCampaign(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireManager(w, r)
	if !ok {
		return
	}

	var body phoneCampaignBody
	if err := readBodyJSON(r, maxBodyBytes, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "bad_request", Message: "invalid JSON body"})
		return
	}
	if body.PhoneNumberID == "" || body.A2PCampaignID == "" {
		writeError(w, &domain.ValidationError{Fields: missingOf(body)})
		return
	}

	switch body.Action {
	case "assign":
		assignment, err := h.assignments.Assign(r.Context(), identity.TenantID, body.PhoneNumberID, body.A2PCampaignID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, assignment)
	case "unassign":
		if err := h.assignments.Unassign(r.Context(), identity.TenantID, body.PhoneNumberID, body.A2PCampaignID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "unassigned"})
	default:
		writeError(w, &domain.ValidationError{Fields: []string{"action"}})
	}
}

func missingOf(body phoneCampaignBody) []string {
	var fields []string
	if body.PhoneNumberID == "" {
		fields = append(fields, "phone_number_id")
	}
	if body.A2PCampaignID == "" {
		fields = append(fields, "a2p_campaign_id")
	}
	return fields
}

// Status GET /a2p/status — live reconciliation against the registrar.
func (h *A2PHandler) Status(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireAuth(w, r)
	if !ok {
		return
	}

	result, err := h.sync.SyncTenant(r.Context(), identity.TenantID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// phoneNumberView phone inventory row annotated with its current assignment.
type phoneNumberView struct {
	*domain.PhoneNumber
	AssignedCampaignID  string `json:"assigned_campaign_id,omitempty"`
	AssignedCampaignKey string `json:"assigned_campaign_key,omitempty"`
}

// PhoneNumbers GET /a2p/phone-numbers
func (h *A2PHandler) PhoneNumbers(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireAuth(w, r)
	if !ok {
		return
	}

	numbers, err := h.phonesRepo.ListPhoneNumbers(r.Context(), identity.TenantID)
	if err != nil {
		writeError(w, &domain.PersistenceError{Operation: "phone_list", Err: err})
		return
	}
	assignments, err := h.assignmentsRepo.ListAssignments(r.Context(), identity.TenantID)
	if err != nil {
		writeError(w, &domain.PersistenceError{Operation: "assignment_list", Err: err})
		return
	}

	byPhone := make(map[string]*domain.Assignment, len(assignments))
	for _, a := range assignments {
		byPhone[a.PhoneNumberID] = a
	}

	views := make([]phoneNumberView, 0, len(numbers))
	for _, n := range numbers {
		view := phoneNumberView{PhoneNumber: n}
		if a, ok := byPhone[n.PhoneNumberID]; ok {
			view.AssignedCampaignID = a.CampaignID
			if campaign, err := h.campaignsRepo.GetCampaignByID(r.Context(), identity.TenantID, a.CampaignID); err == nil {
				view.AssignedCampaignKey = campaign.CampaignKey
			}
		}
		views = append(views, view)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"phone_numbers": views,
		"total":         len(views),
	})
}

// Events GET /a2p/events?type=&page=&size=
func (h *A2PHandler) Events(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireAuth(w, r)
	if !ok {
		return
	}

	page := parseInt(r.URL.Query().Get("page"), 1)
	size := parseInt(r.URL.Query().Get("size"), 50)
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 500 {
		size = 50
	}
	filters := repository.EventFilters{EventType: r.URL.Query().Get("type")}

	events, total, err := h.eventsRepo.ListEvents(r.Context(), identity.TenantID, filters, page, size)
	if err != nil {
		writeError(w, &domain.PersistenceError{Operation: "event_list", Err: err})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"total":  total,
		"page":   page,
		"size":   size,
	})
}

// Healthz GET /healthz — unauthenticated liveness probe.
func (h *A2PHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
