package service

import (
	"context"
	"fmt"
	"time"

	"engage-a2p/internal/config"
	"engage-a2p/internal/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// RegistrarBrand brand entity as the registrar reports it.
type RegistrarBrand struct {
	BrandID       string `json:"brandId"`
	Status        string `json:"status"`
	FailureReason string `json:"failureReason,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
}

// RegistrarCampaign campaign entity as the registrar reports it.
type RegistrarCampaign struct {
	CampaignID    string `json:"campaignId"`
	BrandID       string `json:"brandId"`
	Status        string `json:"status"`
	FailureReason string `json:"failureReason,omitempty"`
}

// BrandRegistration payload for creating an external brand entity.
type BrandRegistration struct {
	LegalName         string `json:"legalName"`
	EntityType        string `json:"entityType"`
	TaxID             string `json:"taxId,omitempty"`
	Vertical          string `json:"vertical"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Website           string `json:"website,omitempty"`
	Street            string `json:"street"`
	City              string `json:"city"`
	State             string `json:"state"`
	PostalCode        string `json:"postalCode"`
	Country           string `json:"country"`
	AltBusinessID     string `json:"altBusinessId,omitempty"`
	AltBusinessIDType string `json:"altBusinessIdType,omitempty"`
}

// CampaignRegistration payload for creating an external campaign under a brand.
type CampaignRegistration struct {
	UseCase            string   `json:"usecase"`
	Description        string   `json:"description"`
	MessageFlow        string   `json:"messageFlow"`
	SampleMessages     []string `json:"sampleMessages"`
	OptInKeywords      []string `json:"optinKeywords"`
	OptOutKeywords     []string `json:"optoutKeywords"`
	HelpKeywords       []string `json:"helpKeywords"`
	AgeGated           bool     `json:"ageGated"`
	DirectLending      bool     `json:"directLending"`
	AffiliateMarketing bool     `json:"affiliateMarketing"`
	NumberPooling      bool     `json:"numberPool"`
	EmbeddedLink       bool     `json:"embeddedLink"`
	EmbeddedPhone      bool     `json:"embeddedPhone"`
}

// RegistrarClient wraps the external compliance registrar's REST API.
// The registrar is the source of truth for verification status; this client
// is the only place that talks to it.
type RegistrarClient interface {
	CreateBrand(ctx context.Context, reg BrandRegistration) (*RegistrarBrand, error)
	GetBrand(ctx context.Context, externalID string) (*RegistrarBrand, error)
	CreateCampaign(ctx context.Context, brandExternalID string, reg CampaignRegistration) (*RegistrarCampaign, error)
	GetCampaign(ctx context.Context, externalID string) (*RegistrarCampaign, error)
	AttachPhoneNumber(ctx context.Context, campaignExternalID, phoneExternalID string) error
	DetachPhoneNumber(ctx context.Context, campaignExternalID, phoneExternalID string) error
}

// registrarClient resty implementation. Two underlying clients: reads retry
// (status polling is idempotent), writes never do — a duplicated create or
// attach is a paid external side effect with no idempotency key to dedupe it.
type registrarClient struct {
	write  *resty.Client
	read   *resty.Client
	logger *zap.Logger
}

// NewRegistrarClient builds the client from injected config; credentials are
// never read from the environment here.
func NewRegistrarClient(cfg config.RegistrarConfig, logger *zap.Logger) RegistrarClient {
	base := func() *resty.Client {
		return resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(cfg.Timeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json").
			SetHeader("X-Api-Key", cfg.APIKey).
			SetHeader("X-Api-Secret", cfg.APISecret)
	}

	write := base()

	read := base().
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)

	return &registrarClient{write: write, read: read, logger: logger}
}

// upstreamError converts a failed resty exchange into a domain.UpstreamError
// keeping the raw body for the audit trail.
func upstreamError(operation string, resp *resty.Response, err error) error {
	if err != nil {
		return &domain.UpstreamError{Operation: operation, Err: err}
	}
	return &domain.UpstreamError{
		Operation:  operation,
		StatusCode: resp.StatusCode(),
		Body:       string(resp.Body()),
	}
}

func (c *registrarClient) CreateBrand(ctx context.Context, reg BrandRegistration) (*RegistrarBrand, error) {
	c.logger.Info("Calling registrar API: create brand",
		zap.String("legal_name", reg.LegalName),
		zap.String("vertical", reg.Vertical),
	)

	var brand RegistrarBrand
	resp, err := c.write.R().
		SetContext(ctx).
		SetBody(reg).
		SetResult(&brand).
		Post("/v1/brands")
	if err != nil || resp.IsError() {
		c.logger.Error("Registrar create brand failed", zap.Error(err), zap.Int("status_code", statusCode(resp)))
		return nil, upstreamError("create_brand", resp, err)
	}
	if brand.BrandID == "" {
		return nil, &domain.UpstreamError{
			Operation:  "create_brand",
			StatusCode: resp.StatusCode(),
			Body:       string(resp.Body()),
			Err:        fmt.Errorf("response missing brandId"),
		}
	}
	return &brand, nil
}

func (c *registrarClient) GetBrand(ctx context.Context, externalID string) (*RegistrarBrand, error) {
	var brand RegistrarBrand
	resp, err := c.read.R().
		SetContext(ctx).
		SetResult(&brand).
		Get("/v1/brands/" + externalID)
	if err != nil || resp.IsError() {
		return nil, upstreamError("get_brand", resp, err)
	}
	return &brand, nil
}

func (c *registrarClient) CreateCampaign(ctx context.Context, brandExternalID string, reg CampaignRegistration) (*RegistrarCampaign, error) {
	c.logger.Info("Calling registrar API: create campaign",
		zap.String("brand_external_id", brandExternalID),
		zap.String("use_case", reg.UseCase),
	)

	var campaign RegistrarCampaign
	resp, err := c.write.R().
		SetContext(ctx).
		SetBody(reg).
		SetResult(&campaign).
		Post("/v1/brands/" + brandExternalID + "/campaigns")
	if err != nil || resp.IsError() {
		c.logger.Error("Registrar create campaign failed", zap.Error(err), zap.Int("status_code", statusCode(resp)))
		return nil, upstreamError("create_campaign", resp, err)
	}
	if campaign.CampaignID == "" {
		return nil, &domain.UpstreamError{
			Operation:  "create_campaign",
			StatusCode: resp.StatusCode(),
			Body:       string(resp.Body()),
			Err:        fmt.Errorf("response missing campaignId"),
		}
	}
	return &campaign, nil
}

func (c *registrarClient) GetCampaign(ctx context.Context, externalID string) (*RegistrarCampaign, error) {
	var campaign RegistrarCampaign
	resp, err := c.read.R().
		SetContext(ctx).
		SetResult(&campaign).
		Get("/v1/campaigns/" + externalID)
	if err != nil || resp.IsError() {
		return nil, upstreamError("get_campaign", resp, err)
	}
	return &campaign, nil
}

func (c *registrarClient) AttachPhoneNumber(ctx context.Context, campaignExternalID, phoneExternalID string) error {
	c.logger.Info("Calling registrar API: attach phone number",
		zap.String("campaign_external_id", campaignExternalID),
		zap.String("phone_external_id", phoneExternalID),
	)

	resp, err := c.write.R().
		SetContext(ctx).
		SetBody(map[string]string{"phoneNumberId": phoneExternalID}).
		Post("/v1/campaigns/" + campaignExternalID + "/phoneNumbers")
	if err != nil || resp.IsError() {
		c.logger.Error("Registrar attach failed", zap.Error(err), zap.Int("status_code", statusCode(resp)))
		return upstreamError("attach_phone_number", resp, err)
	}
	return nil
}

func (c *registrarClient) DetachPhoneNumber(ctx context.Context, campaignExternalID, phoneExternalID string) error {
	c.logger.Info("Calling registrar API: detach phone number",
		zap.String("campaign_external_id", campaignExternalID),
		zap.String("phone_external_id", phoneExternalID),
	)

	resp, err := c.write.R().
		SetContext(ctx).
		Delete("/v1/campaigns/" + campaignExternalID + "/phoneNumbers/" + phoneExternalID)
	if err != nil || resp.IsError() {
		c.logger.Error("Registrar detach failed", zap.Error(err), zap.Int("status_code", statusCode(resp)))
		return upstreamError("detach_phone_number", resp, err)
	}
	return nil
}

func statusCode(resp *resty.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode()
}
