package repository

import (
	"context"
	"database/sql"
	"fmt"

	"engage-a2p/internal/domain"

	"github.com/google/uuid"
)

// PostgresCampaignsRepository campaigns table implementation.
type PostgresCampaignsRepository struct {
	db *sql.DB
}

func NewPostgresCampaignsRepository(db *sql.DB) *PostgresCampaignsRepository {
	return &PostgresCampaignsRepository{db: db}
}

var _ CampaignsRepository = (*PostgresCampaignsRepository)(nil)

const campaignColumns = `
	campaign_id::text,
	tenant_id::text,
	brand_id::text,
	campaign_key,
	external_id,
	use_case,
	description,
	message_flow,
	sample_messages,
	opt_in_keywords,
	opt_out_keywords,
	help_keywords,
	age_gated,
	direct_lending,
	affiliate_marketing,
	number_pooling,
	embedded_link,
	embedded_phone,
	status,
	failure_reason,
	created_at,
	updated_at
`

func scanCampaign(row interface{ Scan(...any) error }) (*domain.Campaign, error) {
	var c domain.Campaign
	var status string
	var samplesRaw, optInRaw, optOutRaw, helpRaw []byte
	err := row.Scan(
		&c.CampaignID,
		&c.TenantID,
		&c.BrandID,
		&c.CampaignKey,
		&c.ExternalID,
		&c.UseCase,
		&c.Description,
		&c.MessageFlow,
		&samplesRaw,
		&optInRaw,
		&optOutRaw,
		&helpRaw,
		&c.AgeGated,
		&c.DirectLending,
		&c.AffiliateMarketing,
		&c.NumberPooling,
		&c.EmbeddedLink,
		&c.EmbeddedPhone,
		&status,
		&c.FailureReason,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Status = domain.RegistrationStatus(status)
	c.SampleMessages = unmarshalStrings(samplesRaw)
	c.OptInKeywords = unmarshalStrings(optInRaw)
	c.OptOutKeywords = unmarshalStrings(optOutRaw)
	c.HelpKeywords = unmarshalStrings(helpRaw)
	return &c, nil
}

// GetCampaignByKey returns the campaign for (tenant, campaign_key).
func (r *PostgresCampaignsRepository) GetCampaignByKey(ctx context.Context, tenantID, campaignKey string) (*domain.Campaign, error) {
	if tenantID == "" || campaignKey == "" {
		return nil, fmt.Errorf("tenant_id and campaign_key are required")
	}

	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE tenant_id = $1::uuid AND campaign_key = $2`

	campaign, err := scanCampaign(r.db.QueryRowContext(ctx, query, tenantID, campaignKey))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return campaign, nil
}

// GetCampaignByID returns the campaign by primary key, tenant-scoped.
func (r *PostgresCampaignsRepository) GetCampaignByID(ctx context.Context, tenantID, campaignID string) (*domain.Campaign, error) {
	if tenantID == "" || campaignID == "" {
		return nil, fmt.Errorf("tenant_id and campaign_id are required")
	}

	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE tenant_id = $1::uuid AND campaign_id = $2::uuid`

	campaign, err := scanCampaign(r.db.QueryRowContext(ctx, query, tenantID, campaignID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return campaign, nil
}

// ListCampaignsByBrand returns every campaign registered under a brand.
func (r *PostgresCampaignsRepository) ListCampaignsByBrand(ctx context.Context, tenantID, brandID string) ([]*domain.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE tenant_id = $1::uuid AND brand_id = $2::uuid ORDER BY campaign_key`

	rows, err := r.db.QueryContext(ctx, query, tenantID, brandID)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []*domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// CreateCampaign inserts the campaign row; UNIQUE(tenant_id, campaign_key)
// turns a concurrent duplicate into ErrDuplicate.
func (r *PostgresCampaignsRepository) CreateCampaign(ctx context.Context, campaign *domain.Campaign) (*domain.Campaign, error) {
	if campaign.TenantID == "" || campaign.BrandID == "" || campaign.CampaignKey == "" {
		return nil, fmt.Errorf("tenant_id, brand_id and campaign_key are required")
	}
	if campaign.CampaignID == "" {
		campaign.CampaignID = uuid.NewString()
	}

	query := `
		INSERT INTO campaigns (
			campaign_id, tenant_id, brand_id, campaign_key, external_id,
			use_case, description, message_flow,
			sample_messages, opt_in_keywords, opt_out_keywords, help_keywords,
			age_gated, direct_lending, affiliate_marketing,
			number_pooling, embedded_link, embedded_phone,
			status, failure_reason
		) VALUES (
			$1::uuid, $2::uuid, $3::uuid, $4, $5,
			$6, $7, $8,
			$9::jsonb, $10::jsonb, $11::jsonb, $12::jsonb,
			$13, $14, $15,
			$16, $17, $18,
			$19, $20
		)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		campaign.CampaignID, campaign.TenantID, campaign.BrandID, campaign.CampaignKey, campaign.ExternalID,
		campaign.UseCase, campaign.Description, campaign.MessageFlow,
		marshalStrings(campaign.SampleMessages), marshalStrings(campaign.OptInKeywords),
		marshalStrings(campaign.OptOutKeywords), marshalStrings(campaign.HelpKeywords),
		campaign.AgeGated, campaign.DirectLending, campaign.AffiliateMarketing,
		campaign.NumberPooling, campaign.EmbeddedLink, campaign.EmbeddedPhone,
		string(campaign.Status), campaign.FailureReason,
	).Scan(&campaign.CreatedAt, &campaign.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	return campaign, nil
}

// UpdateCampaignStatus overwrites status and failure reason (sync only).
func (r *PostgresCampaignsRepository) UpdateCampaignStatus(ctx context.Context, campaignID string, status domain.RegistrationStatus, failureReason *string) error {
	query := `
		UPDATE campaigns
		SET status = $2, failure_reason = $3, updated_at = NOW()
		WHERE campaign_id = $1::uuid
	`

	res, err := r.db.ExecContext(ctx, query, campaignID, string(status), failureReason)
	if err != nil {
		return fmt.Errorf("failed to update campaign status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
