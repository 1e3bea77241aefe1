package repository

import (
	"context"
	"database/sql"
	"fmt"

	"engage-a2p/internal/domain"

	"github.com/google/uuid"
)

// PostgresPhoneNumbersRepository phone_numbers table implementation.
type PostgresPhoneNumbersRepository struct {
	db *sql.DB
}

func NewPostgresPhoneNumbersRepository(db *sql.DB) *PostgresPhoneNumbersRepository {
	return &PostgresPhoneNumbersRepository{db: db}
}

var _ PhoneNumbersRepository = (*PostgresPhoneNumbersRepository)(nil)

const phoneNumberColumns = `
	phone_number_id::text,
	tenant_id::text,
	external_id,
	number,
	sms_enabled,
	voice_enabled,
	status,
	created_at
`

func scanPhoneNumber(row interface{ Scan(...any) error }) (*domain.PhoneNumber, error) {
	var p domain.PhoneNumber
	err := row.Scan(
		&p.PhoneNumberID,
		&p.TenantID,
		&p.ExternalID,
		&p.Number,
		&p.SMSEnabled,
		&p.VoiceEnabled,
		&p.Status,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPhoneNumber returns the phone number row, tenant-scoped.
func (r *PostgresPhoneNumbersRepository) GetPhoneNumber(ctx context.Context, tenantID, phoneNumberID string) (*domain.PhoneNumber, error) {
	if tenantID == "" || phoneNumberID == "" {
		return nil, fmt.Errorf("tenant_id and phone_number_id are required")
	}

	query := `SELECT ` + phoneNumberColumns + ` FROM phone_numbers WHERE tenant_id = $1::uuid AND phone_number_id = $2::uuid`

	number, err := scanPhoneNumber(r.db.QueryRowContext(ctx, query, tenantID, phoneNumberID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get phone number: %w", err)
	}
	return number, nil
}

// ListPhoneNumbers returns all phone numbers owned by a tenant.
func (r *PostgresPhoneNumbersRepository) ListPhoneNumbers(ctx context.Context, tenantID string) ([]*domain.PhoneNumber, error) {
	query := `SELECT ` + phoneNumberColumns + ` FROM phone_numbers WHERE tenant_id = $1::uuid ORDER BY number`

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list phone numbers: %w", err)
	}
	defer rows.Close()

	var numbers []*domain.PhoneNumber
	for rows.Next() {
		p, err := scanPhoneNumber(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan phone number: %w", err)
		}
		numbers = append(numbers, p)
	}
	return numbers, rows.Err()
}

// CreatePhoneNumber inserts a provisioned number.
func (r *PostgresPhoneNumbersRepository) CreatePhoneNumber(ctx context.Context, number *domain.PhoneNumber) (*domain.PhoneNumber, error) {
	if number.TenantID == "" || number.Number == "" {
		return nil, fmt.Errorf("tenant_id and number are required")
	}
	if number.PhoneNumberID == "" {
		number.PhoneNumberID = uuid.NewString()
	}
	if number.Status == "" {
		number.Status = domain.PhoneStatusActive
	}

	query := `
		INSERT INTO phone_numbers (
			phone_number_id, tenant_id, external_id, number,
			sms_enabled, voice_enabled, status
		) VALUES ($1::uuid, $2::uuid, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		number.PhoneNumberID, number.TenantID, number.ExternalID, number.Number,
		number.SMSEnabled, number.VoiceEnabled, number.Status,
	).Scan(&number.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create phone number: %w", err)
	}

	return number, nil
}

// ReleasePhoneNumber marks the number released; rows are kept for history.
func (r *PostgresPhoneNumbersRepository) ReleasePhoneNumber(ctx context.Context, tenantID, phoneNumberID string) error {
	query := `
		UPDATE phone_numbers
		SET status = $3
		WHERE tenant_id = $1::uuid AND phone_number_id = $2::uuid
	`

	res, err := r.db.ExecContext(ctx, query, tenantID, phoneNumberID, domain.PhoneStatusReleased)
	if err != nil {
		return fmt.Errorf("failed to release phone number: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
