package repository

import (
	"context"
	"database/sql"
	"fmt"

	"engage-a2p/internal/domain"

	"github.com/google/uuid"
)

// PostgresAssignmentsRepository phone_campaign_assignments implementation.
//
// The exclusivity invariant (one active assignment per phone number) is
// carried by uq_assignment_phone, a UNIQUE index on phone_number_id. The
// insert runs in a serializable transaction so a concurrent check-then-insert
// cannot slip past it; the loser of the race sees 23505 and gets
// ErrPhoneAssigned.
type PostgresAssignmentsRepository struct {
	db *sql.DB
}

func NewPostgresAssignmentsRepository(db *sql.DB) *PostgresAssignmentsRepository {
	return &PostgresAssignmentsRepository{db: db}
}

var _ AssignmentsRepository = (*PostgresAssignmentsRepository)(nil)

const assignmentColumns = `
	assignment_id::text,
	tenant_id::text,
	phone_number_id::text,
	campaign_id::text,
	assigned_at
`

func scanAssignment(row interface{ Scan(...any) error }) (*domain.Assignment, error) {
	var a domain.Assignment
	err := row.Scan(
		&a.AssignmentID,
		&a.TenantID,
		&a.PhoneNumberID,
		&a.CampaignID,
		&a.AssignedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAssignmentByPhone returns the active assignment for a phone number.
func (r *PostgresAssignmentsRepository) GetAssignmentByPhone(ctx context.Context, tenantID, phoneNumberID string) (*domain.Assignment, error) {
	if tenantID == "" || phoneNumberID == "" {
		return nil, fmt.Errorf("tenant_id and phone_number_id are required")
	}

	query := `SELECT ` + assignmentColumns + ` FROM phone_campaign_assignments WHERE tenant_id = $1::uuid AND phone_number_id = $2::uuid`

	assignment, err := scanAssignment(r.db.QueryRowContext(ctx, query, tenantID, phoneNumberID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return assignment, nil
}

// CreateAssignment inserts the assignment row inside a serializable
// transaction. Any unique violation (phone already assigned, or the exact
// pair inserted concurrently) comes back as ErrPhoneAssigned.
func (r *PostgresAssignmentsRepository) CreateAssignment(ctx context.Context, assignment *domain.Assignment) (*domain.Assignment, error) {
	if assignment.TenantID == "" || assignment.PhoneNumberID == "" || assignment.CampaignID == "" {
		return nil, fmt.Errorf("tenant_id, phone_number_id and campaign_id are required")
	}
	if assignment.AssignmentID == "" {
		assignment.AssignmentID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO phone_campaign_assignments (
			assignment_id, tenant_id, phone_number_id, campaign_id
		) VALUES ($1::uuid, $2::uuid, $3::uuid, $4::uuid)
		RETURNING assigned_at
	`

	err = tx.QueryRowContext(ctx, query,
		assignment.AssignmentID, assignment.TenantID,
		assignment.PhoneNumberID, assignment.CampaignID,
	).Scan(&assignment.AssignedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrPhoneAssigned
		}
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrPhoneAssigned
		}
		return nil, fmt.Errorf("failed to commit assignment: %w", err)
	}

	return assignment, nil
}

// DeleteAssignment removes the (phone, campaign) assignment row.
func (r *PostgresAssignmentsRepository) DeleteAssignment(ctx context.Context, tenantID, phoneNumberID, campaignID string) error {
	query := `
		DELETE FROM phone_campaign_assignments
		WHERE tenant_id = $1::uuid AND phone_number_id = $2::uuid AND campaign_id = $3::uuid
	`

	res, err := r.db.ExecContext(ctx, query, tenantID, phoneNumberID, campaignID)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAssignments returns all active assignments for a tenant.
func (r *PostgresAssignmentsRepository) ListAssignments(ctx context.Context, tenantID string) ([]*domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM phone_campaign_assignments WHERE tenant_id = $1::uuid ORDER BY assigned_at`

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*domain.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
