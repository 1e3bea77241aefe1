package repository

import (
	"context"

	"engage-a2p/internal/domain"
)

// AssignmentsRepository data access for phone_campaign_assignments.
// Exclusivity (at most one assignment per phone number) lives here, backed by
// the UNIQUE(phone_number_id) index, not in service-level checks.
type AssignmentsRepository interface {
	// GetAssignmentByPhone returns the active assignment for a phone number,
	// ErrNotFound if none.
	GetAssignmentByPhone(ctx context.Context, tenantID, phoneNumberID string) (*domain.Assignment, error)

	// CreateAssignment inserts the assignment inside a serializable
	// transaction. ErrPhoneAssigned when the number already holds one
	// (including a concurrent insert that won the race).
	CreateAssignment(ctx context.Context, assignment *domain.Assignment) (*domain.Assignment, error)

	// DeleteAssignment removes the (phone, campaign) assignment row.
	// ErrNotFound when no such row exists.
	DeleteAssignment(ctx context.Context, tenantID, phoneNumberID, campaignID string) error

	// ListAssignments returns all active assignments for a tenant.
	ListAssignments(ctx context.Context, tenantID string) ([]*domain.Assignment, error)
}
