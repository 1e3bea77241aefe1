package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"engage-a2p/internal/domain"

	"github.com/google/uuid"
)

// MemoryAssignmentsRepository backs dev mode and unit tests. The single mutex
// plays the role of the serializable transaction: the phone-number uniqueness
// check and the insert are one atomic step, matching the Postgres behavior
// under the UNIQUE(phone_number_id) index.
type MemoryAssignmentsRepository struct {
	mu      sync.RWMutex
	byPhone map[string]*domain.Assignment // phoneNumberID -> assignment
}

func NewMemoryAssignmentsRepository() *MemoryAssignmentsRepository {
	return &MemoryAssignmentsRepository{byPhone: map[string]*domain.Assignment{}}
}

var _ AssignmentsRepository = (*MemoryAssignmentsRepository)(nil)

func (r *MemoryAssignmentsRepository) GetAssignmentByPhone(_ context.Context, tenantID, phoneNumberID string) (*domain.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byPhone[phoneNumberID]
	if !ok || a.TenantID != tenantID {
		return nil, ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *MemoryAssignmentsRepository) CreateAssignment(_ context.Context, assignment *domain.Assignment) (*domain.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byPhone[assignment.PhoneNumberID]; exists {
		return nil, ErrPhoneAssigned
	}
	if assignment.AssignmentID == "" {
		assignment.AssignmentID = uuid.NewString()
	}
	assignment.AssignedAt = time.Now()
	copied := *assignment
	r.byPhone[assignment.PhoneNumberID] = &copied
	return assignment, nil
}

func (r *MemoryAssignmentsRepository) DeleteAssignment(_ context.Context, tenantID, phoneNumberID, campaignID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byPhone[phoneNumberID]
	if !ok || a.TenantID != tenantID || a.CampaignID != campaignID {
		return ErrNotFound
	}
	delete(r.byPhone, phoneNumberID)
	return nil
}

func (r *MemoryAssignmentsRepository) ListAssignments(_ context.Context, tenantID string) ([]*domain.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var assignments []*domain.Assignment
	for _, a := range r.byPhone {
		if a.TenantID == tenantID {
			copied := *a
			assignments = append(assignments, &copied)
		}
	}
	sort.Slice(assignments, func(i, j int) bool {
		return assignments[i].AssignedAt.Before(assignments[j].AssignedAt)
	})
	return assignments, nil
}
