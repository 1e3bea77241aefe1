package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"engage-a2p/internal/domain"

	"github.com/google/uuid"
)

// MemoryPhoneNumbersRepository backs dev mode and unit tests.
type MemoryPhoneNumbersRepository struct {
	mu   sync.RWMutex
	byID map[string]*domain.PhoneNumber
}

func NewMemoryPhoneNumbersRepository() *MemoryPhoneNumbersRepository {
	return &MemoryPhoneNumbersRepository{byID: map[string]*domain.PhoneNumber{}}
}

var _ PhoneNumbersRepository = (*MemoryPhoneNumbersRepository)(nil)

func (r *MemoryPhoneNumbersRepository) GetPhoneNumber(_ context.Context, tenantID, phoneNumberID string) (*domain.PhoneNumber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[phoneNumberID]
	if !ok || p.TenantID != tenantID {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *MemoryPhoneNumbersRepository) ListPhoneNumbers(_ context.Context, tenantID string) ([]*domain.PhoneNumber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var numbers []*domain.PhoneNumber
	for _, p := range r.byID {
		if p.TenantID == tenantID {
			copied := *p
			numbers = append(numbers, &copied)
		}
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i].Number < numbers[j].Number })
	return numbers, nil
}

func (r *MemoryPhoneNumbersRepository) CreatePhoneNumber(_ context.Context, number *domain.PhoneNumber) (*domain.PhoneNumber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if number.PhoneNumberID == "" {
		number.PhoneNumberID = uuid.NewString()
	}
	if number.Status == "" {
		number.Status = domain.PhoneStatusActive
	}
	if _, exists := r.byID[number.PhoneNumberID]; exists {
		return nil, ErrDuplicate
	}
	number.CreatedAt = time.Now()
	copied := *number
	r.byID[number.PhoneNumberID] = &copied
	return number, nil
}

func (r *MemoryPhoneNumbersRepository) ReleasePhoneNumber(_ context.Context, tenantID, phoneNumberID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[phoneNumberID]
	if !ok || p.TenantID != tenantID {
		return ErrNotFound
	}
	p.Status = domain.PhoneStatusReleased
	return nil
}
