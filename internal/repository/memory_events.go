package repository

import (
	"context"
	"sync"
	"time"

	"engage-a2p/internal/domain"

	"github.com/google/uuid"
)

// MemoryEventsRepository append-only in-memory event log.
type MemoryEventsRepository struct {
	mu     sync.RWMutex
	events []*domain.ComplianceEvent
}

func NewMemoryEventsRepository() *MemoryEventsRepository {
	return &MemoryEventsRepository{}
}

var _ EventsRepository = (*MemoryEventsRepository)(nil)

func (r *MemoryEventsRepository) AppendEvent(_ context.Context, event *domain.ComplianceEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	event.CreatedAt = time.Now()
	copied := *event
	r.events = append(r.events, &copied)
	return nil
}

func (r *MemoryEventsRepository) ListEvents(_ context.Context, tenantID string, filters EventFilters, page, size int) ([]*domain.ComplianceEvent, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}

	var matched []*domain.ComplianceEvent
	// newest first
	for i := len(r.events) - 1; i >= 0; i-- {
		e := r.events[i]
		if e.TenantID != tenantID {
			continue
		}
		if filters.EventType != "" && e.EventType != filters.EventType {
			continue
		}
		copied := *e
		matched = append(matched, &copied)
	}

	total := len(matched)
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}
