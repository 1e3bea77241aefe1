package repository

import (
	"context"

	"engage-a2p/internal/domain"
)

// EventFilters compliance event query filters.
type EventFilters struct {
	EventType string // optional, exact match
}

// EventsRepository append-only access to compliance_events.
// There is deliberately no update or delete.
type EventsRepository interface {
	AppendEvent(ctx context.Context, event *domain.ComplianceEvent) error
	ListEvents(ctx context.Context, tenantID string, filters EventFilters, page, size int) ([]*domain.ComplianceEvent, int, error)
}
