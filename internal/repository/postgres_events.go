package repository

import (
	"context"
	"fmt"
	"strings"

	"database/sql"

	"engage-a2p/internal/domain"

	"github.com/google/uuid"
)

// PostgresEventsRepository compliance_events implementation. Append-only:
// the type offers no update or delete, and the table has no such grants in
// the migration either.
type PostgresEventsRepository struct {
	db *sql.DB
}

func NewPostgresEventsRepository(db *sql.DB) *PostgresEventsRepository {
	return &PostgresEventsRepository{db: db}
}

var _ EventsRepository = (*PostgresEventsRepository)(nil)

// AppendEvent writes one audit fact.
func (r *PostgresEventsRepository) AppendEvent(ctx context.Context, event *domain.ComplianceEvent) error {
	if event.TenantID == "" || event.EventType == "" {
		return fmt.Errorf("tenant_id and event_type are required")
	}
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	payload := event.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	query := `
		INSERT INTO compliance_events (event_id, tenant_id, event_type, payload)
		VALUES ($1::uuid, $2::uuid, $3, $4::jsonb)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		event.EventID, event.TenantID, event.EventType, []byte(payload),
	).Scan(&event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append compliance event: %w", err)
	}
	return nil
}

// ListEvents returns events newest-first with paging and optional type filter.
func (r *PostgresEventsRepository) ListEvents(ctx context.Context, tenantID string, filters EventFilters, page, size int) ([]*domain.ComplianceEvent, int, error) {
	if tenantID == "" {
		return nil, 0, fmt.Errorf("tenant_id is required")
	}
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	offset := (page - 1) * size

	where := []string{"tenant_id = $1::uuid"}
	args := []any{tenantID}
	argIdx := 2

	if filters.EventType != "" {
		where = append(where, fmt.Sprintf("event_type = $%d", argIdx))
		args = append(args, filters.EventType)
		argIdx++
	}

	whereClause := "WHERE " + strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM compliance_events ` + whereClause
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count compliance events: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT event_id::text, tenant_id::text, event_type, payload, created_at
		FROM compliance_events
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIdx, argIdx+1)
	args = append(args, size, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list compliance events: %w", err)
	}
	defer rows.Close()

	var events []*domain.ComplianceEvent
	for rows.Next() {
		var e domain.ComplianceEvent
		var payload []byte
		if err := rows.Scan(&e.EventID, &e.TenantID, &e.EventType, &payload, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan compliance event: %w", err)
		}
		e.Payload = payload
		events = append(events, &e)
	}
	return events, total, rows.Err()
}
