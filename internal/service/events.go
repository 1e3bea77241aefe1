package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"engage-a2p/internal/domain"
	"engage-a2p/internal/repository"

	"go.uber.org/zap"
)

// lockTTL bounds how long an in-flight registrar mutation can hold the
// per-resource advisory lock.
const lockTTL = 30 * time.Second

// appendEvent writes one audit fact. Append failures are logged but do not
// fail the calling operation: the operation outcome has already been decided
// by the registrar call and the store write.
func appendEvent(ctx context.Context, events repository.EventsRepository, logger *zap.Logger, tenantID, eventType string, payload map[string]any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = []byte("{}")
	}
	event := &domain.ComplianceEvent{
		TenantID:  tenantID,
		EventType: eventType,
		Payload:   raw,
	}
	if err := events.AppendEvent(ctx, event); err != nil {
		logger.Error("Failed to append compliance event",
			zap.String("tenant_id", tenantID),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

// upstreamPayload extracts the upstream error detail for event payloads.
func upstreamPayload(err error) map[string]any {
	payload := map[string]any{"error": err.Error()}
	var ue *domain.UpstreamError
	if errors.As(err, &ue) {
		payload["upstream_status"] = ue.StatusCode
		payload["upstream_body"] = ue.Body
		payload["operation"] = ue.Operation
	}
	return payload
}
