package domain

import (
	"fmt"
	"strings"
)

// Error taxonomy for the compliance core. Handlers map these onto HTTP
// statuses; services never return a bare string error for a caller-visible
// failure.

// ValidationError: missing or malformed required input. Never retried.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Fields, ", "))
}

// PreconditionError: a dependency (brand/campaign/phone number) is not in the
// required state yet. Includes the current status so callers can poll-and-retry.
type PreconditionError struct {
	Entity   string // "brand", "campaign", "phone_number"
	Required string
	Current  string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s is %s, requires %s", e.Entity, e.Current, e.Required)
}

// NotFoundError: the referenced resource does not exist for this tenant.
// Access outside the tenant scope is indistinguishable from absence.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ConflictError: duplicate creation or exclusivity violation. Existing carries
// the conflicting record so callers can self-heal; ConflictKey names the
// blocking campaign key on assignment conflicts.
type ConflictError struct {
	Resource    string
	Existing    any
	ConflictKey string
	Message     string
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.ConflictKey != "" {
		return fmt.Sprintf("%s conflict: already bound to %s", e.Resource, e.ConflictKey)
	}
	return fmt.Sprintf("%s already exists", e.Resource)
}

// UpstreamError: the external registrar call failed. Always logged to the
// compliance event log before being surfaced; Body keeps the raw upstream
// response for the audit trail.
type UpstreamError struct {
	Operation  string
	StatusCode int // 0 on transport failure
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("registrar %s failed: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("registrar %s failed: status %d: %s", e.Operation, e.StatusCode, e.Body)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// PersistenceError: a local store write failed. AfterExternal marks the drift
// case where the registrar already accepted the mutation; that state is
// logged for manual reconciliation, never auto-compensated.
type PersistenceError struct {
	Operation     string
	AfterExternal bool
	Err           error
}

func (e *PersistenceError) Error() string {
	if e.AfterExternal {
		return fmt.Sprintf("%s: local write failed after external call succeeded (drift): %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("%s: local write failed: %v", e.Operation, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
