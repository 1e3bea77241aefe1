package domain

import "strings"

// RegistrationStatus is the registrar lifecycle status shared by brands and
// campaigns. It is a closed set: anything else coming back from the registrar
// is normalized to FAILED by the sync layer.
type RegistrationStatus string

const (
	StatusUnsubmitted RegistrationStatus = "UNSUBMITTED"
	StatusPending     RegistrationStatus = "PENDING"
	StatusVerified    RegistrationStatus = "VERIFIED"
	StatusFailed      RegistrationStatus = "FAILED"
)

// Valid reports whether s is one of the known lifecycle statuses.
func (s RegistrationStatus) Valid() bool {
	switch s {
	case StatusUnsubmitted, StatusPending, StatusVerified, StatusFailed:
		return true
	}
	return false
}

// IsVerified is the precondition check used before campaign creation and
// phone-number assignment.
func (s RegistrationStatus) IsVerified() bool {
	return s == StatusVerified
}

// NormalizeStatus maps a registrar status string onto the closed set.
// Casing is forgiving; unknown values collapse to FAILED so they are visible
// instead of silently passing precondition checks.
func NormalizeStatus(raw string) RegistrationStatus {
	s := RegistrationStatus(strings.ToUpper(raw))
	if s.Valid() {
		return s
	}
	return StatusFailed
}
