package repository

import "errors"

var (
	// ErrNotFound is returned when a row does not exist within the tenant scope.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an insert hit a uniqueness constraint
	// (brand per tenant, campaign per (tenant, campaign_key)).
	ErrDuplicate = errors.New("duplicate row")

	// ErrPhoneAssigned is returned when an assignment insert hit the
	// UNIQUE(phone_number_id) constraint: the number already has an active
	// assignment. The caller re-reads to learn which campaign holds it.
	ErrPhoneAssigned = errors.New("phone number already assigned")
)
