package repository

import (
	"context"

	"engage-a2p/internal/domain"
)

// PhoneNumbersRepository data access for the phone_numbers table.
// Provisioning against the telephony provider happens outside this service;
// rows arrive via sync jobs or seeding.
type PhoneNumbersRepository interface {
	GetPhoneNumber(ctx context.Context, tenantID, phoneNumberID string) (*domain.PhoneNumber, error)
	ListPhoneNumbers(ctx context.Context, tenantID string) ([]*domain.PhoneNumber, error)
	CreatePhoneNumber(ctx context.Context, number *domain.PhoneNumber) (*domain.PhoneNumber, error)
	ReleasePhoneNumber(ctx context.Context, tenantID, phoneNumberID string) error
}
