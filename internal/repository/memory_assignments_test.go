package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"engage-a2p/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAssignments_ExclusivityUnderConcurrency(t *testing.T) {
	repo := NewMemoryAssignmentsRepository()

	const attempts = 50
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	// Every goroutine races to bind the same phone number to a different
	// campaign; exactly one may win.
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := repo.CreateAssignment(context.Background(), &domain.Assignment{
				TenantID:      "tenant-1",
				PhoneNumberID: "phone-1",
				CampaignID:    "campaign-" + string(rune('a'+n%26)),
			})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var wins, losses int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrPhoneAssigned):
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, attempts-1, losses)
}

func TestMemoryAssignments_DeleteThenReassign(t *testing.T) {
	repo := NewMemoryAssignmentsRepository()

	first, err := repo.CreateAssignment(context.Background(), &domain.Assignment{
		TenantID:      "tenant-1",
		PhoneNumberID: "phone-1",
		CampaignID:    "campaign-1",
	})
	require.NoError(t, err)

	// Deleting with the wrong campaign id must not free the number.
	err = repo.DeleteAssignment(context.Background(), "tenant-1", "phone-1", "campaign-2")
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, repo.DeleteAssignment(context.Background(), "tenant-1", "phone-1", "campaign-1"))

	second, err := repo.CreateAssignment(context.Background(), &domain.Assignment{
		TenantID:      "tenant-1",
		PhoneNumberID: "phone-1",
		CampaignID:    "campaign-2",
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.AssignmentID, second.AssignmentID)
}

func TestMemoryAssignments_TenantScoping(t *testing.T) {
	repo := NewMemoryAssignmentsRepository()

	_, err := repo.CreateAssignment(context.Background(), &domain.Assignment{
		TenantID:      "tenant-1",
		PhoneNumberID: "phone-1",
		CampaignID:    "campaign-1",
	})
	require.NoError(t, err)

	// Another tenant cannot see or delete the row.
	_, err = repo.GetAssignmentByPhone(context.Background(), "tenant-2", "phone-1")
	assert.True(t, errors.Is(err, ErrNotFound))
	err = repo.DeleteAssignment(context.Background(), "tenant-2", "phone-1", "campaign-1")
	assert.True(t, errors.Is(err, ErrNotFound))

	list, err := repo.ListAssignments(context.Background(), "tenant-2")
	require.NoError(t, err)
	assert.Empty(t, list)
}
