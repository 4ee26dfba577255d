package dto

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ateliercucina/backend/internal/app/models"
)

func TestPartitionBookingsKeepsOrderWithinBuckets(t *testing.T) {
	mk := func(status models.BookingStatus) *models.Booking {
		return &models.Booking{ID: uuid.New(), Status: status}
	}

	w1 := mk(models.StatusWaitlist)
	c1 := mk(models.StatusConfirmed)
	w2 := mk(models.StatusWaitlist)
	x1 := mk(models.StatusCancelled)
	c2 := mk(models.StatusConfirmed)

	out := PartitionBookings([]*models.Booking{w1, c1, w2, x1, c2})

	require.Len(t, out.Confirmed, 2)
	assert.Equal(t, c1.ID, out.Confirmed[0].ID)
	assert.Equal(t, c2.ID, out.Confirmed[1].ID)

	// Waitlist order is the queue order
	require.Len(t, out.Waitlist, 2)
	assert.Equal(t, w1.ID, out.Waitlist[0].ID)
	assert.Equal(t, w2.ID, out.Waitlist[1].ID)

	require.Len(t, out.Cancelled, 1)
	assert.Equal(t, x1.ID, out.Cancelled[0].ID)
}

func TestPartitionBookingsEmptyInput(t *testing.T) {
	out := PartitionBookings(nil)

	// Buckets serialize as empty arrays, not null
	assert.NotNil(t, out.Confirmed)
	assert.NotNil(t, out.Waitlist)
	assert.NotNil(t, out.Cancelled)
	assert.Empty(t, out.Confirmed)
}

// After an admin promotes a waitlisted booking, re-partitioning moves it to
// the confirmed bucket.
func TestPartitionBookingsReflectsStatusChange(t *testing.T) {
	booking := &models.Booking{ID: uuid.New(), Status: models.StatusWaitlist}
	list := []*models.Booking{booking}

	out := PartitionBookings(list)
	require.Len(t, out.Waitlist, 1)

	booking.Status = models.StatusConfirmed
	out = PartitionBookings(list)
	assert.Empty(t, out.Waitlist)
	require.Len(t, out.Confirmed, 1)
}
