package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ateliercucina/backend/internal/app/models"
)

func TestBookingCreatedPostsPayload(t *testing.T) {
	courseID := uuid.New()
	userID := uuid.New()

	var got bookingPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/send-booking-notification", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Notification envoyée"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, zerolog.Nop())

	err := client.BookingCreated(context.Background(), courseID, userID, models.StatusWaitlist)
	require.NoError(t, err)

	assert.Equal(t, courseID.String(), got.CourseID)
	assert.Equal(t, userID.String(), got.UserID)
	assert.Equal(t, "waitlist", got.Status)
}

func TestBookingCreatedSurfacesNotifierError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "courseId and userId are required"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, zerolog.Nop())

	err := client.BookingCreated(context.Background(), uuid.New(), uuid.New(), models.StatusConfirmed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "courseId and userId are required")
}

func TestBookingCreatedFailsWhenNotifierUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 100*time.Millisecond, zerolog.Nop())

	err := client.BookingCreated(context.Background(), uuid.New(), uuid.New(), models.StatusConfirmed)
	assert.Error(t, err)
}
