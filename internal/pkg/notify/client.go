// Package notify is the client side of the booking notification
// side-channel. Calls are best-effort: the booking workflow logs failures
// and moves on, so a notifier outage can never block a booking.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ateliercucina/backend/internal/app/models"
)

// Client posts booking events to the notifier service
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a notification client against the notifier base URL
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type bookingPayload struct {
	CourseID string `json:"courseId"`
	UserID   string `json:"userId"`
	Status   string `json:"status,omitempty"`
}

type notifierReply struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// BookingCreated notifies the side-channel that a booking was created.
func (c *Client) BookingCreated(ctx context.Context, courseID, userID uuid.UUID, status models.BookingStatus) error {
	return c.post(ctx, "/send-booking-notification", bookingPayload{
		CourseID: courseID.String(),
		UserID:   userID.String(),
		Status:   string(status),
	})
}

func (c *Client) post(ctx context.Context, path string, payload bookingPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send notification request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var reply notifierReply
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = json.Unmarshal(data, &reply)
		if reply.Error != "" {
			return fmt.Errorf("notifier returned %d: %s", resp.StatusCode, reply.Error)
		}
		return fmt.Errorf("notifier returned %d", resp.StatusCode)
	}

	return nil
}
