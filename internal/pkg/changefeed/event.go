package changefeed

import (
	"time"

	"github.com/google/uuid"
)

// Table names carried by change events
const (
	TableCourses  = "courses"
	TableBookings = "bookings"
	TableProfiles = "profiles"
)

// Action describes what happened to rows of a table
type Action string

const (
	ActionInsert Action = "INSERT"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Event is a coarse-grained change notification: it tells subscribers that
// rows matching a filter were inserted, updated or deleted, without
// describing the delta. Observers are expected to refetch.
type Event struct {
	Table     string     `json:"table"`
	Action    Action     `json:"action"`
	CourseID  *uuid.UUID `json:"courseId,omitempty"`
	UserID    *uuid.UUID `json:"userId,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// Filter selects the subset of events a subscriber cares about.
// Zero-value fields match everything.
type Filter struct {
	Table    string
	CourseID *uuid.UUID
	UserID   *uuid.UUID
}

// Matches reports whether the event passes the filter.
func (f Filter) Matches(e Event) bool {
	if f.Table != "" && f.Table != e.Table {
		return false
	}
	if f.CourseID != nil {
		if e.CourseID == nil || *e.CourseID != *f.CourseID {
			return false
		}
	}
	if f.UserID != nil {
		if e.UserID == nil || *e.UserID != *f.UserID {
			return false
		}
	}
	return true
}

// NewEvent builds an event stamped with the current time.
func NewEvent(table string, action Action, courseID, userID *uuid.UUID) Event {
	return Event{
		Table:     table,
		Action:    action,
		CourseID:  courseID,
		UserID:    userID,
		Timestamp: time.Now(),
	}
}
