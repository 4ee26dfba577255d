package changefeed

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestFilterMatches(t *testing.T) {
	courseID := uuid.New()
	otherCourse := uuid.New()
	userID := uuid.New()

	event := NewEvent(TableBookings, ActionInsert, &courseID, &userID)

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty filter matches everything", Filter{}, true},
		{"table match", Filter{Table: TableBookings}, true},
		{"table mismatch", Filter{Table: TableCourses}, false},
		{"course match", Filter{Table: TableBookings, CourseID: &courseID}, true},
		{"course mismatch", Filter{Table: TableBookings, CourseID: &otherCourse}, false},
		{"user match", Filter{UserID: &userID}, true},
		{"course and user match", Filter{Table: TableBookings, CourseID: &courseID, UserID: &userID}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(event))
		})
	}
}

func TestFilterRequiresEventIDsWhenFilteringByID(t *testing.T) {
	courseID := uuid.New()

	// Course event without a user id must not match a user-scoped filter
	event := NewEvent(TableCourses, ActionUpdate, &courseID, nil)

	userID := uuid.New()
	assert.False(t, Filter{UserID: &userID}.Matches(event))
	assert.True(t, Filter{CourseID: &courseID}.Matches(event))
}
