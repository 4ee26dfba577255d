// Package repositories implements all database queries for the booking
// platform. It uses pgx directly (no ORM).
package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repositories need. Declaring it here
// lets tests substitute a mock pool.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repositories is the container for all repositories
type Repositories struct {
	ProfileRepository *ProfileRepository
	CourseRepository  *CourseRepository
	BookingRepository *BookingRepository
	TokenRepository   *TokenRepository
}

// NewRepositories creates the repository container
func NewRepositories(db DB) *Repositories {
	return &Repositories{
		ProfileRepository: NewProfileRepository(db),
		CourseRepository:  NewCourseRepository(db),
		BookingRepository: NewBookingRepository(db),
		TokenRepository:   NewTokenRepository(db),
	}
}
