// Package seed creates the default data the application needs on first run.
package seed

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/ateliercucina/backend/internal/app/models"
	"github.com/ateliercucina/backend/internal/app/repositories"
	"github.com/ateliercucina/backend/internal/pkg/apperrors"
	"github.com/ateliercucina/backend/internal/pkg/auth"
)

// Default admin credentials, overridable via environment. The admin role
// lives on the profile row; there is no special-cased admin identity in code.
const (
	defaultAdminEmail    = "admin@ateliercucina.example"
	defaultAdminPassword = "changeme-admin"
)

// CreateDefaultData seeds the admin profile and a starter catalogue if they
// don't exist yet. Errors are collected so one failed seed doesn't block the
// others.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	profileRepo := repositories.NewProfileRepository(dbPool)
	courseRepo := repositories.NewCourseRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error

	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = defaultAdminEmail
	}
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = defaultAdminPassword
	}

	if err := seedAdmin(ctx, profileRepo, adminEmail, adminPassword, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	if err := seedCatalogue(ctx, courseRepo, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}

func seedAdmin(ctx context.Context, profileRepo *repositories.ProfileRepository, email, password string, lgr zerolog.Logger) error {
	exists, err := profileRepo.EmailExists(ctx, email)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking for admin profile")
		return err
	}
	if exists {
		return nil
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	fullName := "Administrateur"
	admin := &models.Profile{
		Email:    email,
		FullName: &fullName,
		Password: hashed,
		Role:     models.RoleAdmin,
	}

	if err := profileRepo.Create(ctx, admin); err != nil && !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		lgr.Error().Err(err).Msg("Error creating admin profile")
		return err
	}

	lgr.Info().Str("email", email).Msg("Admin profile created")
	return nil
}

func seedCatalogue(ctx context.Context, courseRepo *repositories.CourseRepository, lgr zerolog.Logger) error {
	existing, err := courseRepo.GetAll(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking existing catalogue")
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	pates := "Apprenez à préparer des pâtes fraîches maison : tagliatelles, raviolis et gnocchis."
	patisserie := "Initiation à la pâtisserie française : choux, tartes et macarons."

	courses := []*models.Course{
		{
			Title:       "Atelier pâtes fraîches",
			Description: &pates,
			Date:        time.Now().AddDate(0, 1, 0),
			Location:    "Atelier Cucina, 12 rue des Halles, Paris",
			Price:       75,
			MaxSeats:    10,
		},
		{
			Title:       "Pâtisserie française",
			Description: &patisserie,
			Date:        time.Now().AddDate(0, 1, 14),
			Location:    "Atelier Cucina, 12 rue des Halles, Paris",
			Price:       85,
			MaxSeats:    8,
		},
	}

	var finalErr error
	for _, course := range courses {
		if err := courseRepo.Create(ctx, course); err != nil {
			lgr.Error().Err(err).Str("title", course.Title).Msg("Error creating starter course")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Int("count", len(courses)).Msg("Starter catalogue created")
	}
	return finalErr
}
