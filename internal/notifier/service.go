// Package notifier implements the booking notification side-channel: a
// small HTTP service that turns booking events into emails. It is deployed
// separately from the API so an email provider outage never touches the
// booking path.
package notifier

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"github.com/ateliercucina/backend/internal/app/models"
	"github.com/ateliercucina/backend/internal/pkg/email"
)

// CourseReader loads the course a notification is about
type CourseReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

// ProfileReader loads the profile a notification goes to
type ProfileReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

// Service builds and sends booking emails
type Service struct {
	courses  CourseReader
	profiles ProfileReader
	resend   *resend.Client
	sender   email.Sender

	fromAddress string
	adminEmail  string
	logger      zerolog.Logger
}

// NewService creates a notifier service. An empty Resend API key switches
// the service to log-only mode so development setups keep working.
func NewService(courses CourseReader, profiles ProfileReader, resendAPIKey, fromAddress, adminEmail string, sender email.Sender, logger zerolog.Logger) *Service {
	var client *resend.Client
	if resendAPIKey != "" {
		client = resend.NewClient(resendAPIKey)
	}

	return &Service{
		courses:     courses,
		profiles:    profiles,
		resend:      client,
		sender:      sender,
		fromAddress: fromAddress,
		adminEmail:  adminEmail,
		logger:      logger,
	}
}

// SendBookingNotification sends the booking emails for a new booking: one to
// the participant and, when an admin address is configured, one to the
// workshop team.
func (s *Service) SendBookingNotification(ctx context.Context, courseID, userID uuid.UUID, status models.BookingStatus) error {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return err
	}

	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	subject, html := userEmail(course, profile, status)
	if err := s.send(profile.Email, subject, html); err != nil {
		return fmt.Errorf("send user email: %w", err)
	}

	if s.adminEmail != "" {
		subject, html := adminEmail(course, profile, status)
		if err := s.send(s.adminEmail, subject, html); err != nil {
			// The participant email went out; log the admin copy failure
			s.logger.Error().Err(err).Str("courseId", courseID.String()).Msg("Failed to send admin notification")
		}
	}

	return nil
}

// SendBookingConfirmation sends a plain confirmation over SMTP. It exists
// alongside SendBookingNotification for setups without a Resend account.
func (s *Service) SendBookingConfirmation(ctx context.Context, courseID, userID uuid.UUID) error {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return err
	}

	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	subject, html := userEmail(course, profile, models.StatusConfirmed)
	return s.sender.SendHTML(profile.Email, subject, html)
}

func (s *Service) send(to, subject, html string) error {
	if s.resend == nil {
		s.logger.Warn().
			Str("to", to).
			Str("subject", subject).
			Msg("Resend API key not configured - email not sent")
		return nil
	}

	_, err := s.resend.Emails.Send(&resend.SendEmailRequest{
		From:    s.fromAddress,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	return err
}

func displayName(profile *models.Profile) string {
	if profile.FullName != nil && *profile.FullName != "" {
		return *profile.FullName
	}
	return profile.Email
}

func userEmail(course *models.Course, profile *models.Profile, status models.BookingStatus) (subject, html string) {
	name := displayName(profile)
	date := course.Date.Format("02/01/2006 à 15h04")

	if status == models.StatusWaitlist {
		subject = fmt.Sprintf("Liste d'attente : %s", course.Title)
		html = fmt.Sprintf(`
			<h2>Bonjour %s,</h2>
			<p>Le cours <strong>%s</strong> est complet. Vous êtes inscrit(e) sur la liste d'attente.</p>
			<p>Nous vous contacterons dès qu'une place se libère.</p>
			<p><strong>Date :</strong> %s<br><strong>Lieu :</strong> %s</p>
			<p>À bientôt,<br>L'équipe Atelier Cucina</p>
		`, name, course.Title, date, course.Location)
		return subject, html
	}

	subject = fmt.Sprintf("Réservation confirmée : %s", course.Title)
	html = fmt.Sprintf(`
		<h2>Bonjour %s,</h2>
		<p>Votre réservation pour le cours <strong>%s</strong> est confirmée.</p>
		<p><strong>Date :</strong> %s<br><strong>Lieu :</strong> %s<br><strong>Prix :</strong> %.2f €</p>
		<p>À bientôt,<br>L'équipe Atelier Cucina</p>
	`, name, course.Title, date, course.Location, course.Price)
	return subject, html
}

func adminEmail(course *models.Course, profile *models.Profile, status models.BookingStatus) (subject, html string) {
	statusLabel := "confirmée"
	if status == models.StatusWaitlist {
		statusLabel = "en liste d'attente"
	}

	subject = fmt.Sprintf("Nouvelle réservation : %s", course.Title)
	html = fmt.Sprintf(`
		<h2>Nouvelle réservation %s</h2>
		<p><strong>Cours :</strong> %s</p>
		<p><strong>Participant :</strong> %s (%s)</p>
		<p><strong>Places restantes :</strong> %d / %d</p>
	`, statusLabel, course.Title, displayName(profile), profile.Email, course.AvailableSeats, course.MaxSeats)
	return subject, html
}
