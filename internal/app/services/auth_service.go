package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ateliercucina/backend/internal/app/models"
	"github.com/ateliercucina/backend/internal/app/models/dto"
	"github.com/ateliercucina/backend/internal/pkg/apperrors"
	"github.com/ateliercucina/backend/internal/pkg/auth"
)

// ProfileStore is the profile persistence the auth service depends on
type ProfileStore interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

// TokenStore is the refresh token persistence the auth service depends on
type TokenStore interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByToken(ctx context.Context, value string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, value string) error
}

// AuthService handles registration, login and token refresh
type AuthService struct {
	profiles   ProfileStore
	tokens     TokenStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(profiles ProfileStore, tokens TokenStore, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		profiles:   profiles,
		tokens:     tokens,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates a new profile and returns a token pair. Every profile
// created through registration gets the user role; admin accounts come from
// seeding or manual promotion, never from this endpoint.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		Email:    req.Email,
		FullName: &req.FullName,
		Password: hashed,
		Role:     models.RoleUser,
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		s.logger.Error().Err(err).Str("email", req.Email).Msg("Failed to create profile")
		return nil, err
	}

	s.logger.Info().Str("profileId", profile.ID.String()).Msg("Profile registered")

	return s.issueTokenPair(ctx, profile)
}

// Login authenticates a profile and returns a token pair
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	profile, err := s.profiles.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(profile.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueTokenPair(ctx, profile)
}

// RefreshToken exchanges a valid refresh token for a fresh pair. The old
// token is revoked so each refresh token is single-use.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	stored, err := s.tokens.GetByToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	if stored.Revoked {
		return nil, apperrors.ErrTokenRevoked
	}
	if stored.IsExpired() {
		return nil, apperrors.ErrTokenExpired
	}

	profile, err := s.profiles.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		return nil, err
	}

	return s.issueTokenPair(ctx, profile)
}

// GetProfile returns the profile for the given ID
func (s *AuthService) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	return s.profiles.GetByID(ctx, id)
}

func (s *AuthService) issueTokenPair(ctx context.Context, profile *models.Profile) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(profile)
	if err != nil {
		return nil, err
	}

	err = s.tokens.Create(ctx, &models.RefreshToken{
		UserID:    profile.ID,
		Token:     refreshToken,
		ExpiresAt: s.jwtService.GetRefreshTokenExpiry(),
	})
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		TokenType:        "Bearer",
		ExpiresIn:        expiresIn,
		RefreshExpiresIn: refreshExpiresIn,
	}, nil
}
