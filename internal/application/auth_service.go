package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Nestaway-Rentals/service-rental/internal/common/auth"
	"github.com/Nestaway-Rentals/service-rental/internal/common/domain"
	profileDomain "github.com/Nestaway-Rentals/service-rental/internal/domain/profile"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	maxPasswordBytes  = 72 // bcrypt input limit
	msgInvalidLogin   = "Invalid email or password"
	tokenTypeBearer   = "Bearer"
)

// RegisterRequest is the request DTO for creating an account.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
}

// LoginRequest is the request DTO for password login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ProfileDTO is the API response representation of a profile.
type ProfileDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	IsHost    bool      `json:"is_host"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthResultDTO carries an access token and the authenticated profile.
type AuthResultDTO struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresIn   int64      `json:"expires_in"`
	Profile     ProfileDTO `json:"profile"`
}

// AuthService implements registration and login.
type AuthService struct {
	profiles   profileDomain.ProfileRepository
	jwtManager *auth.JWTManager
	logger     *zap.Logger
	bcryptCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(profiles profileDomain.ProfileRepository, jwtManager *auth.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		profiles:   profiles,
		jwtManager: jwtManager,
		logger:     logger,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// Register creates a guest account and signs it in.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResultDTO, error) {
	if len(req.Password) < minPasswordLength {
		return nil, domain.NewFieldValidationError(map[string]string{
			"password": fmt.Sprintf("must be at least %d characters", minPasswordLength),
		})
	}
	if len(req.Password) > maxPasswordBytes {
		return nil, domain.NewFieldValidationError(map[string]string{
			"password": fmt.Sprintf("must be at most %d bytes", maxPasswordBytes),
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	p, err := profileDomain.NewProfile(req.Email, string(hash), req.FullName)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("profile registered", zap.String("profile_id", p.ID().String()))
	return issueToken(s.jwtManager, p)
}

// Login verifies credentials and returns a fresh access token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResultDTO, error) {
	p, err := s.profiles.FindByEmail(ctx, profileDomain.NormalizeEmail(req.Email))
	if err != nil {
		if domain.IsCode(err, domain.CodeNotFound) {
			return nil, domain.NewUnauthenticatedError(msgInvalidLogin)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash()), []byte(req.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.logger.Warn("login failed", zap.String("profile_id", p.ID().String()))
			return nil, domain.NewUnauthenticatedError(msgInvalidLogin)
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	return issueToken(s.jwtManager, p)
}

func issueToken(jwtManager *auth.JWTManager, p *profileDomain.Profile) (*AuthResultDTO, error) {
	token, err := jwtManager.GenerateAccessToken(p.ID(), p.Email(), p.Role())
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	return &AuthResultDTO{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   int64(jwtManager.AccessTTL().Seconds()),
		Profile:     toProfileDTO(p),
	}, nil
}

func toProfileDTO(p *profileDomain.Profile) ProfileDTO {
	return ProfileDTO{
		ID:        p.ID(),
		Email:     p.Email(),
		FullName:  p.FullName(),
		AvatarURL: p.AvatarURL(),
		IsHost:    p.IsHost(),
		Role:      string(p.Role()),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}
