package application

import (
	"context"
	"fmt"

	"github.com/Nestaway-Rentals/service-rental/internal/common/auth"
	"github.com/Nestaway-Rentals/service-rental/internal/common/session"
	profileDomain "github.com/Nestaway-Rentals/service-rental/internal/domain/profile"
	"go.uber.org/zap"
)

// UpdateProfileRequest is the request DTO for editing a profile.
type UpdateProfileRequest struct {
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

// ProfileService implements profile use cases for the signed-in user.
type ProfileService struct {
	profiles   profileDomain.ProfileRepository
	jwtManager *auth.JWTManager
	logger     *zap.Logger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profiles profileDomain.ProfileRepository, jwtManager *auth.JWTManager, logger *zap.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, jwtManager: jwtManager, logger: logger}
}

// GetProfile returns the caller's profile.
func (s *ProfileService) GetProfile(ctx context.Context) (*ProfileDTO, error) {
	p, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	result := toProfileDTO(p)
	return &result, nil
}

// UpdateProfile edits the caller's full name and avatar.
func (s *ProfileService) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*ProfileDTO, error) {
	p, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.UpdateDetails(req.FullName, req.AvatarURL); err != nil {
		return nil, err
	}
	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	result := toProfileDTO(p)
	return &result, nil
}

// BecomeHost grants the host role and returns a token carrying it.
func (s *ProfileService) BecomeHost(ctx context.Context) (*AuthResultDTO, error) {
	p, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	if !p.IsHost() {
		p.BecomeHost()
		if err := s.profiles.Update(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
		s.logger.Info("profile became host", zap.String("profile_id", p.ID().String()))
	}

	return issueToken(s.jwtManager, p)
}

func (s *ProfileService) current(ctx context.Context) (*profileDomain.Profile, error) {
	actor, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	return s.profiles.FindByID(ctx, actor.UserID)
}
