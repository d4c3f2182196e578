package profile

import (
	"net/mail"
	"strings"
	"time"

	"github.com/Nestaway-Rentals/service-rental/internal/common/auth"
	"github.com/Nestaway-Rentals/service-rental/internal/common/domain"
	"github.com/google/uuid"
)

// Profile is a registered user of the marketplace.
type Profile struct {
	id           uuid.UUID
	email        string
	passwordHash string
	fullName     string
	avatarURL    string
	isHost       bool
	createdAt    time.Time
	updatedAt    time.Time
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewProfile creates a guest profile with an already-hashed password.
func NewProfile(email, passwordHash, fullName string) (*Profile, error) {
	email = NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.NewFieldValidationError(map[string]string{"email": "must be a valid email address"})
	}
	if passwordHash == "" {
		return nil, domain.NewValidationError("password hash is required")
	}
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, domain.NewFieldValidationError(map[string]string{"full_name": "is required"})
	}

	now := time.Now().UTC()
	return &Profile{
		id:           uuid.New(),
		email:        email,
		passwordHash: passwordHash,
		fullName:     fullName,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct rebuilds a Profile from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	email, passwordHash, fullName, avatarURL string,
	isHost bool,
	createdAt, updatedAt time.Time,
) *Profile {
	return &Profile{
		id:           id,
		email:        email,
		passwordHash: passwordHash,
		fullName:     fullName,
		avatarURL:    avatarURL,
		isHost:       isHost,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (p *Profile) ID() uuid.UUID        { return p.id }
func (p *Profile) Email() string        { return p.email }
func (p *Profile) PasswordHash() string { return p.passwordHash }
func (p *Profile) FullName() string     { return p.fullName }
func (p *Profile) AvatarURL() string    { return p.avatarURL }
func (p *Profile) IsHost() bool         { return p.isHost }
func (p *Profile) CreatedAt() time.Time { return p.createdAt }
func (p *Profile) UpdatedAt() time.Time { return p.updatedAt }

// Role derives the token role from the host flag.
func (p *Profile) Role() auth.Role {
	if p.isHost {
		return auth.RoleHost
	}
	return auth.RoleGuest
}

// UpdateDetails changes the non-nil fields.
func (p *Profile) UpdateDetails(fullName, avatarURL *string) error {
	if fullName != nil {
		name := strings.TrimSpace(*fullName)
		if name == "" {
			return domain.NewFieldValidationError(map[string]string{"full_name": "must not be empty"})
		}
		p.fullName = name
	}
	if avatarURL != nil {
		p.avatarURL = strings.TrimSpace(*avatarURL)
	}
	p.updatedAt = time.Now().UTC()
	return nil
}

// BecomeHost grants the host role. It is idempotent.
func (p *Profile) BecomeHost() {
	if p.isHost {
		return
	}
	p.isHost = true
	p.updatedAt = time.Now().UTC()
}
