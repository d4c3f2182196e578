package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Nestaway-Rentals/service-rental/internal/common/database"
	"github.com/Nestaway-Rentals/service-rental/internal/common/domain"
	profileDomain "github.com/Nestaway-Rentals/service-rental/internal/domain/profile"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileModel is the GORM model for the profiles table.
type ProfileModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string    `gorm:"not null;size:255"`
	FullName     string    `gorm:"not null;size:200"`
	AvatarURL    string    `gorm:"size:1024"`
	IsHost       bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ProfileModel) TableName() string {
	return "profiles"
}

// GormProfileRepository is the GORM-based implementation of ProfileRepository.
type GormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new GormProfileRepository.
func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// FindByID retrieves a profile by ID.
func (r *GormProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*profileDomain.Profile, error) {
	var model ProfileModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Profile", id.String())
		}
		return nil, domain.NewStorageError("failed to find profile", err)
	}
	return toDomainProfile(&model), nil
}

// FindByEmail retrieves a profile by normalized email.
func (r *GormProfileRepository) FindByEmail(ctx context.Context, email string) (*profileDomain.Profile, error) {
	email = profileDomain.NormalizeEmail(email)

	var model ProfileModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Profile", email)
		}
		return nil, domain.NewStorageError("failed to find profile", err)
	}
	return toDomainProfile(&model), nil
}

// Save persists a new profile.
func (r *GormProfileRepository) Save(ctx context.Context, p *profileDomain.Profile) error {
	if err := r.db.WithContext(ctx).Create(toProfileModel(p)).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return domain.NewConflictError("an account with this email already exists")
		}
		return domain.NewStorageError("failed to save profile", err)
	}
	return nil
}

// Update persists the mutable profile fields.
func (r *GormProfileRepository) Update(ctx context.Context, p *profileDomain.Profile) error {
	model := toProfileModel(p)
	result := r.db.WithContext(ctx).
		Model(model).
		Select("full_name", "avatar_url", "is_host", "updated_at").
		Updates(model)
	if result.Error != nil {
		return domain.NewStorageError("failed to update profile", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Profile", model.ID.String())
	}
	return nil
}

func toProfileModel(p *profileDomain.Profile) *ProfileModel {
	return &ProfileModel{
		ID:           p.ID(),
		Email:        p.Email(),
		PasswordHash: p.PasswordHash(),
		FullName:     p.FullName(),
		AvatarURL:    p.AvatarURL(),
		IsHost:       p.IsHost(),
		CreatedAt:    p.CreatedAt(),
		UpdatedAt:    p.UpdatedAt(),
	}
}

func toDomainProfile(m *ProfileModel) *profileDomain.Profile {
	return profileDomain.Reconstruct(
		m.ID, m.Email, m.PasswordHash, m.FullName, m.AvatarURL,
		m.IsHost, m.CreatedAt, m.UpdatedAt,
	)
}
