package profile

import (
	"testing"

	"github.com/Nestaway-Rentals/service-rental/internal/common/auth"
	"github.com/Nestaway-Rentals/service-rental/internal/common/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProfile(t *testing.T) {
	p, err := NewProfile("  Ana@Example.COM ", "hash", " Ana Silva ")
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", p.Email())
	assert.Equal(t, "Ana Silva", p.FullName())
	assert.Equal(t, auth.RoleGuest, p.Role())
}

func TestNewProfile_Invalid(t *testing.T) {
	_, err := NewProfile("not-an-email", "hash", "Ana")
	assert.True(t, domain.IsCode(err, domain.CodeValidation))

	_, err = NewProfile("ana@example.com", "hash", "")
	assert.True(t, domain.IsCode(err, domain.CodeValidation))
}

func TestBecomeHost(t *testing.T) {
	p, err := NewProfile("ana@example.com", "hash", "Ana")
	require.NoError(t, err)

	p.BecomeHost()
	p.BecomeHost()
	assert.True(t, p.IsHost())
	assert.Equal(t, auth.RoleHost, p.Role())
}

func TestUpdateDetails(t *testing.T) {
	p, err := NewProfile("ana@example.com", "hash", "Ana")
	require.NoError(t, err)

	avatar := "https://cdn/ana.png"
	require.NoError(t, p.UpdateDetails(nil, &avatar))
	assert.Equal(t, "Ana", p.FullName())
	assert.Equal(t, avatar, p.AvatarURL())

	empty := " "
	assert.Error(t, p.UpdateDetails(&empty, nil))
}
