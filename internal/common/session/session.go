package session

import (
	"context"

	"github.com/Nestaway-Rentals/service-rental/internal/common/auth"
	"github.com/Nestaway-Rentals/service-rental/internal/common/domain"
	"github.com/google/uuid"
)

// Identity is the authenticated principal attached to a request.
type Identity struct {
	UserID uuid.UUID
	Role   auth.Role
	Email  string
}

// IsHost returns true if the identity carries the host role.
func (i Identity) IsHost() bool { return i.Role == auth.RoleHost }

type contextKey struct{}

// WithIdentity returns a copy of ctx carrying the identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored in ctx, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	if !ok || id.UserID == uuid.Nil {
		return Identity{}, false
	}
	return id, true
}

// Require returns the identity stored in ctx or an Unauthenticated error.
func Require(ctx context.Context) (Identity, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return Identity{}, domain.NewUnauthenticatedError("authentication required")
	}
	return id, nil
}

// FromClaims converts verified token claims into an Identity.
func FromClaims(c *auth.Claims) Identity {
	return Identity{UserID: c.UserID, Role: c.Role, Email: c.Email}
}
