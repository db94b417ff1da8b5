package ports

import (
	"context"

	"github.com/vidtube/video-platform/internal/core/domain"
)

// UserRepository defines the interface for identity persistence.
//
// Uniqueness of username and email is enforced by the storage layer itself:
// Create relies on an atomic unique-constrained insert and surfaces a
// violation as domain.ErrUserExists. There is deliberately no Exists method —
// a check-then-insert sequence would race.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// FindByIdentifier resolves a single identifier against either the
	// username or the email column in one query.
	FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error)

	FindByID(ctx context.Context, id string) (*domain.User, error)

	// SetRefreshToken overwrites the stored refresh token unconditionally.
	// An empty token clears the active session.
	SetRefreshToken(ctx context.Context, id, token string) error

	// RotateRefreshToken replaces the stored refresh token only if it still
	// equals current. A lost race (or a concurrent logout) returns
	// domain.ErrTokenReused. This conditional write is the sole
	// serialization point of the auth core.
	RotateRefreshToken(ctx context.Context, id, current, next string) error
}
