package ports

import (
	"context"

	"github.com/swacchmap/civic-reports/internal/core/domain"
)

// UserRepository persists registered users.
type UserRepository interface {
	// Create stores the user unless the username is already taken (domain.ErrUserExists).
	Create(ctx context.Context, user *domain.User) error
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// SetTokens overwrites the cached balance. Returns domain.ErrUserNotFound for unknown users.
	SetTokens(ctx context.Context, username string, tokens int) error
	// SetPasswordHash replaces the stored digest, used when upgrading legacy digests.
	SetPasswordHash(ctx context.Context, username, hash string) error
}
