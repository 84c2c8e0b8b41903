// Package store persists user profiles. It owns email uniqueness and password
// hashing; nothing above it sees a plaintext password after Create returns.
package store

import (
	"context"

	"github.com/google/uuid"

	"finmatch-backend/internal/models"
)

// UserStore is the persistence contract used by the signup pipeline and the
// auth handlers. FindByEmail and FindByID return common.ErrNotFound when no
// profile matches. Create returns common.ErrConflict when the email is taken.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.UserProfile, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.UserProfile, error)
	Create(ctx context.Context, in *models.ProfileInput) (*models.UserProfile, error)
	Delete(ctx context.Context, id uuid.UUID) error
	VerifyPassword(plaintext, hash string) bool
}
