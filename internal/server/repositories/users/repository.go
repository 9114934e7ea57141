// Package users is the identity store: it owns User records and guarantees
// that email (case-insensitive) and phone stay unique among active users.
package users

import (
	"context"

	"github.com/dmitrijs2005/accounts/internal/server/models"
)

// Repository is the storage contract for users. Implementations return
// copies; callers never hold a store's internal records.
//
// Errors: common.ErrorNotFound for unknown ids, common.ErrorConflict when an
// email or phone is already owned by another user. A failed call leaves the
// store unchanged.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]*models.User, error)
	// Update applies fn to a copy of the stored user and commits the result
	// atomically. An error from fn aborts the update and is returned as is.
	Update(ctx context.Context, id string, fn func(u *models.User) error) (*models.User, error)
	// Delete removes the user together with everything that depends on it.
	Delete(ctx context.Context, id string) error
}
