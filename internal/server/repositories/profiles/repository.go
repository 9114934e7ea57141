// Package profiles is the profile store. It owns Profile records, keeps
// usernames unique (case-insensitive) and allows at most one profile per
// user.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/accounts/internal/server/models"
)

// Repository is the storage contract for profiles.
//
// Errors: common.ErrorNotFound for unknown ids and for a profile whose user
// does not exist, common.ErrorConflict for a taken username or a user that
// already has a profile.
type Repository interface {
	Create(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	Get(ctx context.Context, id string) (*models.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	List(ctx context.Context, filter models.ProfileFilter) ([]*models.Profile, error)
	Update(ctx context.Context, id string, fn func(p *models.Profile) error) (*models.Profile, error)
	Delete(ctx context.Context, id string) error
	// DeleteByUserID removes the profile linked to userID, if any. It is a
	// no-op when the user has no profile.
	DeleteByUserID(ctx context.Context, userID string) error
}

// UserGuard pins a user in the identity store for the duration of fn and
// fails with common.ErrorNotFound if the user does not exist.
type UserGuard interface {
	WithUser(ctx context.Context, userID string, fn func() error) error
}
