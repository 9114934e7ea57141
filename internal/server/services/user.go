// Package services contains server-side business logic. This file implements
// UserService, which validates input for the identity store, hashes
// passwords and translates ids.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/cryptox"
	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/users"
	"github.com/dmitrijs2005/accounts/internal/server/validation"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// maxConcurrentHashes bounds the argon2id derivations in flight. Each one
// allocates 64 MiB.
const maxConcurrentHashes = 4

// CreateUserInput is the write model for a new account. Password is
// plaintext and never leaves the service.
type CreateUserInput struct {
	Name           string
	Email          string
	Phone          string
	MembershipTier models.MembershipTier
	Password       string
}

// UserService provides the identity store operations:
// - Create, Get, List, Update, Delete
type UserService struct {
	repo   users.Repository
	logger logging.Logger

	hash      func(password, salt []byte) []byte
	hashSlots *semaphore.Weighted
}

// NewUserService constructs a UserService over the given store.
func NewUserService(repo users.Repository, logger logging.Logger) *UserService {
	return &UserService{
		repo:      repo,
		logger:    logger.With("module", "user_service"),
		hash:      cryptox.HashPassword,
		hashSlots: semaphore.NewWeighted(maxConcurrentHashes),
	}
}

// Create validates the input, hashes the password and stores the user.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	u := &models.User{}

	var err error
	if u.Name, err = validation.Name(in.Name); err != nil {
		return nil, err
	}
	if u.Email, err = validation.Email(in.Email); err != nil {
		return nil, err
	}
	if u.Phone, err = validation.Phone(in.Phone); err != nil {
		return nil, err
	}
	if u.MembershipTier, err = validation.Tier(in.MembershipTier); err != nil {
		return nil, err
	}
	if err = validation.Password(in.Password); err != nil {
		return nil, err
	}

	if u.PasswordHash, u.PasswordSalt, err = s.derive(ctx, in.Password); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, u)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user created", "user_id", created.ID, "tier", string(created.MembershipTier))
	return created, nil
}

// Get returns the user with the given id. Ids that are not UUIDs cannot
// exist and yield ErrorNotFound.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	key, err := parseID(id, "user")
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, key)
}

// List returns users in creation order, narrowed by the filter.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]*models.User, error) {
	return s.repo.List(ctx, filter)
}

// Update applies the supplied fields of the patch. Each supplied field is
// validated as on create; uniqueness is re-checked by the store excluding
// the user itself.
func (s *UserService) Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	key, err := parseID(id, "user")
	if err != nil {
		return nil, err
	}

	next := models.UserPatch{}
	if patch.Name != nil {
		v, err := validation.Name(*patch.Name)
		if err != nil {
			return nil, err
		}
		next.Name = &v
	}
	if patch.Email != nil {
		v, err := validation.Email(*patch.Email)
		if err != nil {
			return nil, err
		}
		next.Email = &v
	}
	if patch.Phone != nil {
		v, err := validation.Phone(*patch.Phone)
		if err != nil {
			return nil, err
		}
		next.Phone = &v
	}
	if patch.MembershipTier != nil {
		v, err := validation.Tier(*patch.MembershipTier)
		if err != nil {
			return nil, err
		}
		next.MembershipTier = &v
	}
	if patch.NewPassword != nil {
		if err := validation.Password(*patch.NewPassword); err != nil {
			return nil, err
		}
		next.NewPassword = patch.NewPassword
	}

	if next.Empty() {
		return s.repo.Get(ctx, key)
	}

	// Hashing happens before the store call: the apply callback runs under
	// the store's write lock.
	var hash, salt []byte
	if next.NewPassword != nil {
		if hash, salt, err = s.derive(ctx, *next.NewPassword); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, key, func(u *models.User) error {
		if next.Name != nil {
			u.Name = *next.Name
		}
		if next.Email != nil {
			u.Email = *next.Email
		}
		if next.Phone != nil {
			u.Phone = *next.Phone
		}
		if next.MembershipTier != nil {
			u.MembershipTier = *next.MembershipTier
		}
		if next.NewPassword != nil {
			u.PasswordHash, u.PasswordSalt = hash, salt
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user updated", "user_id", updated.ID, "password_changed", next.NewPassword != nil)
	return updated, nil
}

// Delete removes the user and, through the store, its profile.
func (s *UserService) Delete(ctx context.Context, id string) error {
	key, err := parseID(id, "user")
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, key); err != nil {
		return err
	}

	s.logger.Info(ctx, "user deleted", "user_id", key)
	return nil
}

// --- helpers below ---

// derive returns a fresh salt and the hash of password under it. It waits
// for a free hashing slot and gives up when ctx is done.
func (s *UserService) derive(ctx context.Context, password string) (hash, salt []byte, err error) {
	if err := s.hashSlots.Acquire(ctx, 1); err != nil {
		return nil, nil, fmt.Errorf("password hashing: %w", err)
	}
	defer s.hashSlots.Release(1)

	plain := []byte(password)
	defer common.WipeByteArray(plain)

	salt = cryptox.NewSalt()
	return s.hash(plain, salt), salt, nil
}

// parseID normalises a UUID path id. Anything that is not a UUID cannot
// name a stored record, so it is reported as not found.
func parseID(id, kind string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %s %s", common.ErrorNotFound, kind, id)
	}
	return u.String(), nil
}
