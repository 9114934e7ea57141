package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/accounts/internal/server/validation"
	"github.com/google/uuid"
)

// CreateProfileInput is the write model for a new profile. Empty optional
// fields are stored as absent.
type CreateProfileInput struct {
	UserID      string
	Username    string
	DisplayName *string
	AvatarURL   *string
	Bio         *string
	StyleTags   []string
}

// ProfileService provides the profile store operations. Existence of the
// referenced user is enforced by the store itself.
type ProfileService struct {
	repo   profiles.Repository
	logger logging.Logger
}

func NewProfileService(repo profiles.Repository, logger logging.Logger) *ProfileService {
	return &ProfileService{repo: repo, logger: logger.With("module", "profile_service")}
}

// Create validates the input and links a new profile to an existing user.
func (s *ProfileService) Create(ctx context.Context, in CreateProfileInput) (*models.Profile, error) {
	userID, err := uuid.Parse(in.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: user_id %q is not a valid id", common.ErrorValidation, in.UserID)
	}

	p := &models.Profile{UserID: userID.String()}
	if p.Username, err = validation.Username(in.Username); err != nil {
		return nil, err
	}
	if p.DisplayName, err = optional(in.DisplayName, nil); err != nil {
		return nil, err
	}
	if p.AvatarURL, err = optional(in.AvatarURL, validation.AvatarURL); err != nil {
		return nil, err
	}
	if p.Bio, err = optional(in.Bio, bio); err != nil {
		return nil, err
	}
	p.StyleTags = validation.StyleTags(in.StyleTags)

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "profile created", "profile_id", created.ID, "user_id", created.UserID)
	return created, nil
}

func (s *ProfileService) Get(ctx context.Context, id string) (*models.Profile, error) {
	key, err := parseID(id, "profile")
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, key)
}

// GetByUser returns the profile linked to the user, or ErrorNotFound when
// the user has none.
func (s *ProfileService) GetByUser(ctx context.Context, userID string) (*models.Profile, error) {
	key, err := parseID(userID, "profile for user")
	if err != nil {
		return nil, err
	}
	return s.repo.GetByUserID(ctx, key)
}

// List returns profiles in creation order, narrowed by the filter. A
// user_id filter that is not a UUID matches nothing.
func (s *ProfileService) List(ctx context.Context, filter models.ProfileFilter) ([]*models.Profile, error) {
	if filter.UserID != nil {
		id, err := uuid.Parse(*filter.UserID)
		if err != nil {
			return []*models.Profile{}, nil
		}
		v := id.String()
		filter.UserID = &v
	}
	return s.repo.List(ctx, filter)
}

// Update applies the supplied fields of the patch. A user_id that differs
// from the stored one is rejected; an empty display_name, avatar_url or bio
// clears the field.
func (s *ProfileService) Update(ctx context.Context, id string, patch models.ProfilePatch) (*models.Profile, error) {
	key, err := parseID(id, "profile")
	if err != nil {
		return nil, err
	}

	var relinkTo string
	if patch.UserID != nil {
		u, err := uuid.Parse(*patch.UserID)
		if err != nil {
			return nil, fmt.Errorf("%w: user_id of a profile cannot change", common.ErrorValidation)
		}
		relinkTo = u.String()
	}

	next := models.ProfilePatch{}
	if patch.Username != nil {
		v, err := validation.Username(*patch.Username)
		if err != nil {
			return nil, err
		}
		next.Username = &v
	}
	var avatar *string
	if patch.AvatarURL != nil {
		if avatar, err = optional(patch.AvatarURL, validation.AvatarURL); err != nil {
			return nil, err
		}
	}
	if patch.Bio != nil {
		if err := validation.Bio(*patch.Bio); err != nil {
			return nil, err
		}
	}
	if patch.StyleTags != nil {
		tags := validation.StyleTags(*patch.StyleTags)
		next.StyleTags = &tags
	}

	updated, err := s.repo.Update(ctx, key, func(p *models.Profile) error {
		if relinkTo != "" && relinkTo != p.UserID {
			return fmt.Errorf("%w: user_id of a profile cannot change", common.ErrorValidation)
		}
		if next.Username != nil {
			p.Username = *next.Username
		}
		if patch.DisplayName != nil {
			p.DisplayName = clearable(*patch.DisplayName)
		}
		if patch.AvatarURL != nil {
			p.AvatarURL = avatar
		}
		if patch.Bio != nil {
			p.Bio = clearable(*patch.Bio)
		}
		if next.StyleTags != nil {
			p.StyleTags = *next.StyleTags
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "profile updated", "profile_id", updated.ID)
	return updated, nil
}

func (s *ProfileService) Delete(ctx context.Context, id string) error {
	key, err := parseID(id, "profile")
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, key); err != nil {
		return err
	}

	s.logger.Info(ctx, "profile deleted", "profile_id", key)
	return nil
}

// OnUserDeleted removes the profile of a deleted user. It is a no-op when
// the user had none.
func (s *ProfileService) OnUserDeleted(ctx context.Context, userID string) error {
	key, err := uuid.Parse(userID)
	if err != nil {
		return nil
	}
	return s.repo.DeleteByUserID(ctx, key.String())
}

// --- helpers below ---

// optional validates a non-empty optional value; nil and empty values come
// back as nil.
func optional(v *string, check func(string) (string, error)) (*string, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	if check == nil {
		out := *v
		return &out, nil
	}
	out, err := check(*v)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func bio(v string) (string, error) {
	if err := validation.Bio(v); err != nil {
		return "", err
	}
	return v, nil
}

func clearable(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
