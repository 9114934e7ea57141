package httpapi

import (
	"time"

	"github.com/dmitrijs2005/accounts/internal/server/models"
)

type createUserRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	MembershipTier string `json:"membership_tier"`
	Password       string `json:"password"`
}

type updateUserRequest struct {
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	MembershipTier *string `json:"membership_tier"`
	NewPassword    *string `json:"new_password"`
}

func (r updateUserRequest) patch() models.UserPatch {
	p := models.UserPatch{
		Name:        r.Name,
		Email:       r.Email,
		Phone:       r.Phone,
		NewPassword: r.NewPassword,
	}
	if r.MembershipTier != nil {
		t := models.MembershipTier(*r.MembershipTier)
		p.MembershipTier = &t
	}
	return p
}

// userResponse is the read model of a user; password material is never
// part of it.
type userResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	MembershipTier string    `json:"membership_tier"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Phone:          u.Phone,
		MembershipTier: string(u.MembershipTier),
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

type createProfileRequest struct {
	UserID      string   `json:"user_id"`
	Username    string   `json:"username"`
	DisplayName *string  `json:"display_name"`
	AvatarURL   *string  `json:"avatar_url"`
	Bio         *string  `json:"bio"`
	StyleTags   []string `json:"style_tags"`
}

type updateProfileRequest struct {
	UserID      *string   `json:"user_id"`
	Username    *string   `json:"username"`
	DisplayName *string   `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url"`
	Bio         *string   `json:"bio"`
	StyleTags   *[]string `json:"style_tags"`
}

func (r updateProfileRequest) patch() models.ProfilePatch {
	return models.ProfilePatch{
		UserID:      r.UserID,
		Username:    r.Username,
		DisplayName: r.DisplayName,
		AvatarURL:   r.AvatarURL,
		Bio:         r.Bio,
		StyleTags:   r.StyleTags,
	}
}

type profileResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	DisplayName *string   `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url"`
	Bio         *string   `json:"bio"`
	StyleTags   []string  `json:"style_tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toProfileResponse(p *models.Profile) profileResponse {
	tags := p.StyleTags
	if tags == nil {
		tags = []string{}
	}
	return profileResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
		Bio:         p.Bio,
		StyleTags:   tags,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
