package models

import (
	"slices"
	"strings"
	"time"
)

// Profile is the public face of a user. UserID is a non-owning reference
// into the identity store and never changes after creation.
type Profile struct {
	ID          string
	UserID      string
	Username    string
	DisplayName *string
	AvatarURL   *string
	Bio         *string
	StyleTags   []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	c.DisplayName = cloneString(p.DisplayName)
	c.AvatarURL = cloneString(p.AvatarURL)
	c.Bio = cloneString(p.Bio)
	c.StyleTags = slices.Clone(p.StyleTags)
	return &c
}

// ProfilePatch carries a partial update. Nil fields are left unchanged.
// UserID is present only so that attempts to relink a profile can be
// rejected explicitly.
type ProfilePatch struct {
	UserID      *string
	Username    *string
	DisplayName *string
	AvatarURL   *string
	Bio         *string
	StyleTags   *[]string
}

// ProfileFilter narrows a profile listing. Username is compared
// case-insensitively.
type ProfileFilter struct {
	UserID   *string
	Username *string
}

func (f ProfileFilter) Match(p *Profile) bool {
	if f.UserID != nil && p.UserID != *f.UserID {
		return false
	}
	if f.Username != nil && !strings.EqualFold(p.Username, *f.Username) {
		return false
	}
	return true
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
