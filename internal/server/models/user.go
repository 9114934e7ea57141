package models

import (
	"slices"
	"strings"
	"time"
)

// MembershipTier is the subscription level of a user.
type MembershipTier string

const (
	TierFree   MembershipTier = "FREE"
	TierPro    MembershipTier = "PRO"
	TierProMax MembershipTier = "PROMAX"
)

// Valid reports whether t is one of the known tiers.
func (t MembershipTier) Valid() bool {
	switch t {
	case TierFree, TierPro, TierProMax:
		return true
	}
	return false
}

// User is an account record owned by the identity store. The password is
// kept only as a salted hash.
type User struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	MembershipTier MembershipTier
	PasswordHash   []byte
	PasswordSalt   []byte
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Clone returns a deep copy so callers never share mutable state with a store.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.PasswordHash = slices.Clone(u.PasswordHash)
	c.PasswordSalt = slices.Clone(u.PasswordSalt)
	return &c
}

// UserPatch carries a partial update. Nil fields are left unchanged.
type UserPatch struct {
	Name           *string
	Email          *string
	Phone          *string
	MembershipTier *MembershipTier
	NewPassword    *string
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.MembershipTier == nil && p.NewPassword == nil
}

// UserFilter narrows a user listing by exact match. Email is compared
// case-insensitively. Nil fields match everything.
type UserFilter struct {
	Name           *string
	Email          *string
	Phone          *string
	MembershipTier *MembershipTier
}

func (f UserFilter) Match(u *User) bool {
	if f.Name != nil && u.Name != *f.Name {
		return false
	}
	if f.Email != nil && !strings.EqualFold(u.Email, *f.Email) {
		return false
	}
	if f.Phone != nil && u.Phone != *f.Phone {
		return false
	}
	if f.MembershipTier != nil && u.MembershipTier != *f.MembershipTier {
		return false
	}
	return true
}
