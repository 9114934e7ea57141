// Package validation holds the field rules for users and profiles. Each
// function checks one field, returns the normalised value where
// normalisation applies, and reports failures wrapped in
// common.ErrorValidation.
package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/go-playground/validator/v10"
)

// MaxBioLength is the longest bio accepted, in characters.
const MaxBioLength = 280

var (
	phonePattern    = regexp.MustCompile(`^\+1\d{10}$`)
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,32}$`)

	validate = validator.New(validator.WithRequiredStructEnabled())
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrorValidation, fmt.Sprintf(format, args...))
}

// Name trims surrounding whitespace and rejects empty names.
func Name(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name must not be empty")
	}
	return name, nil
}

// Email trims the address and checks its syntax. Case is preserved; the
// stores compare emails case-insensitively.
func Email(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", invalid("email is required")
	}
	if err := validate.Var(email, "email"); err != nil {
		return "", invalid("email %q is not a valid address", email)
	}
	return email, nil
}

// Phone accepts US numbers in E.164 form: +1 followed by exactly ten digits.
func Phone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", invalid("phone is required")
	}
	if !phonePattern.MatchString(phone) {
		return "", invalid("phone %q must be +1 followed by 10 digits", phone)
	}
	return phone, nil
}

// Tier defaults an empty tier to FREE and rejects unknown values.
func Tier(t models.MembershipTier) (models.MembershipTier, error) {
	if t == "" {
		return models.TierFree, nil
	}
	if !t.Valid() {
		return "", invalid("membership_tier %q must be one of FREE, PRO, PROMAX", string(t))
	}
	return t, nil
}

func Password(password string) error {
	if password == "" {
		return invalid("password is required")
	}
	return nil
}

// Username allows letters, digits and underscores, 3 to 32 characters.
func Username(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", invalid("username is required")
	}
	if !usernamePattern.MatchString(username) {
		return "", invalid("username %q must be 3-32 letters, digits or underscores", username)
	}
	return username, nil
}

// AvatarURL requires an absolute http or https URL.
func AvatarURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if err := validate.Var(raw, "required,url"); err != nil {
		return "", invalid("avatar_url %q is not a valid URL", raw)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", invalid("avatar_url %q must be an http or https URL", raw)
	}
	return raw, nil
}

func Bio(bio string) error {
	if n := utf8.RuneCountInString(bio); n > MaxBioLength {
		return invalid("bio is %d characters, limit is %d", n, MaxBioLength)
	}
	return nil
}

// StyleTags trims each tag, drops empty ones and removes case-insensitive
// duplicates, keeping the first spelling and the original order. The result
// is never nil.
func StyleTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		k := strings.ToLower(t)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
	}
	return out
}
