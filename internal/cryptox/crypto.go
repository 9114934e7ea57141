// Package cryptox derives and checks salted password hashes.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/accounts/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	// SaltSize is the length of a freshly generated salt, in bytes.
	SaltSize = 16

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// NewSalt returns SaltSize random bytes.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// HashPassword derives an argon2id key from password and salt.
// The same inputs always produce the same output.
func HashPassword(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// VerifyPassword recomputes the hash of candidate and compares it with hash
// in constant time. The accounts service only stores credentials; checking
// them is left to whatever authenticates against the stored hash.
func VerifyPassword(hash, salt, candidate []byte) bool {
	got := HashPassword(candidate, salt)
	defer common.WipeByteArray(got)
	return subtle.ConstantTimeCompare(hash, got) == 1
}
