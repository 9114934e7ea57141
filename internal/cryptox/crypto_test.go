package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword_Deterministic(t *testing.T) {
	salt := []byte("fixed-salt")

	h1 := HashPassword([]byte("secret-password"), salt)
	h2 := HashPassword([]byte("secret-password"), salt)

	if !bytes.Equal(h1, h2) {
		t.Fatalf("expected same result for same inputs")
	}
	if len(h1) != argonKeyLen {
		t.Fatalf("hash length = %d, want %d", len(h1), argonKeyLen)
	}
}

func TestHashPassword_SaltChangesOutput(t *testing.T) {
	h1 := HashPassword([]byte("pw"), []byte("salt-1"))
	h2 := HashPassword([]byte("pw"), []byte("salt-2"))
	assert.NotEqual(t, h1, h2)
}

func TestVerifyPassword(t *testing.T) {
	salt := NewSalt()
	hash := HashPassword([]byte("MambaOut_24"), salt)

	assert.True(t, VerifyPassword(hash, salt, []byte("MambaOut_24")))
	assert.False(t, VerifyPassword(hash, salt, []byte("mambaout_24")))
	assert.False(t, VerifyPassword(hash, NewSalt(), []byte("MambaOut_24")))
}

func TestNewSalt_Size(t *testing.T) {
	s1 := NewSalt()
	s2 := NewSalt()
	assert.Len(t, s1, SaltSize)
	if bytes.Equal(s1, s2) {
		t.Logf("warning: two salts are identical; extremely unlikely")
	}
}
