package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(0)
	password := "Secret123"

	hash, err := hasher.Hash(password)
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	// The stored value must never be the plaintext.
	assert.NotEqual(t, password, hash)
	assert.True(t, strings.HasPrefix(hash, "$2"), "expected a bcrypt hash, got %q", hash)

	assert.NoError(t, hasher.Compare(hash, password))
	assert.Error(t, hasher.Compare(hash, "Secret124"))
	assert.Error(t, hasher.Compare("", password))
}

func TestBcryptHasherDistinctHashes(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(0)

	first, err := hasher.Hash("Secret123")
	require.NoError(t, err)
	second, err := hasher.Hash("Secret123")
	require.NoError(t, err)

	// Salting makes every hash unique.
	assert.NotEqual(t, first, second)
}
