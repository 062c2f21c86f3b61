// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordProducesArgon2id(t *testing.T) {
	hash, err := HashPassword("secreto1")
	require.NoError(t, err)

	assert.NotEqual(t, "secreto1", hash)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
}

func TestHashPasswordUniqueSalt(t *testing.T) {
	first, err := HashPassword("secreto1")
	require.NoError(t, err)
	second, err := HashPassword("secreto1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secreto1")
	require.NoError(t, err)

	valid, err := VerifyPassword("secreto1", hash)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = VerifyPassword("incorrecta9", hash)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	_, err := VerifyPassword("secreto1", "not-a-hash")
	assert.Error(t, err)
}

func TestVerifyPasswordTimingSafeNilHash(t *testing.T) {
	valid, err := VerifyPasswordTimingSafe("secreto1", nil)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestVerifyPasswordTimingSafeRealHash(t *testing.T) {
	hash, err := HashPassword("secreto1")
	require.NoError(t, err)

	valid, err := VerifyPasswordTimingSafe("secreto1", &hash)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = VerifyPasswordTimingSafe("incorrecta9", &hash)
	require.NoError(t, err)
	assert.False(t, valid)
}
