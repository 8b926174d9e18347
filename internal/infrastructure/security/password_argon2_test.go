package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHasherParams() Argon2idParams {
	// Cheap parameters keep the test fast; the format is what matters.
	return Argon2idParams{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestArgon2idHashAndVerify(t *testing.T) {
	hasher, err := NewArgon2idHasher(testHasherParams())
	require.NoError(t, err)

	digest, err := hasher.Hash("correct-horse-battery")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(digest, "$argon2id$v=19$"))

	match, err := hasher.Verify(digest, "correct-horse-battery")
	require.NoError(t, err)
	assert.True(t, match)

	match, err = hasher.Verify(digest, "wrong-password")
	require.NoError(t, err)
	assert.False(t, match)
}

func TestArgon2idHashesAreSalted(t *testing.T) {
	hasher, err := NewArgon2idHasher(testHasherParams())
	require.NoError(t, err)

	first, err := hasher.Hash("same-input")
	require.NoError(t, err)
	second, err := hasher.Hash("same-input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestArgon2idVerifyRejectsMalformedDigest(t *testing.T) {
	hasher, err := NewArgon2idHasher(testHasherParams())
	require.NoError(t, err)

	_, err = hasher.Verify("not-a-digest", "whatever")
	assert.Error(t, err)

	_, err = hasher.Verify("$bcrypt$something", "whatever")
	assert.Error(t, err)
}
