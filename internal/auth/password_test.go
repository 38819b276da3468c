package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPassword_HashAndVerify(t *testing.T) {
	ps := NewPasswordServiceWithCost(bcrypt.MinCost)

	hash, err := ps.Hash("correct horse")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2"))

	assert.NoError(t, ps.Verify(hash, "correct horse"))
	assert.ErrorIs(t, ps.Verify(hash, "battery staple"), ErrInvalidPassword)
}

func TestPassword_SaltIsRandom(t *testing.T) {
	ps := NewPasswordServiceWithCost(bcrypt.MinCost)
	h1, _ := ps.Hash("same")
	h2, _ := ps.Hash("same")
	assert.NotEqual(t, h1, h2)
}

func TestPassword_LengthLimit(t *testing.T) {
	ps := NewPasswordServiceWithCost(bcrypt.MinCost)

	_, err := ps.Hash(strings.Repeat("a", 72))
	assert.NoError(t, err)
	_, err = ps.Hash(strings.Repeat("a", 73))
	assert.Error(t, err)
}
