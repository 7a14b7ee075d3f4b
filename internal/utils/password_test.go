package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	t.Run("HashThenVerify", func(t *testing.T) {
		hash, err := HashPassword("correct horse battery staple")
		require.NoError(t, err)
		assert.True(t, IsArgon2Hash(hash))

		ok, err := VerifyPassword("correct horse battery staple", hash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("WrongPasswordRejected", func(t *testing.T) {
		hash, err := HashPassword("bon mot de passe")
		require.NoError(t, err)

		ok, err := VerifyPassword("mauvais mot de passe", hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("TwoHashesOfSamePasswordDiffer", func(t *testing.T) {
		h1, err := HashPassword("secret")
		require.NoError(t, err)
		h2, err := HashPassword("secret")
		require.NoError(t, err)
		assert.NotEqual(t, h1, h2, "le salt doit être aléatoire")
	})

	t.Run("MalformedHashIsError", func(t *testing.T) {
		_, err := VerifyPassword("peu importe", "$argon2id$nimporte$quoi")
		assert.Error(t, err)
	})

	t.Run("BcryptHashStillVerifies", func(t *testing.T) {
		// hash bcrypt de "password" (comptes importés)
		legacy := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
		ok, err := VerifyPassword("password", legacy)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = VerifyPassword("autre", legacy)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
