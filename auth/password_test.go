package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	t.Parallel()

	first, err := HashPassword(PlainText("secret1"), MinCost)
	require.NoError(t, err)
	second, err := HashPassword(PlainText("secret1"), MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "salts should differ between calls")
	assert.NotContains(t, first, "secret1")

	_, err = HashPassword(PlainText(make([]byte, 73)), MinCost)
	assert.Error(t, err)
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	digest, err := HashPassword(PlainText("correctpassword"), MinCost)
	require.NoError(t, err)

	t.Run("correct password", func(t *testing.T) {
		t.Parallel()
		assert.True(t, VerifyPassword(PlainText("correctpassword"), digest))
	})

	t.Run("incorrect password", func(t *testing.T) {
		t.Parallel()
		assert.False(t, VerifyPassword(PlainText("wrongpassword"), digest))
	})

	t.Run("malformed digest", func(t *testing.T) {
		t.Parallel()
		for _, d := range []string{"", "not-bcrypt", digest[:10], "$2a$10$" + "!!!!"} {
			assert.False(t, VerifyPassword(PlainText("correctpassword"), d), "digest %q should fail closed", d)
		}
	})
}

func TestZero(t *testing.T) {
	p := PlainText("secret")
	p.Zero()
	assert.Equal(t, PlainText{0, 0, 0, 0, 0, 0}, p)
}

func TestTimingDigestFollowsCost(t *testing.T) {
	t.Parallel()

	for _, cost := range []int{MinCost, MinCost + 1} {
		accounts := NewAccounts(nil, nil, cost)
		got, err := bcrypt.Cost([]byte(accounts.dummy()))
		require.NoError(t, err)
		assert.Equal(t, cost, got)
		assert.Equal(t, accounts.dummy(), accounts.dummy(), "digest is computed once")
	}
}
