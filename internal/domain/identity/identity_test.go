package identity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewUser(t *testing.T) {
	t.Run("hashes the password", func(t *testing.T) {
		user, err := NewUser(" alice ", "s3cret", "org-1", bcrypt.MinCost)
		require.NoError(t, err)

		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "org-1", user.OrganizationID)
		assert.NotEqual(t, "s3cret", user.PasswordHash)
		assert.True(t, user.VerifyPassword("s3cret"))
		assert.False(t, user.VerifyPassword("S3cret"))
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := NewUser("", "pw", "org", bcrypt.MinCost)
		assert.ErrorContains(t, err, "Username cannot be empty")

		_, err = NewUser("bad name", "pw", "org", bcrypt.MinCost)
		assert.ErrorContains(t, err, "Username can only contain")

		_, err = NewUser("bob", "", "org", bcrypt.MinCost)
		assert.ErrorContains(t, err, "Password cannot be empty")

		_, err = NewUser("bob", strings.Repeat("x", 73), "org", bcrypt.MinCost)
		assert.ErrorContains(t, err, "72 bytes")

		_, err = NewUser("bob", "pw", " ", bcrypt.MinCost)
		assert.ErrorContains(t, err, "Organization ID")
	})
}

func TestHashPassword_FallsBackToDefaultCost(t *testing.T) {
	hash, err := HashPassword("pw", 0)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultPasswordCost, cost)
}

func TestVerifyPassword_EmptyHash(t *testing.T) {
	assert.False(t, VerifyPassword("", "anything"))
	assert.False(t, VerifyPassword("not-a-hash", "anything"))
}

func TestSession_Expiry(t *testing.T) {
	created := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := &Session{SessionKey: "k", OrganizationID: "org", CreatedAt: created}

	assert.False(t, s.IsExpired(created.Add(100*time.Hour), 0))
	assert.True(t, s.ExpiresAt(0).IsZero())

	ttl := time.Hour
	assert.Equal(t, created.Add(ttl), s.ExpiresAt(ttl))
	assert.False(t, s.IsExpired(created.Add(59*time.Minute), ttl))
	assert.True(t, s.IsExpired(created.Add(ttl), ttl))

	assert.True(t, s.BelongsTo("org"))
	assert.False(t, s.BelongsTo("other"))
}
