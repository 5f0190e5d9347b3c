package jwt_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaanhq/dukaan/pkg/jwt"
)

func TestService_GenerateParse(t *testing.T) {
	t.Parallel()

	svc, err := jwt.NewFromString("test-signing-key-32-bytes-long!!")
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		claims := jwt.StandardClaims{
			Subject:   "user-123",
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
			IssuedAt:  time.Now().Unix(),
		}

		token, err := svc.Generate(claims)
		require.NoError(t, err)
		assert.Len(t, strings.Split(token, "."), 3)

		var parsed jwt.StandardClaims
		require.NoError(t, svc.Parse(token, &parsed))
		assert.Equal(t, "user-123", parsed.Subject)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		t.Parallel()
		claims := jwt.StandardClaims{
			Subject:   "user-123",
			ExpiresAt: time.Now().Add(-time.Minute).Unix(),
		}

		token, err := svc.Generate(claims)
		require.NoError(t, err)

		var parsed jwt.StandardClaims
		assert.ErrorIs(t, svc.Parse(token, &parsed), jwt.ErrExpiredToken)
	})

	t.Run("rejects tampered signature", func(t *testing.T) {
		t.Parallel()
		token, err := svc.Generate(jwt.StandardClaims{Subject: "user-123"})
		require.NoError(t, err)

		other, err := jwt.NewFromString("a-completely-different-key-here!")
		require.NoError(t, err)

		var parsed jwt.StandardClaims
		assert.ErrorIs(t, other.Parse(token, &parsed), jwt.ErrInvalidSignature)
	})

	t.Run("rejects malformed token", func(t *testing.T) {
		t.Parallel()
		var parsed jwt.StandardClaims
		assert.ErrorIs(t, svc.Parse("not.a-token", &parsed), jwt.ErrInvalidToken)
	})
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := jwt.New(nil)
	assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)

	_, err = jwt.NewFromString("")
	assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)
}
