package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "test-secret-key-12345"
	testAudience = "authenticated"
)

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims(sub string) Claims {
	now := time.Now()
	return Claims{
		Email: "member@example.com",
		Role:  RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			Audience:  jwt.ClaimStrings{testAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestNewVerifier(t *testing.T) {
	_, err := NewVerifier("", testAudience)
	assert.ErrorIs(t, err, ErrEmptyJWTSecret)

	v, err := NewVerifier(testSecret, testAudience)
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func TestVerify(t *testing.T) {
	v, err := NewVerifier(testSecret, testAudience)
	require.NoError(t, err)
	userID := uuid.New()

	t.Run("valid token", func(t *testing.T) {
		identity, err := v.Verify(signToken(t, testSecret, validClaims(userID.String())))
		require.NoError(t, err)
		assert.Equal(t, userID, identity.ID)
		assert.Equal(t, "member@example.com", identity.Email)
		assert.Equal(t, RoleUser, identity.Role)
	})

	t.Run("app role overrides provider role", func(t *testing.T) {
		claims := validClaims(userID.String())
		claims.AppMetadata.Role = RoleAdmin
		identity, err := v.Verify(signToken(t, testSecret, claims))
		require.NoError(t, err)
		assert.Equal(t, RoleAdmin, identity.Role)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := validClaims(userID.String())
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		_, err := v.Verify(signToken(t, testSecret, claims))
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := v.Verify(signToken(t, "other-secret", validClaims(userID.String())))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong audience", func(t *testing.T) {
		claims := validClaims(userID.String())
		claims.Audience = jwt.ClaimStrings{"someone-else"}
		_, err := v.Verify(signToken(t, testSecret, claims))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing expiry", func(t *testing.T) {
		claims := validClaims(userID.String())
		claims.ExpiresAt = nil
		_, err := v.Verify(signToken(t, testSecret, claims))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("subject is not a uuid", func(t *testing.T) {
		_, err := v.Verify(signToken(t, testSecret, validClaims("42")))
		assert.ErrorIs(t, err, ErrInvalidSubject)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
