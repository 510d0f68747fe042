package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-signing-secret"

func signToken(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestVerifyValidToken(t *testing.T) {
	verifier, err := NewJWTVerifier(testSecret, "rentloop-auth")
	require.NoError(t, err)

	token := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub":  "user-123",
		"role": "Admin",
		"iss":  "rentloop-auth",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.SubjectID)
	assert.Equal(t, "admin", claims.Role)
}

func TestVerifyDefaultsRole(t *testing.T) {
	verifier, err := NewJWTVerifier(testSecret, "")
	require.NoError(t, err)

	token := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user", claims.Role)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	verifier, err := NewJWTVerifier(testSecret, "rentloop-auth")
	require.NoError(t, err)

	valid := jwt.MapClaims{
		"sub": "user-123",
		"iss": "rentloop-auth",
		"exp": time.Now().Add(time.Hour).Unix(),
	}

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, "other-secret", valid)
		_, err := verifier.Verify(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
			"sub": "user-123",
			"iss": "rentloop-auth",
			"exp": time.Now().Add(-time.Minute).Unix(),
		})
		_, err := verifier.Verify(token)
		assert.Error(t, err)
	})

	t.Run("missing expiry", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
			"sub": "user-123",
			"iss": "rentloop-auth",
		})
		_, err := verifier.Verify(token)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
			"sub": "user-123",
			"iss": "someone-else",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		_, err := verifier.Verify(token)
		assert.Error(t, err)
	})

	t.Run("missing subject", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
			"iss": "rentloop-auth",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		_, err := verifier.Verify(token)
		assert.Error(t, err)
	})

	t.Run("disallowed algorithm", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS384, testSecret, valid)
		_, err := verifier.Verify(token)
		assert.Error(t, err)
	})
}

func TestNewJWTVerifierRequiresSecret(t *testing.T) {
	_, err := NewJWTVerifier("  ", "issuer")
	assert.Error(t, err)
}
