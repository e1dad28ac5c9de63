package jwt

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func TestNewJWTService_InvalidExpiration(t *testing.T) {
	_, err := NewJWTService(testSecret, "soon")
	assert.Error(t, err)

	_, err = NewJWTService(testSecret, "-1h")
	assert.Error(t, err)
}

func TestGenerateAccessToken_Claims(t *testing.T) {
	svc, err := NewJWTService(testSecret, "1h")
	require.NoError(t, err)

	token, expiresAt, err := svc.GenerateAccessToken("user-1", "a@example.com", user.RoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiresAt, time.Now().Unix())

	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	claims, err := parsed.AsMap(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "a@example.com", claims["email"])
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, TokenTypeAccess, claims["type"])
}

func TestStreamToken_RoundTrip(t *testing.T) {
	svc, err := NewJWTService(testSecret, "1h")
	require.NoError(t, err)

	token, expiresIn, err := svc.GenerateStreamToken("user-1")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	userID, err := svc.ValidateStreamToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestValidateStreamToken_RejectsAccessToken(t *testing.T) {
	svc, err := NewJWTService(testSecret, "1h")
	require.NoError(t, err)

	token, _, err := svc.GenerateAccessToken("user-1", "a@example.com", user.RoleEmployee)
	require.NoError(t, err)

	_, err = svc.ValidateStreamToken(token)
	assert.Error(t, err)
}

func TestValidateStreamToken_RejectsOtherSecret(t *testing.T) {
	issuer, err := NewJWTService("issuer-secret", "1h")
	require.NoError(t, err)
	verifier, err := NewJWTService("verifier-secret", "1h")
	require.NoError(t, err)

	token, _, err := issuer.GenerateStreamToken("user-1")
	require.NoError(t, err)

	_, err = verifier.ValidateStreamToken(token)
	assert.Error(t, err)
}

func TestRevokeAndPurge(t *testing.T) {
	svc, err := NewJWTService(testSecret, "1h")
	require.NoError(t, err)

	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	svc.RevokeToken("expired", now.Add(-time.Minute))
	svc.RevokeToken("live", now.Add(time.Hour))

	assert.True(t, svc.IsTokenRevoked("expired"))
	assert.True(t, svc.IsTokenRevoked("live"))
	assert.False(t, svc.IsTokenRevoked("other"))

	assert.Equal(t, 1, svc.PurgeRevoked(now))
	assert.False(t, svc.IsTokenRevoked("expired"))
	assert.True(t, svc.IsTokenRevoked("live"))
}

func TestClaimsFromContext(t *testing.T) {
	svc, err := NewJWTService(testSecret, "1h")
	require.NoError(t, err)

	token, _, err := svc.GenerateAccessToken("user-1", "a@example.com", user.RoleAdmin)
	require.NoError(t, err)

	ctx, err := ContextWithClaims(t.Context(), svc.JWTAuth(), token)
	require.NoError(t, err)

	claims, err := ClaimsFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.True(t, claims.IsAdmin())
}

func TestClaimsFromContext_NoToken(t *testing.T) {
	_, err := ClaimsFromContext(t.Context())
	assert.Error(t, err)
}
