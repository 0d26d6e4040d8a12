package auth

import (
	"testing"
	"time"

	"shelterconnect/config"
	"shelterconnect/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWT() *config.JWTConfig {
	return &config.JWTConfig{AccessSecret: "secret", AccessExpiry: time.Hour, Issuer: "shelter-connect"}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := testJWT()
	tok, err := GenerateAccessToken(cfg, 7, "s@example.org", domain.RoleShelter)
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, tok)
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.UserID)
	assert.Equal(t, domain.RoleShelter, claims.Role)
}

func TestParseAccessTokenRejects(t *testing.T) {
	cfg := testJWT()

	expired := *cfg
	expired.AccessExpiry = -time.Minute
	tok, err := GenerateAccessToken(&expired, 7, "s@example.org", domain.RoleShelter)
	require.NoError(t, err)
	_, err = ParseAccessToken(cfg, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := *cfg
	other.AccessSecret = "other"
	tok, err = GenerateAccessToken(&other, 7, "s@example.org", domain.RoleShelter)
	require.NoError(t, err)
	_, err = ParseAccessToken(cfg, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	tok, err = GenerateAccessToken(cfg, 7, "s@example.org", domain.Role("ADMIN"))
	require.NoError(t, err)
	_, err = ParseAccessToken(cfg, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 7, Role: domain.RoleShelter})
	raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseAccessToken(cfg, raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseAccessToken(cfg, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
