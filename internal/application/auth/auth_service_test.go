package authservice

import (
	"context"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Andryxsonhub/myextasyclub-backend-sub000/pkg/config"
)

const testSecret = "test-jwt-secret"

func newTestService(secret, issuer string) IAuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.Issuer = issuer
	return NewAuthService(cfg, zerolog.Nop())
}

func mintToken(t *testing.T, secret, userID, issuer string, expiresAt int64) string {
	t.Helper()
	claims := Claims{
		UserID: userID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expiresAt,
			Issuer:    issuer,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifyToken(t *testing.T) {
	svc := newTestService(testSecret, "myextasyclub")
	token := mintToken(t, testSecret, "user-1", "myextasyclub", time.Now().Add(time.Hour).Unix())

	claims, err := svc.VerifyToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	svc := newTestService(testSecret, "")
	token := mintToken(t, "other-secret", "user-1", "", time.Now().Add(time.Hour).Unix())

	_, err := svc.VerifyToken(context.Background(), token)
	assert.Error(t, err)
}

func TestVerifyTokenExpired(t *testing.T) {
	svc := newTestService(testSecret, "")
	token := mintToken(t, testSecret, "user-1", "", time.Now().Add(-time.Hour).Unix())

	_, err := svc.VerifyToken(context.Background(), token)
	assert.Error(t, err)
}

func TestVerifyTokenWrongIssuer(t *testing.T) {
	svc := newTestService(testSecret, "myextasyclub")
	token := mintToken(t, testSecret, "user-1", "someone-else", time.Now().Add(time.Hour).Unix())

	_, err := svc.VerifyToken(context.Background(), token)
	assert.Error(t, err)
}

func TestVerifyTokenMissingUserID(t *testing.T) {
	svc := newTestService(testSecret, "")
	token := mintToken(t, testSecret, "", "", time.Now().Add(time.Hour).Unix())

	_, err := svc.VerifyToken(context.Background(), token)
	assert.Error(t, err)
}

func TestVerifyTokenRejectsUnsignedAlg(t *testing.T) {
	svc := newTestService(testSecret, "")
	claims := Claims{
		UserID: "user-1",
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.VerifyToken(context.Background(), token)
	assert.Error(t, err)
}

func TestVerifyTokenNoSecretConfigured(t *testing.T) {
	svc := newTestService("", "")
	_, err := svc.VerifyToken(context.Background(), "anything")
	assert.Error(t, err)
}
