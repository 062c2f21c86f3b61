// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carlos130395/grow-analytics-backend/internal/config"
	"github.com/Carlos130395/grow-analytics-backend/internal/core"
)

func newTestManager(t *testing.T, expire time.Duration) *JWTManager {
	t.Helper()

	dir := t.TempDir()
	privatePath := filepath.Join(dir, "jwt_private.pem")
	publicPath := filepath.Join(dir, "jwt_public.pem")

	require.NoError(t, GenerateKeyPair(privatePath, publicPath))

	manager, err := NewJWTManager(config.JWTConfig{
		PrivateKeyPath:    privatePath,
		PublicKeyPath:     publicPath,
		AccessTokenExpire: expire,
		Issuer:            "grow-analytics",
		Audience:          "grow-analytics-api",
	})
	require.NoError(t, err)

	return manager
}

func TestCreateAndVerifySessionToken(t *testing.T) {
	manager := newTestManager(t, time.Hour)

	token, err := manager.CreateSessionToken(Claims{UserID: 42, Role: "admin"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.VerifySessionToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestVerifyExpiredToken(t *testing.T) {
	manager := newTestManager(t, time.Millisecond)

	token, err := manager.CreateSessionToken(Claims{UserID: 7, Role: "user"})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	_, err = manager.VerifySessionToken(context.Background(), token)
	require.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestVerifyTokenSignedByOtherKey(t *testing.T) {
	manager := newTestManager(t, time.Hour)
	other := newTestManager(t, time.Hour)

	token, err := other.CreateSessionToken(Claims{UserID: 7, Role: "user"})
	require.NoError(t, err)

	_, err = manager.VerifySessionToken(context.Background(), token)
	require.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestVerifyGarbageToken(t *testing.T) {
	manager := newTestManager(t, time.Hour)

	_, err := manager.VerifySessionToken(
		context.Background(),
		"not.a.token",
	)
	require.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestVerifyTamperedToken(t *testing.T) {
	manager := newTestManager(t, time.Hour)

	token, err := manager.CreateSessionToken(Claims{UserID: 7, Role: "user"})
	require.NoError(t, err)

	flipped := "A"
	if token[len(token)-1] == 'A' {
		flipped = "B"
	}
	tampered := token[:len(token)-1] + flipped
	_, err = manager.VerifySessionToken(context.Background(), tampered)
	require.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestJWKSHandlerServesPublicKey(t *testing.T) {
	manager := newTestManager(t, time.Hour)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/.well-known/jwks.json", nil)
	manager.GetJWKSHandler()(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Keys []map[string]any `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Keys, 1)

	key := body.Keys[0]
	assert.Equal(t, "EC", key["kty"])
	assert.Equal(t, manager.GetKeyID(), key["kid"])
	assert.NotContains(t, key, "d")
}

func TestTokenTTLDefaultsWhenUnset(t *testing.T) {
	dir := t.TempDir()
	privatePath := filepath.Join(dir, "jwt_private.pem")
	publicPath := filepath.Join(dir, "jwt_public.pem")

	require.NoError(t, GenerateKeyPair(privatePath, publicPath))

	manager, err := NewJWTManager(config.JWTConfig{
		PrivateKeyPath: privatePath,
		PublicKeyPath:  publicPath,
		Issuer:         "grow-analytics",
		Audience:       "grow-analytics-api",
	})
	require.NoError(t, err)

	assert.Equal(t, time.Hour, manager.TokenTTL())
}
