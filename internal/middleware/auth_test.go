// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carlos130395/grow-analytics-backend/internal/core"
)

type fakeVerifier struct {
	claims *SessionClaims
	err    error
}

func (f *fakeVerifier) VerifySessionToken(
	_ context.Context,
	_ string,
) (*SessionClaims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Error
}

func TestAuthenticatorMissingHeader(t *testing.T) {
	handler := Authenticator(&fakeVerifier{})(okHandler())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, decodeError(t, rec), "authorization token")
}

func TestAuthenticatorMalformedHeader(t *testing.T) {
	handler := Authenticator(&fakeVerifier{})(okHandler())

	for _, header := range []string{"Basic abc123", "Bearer", "justatoken"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", header)
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}
}

func TestAuthenticatorInvalidToken(t *testing.T) {
	verifier := &fakeVerifier{
		err: fmt.Errorf("verify token: %w", core.ErrTokenInvalid),
	}
	handler := Authenticator(verifier)(okHandler())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthenticatorExpiredToken(t *testing.T) {
	verifier := &fakeVerifier{
		err: fmt.Errorf("verify token: %w", core.ErrTokenExpired),
	}
	handler := Authenticator(verifier)(okHandler())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer expired")
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, decodeError(t, rec), "expired")
}

func TestAuthenticatorAttachesClaims(t *testing.T) {
	verifier := &fakeVerifier{
		claims: &SessionClaims{UserID: 42, Role: "admin"},
	}

	var gotID int64
	var gotRole string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = GetUserID(r.Context())
		gotRole = GetUserRole(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	Authenticator(verifier)(inner).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), gotID)
	assert.Equal(t, "admin", gotRole)
}

func TestRequireRoleWithoutClaims(t *testing.T) {
	handler := RequireRole("admin")(okHandler())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, decodeError(t, rec), "not authenticated")
}

func requestWithClaims(claims *SessionClaims) *http.Request {
	req := httptest.NewRequest("GET", "/", nil)
	ctx := req.Context()
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, UserRoleKey, claims.Role)
	ctx = context.WithValue(ctx, ClaimsKey, claims)
	return req.WithContext(ctx)
}

func TestRequireRoleDeniesDisallowedRole(t *testing.T) {
	handler := RequireRole("admin")(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithClaims(&SessionClaims{
		UserID: 7,
		Role:   "user",
	}))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, decodeError(t, rec), "insufficient permissions")
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	handler := RequireRole("admin", "user")(okHandler())

	for _, role := range []string{"admin", "user"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestWithClaims(&SessionClaims{
			UserID: 7,
			Role:   role,
		}))

		assert.Equal(t, http.StatusOK, rec.Code, role)
	}
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty", "", ""},
		{"bearer", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer abc123", "abc123"},
		{"wrong scheme", "Basic abc123", ""},
		{"no token", "Bearer", ""},
		{"bare token", "abc123", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, ExtractToken(req))
		})
	}
}

func TestIsAdmin(t *testing.T) {
	ctx := context.WithValue(context.Background(), UserRoleKey, "admin")
	assert.True(t, IsAdmin(ctx))
	assert.False(t, IsAdmin(context.Background()))
}
