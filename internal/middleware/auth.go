// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Carlos130395/grow-analytics-backend/internal/core"
)

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "user_role"
	ClaimsKey   contextKey = "session_claims"
)

type TokenVerifier interface {
	VerifySessionToken(
		ctx context.Context,
		token string,
	) (*SessionClaims, error)
}

type SessionClaims struct {
	UserID int64
	Role   string
}

// Authenticator rejects requests without a well-formed bearer token (401)
// and requests whose token fails signature or expiry checks (403). A valid
// token attaches its claims to the request context.
func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.Unauthorized(w, "missing or malformed authorization token")
				return
			}

			claims, err := verifier.VerifySessionToken(r.Context(), token)
			if err != nil {
				handleTokenError(w, err)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UserRoleKey, claims.Role)
			ctx = context.WithValue(ctx, ClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole closes over the allowed role set at route registration. It has
// no authentication capability of its own and must run after Authenticator.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r.Context())

			if claims == nil {
				core.Forbidden(w, "access denied: not authenticated")
				return
			}

			if _, ok := roleSet[claims.Role]; !ok {
				core.Forbidden(w, "access denied: insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole("admin")(next)
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleTokenError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenInvalid):
		core.JSONError(w, core.TokenInvalidError())
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

func GetUserID(ctx context.Context) int64 {
	if id, ok := ctx.Value(UserIDKey).(int64); ok {
		return id
	}
	return 0
}

func GetUserRole(ctx context.Context) string {
	if role, ok := ctx.Value(UserRoleKey).(string); ok {
		return role
	}
	return ""
}

func GetClaims(ctx context.Context) *SessionClaims {
	if claims, ok := ctx.Value(ClaimsKey).(*SessionClaims); ok {
		return claims
	}
	return nil
}

func IsAdmin(ctx context.Context) bool {
	return GetUserRole(ctx) == "admin"
}
