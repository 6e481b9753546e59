package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionCookieName is the cookie the login handler sets and Authenticate
// reads back.
const SessionCookieName = "session"

// SessionClaims is the identity the rest of the system consumes. How the
// session was established (login endpoint, hosted provider) is invisible
// past this point.
type SessionClaims struct {
	UserID  int
	Email   string
	IsAdmin bool
}

// AdminPolicy decides whether a session may perform mutating operations.
// Swapping the deployed rule means swapping this function where the router
// is built; no handler ever references the rule itself.
type AdminPolicy func(SessionClaims) bool

// AllowAllAuthenticated is the current deployment's policy: any valid
// session counts as an administrator, pending a real role rule.
func AllowAllAuthenticated(SessionClaims) bool { return true }

// AllowEmails restricts mutations to an explicit allow-list.
func AllowEmails(emails ...string) AdminPolicy {
	allowed := make(map[string]bool, len(emails))
	for _, e := range emails {
		allowed[strings.ToLower(e)] = true
	}
	return func(claims SessionClaims) bool {
		return allowed[strings.ToLower(claims.Email)]
	}
}

// Authenticate resolves the session token from the session cookie or an
// Authorization bearer header. Requests without a valid token pass through
// with no identity attached; gating happens in RequireAuth/RequireAdmin.
func Authenticate(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := tokenFromRequest(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := parseSessionToken(tokenStr, key)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that carry no valid session.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFromContext(r.Context()); !ok {
			writeAuthError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects authenticated sessions the policy does not accept.
// Must be mounted after RequireAuth.
func RequireAdmin(policy AdminPolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := SessionFromContext(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if !policy(claims) {
				writeAuthError(w, http.StatusForbidden, "admins only")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionFromContext returns the authenticated session, if any.
func SessionFromContext(ctx context.Context) (SessionClaims, bool) {
	claims, ok := ctx.Value(sessionContextKey).(SessionClaims)
	return claims, ok
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func parseSessionToken(tokenStr string, key []byte) (SessionClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	})
	if err != nil || !token.Valid {
		return SessionClaims{}, errors.New("invalid session token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return SessionClaims{}, errors.New("invalid session claims")
	}

	// Numeric claims decode as float64.
	userIDFloat, ok := mapClaims["user_id"].(float64)
	if !ok || userIDFloat <= 0 {
		return SessionClaims{}, errors.New("missing or invalid user_id claim")
	}

	claims := SessionClaims{UserID: int(userIDFloat)}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if isAdmin, ok := mapClaims["is_admin"].(bool); ok {
		claims.IsAdmin = isAdmin
	}
	return claims, nil
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"message":"` + message + `"}` + "\n"))
}
