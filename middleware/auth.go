package middleware

import (
	"context"
	"fmt"
	"net/http"
)

type contextKey string

const UserIDKey contextKey = "userID"

// UserResolver checks that a user id exists and whether it is an admin.
// Backed by the user service; an interface here keeps middleware free of a
// services import cycle.
type UserResolver interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// Auth is the mock identity layer: the caller states who they are via the
// X-User-ID header. There is deliberately no token verification.
type Auth struct {
	users UserResolver
}

func NewAuth(users UserResolver) *Auth {
	return &Auth{users: users}
}

// Optional attaches the caller's user id to the context when the header is
// present. Anonymous requests pass through untouched.
func (a *Auth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID := r.Header.Get("X-User-ID"); userID != "" {
			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// Required rejects requests without an identity header.
func (a *Auth) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			respondWithError(w, http.StatusUnauthorized, "X-User-ID header required")
			return
		}
		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnly requires an identity that resolves to an admin user.
func (a *Auth) AdminOnly(next http.Handler) http.Handler {
	return a.Required(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := GetUserID(r.Context())
		isAdmin, err := a.users.IsAdmin(r.Context(), userID)
		if err != nil || !isAdmin {
			respondWithError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// GetUserID extracts the caller's user id from context.
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write([]byte(fmt.Sprintf(`{"error": "%s"}`, message)))
}
