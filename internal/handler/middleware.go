package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/msomdec/account-api/internal/domain"
	"github.com/msomdec/account-api/internal/service"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext extracts the authenticated user from the request context.
// Returns nil if no user is authenticated.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userContextKey).(*domain.User)
	return user
}

// RequireAuth is the request gate guarding all secured routes. It reads the
// access token from the accessToken cookie or the Authorization header,
// validates it, loads the user, and injects it into the request context.
// Unauthenticated requests are short-circuited with 401; the exact cause
// (expired, malformed, user gone) is only logged.
func RequireAuth(auth *service.AuthService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := authenticateRequest(r, auth)
		if err != nil {
			slog.Info("request rejected by auth gate", "path", r.URL.Path, "cause", err)
			writeError(w, http.StatusUnauthorized, "Unauthorized.")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func authenticateRequest(r *http.Request, auth *service.AuthService) (*domain.User, error) {
	token := bearerToken(r)
	if token == "" {
		return nil, domain.ErrUnauthorized
	}

	userID, err := auth.VerifyAccessToken(token)
	if err != nil {
		return nil, err
	}

	user, err := auth.GetUserByID(r.Context(), userID)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// bearerToken returns the access token from the accessToken cookie, falling
// back to an Authorization: Bearer header.
func bearerToken(r *http.Request) string {
	if cookie, err := r.Cookie(accessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// SecurityHeaders sets baseline security headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
