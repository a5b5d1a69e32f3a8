package handler

import (
	"net/http"

	"github.com/msomdec/account-api/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, account *service.AccountService, cookies CookieOptions) {
	authHandler := NewAuthHandler(auth, cookies)
	accountHandler := NewAccountHandler(account)

	mux.HandleFunc("GET /healthz", HandleHealthz)

	// Public routes.
	mux.HandleFunc("POST /api/v1/users/register", authHandler.HandleRegister)
	mux.HandleFunc("POST /api/v1/users/login", authHandler.HandleLogin)
	mux.HandleFunc("POST /api/v1/users/refresh-token", authHandler.HandleRefresh)
	mux.HandleFunc("POST /api/v1/users/forgot-password", authHandler.HandleForgotPassword)
	mux.HandleFunc("PATCH /api/v1/users/reset-password", authHandler.HandleResetPassword)

	// Secured routes.
	mux.Handle("POST /api/v1/users/logout", RequireAuth(auth, http.HandlerFunc(authHandler.HandleLogout)))
	mux.Handle("PATCH /api/v1/users/change-password", RequireAuth(auth, http.HandlerFunc(authHandler.HandleChangePassword)))
	mux.Handle("GET /api/v1/users/current-user", RequireAuth(auth, http.HandlerFunc(accountHandler.HandleCurrentUser)))
	mux.Handle("PATCH /api/v1/users/update-account", RequireAuth(auth, http.HandlerFunc(accountHandler.HandleUpdateAccount)))
	mux.Handle("PATCH /api/v1/users/avatar", RequireAuth(auth, http.HandlerFunc(accountHandler.HandleUpdateAvatar)))
	mux.Handle("PATCH /api/v1/users/cover-image", RequireAuth(auth, http.HandlerFunc(accountHandler.HandleUpdateCoverImage)))
}
