package handler

import (
	"net/http"

	"github.com/msomdec/account-api/internal/service"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	auth    *service.AuthService
	cookies CookieOptions
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, cookies CookieOptions) *AuthHandler {
	return &AuthHandler{auth: auth, cookies: cookies}
}

// HandleRegister processes a multipart registration request.
// POST /api/v1/users/register
// Form fields: fullName, username, email, password, avatar (file),
// coverImage (optional file).
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart request body.")
		return
	}

	avatarPath, err := spoolUploadedFile(r, "avatar")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read avatar file.")
		return
	}
	defer removeIfPresent(avatarPath)

	coverPath, err := spoolUploadedFile(r, "coverImage")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read cover image file.")
		return
	}
	defer removeIfPresent(coverPath)

	user, err := h.auth.Register(r.Context(), service.RegisterInput{
		FullName:       r.FormValue("fullName"),
		Username:       r.FormValue("username"),
		Email:          r.FormValue("email"),
		Password:       r.FormValue("password"),
		AvatarPath:     avatarPath,
		CoverImagePath: coverPath,
	})
	if err != nil {
		writeServiceError(w, "register user", err)
		return
	}

	writeData(w, http.StatusCreated, map[string]any{"user": toUserDTO(user)}, "User registered successfully!")
}

// HandleLogin processes a JSON login request and sets the auth cookies.
// POST /api/v1/users/login
// Request: {"username":"...","password":"..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, pair, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, "login user", err)
		return
	}

	setAuthCookies(w, pair, h.cookies)
	writeData(w, http.StatusOK, map[string]any{
		"user":         toUserDTO(user),
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "user logged in successfully")
}

// HandleLogout clears the stored refresh token and expires both cookies.
// POST /api/v1/users/logout (secured)
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	if err := h.auth.Logout(r.Context(), user.ID); err != nil {
		writeServiceError(w, "logout user", err)
		return
	}

	clearAuthCookies(w, h.cookies)
	writeData(w, http.StatusOK, nil, "user logged out successfully")
}

// HandleRefresh exchanges a refresh token for a new token pair. The token
// is read from the refreshToken cookie or the JSON body.
// POST /api/v1/users/refresh-token
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	token := ""
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var req struct {
			RefreshToken string `json:"refreshToken"`
		}
		// Body is optional when the cookie is present.
		_ = readJSON(r, &req)
		token = req.RefreshToken
	}

	_, pair, err := h.auth.Refresh(r.Context(), token)
	if err != nil {
		writeServiceError(w, "refresh access token", err)
		return
	}

	setAuthCookies(w, pair, h.cookies)
	writeData(w, http.StatusOK, map[string]any{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "access token refreshed")
}

// HandleChangePassword replaces the caller's password.
// PATCH /api/v1/users/change-password (secured)
// Request: {"oldPassword":"...","newPassword":"..."}
func (h *AuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if err := h.auth.ChangePassword(r.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		writeServiceError(w, "change password", err)
		return
	}

	writeData(w, http.StatusOK, nil, "password changed successfully")
}

// HandleForgotPassword mints a reset token and mails the reset link.
// POST /api/v1/users/forgot-password
// Request: {"email":"..."}
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if err := h.auth.ForgotPassword(r.Context(), req.Email); err != nil {
		writeServiceError(w, "forgot password", err)
		return
	}

	writeData(w, http.StatusOK, nil, "password reset link sent")
}

// HandleResetPassword consumes an emailed reset token.
// PATCH /api/v1/users/reset-password
// Request: {"id":1,"token":"...","newPassword":"..."}
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID          int64  `json:"id"`
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if err := h.auth.ResetPassword(r.Context(), req.ID, req.Token, req.NewPassword); err != nil {
		writeServiceError(w, "reset password", err)
		return
	}

	writeData(w, http.StatusOK, nil, "password reset successfully")
}
