package handler

import (
	"context"
	"net/http"

	"github.com/msomdec/account-api/internal/domain"
	"github.com/msomdec/account-api/internal/service"
)

// AccountHandler handles profile reads and updates for authenticated users.
type AccountHandler struct {
	account *service.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(account *service.AccountService) *AccountHandler {
	return &AccountHandler{account: account}
}

// HandleCurrentUser returns the identity attached by the auth gate.
// GET /api/v1/users/current-user (secured)
func (h *AccountHandler) HandleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	writeData(w, http.StatusOK, map[string]any{"user": toUserDTO(user)}, "current user fetched")
}

// HandleUpdateAccount applies a partial profile update.
// PATCH /api/v1/users/update-account (secured)
// Request: {"fullName":"...","username":"...","email":"..."} — any subset.
func (h *AccountHandler) HandleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	var req struct {
		FullName string `json:"fullName"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	updated, err := h.account.UpdateDetails(r.Context(), user.ID, service.UpdateDetailsInput{
		FullName: req.FullName,
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		writeServiceError(w, "update account details", err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{"user": toUserDTO(updated)}, "account details updated")
}

// HandleUpdateAvatar replaces the caller's avatar.
// PATCH /api/v1/users/avatar (secured), multipart field "avatar".
func (h *AccountHandler) HandleUpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.handleImageUpdate(w, r, "avatar", h.account.UpdateAvatar)
}

// HandleUpdateCoverImage replaces the caller's cover image.
// PATCH /api/v1/users/cover-image (secured), multipart field "coverImage".
func (h *AccountHandler) HandleUpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.handleImageUpdate(w, r, "coverImage", h.account.UpdateCoverImage)
}

func (h *AccountHandler) handleImageUpdate(w http.ResponseWriter, r *http.Request, field string, update func(context.Context, int64, string) (*domain.User, error)) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart request body.")
		return
	}

	path, err := spoolUploadedFile(r, field)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read uploaded file.")
		return
	}
	defer removeIfPresent(path)

	updated, err := update(r.Context(), user.ID, path)
	if err != nil {
		writeServiceError(w, "update "+field, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{"user": toUserDTO(updated)}, field+" updated successfully")
}
