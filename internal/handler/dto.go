package handler

import (
	"time"

	"github.com/msomdec/account-api/internal/domain"
)

// UserDTO is the JSON representation of a user. Secret fields (password
// hash, refresh token, reset token) are never part of it.
type UserDTO struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	FullName      string `json:"fullName"`
	AvatarURL     string `json:"avatarUrl"`
	CoverImageURL string `json:"coverImageUrl,omitempty"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		AvatarURL:     u.AvatarURL,
		CoverImageURL: u.CoverImageURL,
		CreatedAt:     u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     u.UpdatedAt.Format(time.RFC3339),
	}
}
