package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/msomdec/account-api/internal/domain"
)

// AccountService handles profile updates and media replacement for
// authenticated users.
type AccountService struct {
	users domain.UserRepository
	media domain.MediaStore
}

// NewAccountService creates a new AccountService.
func NewAccountService(users domain.UserRepository, media domain.MediaStore) *AccountService {
	return &AccountService{users: users, media: media}
}

// UpdateDetailsInput carries the optional profile fields. Empty strings
// mean "leave unchanged"; at least one field must be supplied.
type UpdateDetailsInput struct {
	FullName string
	Username string
	Email    string
}

// UpdateDetails applies a partial profile update. Username and email
// changes are re-checked for uniqueness before the write; the UNIQUE
// constraints backstop concurrent changes.
func (s *AccountService) UpdateDetails(ctx context.Context, userID int64, in UpdateDetailsInput) (*domain.User, error) {
	fullName := strings.TrimSpace(in.FullName)
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if fullName == "" && username == "" && email == "" {
		return nil, fmt.Errorf("%w: at least one of full name, username, or email is required", domain.ErrInvalidInput)
	}

	if username != "" || email != "" {
		exists, err := s.users.ExistsByUsernameOrEmail(ctx, username, email, userID)
		if err != nil {
			return nil, fmt.Errorf("check existing user: %w", err)
		}
		if exists {
			return nil, domain.ErrDuplicateUser
		}
	}

	var update domain.UserUpdate
	if fullName != "" {
		update.FullName = &fullName
	}
	if username != "" {
		update.Username = &username
	}
	if email != "" {
		update.Email = &email
	}

	if err := s.users.UpdateFields(ctx, userID, update); err != nil {
		return nil, fmt.Errorf("update details: %w", err)
	}

	return s.users.GetByID(ctx, userID)
}

// UpdateAvatar uploads a replacement avatar and persists its URL.
func (s *AccountService) UpdateAvatar(ctx context.Context, userID int64, localPath string) (*domain.User, error) {
	return s.updateImage(ctx, userID, localPath, "avatar", func(url string) domain.UserUpdate {
		return domain.UserUpdate{AvatarURL: &url}
	})
}

// UpdateCoverImage uploads a replacement cover image and persists its URL.
func (s *AccountService) UpdateCoverImage(ctx context.Context, userID int64, localPath string) (*domain.User, error) {
	return s.updateImage(ctx, userID, localPath, "cover image", func(url string) domain.UserUpdate {
		return domain.UserUpdate{CoverImageURL: &url}
	})
}

func (s *AccountService) updateImage(ctx context.Context, userID int64, localPath, kind string, toUpdate func(string) domain.UserUpdate) (*domain.User, error) {
	if localPath == "" {
		return nil, fmt.Errorf("%w: %s file is required", domain.ErrInvalidInput, kind)
	}

	url, err := s.media.Upload(ctx, localPath)
	if err != nil || url == "" {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrUploadFailed, kind, err)
	}

	if err := s.users.UpdateFields(ctx, userID, toUpdate(url)); err != nil {
		return nil, fmt.Errorf("update %s: %w", kind, err)
	}

	return s.users.GetByID(ctx, userID)
}
