package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/msomdec/account-api/internal/domain"
)

// AuthService orchestrates the credential lifecycle: registration, login,
// logout, refresh token rotation, and the password change/reset flows.
type AuthService struct {
	users      domain.UserRepository
	tokens     *TokenIssuer
	hasher     *PasswordHasher
	media      domain.MediaStore
	mailer     domain.Mailer
	appBaseURL string
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, tokens *TokenIssuer, hasher *PasswordHasher, media domain.MediaStore, mailer domain.Mailer, appBaseURL string) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		hasher:     hasher,
		media:      media,
		mailer:     mailer,
		appBaseURL: appBaseURL,
	}
}

// RegisterInput carries the registration form fields. AvatarPath and
// CoverImagePath are local temporary files; the media store removes them
// regardless of outcome.
type RegisterInput struct {
	FullName       string
	Username       string
	Email          string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

// TokenPair is an access/refresh token pair issued together.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Register creates a new user account. Media is uploaded before the record
// is created so a user row never exists without a valid avatar reference.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	fullName := strings.TrimSpace(in.FullName)
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if fullName == "" || username == "" || email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: full name, username, email, and password are required", domain.ErrInvalidInput)
	}
	if in.AvatarPath == "" {
		return nil, fmt.Errorf("%w: avatar file is required", domain.ErrInvalidInput)
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, username, email, 0)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateUser
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	avatarURL, err := s.media.Upload(ctx, in.AvatarPath)
	if err != nil || avatarURL == "" {
		return nil, fmt.Errorf("%w: avatar: %v", domain.ErrUploadFailed, err)
	}

	coverURL := ""
	if in.CoverImagePath != "" {
		coverURL, err = s.media.Upload(ctx, in.CoverImagePath)
		if err != nil || coverURL == "" {
			return nil, fmt.Errorf("%w: cover image: %v", domain.ErrUploadFailed, err)
		}
	}

	user := &domain.User{
		Username:      username,
		Email:         email,
		FullName:      fullName,
		PasswordHash:  hash,
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateUser) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials, issues an access/refresh pair, and persists
// the refresh token. Any previously issued refresh token for the account is
// invalidated by the overwrite: there is one live refresh token per user.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, *TokenPair, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return nil, nil, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: user does not exist", domain.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	if user.PasswordHash == "" || !s.hasher.Verify(password, user.PasswordHash) {
		return nil, nil, fmt.Errorf("%w: invalid password", domain.ErrUnauthorized)
	}

	pair, err := s.issueAndStorePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Logout clears the stored refresh token. Clearing an already-absent token
// is not an error, so repeated logouts succeed.
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	empty := ""
	if err := s.users.UpdateFields(ctx, userID, domain.UserUpdate{RefreshToken: &empty}); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

// Refresh exchanges a valid refresh token for a new access/refresh pair and
// rotates the stored token, so presenting the same refresh token again
// after a successful refresh fails.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.User, *TokenPair, error) {
	if refreshToken == "" {
		return nil, nil, fmt.Errorf("%w: refresh token is required", domain.ErrUnauthorized)
	}

	userID, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		slog.Info("refresh token rejected", "cause", err)
		return nil, nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: user no longer exists", domain.ErrUnauthorized)
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	// Exact match against the stored value detects reuse of a rotated-out
	// token even when its signature is still valid.
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		slog.Info("refresh token rejected", "cause", "stored token mismatch", "user_id", user.ID)
		return nil, nil, fmt.Errorf("%w: refresh token mismatch", domain.ErrUnauthorized)
	}

	pair, err := s.issueAndStorePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// ChangePassword replaces the password hash after verifying the old
// password. The refresh token is left untouched.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return fmt.Errorf("%w: old and new passwords are required", domain.ErrInvalidInput)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	if !s.hasher.Verify(oldPassword, user.PasswordHash) {
		return fmt.Errorf("%w: old password is incorrect", domain.ErrUnauthorized)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdateFields(ctx, userID, domain.UserUpdate{PasswordHash: &hash}); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// ForgotPassword mints a reset token, persists it on the user record, and
// dispatches the reset link by mail. A new request supersedes any earlier
// unconsumed token.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: no account with that email", domain.ErrNotFound)
		}
		return fmt.Errorf("get user: %w", err)
	}

	token, expiresAt, err := s.tokens.NewResetToken()
	if err != nil {
		return err
	}

	if err := s.users.UpdateFields(ctx, user.ID, domain.UserUpdate{
		ResetToken:          &token,
		ResetTokenExpiresAt: &expiresAt,
	}); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	link := fmt.Sprintf("%s/#/reset-password?id=%d&token=%s", s.appBaseURL, user.ID, token)
	messageID, err := s.mailer.Send(ctx, domain.MailRequest{
		Recipient: user.Email,
		Link:      link,
		Subject:   "Reset your password",
		Message:   "Follow this link to reset your password",
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}
	if messageID == "" {
		return fmt.Errorf("%w: no message id returned", domain.ErrDeliveryFailed)
	}

	slog.Info("password reset mail dispatched", "user_id", user.ID, "message_id", messageID)
	return nil
}

// ResetPassword consumes a reset token: on success the new password hash is
// set and the token pair is cleared in the same update, so the token cannot
// be replayed.
func (s *AuthService) ResetPassword(ctx context.Context, userID int64, token, newPassword string) error {
	if userID == 0 || token == "" || newPassword == "" {
		return fmt.Errorf("%w: user id, token, and new password are required", domain.ErrInvalidInput)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("get user: %w", err)
	}

	if user.ResetToken == "" || user.ResetToken != token {
		slog.Info("reset token rejected", "cause", "stored token mismatch", "user_id", userID)
		return fmt.Errorf("%w: invalid reset token", domain.ErrUnauthorized)
	}
	if user.ResetTokenExpiresAt == nil || time.Now().After(*user.ResetTokenExpiresAt) {
		slog.Info("reset token rejected", "cause", "expired", "user_id", userID)
		return domain.ErrTokenExpired
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	empty := ""
	if err := s.users.UpdateFields(ctx, userID, domain.UserUpdate{
		PasswordHash: &hash,
		ResetToken:   &empty,
	}); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by their ID.
func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// VerifyAccessToken validates an access token and returns the user id.
// Used by the request gate.
func (s *AuthService) VerifyAccessToken(token string) (int64, error) {
	return s.tokens.VerifyAccessToken(token)
}

func (s *AuthService) issueAndStorePair(ctx context.Context, user *domain.User) (*TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	if err := s.users.UpdateFields(ctx, user.ID, domain.UserUpdate{RefreshToken: &refresh}); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	user.RefreshToken = refresh

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
