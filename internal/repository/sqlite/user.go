package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/msomdec/account-api/internal/domain"
)

const userColumns = `id, username, email, full_name, password_hash, avatar_url,
	cover_image_url, refresh_token, reset_token, reset_token_expires_at,
	created_at, updated_at`

// UserRepository implements domain.UserRepository using SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite-backed UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.SqlDB}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, email, full_name, password_hash, avatar_url, cover_image_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Username, user.Email, user.FullName, user.PasswordHash,
		user.AvatarURL, user.CoverImageURL, now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateUser
		}
		return fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getBy(ctx, "id = ?", id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getBy(ctx, "username = ?", username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, "email = ?", email)
}

func (r *UserRepository) getBy(ctx context.Context, cond string, arg any) (*domain.User, error) {
	user := &domain.User{}
	var refreshToken, resetToken sql.NullString
	var resetExpires sql.NullTime

	err := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+cond, arg,
	).Scan(
		&user.ID, &user.Username, &user.Email, &user.FullName,
		&user.PasswordHash, &user.AvatarURL, &user.CoverImageURL,
		&refreshToken, &resetToken, &resetExpires,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	user.RefreshToken = refreshToken.String
	user.ResetToken = resetToken.String
	if resetExpires.Valid {
		t := resetExpires.Time
		user.ResetTokenExpiresAt = &t
	}
	return user, nil
}

func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string, excludeID int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE (username = ? OR email = ?) AND id != ?",
		username, email, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return count > 0, nil
}

// UpdateFields applies the non-nil fields of update in a single UPDATE
// statement. Token fields pointed at the empty string are stored as NULL;
// clearing the reset token also clears its expiry.
func (r *UserRepository) UpdateFields(ctx context.Context, id int64, update domain.UserUpdate) error {
	var sets []string
	var args []any

	add := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if update.Username != nil {
		add("username", *update.Username)
	}
	if update.Email != nil {
		add("email", *update.Email)
	}
	if update.FullName != nil {
		add("full_name", *update.FullName)
	}
	if update.PasswordHash != nil {
		add("password_hash", *update.PasswordHash)
	}
	if update.AvatarURL != nil {
		add("avatar_url", *update.AvatarURL)
	}
	if update.CoverImageURL != nil {
		add("cover_image_url", *update.CoverImageURL)
	}
	if update.RefreshToken != nil {
		add("refresh_token", nullable(*update.RefreshToken))
	}
	if update.ResetToken != nil {
		add("reset_token", nullable(*update.ResetToken))
		if *update.ResetToken == "" {
			add("reset_token_expires_at", nil)
		}
	}
	if update.ResetTokenExpiresAt != nil {
		add("reset_token_expires_at", update.ResetTokenExpiresAt.UTC())
	}

	if len(sets) == 0 {
		return fmt.Errorf("%w: no fields to update", domain.ErrInvalidInput)
	}

	add("updated_at", time.Now().UTC())
	args = append(args, id)

	result, err := r.db.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateUser
		}
		return fmt.Errorf("update user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// isUniqueConstraintError checks if the error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
