package domain

import (
	"context"
	"time"
)

// User represents a registered account holder.
//
// RefreshToken is a single-slot session credential: issuing a new one
// invalidates the previous one implicitly. ResetToken and
// ResetTokenExpiresAt travel as a pair and are cleared together when a
// password reset completes.
type User struct {
	ID                  int64
	Username            string
	Email               string
	FullName            string
	PasswordHash        string
	AvatarURL           string
	CoverImageURL       string
	RefreshToken        string
	ResetToken          string
	ResetTokenExpiresAt *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// UserUpdate describes a partial update of a user record.
// Nil fields are left untouched. Pointing a string field at the empty
// string clears the stored value (used for the token slots).
type UserUpdate struct {
	Username            *string
	Email               *string
	FullName            *string
	PasswordHash        *string
	AvatarURL           *string
	CoverImageURL       *string
	RefreshToken        *string
	ResetToken          *string
	ResetTokenExpiresAt *time.Time
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// ExistsByUsernameOrEmail reports whether any user other than excludeID
	// already holds the given username or email. Pass 0 to check all users.
	ExistsByUsernameOrEmail(ctx context.Context, username, email string, excludeID int64) (bool, error)
	// UpdateFields applies a partial update in a single statement.
	UpdateFields(ctx context.Context, id int64, update UserUpdate) error
}
