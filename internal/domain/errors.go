package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateUser  = errors.New("username or email already exists")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrUploadFailed   = errors.New("media upload failed")
	ErrDeliveryFailed = errors.New("mail delivery failed")

	// Token verification failures are normalized to 401 at the boundary but
	// stay distinguishable in logs, so both wrap ErrUnauthorized.
	ErrTokenExpired   = fmt.Errorf("%w: token expired", ErrUnauthorized)
	ErrTokenMalformed = fmt.Errorf("%w: token malformed", ErrUnauthorized)
)
