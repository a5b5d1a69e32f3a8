package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/msomdec/account-api/internal/config"
	"github.com/msomdec/account-api/internal/domain"
)

// TokenIssuer creates and validates the three credential kinds: short-lived
// access tokens, longer-lived refresh tokens (both signed JWTs), and opaque
// single-use password-reset tokens with an expiry.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	resetTTL      time.Duration
}

// NewTokenIssuer creates a TokenIssuer from the given configuration.
func NewTokenIssuer(cfg *config.Config) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
		resetTTL:      cfg.ResetTokenTTL,
	}
}

// AccessTokenTTL reports the configured access token lifetime.
func (t *TokenIssuer) AccessTokenTTL() time.Duration { return t.accessTTL }

// RefreshTokenTTL reports the configured refresh token lifetime.
func (t *TokenIssuer) RefreshTokenTTL() time.Duration { return t.refreshTTL }

// IssueAccessToken signs a short-lived access token for the user.
func (t *TokenIssuer) IssueAccessToken(userID int64) (string, error) {
	return signToken(userID, t.accessSecret, t.accessTTL)
}

// IssueRefreshToken signs a longer-lived refresh token for the user.
func (t *TokenIssuer) IssueRefreshToken(userID int64) (string, error) {
	return signToken(userID, t.refreshSecret, t.refreshTTL)
}

// VerifyAccessToken checks signature and expiry of an access token and
// returns the user id it was issued for.
func (t *TokenIssuer) VerifyAccessToken(token string) (int64, error) {
	return verifyToken(token, t.accessSecret)
}

// VerifyRefreshToken checks signature and expiry of a refresh token and
// returns the user id it was issued for.
func (t *TokenIssuer) VerifyRefreshToken(token string) (int64, error) {
	return verifyToken(token, t.refreshSecret)
}

// NewResetToken mints an opaque single-use password-reset token together
// with its expiry timestamp. The token carries no claims; it is honored
// only by exact match against the stored value.
func (t *TokenIssuer) NewResetToken() (string, time.Time, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", time.Time{}, fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(b), time.Now().Add(t.resetTTL).UTC(), nil
}

// signToken includes a random jti so two tokens issued for the same user
// in the same second still differ; rotation depends on that.
func signToken(userID int64, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// verifyToken validates signature and expiry, distinguishing expired from
// malformed tokens so callers can log the cause before normalizing to 401.
func verifyToken(tokenString string, secret []byte) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, domain.ErrTokenExpired
		}
		return 0, domain.ErrTokenMalformed
	}
	if !token.Valid {
		return 0, domain.ErrTokenMalformed
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, domain.ErrTokenMalformed
	}
	return userID, nil
}
