// Package config holds runtime settings for the account API server.
// Defaults are applied first, then environment overrides. The resulting
// Config object is passed explicitly into every constructor that needs
// it; nothing below main reads the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds runtime settings for the server.
//
// Fields:
//   - Addr: HTTP bind address.
//   - DatabasePath: SQLite database file path.
//   - AccessTokenSecret / RefreshTokenSecret: HMAC secrets (HS256). Must
//     differ and be at least 32 bytes.
//   - AccessTokenTTL / RefreshTokenTTL: signed token lifetimes.
//   - ResetTokenTTL: validity window for password-reset tokens.
//   - BcryptCost: work factor for password hashing.
//   - CookieSecure: whether auth cookies carry the Secure flag.
//   - AppBaseURL: public base URL used in password-reset links.
//   - SMTP*: outbound mail transport settings.
//   - S3*: object storage settings for uploaded media (S3-compatible).
type Config struct {
	Addr               string
	DatabasePath       string
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	ResetTokenTTL      time.Duration
	BcryptCost         int
	CookieSecure       bool
	AppBaseURL         string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPSender   string

	S3Endpoint      string
	S3Region        string
	S3AccessKey     string
	S3SecretKey     string
	S3Bucket        string
	S3PublicBaseURL string
}

// LoadDefaults populates Config with development defaults.
// Secrets have no defaults and must come from the environment.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.DatabasePath = "account-api.db"
	c.AccessTokenTTL = 15 * time.Minute
	c.RefreshTokenTTL = 7 * 24 * time.Hour
	c.ResetTokenTTL = time.Hour
	c.BcryptCost = 12
	c.CookieSecure = true
	c.AppBaseURL = "http://localhost:8080"
	c.SMTPPort = 587
	c.S3Region = "us-east-1"
	c.S3Bucket = "account-media"
}

// Load builds a Config by applying defaults and overlaying environment
// variables, then validating the result.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := cfg.parseEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) parseEnv() error {
	setString(&c.Addr, "ADDR")
	setString(&c.DatabasePath, "DATABASE_PATH")
	setString(&c.AccessTokenSecret, "ACCESS_TOKEN_SECRET")
	setString(&c.RefreshTokenSecret, "REFRESH_TOKEN_SECRET")
	setString(&c.AppBaseURL, "APP_BASE_URL")
	setString(&c.SMTPHost, "SMTP_HOST")
	setString(&c.SMTPUsername, "SMTP_USERNAME")
	setString(&c.SMTPPassword, "SMTP_PASSWORD")
	setString(&c.SMTPSender, "SMTP_SENDER")
	setString(&c.S3Endpoint, "S3_ENDPOINT")
	setString(&c.S3Region, "S3_REGION")
	setString(&c.S3AccessKey, "S3_ACCESS_KEY")
	setString(&c.S3SecretKey, "S3_SECRET_KEY")
	setString(&c.S3Bucket, "S3_BUCKET")
	setString(&c.S3PublicBaseURL, "S3_PUBLIC_BASE_URL")

	if err := setInt(&c.SMTPPort, "SMTP_PORT"); err != nil {
		return err
	}
	if err := setInt(&c.BcryptCost, "BCRYPT_COST"); err != nil {
		return err
	}
	if err := setDuration(&c.AccessTokenTTL, "ACCESS_TOKEN_TTL"); err != nil {
		return err
	}
	if err := setDuration(&c.RefreshTokenTTL, "REFRESH_TOKEN_TTL"); err != nil {
		return err
	}
	if err := setDuration(&c.ResetTokenTTL, "RESET_TOKEN_TTL"); err != nil {
		return err
	}

	// Default to secure cookies; disable only for local development.
	if os.Getenv("COOKIE_SECURE") == "false" {
		c.CookieSecure = false
	}
	return nil
}

// Validate rejects configurations that cannot run safely.
func (c *Config) Validate() error {
	if len(c.AccessTokenSecret) < 32 {
		return errors.New("ACCESS_TOKEN_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}
	if len(c.RefreshTokenSecret) < 32 {
		return errors.New("REFRESH_TOKEN_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return errors.New("access and refresh token secrets must differ")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = parsed
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = parsed
	return nil
}
