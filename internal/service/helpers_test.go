package service_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/msomdec/account-api/internal/config"
	"github.com/msomdec/account-api/internal/domain"
	"github.com/msomdec/account-api/internal/repository/sqlite"
	"github.com/msomdec/account-api/internal/service"
)

const (
	testAccessSecret  = "access-secret-for-unit-tests-0123456789"
	testRefreshSecret = "refresh-secret-for-unit-tests-012345678"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.AccessTokenSecret = testAccessSecret
	cfg.RefreshTokenSecret = testRefreshSecret
	// Use cost 4 for fast tests.
	cfg.BcryptCost = 4
	cfg.AppBaseURL = "https://app.example.com"
	return cfg
}

// fakeMediaStore implements domain.MediaStore in memory.
type fakeMediaStore struct {
	fail    bool
	uploads []string
}

func (f *fakeMediaStore) Upload(ctx context.Context, localPath string) (string, error) {
	if f.fail {
		return "", errors.New("upload rejected")
	}
	f.uploads = append(f.uploads, localPath)
	return "https://media.example.com/" + filepath.Base(localPath), nil
}

// fakeMailer implements domain.Mailer in memory.
type fakeMailer struct {
	fail      bool
	noMessage bool
	sent      []domain.MailRequest
}

func (f *fakeMailer) Send(ctx context.Context, req domain.MailRequest) (string, error) {
	if f.fail {
		return "", errors.New("smtp unreachable")
	}
	if f.noMessage {
		return "", nil
	}
	f.sent = append(f.sent, req)
	return fmt.Sprintf("<msg-%d@mail.example.com>", len(f.sent)), nil
}

type testEnv struct {
	auth    *service.AuthService
	account *service.AccountService
	tokens  *service.TokenIssuer
	users   domain.UserRepository
	media   *fakeMediaStore
	mailer  *fakeMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := testConfig()
	tokens := service.NewTokenIssuer(cfg)
	hasher := service.NewPasswordHasher(cfg.BcryptCost)
	media := &fakeMediaStore{}
	mailer := &fakeMailer{}
	users := db.Users()

	return &testEnv{
		auth:    service.NewAuthService(users, tokens, hasher, media, mailer, cfg.AppBaseURL),
		account: service.NewAccountService(users, media),
		tokens:  tokens,
		users:   users,
		media:   media,
		mailer:  mailer,
	}
}

func registerTestUser(t *testing.T, env *testEnv, username, email, password string) *domain.User {
	t.Helper()
	user, err := env.auth.Register(context.Background(), service.RegisterInput{
		FullName:   "Test User",
		Username:   username,
		Email:      email,
		Password:   password,
		AvatarPath: "/tmp/avatar.png",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return user
}

func setResetExpiry(t *testing.T, env *testEnv, userID int64, at time.Time) {
	t.Helper()
	if err := env.users.UpdateFields(context.Background(), userID, domain.UserUpdate{
		ResetTokenExpiresAt: &at,
	}); err != nil {
		t.Fatalf("set reset expiry: %v", err)
	}
}
