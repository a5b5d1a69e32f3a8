package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/msomdec/account-api/internal/config"
	"github.com/msomdec/account-api/internal/domain"
	"github.com/msomdec/account-api/internal/handler"
	"github.com/msomdec/account-api/internal/repository/sqlite"
	"github.com/msomdec/account-api/internal/service"
)

const (
	testAccessSecret  = "access-secret-for-handler-tests-0123456"
	testRefreshSecret = "refresh-secret-for-handler-tests-012345"
)

// fakeMediaStore implements domain.MediaStore in memory.
type fakeMediaStore struct {
	fail bool
}

func (f *fakeMediaStore) Upload(ctx context.Context, localPath string) (string, error) {
	if f.fail {
		return "", errors.New("upload rejected")
	}
	return "https://media.example.com/" + filepath.Base(localPath), nil
}

// fakeMailer implements domain.Mailer in memory.
type fakeMailer struct {
	sent []domain.MailRequest
}

func (f *fakeMailer) Send(ctx context.Context, req domain.MailRequest) (string, error) {
	f.sent = append(f.sent, req)
	return fmt.Sprintf("<msg-%d@mail.example.com>", len(f.sent)), nil
}

type testServer struct {
	srv    *httptest.Server
	auth   *service.AuthService
	users  domain.UserRepository
	mailer *fakeMailer
	media  *fakeMediaStore
}

func newTestServer(t *testing.T) *testServer {
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

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.AccessTokenSecret = testAccessSecret
	cfg.RefreshTokenSecret = testRefreshSecret
	// Use cost 4 for fast tests.
	cfg.BcryptCost = 4

	tokens := service.NewTokenIssuer(cfg)
	hasher := service.NewPasswordHasher(cfg.BcryptCost)
	media := &fakeMediaStore{}
	mail := &fakeMailer{}
	users := db.Users()
	auth := service.NewAuthService(users, tokens, hasher, media, mail, cfg.AppBaseURL)
	account := service.NewAccountService(users, media)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, auth, account, handler.CookieOptions{
		Secure:        false,
		AccessMaxAge:  cfg.AccessTokenTTL,
		RefreshMaxAge: cfg.RefreshTokenTTL,
	})

	srv := httptest.NewServer(handler.SecurityHeaders(mux))
	t.Cleanup(srv.Close)

	return &testServer{srv: srv, auth: auth, users: users, mailer: mail, media: media}
}

// multipartBody builds a multipart form with the given text fields and
// fake image files (field name -> filename).
func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	for name, filename := range files {
		fw, err := mw.CreateFormFile(name, filename)
		if err != nil {
			t.Fatalf("create form file %s: %v", name, err)
		}
		if _, err := fw.Write([]byte("fake image bytes")); err != nil {
			t.Fatalf("write form file %s: %v", name, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return buf, mw.FormDataContentType()
}

func registerAlice(t *testing.T, ts *testServer) {
	t.Helper()
	body, contentType := multipartBody(t,
		map[string]string{
			"fullName": "Alice A",
			"username": "alice",
			"email":    "a@x.com",
			"password": "p1",
		},
		map[string]string{"avatar": "avatar.png"},
	)

	resp, err := http.Post(ts.srv.URL+"/api/v1/users/register", contentType, body)
	if err != nil {
		t.Fatalf("POST register: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("register: expected 201, got %d: %s", resp.StatusCode, raw)
	}
}

// loginAlice logs in and returns the response cookies.
func loginAlice(t *testing.T, ts *testServer) []*http.Cookie {
	t.Helper()
	resp := postJSON(t, ts, "/api/v1/users/login", map[string]string{
		"username": "alice",
		"password": "p1",
	}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("login: expected 200, got %d: %s", resp.StatusCode, raw)
	}
	return resp.Cookies()
}

func postJSON(t *testing.T, ts *testServer, path string, body any, cookies []*http.Cookie) *http.Response {
	return doJSON(t, ts, http.MethodPost, path, body, cookies)
}

func patchJSON(t *testing.T, ts *testServer, path string, body any, cookies []*http.Cookie) *http.Response {
	return doJSON(t, ts, http.MethodPatch, path, body, cookies)
}

func doJSON(t *testing.T, ts *testServer, method, path string, body any, cookies []*http.Cookie) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.srv.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var envelope map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return envelope
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func aliceID(t *testing.T, ts *testServer) int64 {
	t.Helper()
	user, err := ts.users.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	return user.ID
}
