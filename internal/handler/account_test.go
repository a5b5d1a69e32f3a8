package handler_test

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestHandleUpdateAccount(t *testing.T) {
	ts := newTestServer(t)
	registerAlice(t, ts)
	cookies := loginAlice(t, ts)

	resp := patchJSON(t, ts, "/api/v1/users/update-account", map[string]string{
		"fullName": "Alice B",
	}, cookies)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	envelope := decodeEnvelope(t, resp)
	data := envelope["data"].(map[string]any)
	user := data["user"].(map[string]any)
	if user["fullName"] != "Alice B" {
		t.Fatalf("expected updated full name, got %v", user["fullName"])
	}
	if user["username"] != "alice" {
		t.Fatalf("expected untouched username, got %v", user["username"])
	}
}

func TestHandleUpdateAccount_NoFields(t *testing.T) {
	ts := newTestServer(t)
	registerAlice(t, ts)
	cookies := loginAlice(t, ts)

	resp := patchJSON(t, ts, "/api/v1/users/update-account", map[string]string{}, cookies)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestHandleUpdateAvatar(t *testing.T) {
	ts := newTestServer(t)
	registerAlice(t, ts)
	cookies := loginAlice(t, ts)

	body, contentType := multipartBody(t, nil, map[string]string{"avatar": "new-avatar.png"})
	req, err := http.NewRequest(http.MethodPatch, ts.srv.URL+"/api/v1/users/avatar", body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", contentType)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PATCH avatar: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, raw)
	}
	if !strings.Contains(string(raw), "media.example.com") || !strings.Contains(string(raw), ".png") {
		t.Fatalf("expected new avatar URL in response, got %s", raw)
	}
}

func TestHandleUpdateAvatar_MissingFile(t *testing.T) {
	ts := newTestServer(t)
	registerAlice(t, ts)
	cookies := loginAlice(t, ts)

	body, contentType := multipartBody(t, map[string]string{"unrelated": "x"}, nil)
	req, err := http.NewRequest(http.MethodPatch, ts.srv.URL+"/api/v1/users/avatar", body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", contentType)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PATCH avatar: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestHandleUpdateCoverImage(t *testing.T) {
	ts := newTestServer(t)
	registerAlice(t, ts)
	cookies := loginAlice(t, ts)

	body, contentType := multipartBody(t, nil, map[string]string{"coverImage": "cover.jpg"})
	req, err := http.NewRequest(http.MethodPatch, ts.srv.URL+"/api/v1/users/cover-image", body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", contentType)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PATCH cover-image: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, raw)
	}
	if !strings.Contains(string(raw), "media.example.com") || !strings.Contains(string(raw), ".jpg") {
		t.Fatalf("expected new cover URL in response, got %s", raw)
	}
}
