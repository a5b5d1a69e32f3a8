package handler_test

import (
	"net/http"
	"testing"
)

func TestHandleHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	envelope := decodeEnvelope(t, resp)
	if envelope["status"] != "ok" {
		t.Fatalf("expected status ok, got %v", envelope)
	}
}
