package service_test

import (
	"testing"

	"github.com/msomdec/account-api/internal/service"
)

func TestPasswordHasher_RoundTrip(t *testing.T) {
	hasher := service.NewPasswordHasher(4)

	digest, err := hasher.Hash("p1")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if digest == "p1" {
		t.Fatal("digest must not equal the plaintext")
	}

	if !hasher.Verify("p1", digest) {
		t.Fatal("expected matching plaintext to verify")
	}
	if hasher.Verify("p2", digest) {
		t.Fatal("expected non-matching plaintext to fail")
	}
}

func TestPasswordHasher_SaltedDigests(t *testing.T) {
	hasher := service.NewPasswordHasher(4)

	first, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	second, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	if first == second {
		t.Fatal("expected salted digests to differ between calls")
	}
}
