package security_test

import (
	"testing"

	"github.com/geocoder89/contactbook/internal/security"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := security.HashPassword("pw1")

	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if hash == "pw1" {
		t.Fatalf("hash must not equal the plaintext")
	}

	if err := security.CheckPassword(hash, "pw1"); err != nil {
		t.Fatalf("expected matching password to verify, got %v", err)
	}

	if err := security.CheckPassword(hash, "wrong"); err == nil {
		t.Fatalf("expected mismatched password to fail verification")
	}
}

func TestHashPassword_DistinctSalts(t *testing.T) {
	h1, err := security.HashPassword("same-input")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	h2, err := security.HashPassword("same-input")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	// bcrypt salts per call, so two hashes of one input differ
	if h1 == h2 {
		t.Fatalf("expected distinct hashes for the same input")
	}
}
