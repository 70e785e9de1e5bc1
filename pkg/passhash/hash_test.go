package passhash

import (
	"errors"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	h, err := Hash("s3cret-password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if h == "s3cret-password" {
		t.Fatal("hash must not equal the plaintext")
	}
	if err := Verify("s3cret-password", h); err != nil {
		t.Fatalf("Verify with correct password: %v", err)
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	h, err := Hash("correct horse")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if err := Verify("battery staple", h); !errors.Is(err, ErrMismatch) {
		t.Fatalf("want ErrMismatch, got %v", err)
	}
}

func TestHash_Salted(t *testing.T) {
	h1, err := Hash("same input")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	h2, err := Hash("same input")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if h1 == h2 {
		t.Fatal("bcrypt hashes must be salted, identical output is a bug")
	}
}
