package auth

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if hash == "secret123" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !VerifyPassword("secret123", hash) {
		t.Error("expected correct password to verify")
	}
	if VerifyPassword("wrongpass", hash) {
		t.Error("expected wrong password to fail verification")
	}
}

func TestVerifyPassword_InvalidHash(t *testing.T) {
	if VerifyPassword("secret123", "not-a-bcrypt-hash") {
		t.Error("expected verification against garbage hash to fail")
	}
}
