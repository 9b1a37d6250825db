package auth

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	encoded, err := HashPassword("geheim123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !strings.HasPrefix(encoded, "pbkdf2$") {
		t.Errorf("unexpected encoding %q", encoded)
	}

	if !VerifyPassword("geheim123", encoded) {
		t.Error("correct password should verify")
	}
	if VerifyPassword("falsch", encoded) {
		t.Error("wrong password must not verify")
	}
}

func TestHashIsSalted(t *testing.T) {
	first, err := HashPassword("geheim123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	second, err := HashPassword("geheim123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password should differ through the salt")
	}
}

func TestHashEmptyPassword(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Error("empty password should be rejected")
	}
}

func TestVerifyMalformed(t *testing.T) {
	malformed := []string{
		"",
		"geheim123",
		"pbkdf2$abc$salt$hash",
		"pbkdf2$0$c2FsdA==$aGFzaA==",
		"bcrypt$10$c2FsdA==$aGFzaA==",
		"pbkdf2$100000$not-base64!$aGFzaA==",
	}
	for _, encoded := range malformed {
		if VerifyPassword("geheim123", encoded) {
			t.Errorf("malformed encoding %q must not verify", encoded)
		}
	}
}
