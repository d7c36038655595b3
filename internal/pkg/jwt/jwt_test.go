package jwt

import (
	"testing"
	"time"
)

func TestGenerateAndParse(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateToken(42, "Jo Soap", "jo@example.com", "Volunteer", secret, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ParseToken(token, secret)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 || claims.FullName != "Jo Soap" || claims.Email != "jo@example.com" || claims.Role != "Volunteer" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseWrongSecret(t *testing.T) {
	token, err := GenerateToken(1, "A", "a@x.com", "User", []byte("right"), time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseToken(token, []byte("wrong")); err == nil {
		t.Fatal("parse accepted a token signed with another secret")
	}
}

func TestParseExpired(t *testing.T) {
	token, err := GenerateToken(1, "A", "a@x.com", "User", []byte("s"), -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseToken(token, []byte("s")); err == nil {
		t.Fatal("parse accepted an expired token")
	}
}
