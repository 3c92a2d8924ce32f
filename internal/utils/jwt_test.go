package utils

import (
	"testing"
	"time"
)

func TestIssueAndParseSessionToken(t *testing.T) {
	t.Parallel()

	manager := JWTManager{Secret: []byte("super-secret"), Issuer: "opsvault"}

	token, ttl, err := manager.IssueSessionToken("user-123", "admin")
	if err != nil {
		t.Fatalf("IssueSessionToken error: %v", err)
	}
	if ttl != 7*24*time.Hour {
		t.Fatalf("default ttl = %v, want 7 days", ttl)
	}

	claims, err := manager.ParseSessionToken(token)
	if err != nil {
		t.Fatalf("ParseSessionToken error: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Fatalf("user id = %q, want user-123", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Fatalf("role = %q, want admin", claims.Role)
	}
}

func TestParseSessionTokenExpired(t *testing.T) {
	t.Parallel()

	manager := JWTManager{Secret: []byte("secret"), SessionTokenTTL: -time.Minute}
	token, _, err := manager.IssueSessionToken("u1", "user")
	if err != nil {
		t.Fatalf("IssueSessionToken error: %v", err)
	}

	if _, err := manager.ParseSessionToken(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestParseSessionTokenWrongSecret(t *testing.T) {
	t.Parallel()

	issuer := JWTManager{Secret: []byte("right-secret")}
	token, _, err := issuer.IssueSessionToken("u1", "user")
	if err != nil {
		t.Fatalf("IssueSessionToken error: %v", err)
	}

	verifier := JWTManager{Secret: []byte("wrong-secret")}
	if _, err := verifier.ParseSessionToken(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestParseSessionTokenGarbage(t *testing.T) {
	t.Parallel()

	manager := JWTManager{Secret: []byte("secret")}
	for _, input := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := manager.ParseSessionToken(input); err != ErrInvalidToken {
			t.Fatalf("input %q: expected ErrInvalidToken, got %v", input, err)
		}
	}
}
