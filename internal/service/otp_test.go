package service

import (
	"testing"
	"time"

	"opsvault/internal/entity"
	"opsvault/internal/utils"
)

func pendingOTPUser(code string, expiresAt time.Time) *entity.User {
	hash := utils.HashToken(code)
	return &entity.User{OTPCodeHash: &hash, OTPExpiresAt: &expiresAt}
}

func TestOTPGenerateFormat(t *testing.T) {
	t.Parallel()

	engine := OTPEngine{}
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := engine.Generate()
		if err != nil {
			t.Fatalf("Generate error: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("non-numeric code %q", code)
			}
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Fatal("expected varying codes across 200 draws")
	}
}

func TestOTPValidateOutcomes(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: now}
	engine := OTPEngine{Clock: clock}

	tests := []struct {
		name      string
		user      *entity.User
		submitted string
		want      OTPOutcome
	}{
		{"ok", pendingOTPUser("123456", now.Add(time.Minute)), "123456", OTPOk},
		{"mismatch", pendingOTPUser("123456", now.Add(time.Minute)), "654321", OTPMismatch},
		{"expired even when matching", pendingOTPUser("123456", now.Add(-time.Second)), "123456", OTPExpired},
		{"expiry boundary", pendingOTPUser("123456", now), "123456", OTPExpired},
		{"not requested", &entity.User{}, "123456", OTPNotRequested},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := engine.Validate(tt.user, tt.submitted); got != tt.want {
				t.Fatalf("Validate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOTPValidateAfterConsumption(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Now()}
	engine := OTPEngine{Clock: clock}

	user := pendingOTPUser("123456", clock.now.Add(time.Minute))
	if got := engine.Validate(user, "123456"); got != OTPOk {
		t.Fatalf("first validation = %v, want OTPOk", got)
	}

	// Consuming clears the pair; a replay of the same correct code no
	// longer finds an outstanding request.
	user.OTPCodeHash = nil
	user.OTPExpiresAt = nil
	if got := engine.Validate(user, "123456"); got != OTPNotRequested {
		t.Fatalf("replayed validation = %v, want OTPNotRequested", got)
	}
}

func TestOTPIssueUsesConfiguredTTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	engine := OTPEngine{TTL: 5 * time.Minute, Clock: &fakeClock{now: now}}

	hash, expiresAt := engine.Issue("123456")
	if hash != utils.HashToken("123456") {
		t.Fatal("stored hash must be the digest of the code")
	}
	if !expiresAt.Equal(now.Add(5 * time.Minute)) {
		t.Fatalf("expiry = %v, want %v", expiresAt, now.Add(5*time.Minute))
	}
}

func TestResetTokenEngine(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: now}
	engine := ResetTokenEngine{Clock: clock}

	token, err := engine.Generate()
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	// 32 bytes of entropy, base64url without padding.
	if len(token) != 43 {
		t.Fatalf("token length = %d, want 43", len(token))
	}

	hash, expiresAt := engine.Issue(token)
	if hash != utils.HashToken(token) {
		t.Fatal("stored hash must be the digest of the token")
	}
	if !expiresAt.Equal(now.Add(60 * time.Minute)) {
		t.Fatalf("expiry = %v, want now+60m", expiresAt)
	}

	user := &entity.User{ResetTokenHash: &hash, ResetTokenExpiresAt: &expiresAt}
	if engine.Expired(user) {
		t.Fatal("fresh token must not be expired")
	}
	clock.Advance(61 * time.Minute)
	if !engine.Expired(user) {
		t.Fatal("token must expire after its TTL")
	}
	if !engine.Expired(&entity.User{}) {
		t.Fatal("absent reset state counts as expired")
	}
}
