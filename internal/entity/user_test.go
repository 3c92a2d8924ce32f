package entity

import (
	"testing"
	"time"
)

func TestComposeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                        string
		first, middle, last, suffix string
		want                        string
	}{
		{"full", "Jane", "Q", "Doe", "Jr", "Jane Q Doe, Jr"},
		{"no middle", "Jane", "", "Doe", "", "Jane Doe"},
		{"whitespace trimmed", " Jane ", "", " Doe ", "", "Jane Doe"},
		{"suffix only trimmed", "Jane", "", "Doe", " III ", "Jane Doe, III"},
		{"all empty", "", "", "", "", "User"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComposeName(tt.first, tt.middle, tt.last, tt.suffix); got != tt.want {
				t.Fatalf("ComposeName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPendingStatePairs(t *testing.T) {
	t.Parallel()

	var user User
	if user.HasPendingOTP() || user.HasPendingReset() {
		t.Fatal("zero user must have no pending state")
	}

	hash := "digest"
	expiry := time.Now()
	user.OTPCodeHash = &hash
	if user.HasPendingOTP() {
		t.Fatal("half-set otp state must not count as pending")
	}
	user.OTPExpiresAt = &expiry
	if !user.HasPendingOTP() {
		t.Fatal("expected pending otp")
	}

	user.ResetTokenHash = &hash
	if user.HasPendingReset() {
		t.Fatal("half-set reset state must not count as pending")
	}
	user.ResetTokenExpiresAt = &expiry
	if !user.HasPendingReset() {
		t.Fatal("expected pending reset")
	}
}
