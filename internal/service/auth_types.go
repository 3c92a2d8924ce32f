package service

import (
	"time"

	"opsvault/internal/entity"

	"golang.org/x/crypto/bcrypt"
)

type AuthConfig struct {
	SessionTokenTTL time.Duration
	OTPTTL          time.Duration
	ResetTokenTTL   time.Duration
}

// Notifier is the fire-and-forget email collaborator. Implementations must
// never surface delivery failures to the caller; the account state
// transition succeeds or fails independently of mail.
type Notifier interface {
	NotifyOTP(email string, name string, code string, isRegistration bool)
	NotifyPasswordReset(email string, name string, token string)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

type SessionTokenIssuer interface {
	IssueSessionToken(user entity.User) (string, time.Duration, error)
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

type BcryptPasswordHasher struct {
	Cost int
}

func (h BcryptPasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify returns false for any mismatch, including malformed stored hashes.
func (h BcryptPasswordHasher) Verify(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
