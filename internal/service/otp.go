package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"opsvault/internal/entity"
	"opsvault/internal/utils"
)

type OTPOutcome int

const (
	OTPOk OTPOutcome = iota
	OTPExpired
	OTPMismatch
	OTPNotRequested
)

var otpSpace = big.NewInt(1000000)

// OTPEngine issues and validates the 6-digit email verification codes.
// Codes live on the user row as a sha256 digest plus expiry; issuing a new
// code always supersedes the previous one.
type OTPEngine struct {
	TTL   time.Duration
	Clock Clock
}

// Generate draws a code uniformly from 000000-999999.
func (e OTPEngine) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Issue returns the storable form of a code: its digest and expiry.
func (e OTPEngine) Issue(code string) (string, time.Time) {
	return utils.HashToken(code), e.now().Add(e.ttl())
}

func (e OTPEngine) Validate(user *entity.User, submitted string) OTPOutcome {
	if !user.HasPendingOTP() {
		return OTPNotRequested
	}
	if !utils.HashEquals(*user.OTPCodeHash, utils.HashToken(submitted)) {
		return OTPMismatch
	}
	if !e.now().Before(*user.OTPExpiresAt) {
		return OTPExpired
	}
	return OTPOk
}

func (e OTPEngine) ttl() time.Duration {
	if e.TTL > 0 {
		return e.TTL
	}
	return 15 * time.Minute
}

func (e OTPEngine) now() time.Time {
	if e.Clock == nil {
		return time.Now()
	}
	return e.Clock.Now()
}
