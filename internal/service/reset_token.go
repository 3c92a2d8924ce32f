package service

import (
	"time"

	"opsvault/internal/entity"
	"opsvault/internal/utils"
)

// ResetTokenEngine issues the opaque password-reset tokens. Tokens carry 256
// bits of entropy; the store only ever sees the digest, and lookup is by
// digest since the requester holds nothing but the token itself.
type ResetTokenEngine struct {
	TTL   time.Duration
	Clock Clock
}

func (e ResetTokenEngine) Generate() (string, error) {
	return utils.GenerateRandomToken(32)
}

// Issue returns the storable form of a token: its digest and expiry.
func (e ResetTokenEngine) Issue(token string) (string, time.Time) {
	return utils.HashToken(token), e.now().Add(e.ttl())
}

// Expired reports whether the user's outstanding reset token, if any, is no
// longer valid.
func (e ResetTokenEngine) Expired(user *entity.User) bool {
	if !user.HasPendingReset() {
		return true
	}
	return !e.now().Before(*user.ResetTokenExpiresAt)
}

func (e ResetTokenEngine) ttl() time.Duration {
	if e.TTL > 0 {
		return e.TTL
	}
	return 60 * time.Minute
}

func (e ResetTokenEngine) now() time.Time {
	if e.Clock == nil {
		return time.Now()
	}
	return e.Clock.Now()
}
