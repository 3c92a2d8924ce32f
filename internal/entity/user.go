package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

type User struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	FirstName  string `gorm:"type:varchar(80);not null;default:''"`
	MiddleName string `gorm:"type:varchar(80);not null;default:''"`
	LastName   string `gorm:"type:varchar(80);not null;default:''"`
	Suffix     string `gorm:"type:varchar(30)"`
	Name       string `gorm:"type:varchar(120)"`

	Email        string   `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string   `gorm:"type:text;not null"`
	Role         UserRole `gorm:"type:varchar(20);default:'user';not null"`

	IsActive   bool `gorm:"default:true"`
	IsVerified bool `gorm:"default:false"`

	// Outstanding OTP, if any. Both columns are set and cleared together.
	OTPCodeHash  *string `gorm:"type:text"`
	OTPExpiresAt *time.Time

	// Outstanding password-reset token, if any. Same pairing rule.
	ResetTokenHash      *string `gorm:"type:text;index"`
	ResetTokenExpiresAt *time.Time

	LastLoginAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ComposeName builds the display name stored alongside the name parts, the
// suffix joined with a comma: "Jane Q Doe, Jr".
func ComposeName(first, middle, last, suffix string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{first, middle, last} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	name := strings.Join(parts, " ")
	if trimmed := strings.TrimSpace(suffix); trimmed != "" {
		name = name + ", " + trimmed
	}
	if name == "" {
		return "User"
	}
	return name
}

func (u *User) HasPendingOTP() bool {
	return u.OTPCodeHash != nil && u.OTPExpiresAt != nil
}

func (u *User) HasPendingReset() bool {
	return u.ResetTokenHash != nil && u.ResetTokenExpiresAt != nil
}
