package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditAction string

const (
	UserRegistered         AuditAction = "USER_REGISTERED"
	UserVerified           AuditAction = "USER_VERIFIED"
	UserLoggedIn           AuditAction = "USER_LOGGED_IN"
	OTPResent              AuditAction = "OTP_RESENT"
	PasswordResetRequested AuditAction = "PASSWORD_RESET_REQUESTED"
	PasswordResetCompleted AuditAction = "PASSWORD_RESET_COMPLETED"
	PasswordChanged        AuditAction = "PASSWORD_CHANGED"
	ProfileUpdated         AuditAction = "PROFILE_UPDATED"
	UserDeactivated        AuditAction = "USER_DEACTIVATED"
)

type AuditLog struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	// Nullable: registration audits before an actor is authenticated.
	UserID *uuid.UUID `gorm:"type:uuid;index"`
	User   *User      `gorm:"constraint:OnDelete:SET NULL"`

	Action      AuditAction `gorm:"type:varchar(120);not null;index"`
	Description string      `gorm:"type:varchar(255)"`
	Metadata    datatypes.JSON
	IPAddress   *string `gorm:"type:varchar(64)"`

	CreatedAt time.Time
}
