package service

import "opsvault/internal/entity"

type RegisterInput struct {
	FirstName  string
	MiddleName string
	LastName   string
	Suffix     string
	Email      string
	Password   string
	Role       string
}

type RegisterResult struct {
	Email string
}

type LoginInput struct {
	Email    string
	Password string
}

// LoginResult either carries a session token or signals that verification is
// required; never both. A verification-required login re-issues the OTP and
// echoes the account email so the caller can route to the verify step.
type LoginResult struct {
	Token     string
	ExpiresIn int64
	User      *entity.User

	VerificationRequired bool
	Email                string
}

type VerifyOTPInput struct {
	Email string
	Code  string
}

type VerifyOTPResult struct {
	Token     string
	ExpiresIn int64
	User      *entity.User
}

type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

type UpdateProfileInput struct {
	FirstName  *string
	MiddleName *string
	LastName   *string
	Suffix     *string
}
