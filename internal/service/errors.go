package service

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrEmailAlreadyRegistered = errors.New("email already in use")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrAccountInactive        = errors.New("account is deactivated")
	ErrAlreadyVerified        = errors.New("account already verified")
	ErrCodeNotRequested       = errors.New("verification code missing, request a new one")
	ErrCodeInvalidOrExpired   = errors.New("code invalid or expired")
	ErrTokenInvalidOrExpired  = errors.New("token invalid or expired")
	ErrUserNotFound           = errors.New("account not found")
)
