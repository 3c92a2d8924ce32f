package dto

import (
	"time"

	"opsvault/internal/entity"
)

type RegisterRequest struct {
	FirstName  string `json:"first_name" validate:"required"`
	MiddleName string `json:"middle_name" validate:"omitempty"`
	LastName   string `json:"last_name" validate:"required"`
	Suffix     string `json:"suffix" validate:"omitempty,max=30"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Role       string `json:"role" validate:"omitempty,oneof=admin user"`
}

type RegisterResponse struct {
	RequiresVerification bool   `json:"requires_verification"`
	Email                string `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type SessionResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expires_in"`
	User      UserResponse `json:"user"`
}

type VerificationRequiredResponse struct {
	Message              string `json:"message"`
	RequiresVerification bool   `json:"requires_verification"`
	Email                string `json:"email"`
}

type PasswordForgotRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

type ProfileUpdateRequest struct {
	FirstName  *string `json:"first_name" validate:"omitempty,min=1"`
	MiddleName *string `json:"middle_name" validate:"omitempty"`
	LastName   *string `json:"last_name" validate:"omitempty,min=1"`
	Suffix     *string `json:"suffix" validate:"omitempty,max=30"`
}

type UserResponse struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"first_name"`
	MiddleName  string     `json:"middle_name,omitempty"`
	LastName    string     `json:"last_name"`
	Suffix      string     `json:"suffix,omitempty"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	IsVerified  bool       `json:"is_verified"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func UserResponseFromEntity(user *entity.User) UserResponse {
	return UserResponse{
		ID:          user.ID.String(),
		FirstName:   user.FirstName,
		MiddleName:  user.MiddleName,
		LastName:    user.LastName,
		Suffix:      user.Suffix,
		Name:        user.Name,
		Email:       user.Email,
		Role:        string(user.Role),
		IsActive:    user.IsActive,
		IsVerified:  user.IsVerified,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

func UserResponsesFromEntities(users []entity.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, UserResponseFromEntity(&users[i]))
	}
	return responses
}
