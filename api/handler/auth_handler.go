package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"opsvault/api/middleware"
	"opsvault/internal/dto"
	"opsvault/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	Service  *service.AuthService
	Validate *validator.Validate
}

func NewAuthHandler(svc *service.AuthService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{Service: svc, Validate: validate}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	input := service.RegisterInput{
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		Suffix:     req.Suffix,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
	}
	result, err := h.Service.Register(c.Request().Context(), input, stringPtr(c.RealIP()))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.RegisterResponse{
		RequiresVerification: true,
		Email:                result.Email,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	input := service.LoginInput{Email: req.Email, Password: req.Password}
	result, err := h.Service.Login(c.Request().Context(), input, stringPtr(c.RealIP()))
	if err != nil {
		return writeServiceError(c, err)
	}
	if result.VerificationRequired {
		return c.JSON(http.StatusForbidden, dto.VerificationRequiredResponse{
			Message:              "Account not verified. A fresh code was sent to your email.",
			RequiresVerification: true,
			Email:                result.Email,
		})
	}
	return c.JSON(http.StatusOK, dto.SessionResponse{
		Token:     result.Token,
		ExpiresIn: result.ExpiresIn,
		User:      dto.UserResponseFromEntity(result.User),
	})
}

func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req dto.VerifyOTPRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	input := service.VerifyOTPInput{Email: req.Email, Code: req.Code}
	result, err := h.Service.VerifyOTP(c.Request().Context(), input, stringPtr(c.RealIP()))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.SessionResponse{
		Token:     result.Token,
		ExpiresIn: result.ExpiresIn,
		User:      dto.UserResponseFromEntity(result.User),
	})
}

func (h *AuthHandler) ResendOTP(c echo.Context) error {
	var req dto.ResendOTPRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Service.ResendOTP(c.Request().Context(), req.Email, stringPtr(c.RealIP())); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Verification code resent"})
}

func (h *AuthHandler) PasswordForgot(c echo.Context) error {
	var req dto.PasswordForgotRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Service.RequestPasswordReset(c.Request().Context(), req.Email, stringPtr(c.RealIP())); err != nil {
		return writeServiceError(c, err)
	}
	// Same response whether or not the email exists.
	return c.JSON(http.StatusOK, map[string]string{"message": "If the email exists, reset instructions were sent."})
}

func (h *AuthHandler) PasswordReset(c echo.Context) error {
	var req dto.PasswordResetRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Service.ResetPassword(c.Request().Context(), req.Token, req.NewPassword, stringPtr(c.RealIP())); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Password reset successful"})
}

func (h *AuthHandler) PasswordChange(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	var req dto.PasswordChangeRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	input := service.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}
	if err := h.Service.ChangePassword(c.Request().Context(), userID, input, stringPtr(c.RealIP())); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	user, err := h.Service.GetUser(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	if user == nil {
		return writeError(c, http.StatusNotFound, errors.New("account not found"))
	}
	return c.JSON(http.StatusOK, dto.UserResponseFromEntity(user))
}

func (h *AuthHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}

func decodeJSON(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeError(c echo.Context, status int, err error) error {
	return c.JSON(status, map[string]string{"message": err.Error()})
}

func writeServiceError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrAlreadyVerified),
		errors.Is(err, service.ErrCodeNotRequested),
		errors.Is(err, service.ErrCodeInvalidOrExpired),
		errors.Is(err, service.ErrTokenInvalidOrExpired):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrAccountInactive):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrEmailAlreadyRegistered):
		status = http.StatusConflict
	case errors.Is(err, service.ErrUserNotFound):
		status = http.StatusNotFound
	}
	return writeError(c, status, err)
}

func stringPtr(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
