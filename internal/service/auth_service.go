package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"opsvault/internal/entity"
	"opsvault/internal/repository"
	"opsvault/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

const minPasswordLength = 6

// Burned on lookups for unknown emails so login timing does not reveal
// whether an account exists.
const dummyPasswordHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

// AuthService owns the account lifecycle: registration, OTP verification,
// login, password reset and change, and the admin account surface. Every
// state-changing success records an audit entry; email delivery is handed to
// the Notifier and never gates a transition.
type AuthService struct {
	users  repository.UserRepository
	audits repository.AuditLogRepository

	notifier      Notifier
	passwordHash  PasswordHasher
	sessionTokens SessionTokenIssuer
	otp           OTPEngine
	reset         ResetTokenEngine
	clock         Clock
	log           *logrus.Logger
}

func NewAuthService(
	users repository.UserRepository,
	audits repository.AuditLogRepository,
	notifier Notifier,
	passwordHash PasswordHasher,
	sessionTokens SessionTokenIssuer,
	clock Clock,
	config AuthConfig,
	log *logrus.Logger,
) *AuthService {
	return &AuthService{
		users:         users,
		audits:        audits,
		notifier:      notifier,
		passwordHash:  passwordHash,
		sessionTokens: sessionTokens,
		otp:           OTPEngine{TTL: config.OTPTTL, Clock: clock},
		reset:         ResetTokenEngine{TTL: config.ResetTokenTTL, Clock: clock},
		clock:         clock,
		log:           log,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput, origin *string) (*RegisterResult, error) {
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" ||
		strings.TrimSpace(input.Email) == "" {
		return nil, ErrInvalidInput
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrInvalidInput
	}

	email := utils.NormalizeEmail(input.Email)
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}

	hash, err := s.passwordHash.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	role := entity.UserRoleUser
	if input.Role == string(entity.UserRoleAdmin) {
		role = entity.UserRoleAdmin
	}

	user := &entity.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		MiddleName:   strings.TrimSpace(input.MiddleName),
		LastName:     strings.TrimSpace(input.LastName),
		Suffix:       strings.TrimSpace(input.Suffix),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	user.Name = entity.ComposeName(user.FirstName, user.MiddleName, user.LastName, user.Suffix)

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.issueOTP(ctx, user, true); err != nil {
		return nil, err
	}

	s.audit(ctx, &user.ID, entity.UserRegistered, user.Name+" created an account", nil, origin)
	return &RegisterResult{Email: user.Email}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput, origin *string) (*LoginResult, error) {
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, ErrInvalidInput
	}

	email := utils.NormalizeEmail(input.Email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = s.passwordHash.Verify(dummyPasswordHash, input.Password)
		return nil, ErrInvalidCredentials
	}

	if !s.passwordHash.Verify(user.PasswordHash, input.Password) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	if !user.IsVerified {
		// Correct credentials on an unverified account never yield a
		// session; supersede any outstanding code and route the caller
		// back to verification.
		if err := s.issueOTP(ctx, user, false); err != nil {
			return nil, err
		}
		return &LoginResult{VerificationRequired: true, Email: user.Email}, nil
	}

	now := s.now()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now

	token, ttl, err := s.sessionTokens.IssueSessionToken(*user)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, &user.ID, entity.UserLoggedIn, user.Name+" signed in", nil, origin)
	return &LoginResult{Token: token, ExpiresIn: int64(ttl.Seconds()), User: user}, nil
}

func (s *AuthService) VerifyOTP(ctx context.Context, input VerifyOTPInput, origin *string) (*VerifyOTPResult, error) {
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Code) == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(input.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	if user.IsVerified {
		token, ttl, err := s.sessionTokens.IssueSessionToken(*user)
		if err != nil {
			return nil, err
		}
		return &VerifyOTPResult{Token: token, ExpiresIn: int64(ttl.Seconds()), User: user}, nil
	}

	switch s.otp.Validate(user, input.Code) {
	case OTPNotRequested:
		return nil, ErrCodeNotRequested
	case OTPMismatch, OTPExpired:
		return nil, ErrCodeInvalidOrExpired
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		return nil, err
	}
	user.IsVerified = true
	user.OTPCodeHash = nil
	user.OTPExpiresAt = nil

	token, ttl, err := s.sessionTokens.IssueSessionToken(*user)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, &user.ID, entity.UserVerified, user.Name+" verified their email", nil, origin)
	return &VerifyOTPResult{Token: token, ExpiresIn: int64(ttl.Seconds()), User: user}, nil
}

func (s *AuthService) ResendOTP(ctx context.Context, email string, origin *string) error {
	if strings.TrimSpace(email) == "" {
		return ErrInvalidInput
	}

	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if !user.IsActive {
		return ErrAccountInactive
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}

	if err := s.issueOTP(ctx, user, false); err != nil {
		return err
	}

	s.audit(ctx, &user.ID, entity.OTPResent, "Resent verification code to "+user.Email, nil, origin)
	return nil
}

// RequestPasswordReset always reports success to the caller; only an
// existing active account gets a token, so the response shape never reveals
// whether the email is registered.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string, origin *string) error {
	if strings.TrimSpace(email) == "" {
		return ErrInvalidInput
	}

	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil || !user.IsActive {
		return nil
	}

	token, err := s.reset.Generate()
	if err != nil {
		return err
	}
	hash, expiresAt := s.reset.Issue(token)
	if err := s.users.StoreResetToken(ctx, user.ID, hash, expiresAt); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.NotifyPasswordReset(user.Email, user.Name, token)
	}

	s.audit(ctx, &user.ID, entity.PasswordResetRequested, user.Name+" requested a password reset", nil, origin)
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token string, newPassword string, origin *string) error {
	if strings.TrimSpace(token) == "" {
		return ErrInvalidInput
	}
	if len(newPassword) < minPasswordLength {
		return ErrInvalidInput
	}

	user, err := s.users.FindByResetTokenHash(ctx, utils.HashToken(token))
	if err != nil {
		return err
	}
	if user == nil || s.reset.Expired(user) {
		return ErrTokenInvalidOrExpired
	}
	if !user.IsActive {
		return ErrAccountInactive
	}

	hash, err := s.passwordHash.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.ResetPassword(ctx, user.ID, hash); err != nil {
		return err
	}

	s.audit(ctx, &user.ID, entity.PasswordResetCompleted, user.Name+" reset their password", nil, origin)
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput, origin *string) error {
	if input.CurrentPassword == "" {
		return ErrInvalidInput
	}
	if len(input.NewPassword) < minPasswordLength {
		return ErrInvalidInput
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if !user.IsActive {
		return ErrAccountInactive
	}

	if !s.passwordHash.Verify(user.PasswordHash, input.CurrentPassword) {
		return ErrInvalidCredentials
	}

	hash, err := s.passwordHash.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	s.audit(ctx, &user.ID, entity.PasswordChanged, user.Name+" changed their password", nil, origin)
	return nil
}

func (s *AuthService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput, origin *string) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.MiddleName != nil {
		user.MiddleName = strings.TrimSpace(*input.MiddleName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Suffix != nil {
		user.Suffix = strings.TrimSpace(*input.Suffix)
	}
	if user.FirstName == "" || user.LastName == "" {
		return nil, ErrInvalidInput
	}
	user.Name = entity.ComposeName(user.FirstName, user.MiddleName, user.LastName, user.Suffix)

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	s.audit(ctx, &user.ID, entity.ProfileUpdated, user.Name+" updated their profile", nil, origin)
	return user, nil
}

func (s *AuthService) ListUsers(ctx context.Context, limit, offset int) ([]entity.User, error) {
	return s.users.List(ctx, limit, offset)
}

// DeactivateUser is the only destructive account operation: a soft delete
// that closes every authentication path for the target.
func (s *AuthService) DeactivateUser(ctx context.Context, actorID uuid.UUID, targetID uuid.UUID, origin *string) error {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}

	if err := s.users.Deactivate(ctx, targetID); err != nil {
		return err
	}

	s.audit(ctx, &actorID, entity.UserDeactivated, "Deactivated "+target.Name,
		map[string]any{"target_user": target.ID.String()}, origin)
	return nil
}

func (s *AuthService) ListAuditLogs(ctx context.Context, limit int) ([]entity.AuditLog, error) {
	return s.audits.ListRecent(ctx, limit)
}

func (s *AuthService) issueOTP(ctx context.Context, user *entity.User, isRegistration bool) error {
	code, err := s.otp.Generate()
	if err != nil {
		return err
	}
	hash, expiresAt := s.otp.Issue(code)
	if err := s.users.StoreOTP(ctx, user.ID, hash, expiresAt); err != nil {
		return err
	}
	user.OTPCodeHash = &hash
	user.OTPExpiresAt = &expiresAt

	if s.notifier != nil {
		s.notifier.NotifyOTP(user.Email, user.Name, code, isRegistration)
	}
	return nil
}

// audit is best-effort: a failed write is logged and never fails the
// surrounding transition.
func (s *AuthService) audit(
	ctx context.Context,
	actorID *uuid.UUID,
	action entity.AuditAction,
	description string,
	metadata map[string]any,
	origin *string,
) {
	if s.audits == nil {
		return
	}
	var payload datatypes.JSON
	if metadata != nil {
		bytes, err := json.Marshal(metadata)
		if err != nil {
			s.warn("audit metadata encoding failed", err)
			return
		}
		payload = datatypes.JSON(bytes)
	}

	entry := &entity.AuditLog{
		UserID:      actorID,
		Action:      action,
		Description: description,
		Metadata:    payload,
		IPAddress:   origin,
	}
	if err := s.audits.Record(ctx, entry); err != nil {
		s.warn("audit record failed", err)
	}
}

func (s *AuthService) warn(msg string, err error) {
	if s.log == nil {
		return
	}
	s.log.WithError(err).Warn(msg)
}

func (s *AuthService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}
