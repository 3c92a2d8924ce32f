package repository

import (
	"context"
	"errors"
	"time"

	"opsvault/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByResetTokenHash(ctx context.Context, tokenHash string) (*entity.User, error)
	StoreOTP(ctx context.Context, userID uuid.UUID, codeHash string, expiresAt time.Time) error
	MarkVerified(ctx context.Context, userID uuid.UUID) error
	StoreResetToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	ResetPassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	TouchLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
	UpdateProfile(ctx context.Context, user *entity.User) error
	Deactivate(ctx context.Context, userID uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]entity.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByResetTokenHash(ctx context.Context, tokenHash string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Where("reset_token_hash = ?", tokenHash).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// StoreOTP overwrites any outstanding code; issuing supersedes.
func (r *userRepository) StoreOTP(ctx context.Context, userID uuid.UUID, codeHash string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"otp_code_hash":  codeHash,
			"otp_expires_at": expiresAt,
		}).Error
}

// MarkVerified flips the verified flag and consumes the OTP in one update.
func (r *userRepository) MarkVerified(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"is_verified":    true,
			"otp_code_hash":  nil,
			"otp_expires_at": nil,
		}).Error
}

func (r *userRepository) StoreResetToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"reset_token_hash":       tokenHash,
			"reset_token_expires_at": expiresAt,
		}).Error
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Update("password_hash", passwordHash).
		Error
}

// ResetPassword writes the new hash and clears the reset token in a single
// update so a used token can never be replayed against a half-updated row.
func (r *userRepository) ResetPassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"password_hash":          passwordHash,
			"reset_token_hash":       nil,
			"reset_token_expires_at": nil,
		}).Error
}

func (r *userRepository) TouchLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Update("last_login_at", at).
		Error
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).
		Model(user).
		Updates(map[string]any{
			"first_name":  user.FirstName,
			"middle_name": user.MiddleName,
			"last_name":   user.LastName,
			"suffix":      user.Suffix,
			"name":        user.Name,
		}).Error
}

func (r *userRepository) Deactivate(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Update("is_active", false).
		Error
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]entity.User, error) {
	var users []entity.User
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
