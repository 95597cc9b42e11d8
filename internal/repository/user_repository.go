package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"todolist/internal/domain"
)

// UserRepository handles CRUD for users and credential validation.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// HashPassword returns the hex-encoded SHA-256 digest of a plaintext password.
func HashPassword(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0)
	if err := r.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// Create hashes the plaintext password and inserts the user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	user.Password = HashPassword(user.Password)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// CreateLocal inserts the user without touching the password field. Used by
// registration, where the identity provider owns the credential.
func (r *UserRepository) CreateLocal(ctx context.Context, user *domain.User) error {
	user.Password = ""
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create local user: %w", err)
	}
	return nil
}

// Update replaces the full row. The password is re-hashed only when the
// incoming value is non-empty and differs from the stored digest; an
// incoming value equal to the stored digest (a round-trip edit) or an empty
// one keeps the current credential.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	existing, err := r.FindByID(ctx, user.ID)
	if err != nil {
		return err
	}
	switch user.Password {
	case "", existing.Password:
		user.Password = existing.Password
	default:
		user.Password = HashPassword(user.Password)
	}
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("update user %d: %w", user.ID, err)
	}
	return nil
}

// Delete removes a user and all activities it owns. A missing user is a
// no-op. The cascade runs in one transaction so a partial delete never
// leaves orphaned activities behind.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&domain.Activity{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.User{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

// Validate re-hashes the candidate password and compares digests. It returns
// ErrNotFound on an unknown username or a digest mismatch, without revealing
// which of the two failed.
func (r *UserRepository) Validate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := r.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if HashPassword(password) != user.Password {
		return nil, ErrNotFound
	}
	return user, nil
}
