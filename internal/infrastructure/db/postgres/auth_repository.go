package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/papyrus/bookstore-api/internal/core/domain"
)

// ── Users ─────────────────────────────────────────────────────────────────────

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	db, cancel := withTimeout(ctx, r.db)
	defer cancel()

	m := newUserModel(user)
	m.ID = 0
	if err := db.Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return m.toDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) FindByVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.first(ctx, "verification_token = ?", token)
}

func (r *UserRepository) FindByResetToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.first(ctx, "reset_token = ?", token)
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	db, cancel := withTimeout(ctx, r.db)
	defer cancel()

	m := newUserModel(user)
	res := db.Model(m).Select("*").Updates(m)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) first(ctx context.Context, query string, arg any) (*domain.User, error) {
	db, cancel := withTimeout(ctx, r.db)
	defer cancel()

	var m userModel
	if err := db.Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return m.toDomain(), nil
}

// ── Admins ────────────────────────────────────────────────────────────────────

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) Create(ctx context.Context, admin *domain.Admin) (*domain.Admin, error) {
	db, cancel := withTimeout(ctx, r.db)
	defer cancel()

	m := &adminModel{
		FullName:     admin.FullName,
		Email:        admin.Email,
		PasswordHash: admin.PasswordHash,
		IsActive:     admin.IsActive,
		CreatedAt:    admin.CreatedAt,
		UpdatedAt:    admin.UpdatedAt,
	}
	if err := db.Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert admin: %w", err)
	}
	return m.toDomain(), nil
}

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	db, cancel := withTimeout(ctx, r.db)
	defer cancel()

	var m adminModel
	if err := db.Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAdminNotFound
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return m.toDomain(), nil
}

// ── Revoked tokens ────────────────────────────────────────────────────────────

type RevocationRepository struct {
	db *gorm.DB
}

func NewRevocationRepository(db *gorm.DB) *RevocationRepository {
	return &RevocationRepository{db: db}
}

// Insert ignores a token that is already recorded.
func (r *RevocationRepository) Insert(ctx context.Context, token *domain.RevokedToken) error {
	db, cancel := withTimeout(ctx, r.db)
	defer cancel()

	m := &revokedTokenModel{Token: token.Token, CreatedAt: token.CreatedAt, ExpiresAt: token.ExpiresAt}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(m).Error; err != nil {
		return fmt.Errorf("insert revoked token: %w", err)
	}
	return nil
}

func (r *RevocationRepository) Exists(ctx context.Context, token string) (bool, error) {
	db, cancel := withTimeout(ctx, r.db)
	defer cancel()

	var n int64
	if err := db.Model(&revokedTokenModel{}).Where("token = ?", token).Limit(1).Count(&n).Error; err != nil {
		return false, fmt.Errorf("lookup revoked token: %w", err)
	}
	return n > 0, nil
}
