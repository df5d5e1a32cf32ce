package postgres

import (
	"time"

	"github.com/papyrus/bookstore-api/internal/core/domain"
)

type userModel struct {
	ID                int64  `gorm:"primaryKey;autoIncrement"`
	FullName          string `gorm:"size:255;not null"`
	Email             string `gorm:"size:255;not null;uniqueIndex:idx_users_email"`
	PasswordHash      string `gorm:"size:255;not null"`
	Image             string `gorm:"size:512"`
	IsActive          bool   `gorm:"not null"`
	IsVerified        bool   `gorm:"not null"`
	VerificationToken string `gorm:"size:64;index"`
	ResetToken        string `gorm:"size:64;index"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (userModel) TableName() string { return "users" }

func newUserModel(u *domain.User) *userModel {
	return &userModel{
		ID:                u.ID,
		FullName:          u.FullName,
		Email:             u.Email,
		PasswordHash:      u.PasswordHash,
		Image:             u.Image,
		IsActive:          u.IsActive,
		IsVerified:        u.IsVerified,
		VerificationToken: u.VerificationToken,
		ResetToken:        u.ResetToken,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func (m *userModel) toDomain() *domain.User {
	return &domain.User{
		ID:                m.ID,
		FullName:          m.FullName,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		Image:             m.Image,
		IsActive:          m.IsActive,
		IsVerified:        m.IsVerified,
		VerificationToken: m.VerificationToken,
		ResetToken:        m.ResetToken,
		CreatedAt:         m.CreatedAt.UTC(),
		UpdatedAt:         m.UpdatedAt.UTC(),
	}
}

// Admins live in their own table, so an email may appear in both.
type adminModel struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	FullName     string `gorm:"size:255;not null"`
	Email        string `gorm:"size:255;not null;uniqueIndex:idx_admins_email"`
	PasswordHash string `gorm:"size:255;not null"`
	IsActive     bool   `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (adminModel) TableName() string { return "admins" }

func (m *adminModel) toDomain() *domain.Admin {
	return &domain.Admin{
		ID:           m.ID,
		FullName:     m.FullName,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

// Hard deletes only: a revoked token must never come back.
type revokedTokenModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Token     string    `gorm:"type:text;not null;uniqueIndex:idx_revoked_tokens_token"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index:idx_revoked_tokens_expires"`
}

func (revokedTokenModel) TableName() string { return "revoked_tokens" }

type genreModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"size:100;not null;uniqueIndex:idx_genres_name"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (genreModel) TableName() string { return "genres" }

func newGenreModel(g *domain.Genre) *genreModel {
	return &genreModel{ID: g.ID, Name: g.Name, Description: g.Description, CreatedAt: g.CreatedAt, UpdatedAt: g.UpdatedAt}
}

func (m *genreModel) toDomain() *domain.Genre {
	return &domain.Genre{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type authorModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	FullName  string `gorm:"size:255;not null;uniqueIndex:idx_authors_full_name"`
	Biography string `gorm:"type:text"`
	Image     string `gorm:"size:512"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (authorModel) TableName() string { return "authors" }

func newAuthorModel(a *domain.Author) *authorModel {
	return &authorModel{
		ID:        a.ID,
		FullName:  a.FullName,
		Biography: a.Biography,
		Image:     a.Image,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (m *authorModel) toDomain() *domain.Author {
	return &domain.Author{
		ID:        m.ID,
		FullName:  m.FullName,
		Biography: m.Biography,
		Image:     m.Image,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

// Author and genre are plain id columns: a deleted author leaves the book
// pointing at nothing.
type bookModel struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	Title       string  `gorm:"size:255;not null"`
	AuthorID    int64   `gorm:"not null;index"`
	GenreID     int64   `gorm:"not null;index"`
	Price       float64 `gorm:"not null"`
	Stock       int     `gorm:"not null"`
	Description string  `gorm:"type:text;not null"`
	Image       string  `gorm:"size:512"`
	IsActive    bool    `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (bookModel) TableName() string { return "books" }

func newBookModel(b *domain.Book) *bookModel {
	return &bookModel{
		ID:          b.ID,
		Title:       b.Title,
		AuthorID:    b.AuthorID,
		GenreID:     b.GenreID,
		Price:       b.Price,
		Stock:       b.Stock,
		Description: b.Description,
		Image:       b.Image,
		IsActive:    b.IsActive,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func (m *bookModel) toDomain() *domain.Book {
	return &domain.Book{
		ID:          m.ID,
		Title:       m.Title,
		AuthorID:    m.AuthorID,
		GenreID:     m.GenreID,
		Price:       m.Price,
		Stock:       m.Stock,
		Description: m.Description,
		Image:       m.Image,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}
