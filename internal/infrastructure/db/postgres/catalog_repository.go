package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/papyrus/bookstore-api/internal/core/domain"
)

// ── Books ─────────────────────────────────────────────────────────────────────

type BookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{db: db}
}

func (r *BookRepository) Create(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	db, cancel := withTimeout(ctx, r.db)
	defer cancel()

	m := newBookModel(book)
	m.ID = 0
	if err := db.Create(m).Error; err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}
	return m.toDomain(), nil
}

func (r *BookRepository) FindByID(ctx context.Context, id int64) (*domain.Book, error) {
	db, cancel := withTimeout(ctx, r.db)
	defer cancel()

	var m bookModel
	if err := db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	return m.toDomain(), nil
}

func (r *BookRepository) List(ctx context.Context) ([]*domain.Book, error) {
	db, cancel := withTimeout(ctx, r.db)
	defer cancel()

	var rows []bookModel
	if err := db.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	out := make([]*domain.Book, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (r *BookRepository) Update(ctx context.Context, book *domain.Book) error {
	return saveAll(ctx, r.db, newBookModel(book), domain.ErrBookNotFound, nil)
}

func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, &bookModel{}, id, domain.ErrBookNotFound)
}

// ── Authors ───────────────────────────────────────────────────────────────────

type AuthorRepository struct {
	db *gorm.DB
}

func NewAuthorRepository(db *gorm.DB) *AuthorRepository {
	return &AuthorRepository{db: db}
}

func (r *AuthorRepository) Create(ctx context.Context, author *domain.Author) (*domain.Author, error) {
	db, cancel := withTimeout(ctx, r.db)
	defer cancel()

	m := newAuthorModel(author)
	m.ID = 0
	if err := db.Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrAuthorExists
		}
		return nil, fmt.Errorf("insert author: %w", err)
	}
	return m.toDomain(), nil
}

func (r *AuthorRepository) FindByID(ctx context.Context, id int64) (*domain.Author, error) {
	db, cancel := withTimeout(ctx, r.db)
	defer cancel()

	var m authorModel
	if err := db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("find author: %w", err)
	}
	return m.toDomain(), nil
}

// List returns authors newest first.
func (r *AuthorRepository) List(ctx context.Context) ([]*domain.Author, error) {
	db, cancel := withTimeout(ctx, r.db)
	defer cancel()

	var rows []authorModel
	if err := db.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	out := make([]*domain.Author, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (r *AuthorRepository) Update(ctx context.Context, author *domain.Author) error {
	return saveAll(ctx, r.db, newAuthorModel(author), domain.ErrAuthorNotFound, domain.ErrAuthorExists)
}

func (r *AuthorRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, &authorModel{}, id, domain.ErrAuthorNotFound)
}

// ── Genres ────────────────────────────────────────────────────────────────────

type GenreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) *GenreRepository {
	return &GenreRepository{db: db}
}

func (r *GenreRepository) Create(ctx context.Context, genre *domain.Genre) (*domain.Genre, error) {
	db, cancel := withTimeout(ctx, r.db)
	defer cancel()

	m := newGenreModel(genre)
	m.ID = 0
	if err := db.Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrGenreExists
		}
		return nil, fmt.Errorf("insert genre: %w", err)
	}
	return m.toDomain(), nil
}

func (r *GenreRepository) FindByID(ctx context.Context, id int64) (*domain.Genre, error) {
	db, cancel := withTimeout(ctx, r.db)
	defer cancel()

	var m genreModel
	if err := db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGenreNotFound
		}
		return nil, fmt.Errorf("find genre: %w", err)
	}
	return m.toDomain(), nil
}

func (r *GenreRepository) List(ctx context.Context) ([]*domain.Genre, error) {
	db, cancel := withTimeout(ctx, r.db)
	defer cancel()

	var rows []genreModel
	if err := db.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	out := make([]*domain.Genre, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (r *GenreRepository) Update(ctx context.Context, genre *domain.Genre) error {
	return saveAll(ctx, r.db, newGenreModel(genre), domain.ErrGenreNotFound, domain.ErrGenreExists)
}

func (r *GenreRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, &genreModel{}, id, domain.ErrGenreNotFound)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// saveAll writes every column of m, keyed by its primary key.
func saveAll(ctx context.Context, base *gorm.DB, m any, notFound, dup error) error {
	db, cancel := withTimeout(ctx, base)
	defer cancel()

	res := db.Model(m).Select("*").Updates(m)
	if res.Error != nil {
		if dup != nil && errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return dup
		}
		return fmt.Errorf("update: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound
	}
	return nil
}

func deleteByID(ctx context.Context, base *gorm.DB, model any, id int64, notFound error) error {
	db, cancel := withTimeout(ctx, base)
	defer cancel()

	res := db.Delete(model, id)
	if res.Error != nil {
		return fmt.Errorf("delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound
	}
	return nil
}
