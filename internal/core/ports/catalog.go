package ports

import (
	"context"

	"github.com/papyrus/bookstore-api/internal/core/domain"
)

type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) (*domain.Book, error)
	FindByID(ctx context.Context, id int64) (*domain.Book, error)
	List(ctx context.Context) ([]*domain.Book, error)
	Update(ctx context.Context, book *domain.Book) error
	Delete(ctx context.Context, id int64) error
}

type AuthorRepository interface {
	Create(ctx context.Context, author *domain.Author) (*domain.Author, error)
	FindByID(ctx context.Context, id int64) (*domain.Author, error)
	// List returns authors newest first.
	List(ctx context.Context) ([]*domain.Author, error)
	Update(ctx context.Context, author *domain.Author) error
	Delete(ctx context.Context, id int64) error
}

type GenreRepository interface {
	Create(ctx context.Context, genre *domain.Genre) (*domain.Genre, error)
	FindByID(ctx context.Context, id int64) (*domain.Genre, error)
	List(ctx context.Context) ([]*domain.Genre, error)
	Update(ctx context.Context, genre *domain.Genre) error
	Delete(ctx context.Context, id int64) error
}

// Upload is an optional file attached to a catalog write.
type Upload struct {
	Data []byte
	Ext  string
}

// BookInput carries every writable book field.
type BookInput struct {
	Title       string
	AuthorID    int64
	GenreID     int64
	Price       float64
	Stock       int
	Description string
	IsActive    bool
	Image       *Upload
}

// BookView is a book joined with its author and genre names.
type BookView struct {
	*domain.Book
	AuthorName string `json:"author,omitempty"`
	GenreName  string `json:"genre,omitempty"`
}

type AuthorInput struct {
	FullName  string
	Biography string
	Image     *Upload
}

// GenrePatch applies only non-nil fields.
type GenrePatch struct {
	Name        *string
	Description *string
}

// CatalogService is the admin-only catalog management surface.
type CatalogService interface {
	CreateBook(ctx context.Context, in BookInput) (*BookView, error)
	GetBook(ctx context.Context, id int64) (*BookView, error)
	ListBooks(ctx context.Context) ([]*BookView, error)
	UpdateBook(ctx context.Context, id int64, in BookInput) (*BookView, error)
	DeleteBook(ctx context.Context, id int64) error

	CreateAuthor(ctx context.Context, in AuthorInput) (*domain.Author, error)
	GetAuthor(ctx context.Context, id int64) (*domain.Author, error)
	ListAuthors(ctx context.Context) ([]*domain.Author, error)
	UpdateAuthor(ctx context.Context, id int64, in AuthorInput) (*domain.Author, error)
	DeleteAuthor(ctx context.Context, id int64) error

	CreateGenre(ctx context.Context, name, description string) (*domain.Genre, error)
	GetGenre(ctx context.Context, id int64) (*domain.Genre, error)
	ListGenres(ctx context.Context) ([]*domain.Genre, error)
	UpdateGenre(ctx context.Context, id int64, patch GenrePatch) (*domain.Genre, error)
	DeleteGenre(ctx context.Context, id int64) error
}
