package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/papyrus/bookstore-api/internal/core/domain"
	"github.com/papyrus/bookstore-api/internal/core/ports"
)

// CatalogService manages books, authors and genres on behalf of admins.
type CatalogService struct {
	books   ports.BookRepository
	authors ports.AuthorRepository
	genres  ports.GenreRepository
	blobs   ports.BlobStore
	logger  zerolog.Logger
	now     func() time.Time
}

func NewCatalogService(
	books ports.BookRepository,
	authors ports.AuthorRepository,
	genres ports.GenreRepository,
	blobs ports.BlobStore,
	logger zerolog.Logger,
) *CatalogService {
	return &CatalogService{books: books, authors: authors, genres: genres, blobs: blobs, logger: logger, now: time.Now}
}

// ── Books ─────────────────────────────────────────────────────────────────────

func (s *CatalogService) CreateBook(ctx context.Context, in ports.BookInput) (*ports.BookView, error) {
	author, genre, err := s.references(ctx, in.AuthorID, in.GenreID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	book := &domain.Book{
		Title:       strings.TrimSpace(in.Title),
		AuthorID:    in.AuthorID,
		GenreID:     in.GenreID,
		Price:       in.Price,
		Stock:       in.Stock,
		Description: in.Description,
		IsActive:    in.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if book.Image, err = s.storeUpload(ctx, "book_images", in.Image); err != nil {
		return nil, err
	}

	created, err := s.books.Create(ctx, book)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("book_id", created.ID).Msg("book created")
	return &ports.BookView{Book: created, AuthorName: author.FullName, GenreName: genre.Name}, nil
}

func (s *CatalogService) GetBook(ctx context.Context, id int64) (*ports.BookView, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, book)
}

func (s *CatalogService) ListBooks(ctx context.Context) ([]*ports.BookView, error) {
	books, err := s.books.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]*ports.BookView, 0, len(books))
	for _, b := range books {
		v, err := s.view(ctx, b)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// UpdateBook replaces every field. The image is kept unless a new one is
// uploaded.
func (s *CatalogService) UpdateBook(ctx context.Context, id int64, in ports.BookInput) (*ports.BookView, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	author, genre, err := s.references(ctx, in.AuthorID, in.GenreID)
	if err != nil {
		return nil, err
	}

	if in.Image != nil {
		if book.Image, err = s.storeUpload(ctx, "book_images", in.Image); err != nil {
			return nil, err
		}
	}
	book.Title = strings.TrimSpace(in.Title)
	book.AuthorID = in.AuthorID
	book.GenreID = in.GenreID
	book.Price = in.Price
	book.Stock = in.Stock
	book.Description = in.Description
	book.IsActive = in.IsActive
	book.UpdatedAt = s.now().UTC()

	if err := s.books.Update(ctx, book); err != nil {
		return nil, err
	}
	return &ports.BookView{Book: book, AuthorName: author.FullName, GenreName: genre.Name}, nil
}

func (s *CatalogService) DeleteBook(ctx context.Context, id int64) error {
	return s.books.Delete(ctx, id)
}

func (s *CatalogService) references(ctx context.Context, authorID, genreID int64) (*domain.Author, *domain.Genre, error) {
	author, err := s.authors.FindByID(ctx, authorID)
	if err != nil {
		return nil, nil, err
	}
	genre, err := s.genres.FindByID(ctx, genreID)
	if err != nil {
		return nil, nil, err
	}
	return author, genre, nil
}

// view joins author and genre names. A dangling reference leaves the name
// empty rather than failing the read.
func (s *CatalogService) view(ctx context.Context, book *domain.Book) (*ports.BookView, error) {
	v := &ports.BookView{Book: book}
	author, err := s.authors.FindByID(ctx, book.AuthorID)
	switch {
	case err == nil:
		v.AuthorName = author.FullName
	case !errors.Is(err, domain.ErrAuthorNotFound):
		return nil, err
	}
	genre, err := s.genres.FindByID(ctx, book.GenreID)
	switch {
	case err == nil:
		v.GenreName = genre.Name
	case !errors.Is(err, domain.ErrGenreNotFound):
		return nil, err
	}
	return v, nil
}

// ── Authors ───────────────────────────────────────────────────────────────────

func (s *CatalogService) CreateAuthor(ctx context.Context, in ports.AuthorInput) (*domain.Author, error) {
	now := s.now().UTC()
	author := &domain.Author{
		FullName:  strings.TrimSpace(in.FullName),
		Biography: in.Biography,
		CreatedAt: now,
		UpdatedAt: now,
	}
	var err error
	if author.Image, err = s.storeUpload(ctx, "author_images", in.Image); err != nil {
		return nil, err
	}
	return s.authors.Create(ctx, author)
}

func (s *CatalogService) GetAuthor(ctx context.Context, id int64) (*domain.Author, error) {
	return s.authors.FindByID(ctx, id)
}

func (s *CatalogService) ListAuthors(ctx context.Context) ([]*domain.Author, error) {
	return s.authors.List(ctx)
}

func (s *CatalogService) UpdateAuthor(ctx context.Context, id int64, in ports.AuthorInput) (*domain.Author, error) {
	author, err := s.authors.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Image != nil {
		if author.Image, err = s.storeUpload(ctx, "author_images", in.Image); err != nil {
			return nil, err
		}
	}
	author.FullName = strings.TrimSpace(in.FullName)
	author.Biography = in.Biography
	author.UpdatedAt = s.now().UTC()
	if err := s.authors.Update(ctx, author); err != nil {
		return nil, err
	}
	return author, nil
}

func (s *CatalogService) DeleteAuthor(ctx context.Context, id int64) error {
	return s.authors.Delete(ctx, id)
}

// ── Genres ────────────────────────────────────────────────────────────────────

func (s *CatalogService) CreateGenre(ctx context.Context, name, description string) (*domain.Genre, error) {
	now := s.now().UTC()
	return s.genres.Create(ctx, &domain.Genre{
		Name:        strings.TrimSpace(name),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *CatalogService) GetGenre(ctx context.Context, id int64) (*domain.Genre, error) {
	return s.genres.FindByID(ctx, id)
}

func (s *CatalogService) ListGenres(ctx context.Context) ([]*domain.Genre, error) {
	return s.genres.List(ctx)
}

func (s *CatalogService) UpdateGenre(ctx context.Context, id int64, patch ports.GenrePatch) (*domain.Genre, error) {
	genre, err := s.genres.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		genre.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		genre.Description = *patch.Description
	}
	genre.UpdatedAt = s.now().UTC()
	if err := s.genres.Update(ctx, genre); err != nil {
		return nil, err
	}
	return genre, nil
}

func (s *CatalogService) DeleteGenre(ctx context.Context, id int64) error {
	return s.genres.Delete(ctx, id)
}

func (s *CatalogService) storeUpload(ctx context.Context, dir string, up *ports.Upload) (string, error) {
	if up == nil || len(up.Data) == 0 {
		return "", nil
	}
	loc, err := s.blobs.Store(ctx, up.Data, uploadName(dir, up.Ext))
	if err != nil {
		return "", fmt.Errorf("store %s upload: %w", dir, err)
	}
	return loc, nil
}
