package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/papyrus/bookstore-api/internal/core/domain"
)

// ── Books ─────────────────────────────────────────────────────────────────────

type BookRepository struct {
	col *mongo.Collection
	seq sequence
}

func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{col: db.Collection(collectionBooks), seq: newSequence(db, collectionBooks)}
}

type bookDoc struct {
	ID          int64     `bson:"_id"`
	Title       string    `bson:"title"`
	AuthorID    int64     `bson:"author_id"`
	GenreID     int64     `bson:"genre_id"`
	Price       float64   `bson:"price"`
	Stock       int       `bson:"stock"`
	Description string    `bson:"description"`
	Image       string    `bson:"image,omitempty"`
	IsActive    bool      `bson:"is_active"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func toBookDoc(b *domain.Book) bookDoc {
	return bookDoc{
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

func (d bookDoc) toDomain() *domain.Book {
	return &domain.Book{
		ID:          d.ID,
		Title:       d.Title,
		AuthorID:    d.AuthorID,
		GenreID:     d.GenreID,
		Price:       d.Price,
		Stock:       d.Stock,
		Description: d.Description,
		Image:       d.Image,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func (r *BookRepository) Create(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx)
	if err != nil {
		return nil, err
	}
	doc := toBookDoc(book)
	doc.ID = id
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *BookRepository) FindByID(ctx context.Context, id int64) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc bookDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *BookRepository) List(ctx context.Context) ([]*domain.Book, error) {
	var docs []bookDoc
	if err := findAll(ctx, r.col, bson.D{{Key: "_id", Value: 1}}, &docs); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	out := make([]*domain.Book, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *BookRepository) Update(ctx context.Context, book *domain.Book) error {
	return replaceByID(ctx, r.col, book.ID, toBookDoc(book), domain.ErrBookNotFound, nil)
}

func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.col, id, domain.ErrBookNotFound)
}

// ── Authors ───────────────────────────────────────────────────────────────────

type AuthorRepository struct {
	col *mongo.Collection
	seq sequence
}

func NewAuthorRepository(db *mongo.Database) *AuthorRepository {
	return &AuthorRepository{col: db.Collection(collectionAuthors), seq: newSequence(db, collectionAuthors)}
}

type authorDoc struct {
	ID        int64     `bson:"_id"`
	FullName  string    `bson:"full_name"`
	Biography string    `bson:"biography,omitempty"`
	Image     string    `bson:"image,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toAuthorDoc(a *domain.Author) authorDoc {
	return authorDoc{
		ID:        a.ID,
		FullName:  a.FullName,
		Biography: a.Biography,
		Image:     a.Image,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (d authorDoc) toDomain() *domain.Author {
	return &domain.Author{
		ID:        d.ID,
		FullName:  d.FullName,
		Biography: d.Biography,
		Image:     d.Image,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

func (r *AuthorRepository) Create(ctx context.Context, author *domain.Author) (*domain.Author, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx)
	if err != nil {
		return nil, err
	}
	doc := toAuthorDoc(author)
	doc.ID = id
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAuthorExists
		}
		return nil, fmt.Errorf("insert author: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AuthorRepository) FindByID(ctx context.Context, id int64) (*domain.Author, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc authorDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("find author: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns authors newest first.
func (r *AuthorRepository) List(ctx context.Context) ([]*domain.Author, error) {
	var docs []authorDoc
	sort := bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	if err := findAll(ctx, r.col, sort, &docs); err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	out := make([]*domain.Author, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *AuthorRepository) Update(ctx context.Context, author *domain.Author) error {
	return replaceByID(ctx, r.col, author.ID, toAuthorDoc(author), domain.ErrAuthorNotFound, domain.ErrAuthorExists)
}

func (r *AuthorRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.col, id, domain.ErrAuthorNotFound)
}

// ── Genres ────────────────────────────────────────────────────────────────────

type GenreRepository struct {
	col *mongo.Collection
	seq sequence
}

func NewGenreRepository(db *mongo.Database) *GenreRepository {
	return &GenreRepository{col: db.Collection(collectionGenres), seq: newSequence(db, collectionGenres)}
}

type genreDoc struct {
	ID          int64     `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func toGenreDoc(g *domain.Genre) genreDoc {
	return genreDoc{ID: g.ID, Name: g.Name, Description: g.Description, CreatedAt: g.CreatedAt, UpdatedAt: g.UpdatedAt}
}

func (d genreDoc) toDomain() *domain.Genre {
	return &domain.Genre{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func (r *GenreRepository) Create(ctx context.Context, genre *domain.Genre) (*domain.Genre, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx)
	if err != nil {
		return nil, err
	}
	doc := toGenreDoc(genre)
	doc.ID = id
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrGenreExists
		}
		return nil, fmt.Errorf("insert genre: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *GenreRepository) FindByID(ctx context.Context, id int64) (*domain.Genre, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc genreDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrGenreNotFound
		}
		return nil, fmt.Errorf("find genre: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *GenreRepository) List(ctx context.Context) ([]*domain.Genre, error) {
	var docs []genreDoc
	if err := findAll(ctx, r.col, bson.D{{Key: "_id", Value: 1}}, &docs); err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	out := make([]*domain.Genre, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *GenreRepository) Update(ctx context.Context, genre *domain.Genre) error {
	return replaceByID(ctx, r.col, genre.ID, toGenreDoc(genre), domain.ErrGenreNotFound, domain.ErrGenreExists)
}

func (r *GenreRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.col, id, domain.ErrGenreNotFound)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func findAll(ctx context.Context, col *mongo.Collection, sort bson.D, out any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := col.Find(ctx, bson.M{}, options.Find().SetSort(sort))
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

// replaceByID maps a missing document to notFound and, when dup is set, a
// unique-index violation to dup.
func replaceByID(ctx context.Context, col *mongo.Collection, id int64, doc any, notFound, dup error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		if dup != nil && mongo.IsDuplicateKeyError(err) {
			return dup
		}
		return fmt.Errorf("replace %s: %w", col.Name(), err)
	}
	if res.MatchedCount == 0 {
		return notFound
	}
	return nil
}

func deleteByID(ctx context.Context, col *mongo.Collection, id int64, notFound error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete from %s: %w", col.Name(), err)
	}
	if res.DeletedCount == 0 {
		return notFound
	}
	return nil
}
