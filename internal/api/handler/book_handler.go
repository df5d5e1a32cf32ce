package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/papyrus/bookstore-api/internal/core/ports"
)

// BookHandler serves /api/v1/admin/books.
type BookHandler struct {
	catalog ports.CatalogService
}

func NewBookHandler(catalog ports.CatalogService) *BookHandler {
	return &BookHandler{catalog: catalog}
}

type bookForm struct {
	Title       string  `form:"title" validate:"required,max=255"`
	AuthorID    int64   `form:"author_id" validate:"required,gt=0"`
	GenreID     int64   `form:"genre_id" validate:"required,gt=0"`
	Price       float64 `form:"price" validate:"gte=0"`
	Stock       int     `form:"stock" validate:"gte=0"`
	Description string  `form:"description" validate:"required"`
	IsActive    string  `form:"is_active" validate:"omitempty,boolean"`
}

func (f bookForm) input(image *ports.Upload) ports.BookInput {
	active := true
	if f.IsActive != "" {
		active, _ = strconv.ParseBool(f.IsActive)
	}
	return ports.BookInput{
		Title:       f.Title,
		AuthorID:    f.AuthorID,
		GenreID:     f.GenreID,
		Price:       f.Price,
		Stock:       f.Stock,
		Description: f.Description,
		IsActive:    active,
		Image:       image,
	}
}

// Create adds a book.
//
// @Summary      Create a book
// @Tags         admin-books
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title        formData  string  true   "Title"
// @Param        author_id    formData  int     true   "Author id"
// @Param        genre_id     formData  int     true   "Genre id"
// @Param        price        formData  number  true   "Price"
// @Param        stock        formData  int     false  "Stock"
// @Param        description  formData  string  true   "Description"
// @Param        is_active    formData  bool    false  "Listed (default true)"
// @Param        image        formData  file    false  "Cover image"
// @Success      201          {object}  Envelope
// @Failure      400          {object}  Envelope
// @Failure      404          {object}  Envelope
// @Router       /api/v1/admin/books [post]
func (h *BookHandler) Create(c echo.Context) error {
	var form bookForm
	if err := bind(c, &form); err != nil {
		return err
	}
	image, err := formUpload(c, "image")
	if err != nil {
		return err
	}

	book, err := h.catalog.CreateBook(c.Request().Context(), form.input(image))
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Book created successfully", book)
}

// List returns every book with author and genre names.
//
// @Summary      List books
// @Tags         admin-books
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope
// @Router       /api/v1/admin/books [get]
func (h *BookHandler) List(c echo.Context) error {
	books, err := h.catalog.ListBooks(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Books fetched successfully", books)
}

// Get returns one book.
//
// @Summary      Get a book
// @Tags         admin-books
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Book id"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /api/v1/admin/books/{id} [get]
func (h *BookHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	book, err := h.catalog.GetBook(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Book fetched successfully", book)
}

// Update replaces a book's fields; the image is kept unless a new one is sent.
//
// @Summary      Update a book
// @Tags         admin-books
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id           path      int     true   "Book id"
// @Param        title        formData  string  true   "Title"
// @Param        author_id    formData  int     true   "Author id"
// @Param        genre_id     formData  int     true   "Genre id"
// @Param        price        formData  number  true   "Price"
// @Param        stock        formData  int     true   "Stock"
// @Param        description  formData  string  true   "Description"
// @Param        is_active    formData  bool    false  "Listed (default true)"
// @Param        image        formData  file    false  "Cover image"
// @Success      200          {object}  Envelope
// @Failure      400          {object}  Envelope
// @Failure      404          {object}  Envelope
// @Router       /api/v1/admin/books/{id} [put]
func (h *BookHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var form bookForm
	if err := bind(c, &form); err != nil {
		return err
	}
	image, err := formUpload(c, "image")
	if err != nil {
		return err
	}

	book, err := h.catalog.UpdateBook(c.Request().Context(), id, form.input(image))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Book updated successfully", book)
}

// Delete removes a book.
//
// @Summary      Delete a book
// @Tags         admin-books
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Book id"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /api/v1/admin/books/{id} [delete]
func (h *BookHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteBook(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Book deleted successfully", nil)
}
