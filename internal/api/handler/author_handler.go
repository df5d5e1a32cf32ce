package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/papyrus/bookstore-api/internal/core/ports"
)

// AuthorHandler serves /api/v1/admin/authors.
type AuthorHandler struct {
	catalog ports.CatalogService
}

func NewAuthorHandler(catalog ports.CatalogService) *AuthorHandler {
	return &AuthorHandler{catalog: catalog}
}

type authorForm struct {
	FullName  string `form:"full_name" validate:"required,max=255"`
	Biography string `form:"biography"`
}

// Create adds an author.
//
// @Summary      Create an author
// @Tags         admin-authors
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        full_name  formData  string  true   "Full name"
// @Param        biography  formData  string  false  "Biography"
// @Param        image      formData  file    false  "Portrait"
// @Success      201        {object}  Envelope
// @Failure      400        {object}  Envelope
// @Failure      409        {object}  Envelope
// @Router       /api/v1/admin/authors [post]
func (h *AuthorHandler) Create(c echo.Context) error {
	var form authorForm
	if err := bind(c, &form); err != nil {
		return err
	}
	image, err := formUpload(c, "image")
	if err != nil {
		return err
	}

	author, err := h.catalog.CreateAuthor(c.Request().Context(), ports.AuthorInput{
		FullName:  form.FullName,
		Biography: form.Biography,
		Image:     image,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Author created successfully", author)
}

// List returns authors, newest first.
//
// @Summary      List authors
// @Tags         admin-authors
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope
// @Router       /api/v1/admin/authors [get]
func (h *AuthorHandler) List(c echo.Context) error {
	authors, err := h.catalog.ListAuthors(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Authors fetched successfully", authors)
}

// @Summary      Get an author
// @Tags         admin-authors
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Author id"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /api/v1/admin/authors/{id} [get]
func (h *AuthorHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	author, err := h.catalog.GetAuthor(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Author fetched successfully", author)
}

// @Summary      Update an author
// @Tags         admin-authors
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id         path      int     true   "Author id"
// @Param        full_name  formData  string  true   "Full name"
// @Param        biography  formData  string  false  "Biography"
// @Param        image      formData  file    false  "Portrait"
// @Success      200        {object}  Envelope
// @Failure      400        {object}  Envelope
// @Failure      404        {object}  Envelope
// @Router       /api/v1/admin/authors/{id} [put]
func (h *AuthorHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var form authorForm
	if err := bind(c, &form); err != nil {
		return err
	}
	image, err := formUpload(c, "image")
	if err != nil {
		return err
	}

	author, err := h.catalog.UpdateAuthor(c.Request().Context(), id, ports.AuthorInput{
		FullName:  form.FullName,
		Biography: form.Biography,
		Image:     image,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Author updated successfully", author)
}

// @Summary      Delete an author
// @Tags         admin-authors
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Author id"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /api/v1/admin/authors/{id} [delete]
func (h *AuthorHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteAuthor(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Author deleted successfully", nil)
}
