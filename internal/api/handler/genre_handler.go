package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/papyrus/bookstore-api/internal/core/ports"
)

// GenreHandler serves /api/v1/admin/genres.
type GenreHandler struct {
	catalog ports.CatalogService
}

func NewGenreHandler(catalog ports.CatalogService) *GenreHandler {
	return &GenreHandler{catalog: catalog}
}

type createGenreRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

// updateGenreRequest applies only the fields present in the body.
type updateGenreRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
}

// @Summary      Create a genre
// @Tags         admin-genres
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createGenreRequest  true  "Genre"
// @Success      201   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Router       /api/v1/admin/genres [post]
func (h *GenreHandler) Create(c echo.Context) error {
	var req createGenreRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	genre, err := h.catalog.CreateGenre(c.Request().Context(), req.Name, req.Description)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Genre created successfully", genre)
}

// @Summary      List genres
// @Tags         admin-genres
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope
// @Router       /api/v1/admin/genres [get]
func (h *GenreHandler) List(c echo.Context) error {
	genres, err := h.catalog.ListGenres(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Genres fetched successfully", genres)
}

// @Summary      Get a genre
// @Tags         admin-genres
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Genre id"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /api/v1/admin/genres/{id} [get]
func (h *GenreHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	genre, err := h.catalog.GetGenre(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Genre fetched successfully", genre)
}

// @Summary      Update a genre
// @Tags         admin-genres
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Genre id"
// @Param        body  body      updateGenreRequest  true  "Fields to change"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Router       /api/v1/admin/genres/{id} [put]
func (h *GenreHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateGenreRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	genre, err := h.catalog.UpdateGenre(c.Request().Context(), id, ports.GenrePatch{Name: req.Name, Description: req.Description})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Genre updated successfully", genre)
}

// @Summary      Delete a genre
// @Tags         admin-genres
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Genre id"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /api/v1/admin/genres/{id} [delete]
func (h *GenreHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteGenre(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Genre deleted successfully", nil)
}
