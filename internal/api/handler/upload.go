package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/papyrus/bookstore-api/internal/core/ports"
)

const maxUploadBytes = 10 << 20

// formUpload reads an optional multipart file. A missing field yields nil.
func formUpload(c echo.Context, field string) (*ports.Upload, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+field+" upload")
	}
	if fh.Size > maxUploadBytes {
		return nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s exceeds %d MB", field, maxUploadBytes>>20))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s upload: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s upload: %w", field, err)
	}
	if len(data) > maxUploadBytes {
		return nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s exceeds %d MB", field, maxUploadBytes>>20))
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &ports.Upload{Data: data, Ext: filepath.Ext(fh.Filename)}, nil
}
