package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/anonto42/eventpulse/backend/internal/middleware"
	"github.com/anonto42/eventpulse/backend/pkg/storage"
	"github.com/labstack/echo/v4"
)

// PictureUploader stores an uploaded picture and returns where it lives
type PictureUploader interface {
	UploadPicture(ctx context.Context, prefix, filename, contentType string, size int64, r io.Reader) (string, error)
}

// bind decodes the request into req and runs its validate tags
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

// actingUser prefers the id sent in the body and falls back to the token
func actingUser(c echo.Context, bodyID string) string {
	if bodyID != "" {
		return bodyID
	}
	return middleware.CurrentUserID(c)
}

// savePicture uploads the "picture" form file under prefix. Without a file
// it returns the plain "picturePath" form value.
func savePicture(c echo.Context, uploader PictureUploader, prefix string) (string, error) {
	fh, err := c.FormFile("picture")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return c.FormValue("picturePath"), nil
		}
		return "", echo.NewHTTPError(http.StatusBadRequest, "Invalid picture upload")
	}
	if uploader == nil {
		return "", echo.NewHTTPError(http.StatusServiceUnavailable, "Picture uploads are not configured")
	}

	contentType := fh.Header.Get(echo.HeaderContentType)
	if err := storage.CheckPicture(contentType, fh.Size); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	src, err := fh.Open()
	if err != nil {
		return "", echo.NewHTTPError(http.StatusInternalServerError, "Failed to read uploaded file")
	}
	defer src.Close()

	url, err := uploader.UploadPicture(c.Request().Context(), prefix, fh.Filename, contentType, fh.Size, src)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return url, nil
}
