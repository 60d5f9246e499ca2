package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/webinar_backend/logging"
	"github.com/HSouheill/webinar_backend/metrics"
	"github.com/HSouheill/webinar_backend/middleware"
	"github.com/HSouheill/webinar_backend/utils"
)

type FileSaver interface {
	Save(header *multipart.FileHeader) (*utils.UploadResult, error)
}

type UploadController struct {
	storage FileSaver
}

func NewUploadController(storage FileSaver) *UploadController {
	return &UploadController{storage: storage}
}

// UploadFile stores the multipart field "file" in the public uploads directory
func (uc *UploadController) UploadFile(c echo.Context) error {
	header, err := c.FormFile("file")
	if err != nil {
		return failure(c, http.StatusBadRequest, "file field is required")
	}

	result, err := uc.storage.Save(header)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrFileTooLarge):
			return failure(c, http.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, utils.ErrUnsupportedFileExt):
			return failure(c, http.StatusUnsupportedMediaType, err.Error())
		}
		return respondError(c, err)
	}

	metrics.UploadsTotal.WithLabelValues(result.Kind).Inc()
	logging.Info("File uploaded", "uid", middleware.UID(c), "file", result.Filename, "kind", result.Kind, "size", result.Size)
	return success(c, http.StatusCreated, "File uploaded", result)
}
