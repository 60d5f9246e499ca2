package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/webinar_backend/logging"
	"github.com/HSouheill/webinar_backend/models"
	"github.com/HSouheill/webinar_backend/services"
	"github.com/HSouheill/webinar_backend/utils"
)

const (
	generatedSlugLength = 8
	slugAttempts        = 3
	defaultQRImageSize  = 300
)

type QRCodeStore interface {
	Create(ctx context.Context, slug string, req models.QRCodeRequest) (*models.QRCode, error)
	List(ctx context.Context) ([]models.QRCode, error)
	FindByID(ctx context.Context, id string) (*models.QRCode, error)
	Update(ctx context.Context, id string, req models.QRCodeRequest) (*models.QRCode, error)
	Delete(ctx context.Context, id string) error
}

type QRResolver interface {
	Resolve(ctx context.Context, slug string) (string, error)
}

type QRCodeController struct {
	store    QRCodeStore
	resolver QRResolver
	baseURL  string
}

// NewQRCodeController builds scan links as baseURL + /qr/<slug>
func NewQRCodeController(store QRCodeStore, resolver QRResolver, baseURL string) *QRCodeController {
	return &QRCodeController{
		store:    store,
		resolver: resolver,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

func (qc *QRCodeController) CreateQRCode(c echo.Context) error {
	var req models.QRCodeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if req.Slug != "" {
		code, err := qc.store.Create(ctx, req.Slug, req)
		if err != nil {
			return respondError(c, err)
		}
		return success(c, http.StatusCreated, "QR code created", code)
	}

	// Generated slugs may collide, retry with a fresh one
	for attempt := 0; attempt < slugAttempts; attempt++ {
		slug, err := utils.GenerateSlug(generatedSlugLength)
		if err != nil {
			return respondError(c, err)
		}
		code, err := qc.store.Create(ctx, slug, req)
		if errors.Is(err, models.ErrConflict) {
			continue
		}
		if err != nil {
			return respondError(c, err)
		}
		return success(c, http.StatusCreated, "QR code created", code)
	}
	return failure(c, http.StatusConflict, "could not allocate a unique slug")
}

func (qc *QRCodeController) ListQRCodes(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	codes, err := qc.store.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "", codes)
}

func (qc *QRCodeController) GetQRCode(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	code, err := qc.store.FindByID(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "", code)
}

func (qc *QRCodeController) UpdateQRCode(c echo.Context) error {
	var req models.QRCodeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	code, err := qc.store.Update(ctx, c.Param("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "QR code updated", code)
}

func (qc *QRCodeController) DeleteQRCode(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := qc.store.Delete(ctx, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "QR code deleted", nil)
}

// QRCodeImage renders the printable PNG of a code's scan link
func (qc *QRCodeController) QRCodeImage(c echo.Context) error {
	size := defaultQRImageSize
	if raw := c.QueryParam("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 64 || n > 2048 {
			return failure(c, http.StatusBadRequest, "size must be between 64 and 2048")
		}
		size = n
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	code, err := qc.store.FindByID(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	png, err := services.RenderQRPNG(qc.ScanURL(code.Slug), size)
	if err != nil {
		return respondError(c, err)
	}
	c.Response().Header().Set("Content-Disposition", `inline; filename="qr-`+code.Slug+`.png"`)
	return c.Blob(http.StatusOK, "image/png", png)
}

// ScanURL is the link encoded in a printed code
func (qc *QRCodeController) ScanURL(slug string) string {
	return qc.baseURL + "/qr/" + slug
}

// Redirect sends a scan to the next active entry. Public.
func (qc *QRCodeController) Redirect(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	slug := c.Param("slug")
	target, err := qc.resolver.Resolve(ctx, slug)
	if err != nil {
		logging.Info("QR scan not redirected", "slug", slug, "error", err)
		return respondError(c, err)
	}

	c.Response().Header().Set("Cache-Control", "no-store")
	return c.Redirect(http.StatusFound, target)
}
