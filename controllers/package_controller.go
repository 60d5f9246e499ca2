package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/webinar_backend/models"
)

type PackageStore interface {
	List(ctx context.Context, onlyActive bool) ([]models.Package, error)
	FindByID(ctx context.Context, id string) (*models.Package, error)
	Create(ctx context.Context, req models.PackageRequest) (*models.Package, error)
	Update(ctx context.Context, id string, req models.PackageRequest) (*models.Package, error)
	Delete(ctx context.Context, id string) error
}

// CacheInvalidator drops cached copies of a changed document
type CacheInvalidator interface {
	Invalidate(id string)
}

type PackageController struct {
	store PackageStore
	cache CacheInvalidator
}

func NewPackageController(store PackageStore, cache CacheInvalidator) *PackageController {
	return &PackageController{store: store, cache: cache}
}

// ListPackages returns active packages sorted by display order
func (pc *PackageController) ListPackages(c echo.Context) error {
	return pc.list(c, true)
}

// ListAllPackages includes inactive packages, for admins
func (pc *PackageController) ListAllPackages(c echo.Context) error {
	return pc.list(c, false)
}

func (pc *PackageController) list(c echo.Context, onlyActive bool) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	packages, err := pc.store.List(ctx, onlyActive)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "", packages)
}

func (pc *PackageController) GetPackage(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	pkg, err := pc.store.FindByID(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "", pkg)
}

func (pc *PackageController) CreatePackage(c echo.Context) error {
	var req models.PackageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	pkg, err := pc.store.Create(ctx, req)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusCreated, "Package created", pkg)
}

func (pc *PackageController) UpdatePackage(c echo.Context) error {
	var req models.PackageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	id := c.Param("id")
	pkg, err := pc.store.Update(ctx, id, req)
	if err != nil {
		return respondError(c, err)
	}
	pc.invalidate(id)
	return success(c, http.StatusOK, "Package updated", pkg)
}

func (pc *PackageController) DeletePackage(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	id := c.Param("id")
	if err := pc.store.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	pc.invalidate(id)
	return success(c, http.StatusOK, "Package deleted", nil)
}

func (pc *PackageController) invalidate(id string) {
	if pc.cache != nil {
		pc.cache.Invalidate(id)
	}
}
