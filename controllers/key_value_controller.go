package controllers

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/webinar_backend/middleware"
	"github.com/HSouheill/webinar_backend/models"
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// reservedKeyPrefix marks entries only admins may change. Commission rate
// tables live there.
const reservedKeyPrefix = "commission_levels_"

type SettingsStore interface {
	Get(ctx context.Context, key string) (*models.KeyValue, error)
	Set(ctx context.Context, key, value string) (*models.KeyValue, error)
	Delete(ctx context.Context, key string) error
}

// KeyValueController exposes the generic settings store
type KeyValueController struct {
	store SettingsStore
}

func NewKeyValueController(store SettingsStore) *KeyValueController {
	return &KeyValueController{store: store}
}

func (kc *KeyValueController) GetValue(c echo.Context) error {
	key := c.Param("key")
	if !keyPattern.MatchString(key) {
		return failure(c, http.StatusBadRequest, "invalid key")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	kv, err := kc.store.Get(ctx, key)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "", kv)
}

func (kc *KeyValueController) SetValue(c echo.Context) error {
	key := c.Param("key")
	if ok, err := kc.writable(c, key); !ok {
		return err
	}

	var req models.KeyValueRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	kv, err := kc.store.Set(ctx, key, *req.Value)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Value saved", kv)
}

func (kc *KeyValueController) DeleteValue(c echo.Context) error {
	key := c.Param("key")
	if ok, err := kc.writable(c, key); !ok {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := kc.store.Delete(ctx, key); err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Value deleted", nil)
}

// writable reports whether the caller may change key. When it may not, the
// rejection has already been written.
func (kc *KeyValueController) writable(c echo.Context, key string) (bool, error) {
	if !keyPattern.MatchString(key) {
		return false, failure(c, http.StatusBadRequest, "invalid key")
	}
	if strings.HasPrefix(key, reservedKeyPrefix) && middleware.Role(c) != models.RoleAdmin {
		return false, failure(c, http.StatusForbidden, "key is managed by the server")
	}
	return true, nil
}
