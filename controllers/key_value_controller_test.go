package controllers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HSouheill/webinar_backend/models"
	"github.com/HSouheill/webinar_backend/services"
)

type memorySettings struct {
	values map[string]string
	writes int
}

func newMemorySettings() *memorySettings {
	return &memorySettings{values: map[string]string{}}
}

func (m *memorySettings) Get(_ context.Context, key string) (*models.KeyValue, error) {
	v, ok := m.values[key]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &models.KeyValue{Key: key, Value: v}, nil
}

func (m *memorySettings) Set(_ context.Context, key, value string) (*models.KeyValue, error) {
	m.writes++
	m.values[key] = value
	return &models.KeyValue{Key: key, Value: value, UpdatedAt: time.Now()}, nil
}

func (m *memorySettings) Delete(_ context.Context, key string) error {
	m.writes++
	if _, ok := m.values[key]; !ok {
		return models.ErrNotFound
	}
	delete(m.values, key)
	return nil
}

func TestKeyValueController_SetAndGet(t *testing.T) {
	store := newMemorySettings()
	kc := NewKeyValueController(store)

	c, rec := newContext(t, request{
		method: http.MethodPut,
		target: "/api/kv/landing.hero",
		body:   `{"value":"{\"title\":\"Hola\"}"}`,
		uid:    "landing",
		role:   models.RoleService,
		params: map[string]string{"key": "landing.hero"},
	})
	require.NoError(t, kc.SetValue(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"title":"Hola"}`, store.values["landing.hero"])

	c, rec = newContext(t, request{
		method: http.MethodGet,
		target: "/api/kv/landing.hero",
		params: map[string]string{"key": "landing.hero"},
	})
	require.NoError(t, kc.GetValue(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec).Data.(map[string]interface{})
	assert.Equal(t, `{"title":"Hola"}`, data["value"])
}

func TestKeyValueController_EmptyValueAllowed(t *testing.T) {
	store := newMemorySettings()
	kc := NewKeyValueController(store)

	c, rec := newContext(t, request{
		method: http.MethodPut,
		target: "/api/kv/banner",
		body:   `{"value":""}`,
		role:   models.RoleClient,
		params: map[string]string{"key": "banner"},
	})
	require.NoError(t, kc.SetValue(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, store.values, "banner")
}

func TestKeyValueController_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		role       string
		body       string
		wantStatus int
	}{
		{"reserved key for non admin", "commission_levels_impulsor", models.RoleService, `{"value":"[]"}`, http.StatusForbidden},
		{"invalid key", "has space", models.RoleAdmin, `{"value":"x"}`, http.StatusBadRequest},
		{"missing value", "banner", models.RoleAdmin, `{}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemorySettings()
			kc := NewKeyValueController(store)

			c, rec := newContext(t, request{
				method: http.MethodPut,
				target: "/api/kv/x",
				body:   tt.body,
				role:   tt.role,
				params: map[string]string{"key": tt.key},
			})
			require.NoError(t, kc.SetValue(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Zero(t, store.writes)
		})
	}
}

func TestKeyValueController_AdminWritesReservedKey(t *testing.T) {
	store := newMemorySettings()
	store.values["commission_levels_impulsor"] = "[]"
	kc := NewKeyValueController(store)

	c, rec := newContext(t, request{
		method: http.MethodDelete,
		target: "/api/kv/commission_levels_impulsor",
		role:   models.RoleAdmin,
		params: map[string]string{"key": "commission_levels_impulsor"},
	})
	require.NoError(t, kc.DeleteValue(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, store.values, "commission_levels_impulsor")
}

func TestKeyValueController_GetMissing(t *testing.T) {
	kc := NewKeyValueController(newMemorySettings())

	c, rec := newContext(t, request{
		method: http.MethodGet,
		target: "/api/kv/nothing",
		params: map[string]string{"key": "nothing"},
	})
	require.NoError(t, kc.GetValue(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestKeyValueController_SetValue_ValidatesRateTables(t *testing.T) {
	store := newMemorySettings()
	kc := NewKeyValueController(services.NewSettingsService(store, nil))
	key := services.CommissionLevelsKey(models.TableImpulsor)

	c, rec := newContext(t, request{
		method: http.MethodPut,
		target: "/api/kv/" + key,
		body:   `{"value":"[{\"percentage\":500,\"active\":true}]"}`,
		uid:    "admin1",
		role:   models.RoleAdmin,
		params: map[string]string{"key": key},
	})
	require.NoError(t, kc.SetValue(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, store.writes)

	c, rec = newContext(t, request{
		method: http.MethodPut,
		target: "/api/kv/" + key,
		body:   `{"value":"[{\"percentage\":10,\"active\":true}]"}`,
		uid:    "admin1",
		role:   models.RoleAdmin,
		params: map[string]string{"key": key},
	})
	require.NoError(t, kc.SetValue(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, store.writes)
}
