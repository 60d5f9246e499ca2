package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/HSouheill/webinar_backend/logging"
	"github.com/HSouheill/webinar_backend/metrics"
	"github.com/HSouheill/webinar_backend/models"
)

const (
	commissionLevelsPrefix = "commission_levels_"
	settingsCachePrefix    = "kv:"
	settingsCacheTTL       = 5 * time.Minute
)

// KeyValueStore persists string settings
type KeyValueStore interface {
	Get(ctx context.Context, key string) (*models.KeyValue, error)
	Set(ctx context.Context, key, value string) (*models.KeyValue, error)
	Delete(ctx context.Context, key string) error
}

// SettingsService is the server-owned settings store. It fronts the key/value
// collection with a Redis read-through cache; a nil Redis client disables the
// cache.
type SettingsService struct {
	store KeyValueStore
	cache *redis.Client
}

func NewSettingsService(store KeyValueStore, cache *redis.Client) *SettingsService {
	return &SettingsService{store: store, cache: cache}
}

// CommissionLevelsKey is the settings key holding a rate table
func CommissionLevelsKey(table string) string {
	return commissionLevelsPrefix + table
}

func (s *SettingsService) Get(ctx context.Context, key string) (*models.KeyValue, error) {
	if kv, ok := s.cached(ctx, key); ok {
		return kv, nil
	}

	kv, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	s.remember(ctx, kv)
	return kv, nil
}

// Set stores value under key. Rate tables written through here get the same
// checks as SaveCommissionLevels.
func (s *SettingsService) Set(ctx context.Context, key, value string) (*models.KeyValue, error) {
	if strings.HasPrefix(key, commissionLevelsPrefix) {
		if _, err := decodeLevels(value); err != nil {
			return nil, err
		}
	}
	return s.put(ctx, key, value)
}

func (s *SettingsService) put(ctx context.Context, key, value string) (*models.KeyValue, error) {
	kv, err := s.store.Set(ctx, key, value)
	if err != nil {
		return nil, err
	}
	s.forget(ctx, key)
	return kv, nil
}

func (s *SettingsService) Delete(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, key); err != nil {
		return err
	}
	s.forget(ctx, key)
	return nil
}

// CommissionLevels returns the rate table, defaulting to inactive 0% levels
// when none was saved yet or the stored one does not pass validation.
func (s *SettingsService) CommissionLevels(ctx context.Context, table string) ([]models.CommissionLevelSetting, error) {
	if err := validateTable(table); err != nil {
		return nil, err
	}

	kv, err := s.Get(ctx, CommissionLevelsKey(table))
	if errors.Is(err, models.ErrNotFound) {
		return make([]models.CommissionLevelSetting, models.MaxCommissionLevels), nil
	}
	if err != nil {
		return nil, err
	}

	levels, err := decodeLevels(kv.Value)
	if err != nil {
		logging.Error("Stored commission levels rejected, paying nothing", "table", table, "error", err)
		return make([]models.CommissionLevelSetting, models.MaxCommissionLevels), nil
	}
	return levels, nil
}

func (s *SettingsService) SaveCommissionLevels(ctx context.Context, table string, levels []models.CommissionLevelSetting) error {
	if err := validateTable(table); err != nil {
		return err
	}
	if len(levels) != models.MaxCommissionLevels {
		return fmt.Errorf("%w: expected %d levels, got %d", models.ErrInvalidInput, models.MaxCommissionLevels, len(levels))
	}
	if err := checkPercentages(levels); err != nil {
		return err
	}

	raw, err := json.Marshal(levels)
	if err != nil {
		return err
	}
	_, err = s.put(ctx, CommissionLevelsKey(table), string(raw))
	return err
}

// decodeLevels parses a stored rate table. Short tables are padded so every
// level has a setting; extra levels are dropped.
func decodeLevels(raw string) ([]models.CommissionLevelSetting, error) {
	var levels []models.CommissionLevelSetting
	if err := json.Unmarshal([]byte(raw), &levels); err != nil {
		return nil, fmt.Errorf("%w: commission levels must be a JSON array: %v", models.ErrInvalidInput, err)
	}
	if len(levels) > models.MaxCommissionLevels {
		levels = levels[:models.MaxCommissionLevels]
	}
	if err := checkPercentages(levels); err != nil {
		return nil, err
	}
	for len(levels) < models.MaxCommissionLevels {
		levels = append(levels, models.CommissionLevelSetting{})
	}
	return levels, nil
}

func checkPercentages(levels []models.CommissionLevelSetting) error {
	for i, l := range levels {
		if l.Percentage < 0 || l.Percentage > 100 {
			return fmt.Errorf("%w: level %d percentage %.2f out of range", models.ErrInvalidInput, i+1, l.Percentage)
		}
	}
	return nil
}

func validateTable(table string) error {
	if table != models.TableImpulsor && table != models.TableConsumidor {
		return fmt.Errorf("%w: unknown commission table %q", models.ErrInvalidInput, table)
	}
	return nil
}

func (s *SettingsService) cached(ctx context.Context, key string) (*models.KeyValue, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, err := s.cache.Get(ctx, settingsCachePrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logging.Warn("Settings cache read failed", "key", key, "error", err)
		}
		metrics.CacheMissesTotal.WithLabelValues("settings").Inc()
		return nil, false
	}

	var kv models.KeyValue
	if err := json.Unmarshal(raw, &kv); err != nil {
		metrics.CacheMissesTotal.WithLabelValues("settings").Inc()
		return nil, false
	}
	metrics.CacheHitsTotal.WithLabelValues("settings").Inc()
	return &kv, true
}

func (s *SettingsService) remember(ctx context.Context, kv *models.KeyValue) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(kv)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, settingsCachePrefix+kv.Key, raw, settingsCacheTTL).Err(); err != nil {
		logging.Warn("Settings cache write failed", "key", kv.Key, "error", err)
	}
}

func (s *SettingsService) forget(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, settingsCachePrefix+key).Err(); err != nil {
		logging.Warn("Settings cache invalidation failed", "key", key, "error", err)
	}
}
