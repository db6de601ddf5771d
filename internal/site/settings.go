package site

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/devfolio/devfolio/internal/cache"
	"github.com/devfolio/devfolio/internal/content"
	"github.com/devfolio/devfolio/internal/store"
	"github.com/devfolio/devfolio/pkg/logger"
)

// SettingsSource supplies the settings read by public views.
type SettingsSource interface {
	Settings(ctx context.Context) (content.Settings, error)
}

// StoreSettings reads the settings document on every call. A missing
// document yields the defaults; public views never write.
type StoreSettings struct {
	Store store.Store
}

func (s StoreSettings) Settings(ctx context.Context) (content.Settings, error) {
	d, err := s.Store.Get(ctx, content.SettingsCollection, content.SettingsID)
	if errors.Is(err, store.ErrNotFound) {
		return content.DefaultSettings(), nil
	}
	if err != nil {
		return content.Settings{}, err
	}
	return content.DecodeSettings(*d)
}

const settingsCacheKey = "settings:general"

// CachedSettings is a read-through cache over another source. Public views
// may lag a save made by another process by at most TTL; Invalidate drops
// the entry after a save in this process. A zero TTL disables caching.
type CachedSettings struct {
	Source SettingsSource
	Cache  cache.Cache
	TTL    time.Duration
}

func (c *CachedSettings) Settings(ctx context.Context) (content.Settings, error) {
	if c.TTL <= 0 || c.Cache == nil {
		return c.Source.Settings(ctx)
	}
	if raw, err := c.Cache.Get(ctx, settingsCacheKey); err == nil {
		var s content.Settings
		if err := json.Unmarshal(raw, &s); err == nil {
			return s, nil
		}
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		logger.Warnf("settings cache read failed: %v", err)
	}

	s, err := c.Source.Settings(ctx)
	if err != nil {
		return s, err
	}
	if raw, err := json.Marshal(s); err == nil {
		if err := c.Cache.Set(ctx, settingsCacheKey, raw, c.TTL); err != nil {
			logger.Warnf("settings cache write failed: %v", err)
		}
	}
	return s, nil
}

// Invalidate drops the cached settings.
func (c *CachedSettings) Invalidate(ctx context.Context) {
	if c.Cache == nil {
		return
	}
	if err := c.Cache.Delete(ctx, settingsCacheKey); err != nil {
		logger.Warnf("settings cache invalidate failed: %v", err)
	}
}
