package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/fadhilmh/donasiku/internal/cache"
)

func SettingsCacheMiddleware(settingsCache *cache.SettingsCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("settings_cache", settingsCache)
		c.Next()
	}
}

func GetSettingsCache(c *gin.Context) *cache.SettingsCache {
	value, exists := c.Get("settings_cache")
	if !exists {
		return nil
	}
	return value.(*cache.SettingsCache)
}
