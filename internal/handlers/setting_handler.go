package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fadhilmh/donasiku/internal/helpers"
	"github.com/fadhilmh/donasiku/internal/middleware"
	"github.com/fadhilmh/donasiku/internal/models"
)

// GetSiteSettings serves the site settings through the injected TTL cache,
// so the marketing pages do not hit the database on every render.
func GetSiteSettings(c *gin.Context) {
	settingsCache := middleware.GetSettingsCache(c)
	if settingsCache == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Settings cache not found.")
		return
	}

	values, err := settingsCache.Get()
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving settings.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": values})
}

type SettingRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value" binding:"required"`
}

func UpdateSiteSettings(c *gin.Context) {
	var req []SettingRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req) == 0 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	for _, setting := range req {
		record := models.Setting{Key: setting.Key, Value: setting.Value}
		if err := gormDB.Save(&record).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to save settings.")
			return
		}
	}

	if settingsCache := middleware.GetSettingsCache(c); settingsCache != nil {
		settingsCache.Invalidate()
	}

	c.JSON(http.StatusOK, gin.H{"message": "Settings updated successfully."})
}
