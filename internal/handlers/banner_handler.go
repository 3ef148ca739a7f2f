package handlers

import (
	"math/rand"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fadhilmh/donasiku/internal/helpers"
	"github.com/fadhilmh/donasiku/internal/models"
)

func CreateBanner(c *gin.Context) {
	title := c.PostForm("title")
	linkURL := c.PostForm("link_url")

	weight := 1
	if weightStr := c.PostForm("weight"); weightStr != "" {
		parsed, err := helpers.StringToInt(weightStr)
		if err != nil || parsed < 1 {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid weight.")
			return
		}
		weight = parsed
	}

	if title == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Missing required fields.")
		return
	}

	imageFile, err := c.FormFile("image")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Banner image is required.")
		return
	}
	imagePath, err := helpers.UploadFile(c, imageFile, "banner_images")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	banner := models.Banner{
		ID:        uuid.New(),
		Title:     title,
		ImagePath: imagePath,
		LinkURL:   linkURL,
		Weight:    weight,
		IsActive:  c.DefaultPostForm("is_active", "true") == "true",
	}

	if err := gormDB.Create(&banner).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create banner.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Banner created successfully.",
		"banner_id": banner.ID,
	})
}

func ListBanners(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var banners []models.Banner
	if err := gormDB.Order("created_at DESC").Find(&banners).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving banners.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"banners": banners})
}

// ActiveBanner picks one active banner, weighted by each banner's weight.
func ActiveBanner(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var banners []models.Banner
	if err := gormDB.Where("is_active = ?", true).Find(&banners).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving banners.")
		return
	}

	banner := pickWeighted(banners)
	if banner == nil {
		helpers.RespondWithError(c, http.StatusNotFound, "No active banner.")
		return
	}

	c.JSON(http.StatusOK, banner)
}

func pickWeighted(banners []models.Banner) *models.Banner {
	totalWeight := 0
	for _, banner := range banners {
		if banner.Weight > 0 {
			totalWeight += banner.Weight
		}
	}
	if totalWeight == 0 {
		return nil
	}

	pick := rand.Intn(totalWeight)
	for i := range banners {
		if banners[i].Weight <= 0 {
			continue
		}
		pick -= banners[i].Weight
		if pick < 0 {
			return &banners[i]
		}
	}
	return nil
}

func UpdateBanner(c *gin.Context) {
	bannerID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var banner models.Banner
	if err := gormDB.Where("id = ?", bannerID).First(&banner).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Banner not found.")
		return
	}

	updates := map[string]interface{}{}
	if title := c.PostForm("title"); title != "" {
		updates["title"] = title
	}
	if linkURL := c.PostForm("link_url"); linkURL != "" {
		updates["link_url"] = linkURL
	}
	if weightStr := c.PostForm("weight"); weightStr != "" {
		weight, err := helpers.StringToInt(weightStr)
		if err != nil || weight < 1 {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid weight.")
			return
		}
		updates["weight"] = weight
	}
	if active := c.PostForm("is_active"); active != "" {
		updates["is_active"] = active == "true"
	}

	imageFile, err := c.FormFile("image")
	if err == nil {
		imagePath, err := helpers.UploadFile(c, imageFile, "banner_images")
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		if banner.ImagePath != "" {
			helpers.DeleteFile(banner.ImagePath)
		}
		updates["image_path"] = imagePath
	}

	if err := gormDB.Model(&banner).Updates(updates).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update banner.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Banner updated successfully."})
}

func DeleteBanner(c *gin.Context) {
	bannerID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var banner models.Banner
	if err := gormDB.Where("id = ?", bannerID).First(&banner).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Banner not found.")
		return
	}

	if err := gormDB.Delete(&banner).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete banner.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Banner deleted successfully."})
}
