package handlers

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/fadhilmh/donasiku/internal/helpers"
	"github.com/fadhilmh/donasiku/internal/models"
)

func CreateCampaign(c *gin.Context) {
	title := c.PostForm("title")
	slug := c.PostForm("slug")
	description := c.PostForm("description")

	targetAmount, err := helpers.StringToInt(c.PostForm("target_amount"))
	if err != nil || targetAmount <= 0 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid target amount.")
		return
	}

	var endsAt *time.Time
	if endsAtStr := c.PostForm("ends_at"); endsAtStr != "" {
		parsed, err := time.Parse(time.RFC3339, endsAtStr)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ends_at format.")
			return
		}
		endsAt = &parsed
	}

	var categories []string
	for i := 0; ; i++ {
		category := c.PostForm(fmt.Sprintf("categories[%d]", i))
		if category == "" {
			break
		}
		categories = append(categories, category)
	}

	if title == "" || slug == "" || description == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Missing required fields.")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var user models.User
	if err := gormDB.Where("id = ?", userID).First(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
		return
	}

	var campaignCategories []models.Category
	for _, categoryName := range categories {
		var category models.Category
		if err := gormDB.Where("name = ?", categoryName).FirstOrCreate(&category, models.Category{Name: categoryName}).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Error processing categories.")
			return
		}
		campaignCategories = append(campaignCategories, category)
	}

	campaign := models.Campaign{
		ID:           uuid.New(),
		Title:        title,
		Slug:         slug,
		Description:  description,
		TargetAmount: targetAmount,
		IsPublished:  c.PostForm("is_published") == "true",
		EndsAt:       endsAt,
		UserID:       user.ID,
		Categories:   campaignCategories,
	}

	imageFile, err := c.FormFile("image")
	if err == nil {
		imagePath, err := helpers.UploadFile(c, imageFile, "campaign_images")
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		campaign.ImagePath = imagePath
	}

	if err := gormDB.Create(&campaign).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create campaign.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Campaign created successfully.",
		"campaign_id": campaign.ID,
	})
}

func GetCampaign(c *gin.Context) {
	slug := c.Param("slug")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var campaign models.Campaign
	if err := gormDB.Preload("Categories").Where("slug = ? AND is_published = ?", slug, true).First(&campaign).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Campaign not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving campaign.")
		return
	}

	var donorCount int64
	gormDB.Model(&models.Donation{}).
		Where("campaign_id = ? AND status = ?", campaign.ID, models.DonationStatusPaid).
		Count(&donorCount)

	c.JSON(http.StatusOK, gin.H{
		"campaign":         campaign,
		"donor_count":      donorCount,
		"raised_formatted": helpers.FormatRupiah(campaign.RaisedAmount),
		"target_formatted": helpers.FormatRupiah(campaign.TargetAmount),
	})
}

func ListCampaigns(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "10")
	category := c.Query("category")

	pageNum, err := helpers.StringToInt(page)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page number.")
		return
	}

	limitNum, err := helpers.StringToInt(limit)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit.")
		return
	}

	query := gormDB.Model(&models.Campaign{}).Where("is_published = ?", true)
	if category != "" {
		query = query.
			Joins("JOIN campaign_categories ON campaign_categories.campaign_id = campaigns.id").
			Joins("JOIN categories ON categories.id = campaign_categories.category_id").
			Where("categories.name = ?", category)
	}

	var totalCount int64
	query.Count(&totalCount)

	var campaigns []models.Campaign
	offset := (pageNum - 1) * limitNum
	err = query.Preload("Categories").Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&campaigns).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving campaigns.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"campaigns":   campaigns,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

func UpdateCampaign(c *gin.Context) {
	campaignID := c.Param("id")
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var campaign models.Campaign
	if err := gormDB.Where("id = ?", campaignID).First(&campaign).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Campaign not found.")
		return
	}

	if campaign.UserID != userID && c.GetString("role") != "admin" {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to update this campaign.")
		return
	}

	updates := map[string]interface{}{}
	if title := c.PostForm("title"); title != "" {
		updates["title"] = title
	}
	if description := c.PostForm("description"); description != "" {
		updates["description"] = description
	}
	if targetStr := c.PostForm("target_amount"); targetStr != "" {
		targetAmount, err := helpers.StringToInt(targetStr)
		if err != nil || targetAmount <= 0 {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid target amount.")
			return
		}
		updates["target_amount"] = targetAmount
	}
	if published := c.PostForm("is_published"); published != "" {
		updates["is_published"] = published == "true"
	}

	imageFile, err := c.FormFile("image")
	if err == nil {
		imagePath, err := helpers.UploadFile(c, imageFile, "campaign_images")
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		if campaign.ImagePath != "" {
			helpers.DeleteFile(campaign.ImagePath)
		}
		updates["image_path"] = imagePath
	}

	if err := gormDB.Model(&campaign).Updates(updates).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update campaign.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Campaign updated successfully."})
}

func DeleteCampaign(c *gin.Context) {
	campaignID := c.Param("id")
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var campaign models.Campaign
	if err := gormDB.Where("id = ?", campaignID).First(&campaign).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Campaign not found.")
		return
	}

	if campaign.UserID != userID && c.GetString("role") != "admin" {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to delete this campaign.")
		return
	}

	if err := gormDB.Delete(&campaign).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete campaign.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Campaign deleted successfully."})
}

// CampaignQR renders a shareable QR code pointing at the campaign's public
// page.
func CampaignQR(c *gin.Context) {
	slug := c.Param("slug")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var campaign models.Campaign
	if err := gormDB.Where("slug = ? AND is_published = ?", slug, true).First(&campaign).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Campaign not found.")
		return
	}

	baseURL := os.Getenv("SITE_BASE_URL")
	if baseURL == "" {
		baseURL = "https://donasiku.id"
	}

	qrImage, err := qrcode.Encode(fmt.Sprintf("%s/campaigns/%s", baseURL, campaign.Slug), qrcode.Medium, 256)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", qrImage)
}

// ListCampaignDonations lists a campaign's donations for the dashboard.
// Anonymous donors keep their name hidden by the model itself.
func ListCampaignDonations(c *gin.Context) {
	slug := c.Param("slug")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var campaign models.Campaign
	if err := gormDB.Where("slug = ?", slug).First(&campaign).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Campaign not found.")
		return
	}

	status := c.Query("status")
	query := gormDB.Model(&models.Donation{}).Where("campaign_id = ?", campaign.ID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var donationList []models.Donation
	if err := query.Order("created_at DESC").Find(&donationList).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving donations.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"campaign_id": campaign.ID,
		"donations":   donationList,
	})
}
