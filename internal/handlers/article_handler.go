package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fadhilmh/donasiku/internal/helpers"
	"github.com/fadhilmh/donasiku/internal/models"
)

type ArticleRequest struct {
	Title       string `json:"title" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Excerpt     string `json:"excerpt"`
	ContentHTML string `json:"content_html"`
	// Content is the legacy field name still sent by older dashboard builds.
	Content     string `json:"content"`
	IsPublished bool   `json:"is_published"`
}

// NormalizedContent folds the legacy "content" field into the canonical
// content_html shape. The tolerance stays at this boundary; everything past
// it sees one field.
func (r *ArticleRequest) NormalizedContent() string {
	if r.ContentHTML != "" {
		return r.ContentHTML
	}
	return r.Content
}

func CreateArticle(c *gin.Context) {
	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	content := req.NormalizedContent()
	if content == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Article content is required.")
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

	article := models.Article{
		ID:          uuid.New(),
		Title:       req.Title,
		Slug:        req.Slug,
		Excerpt:     req.Excerpt,
		ContentHTML: content,
		IsPublished: req.IsPublished,
		UserID:      userID.(uuid.UUID),
	}

	if err := gormDB.Create(&article).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create article.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Article created successfully.",
		"article_id": article.ID,
	})
}

func GetArticle(c *gin.Context) {
	slug := c.Param("slug")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var article models.Article
	if err := gormDB.Where("slug = ? AND is_published = ?", slug, true).First(&article).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Article not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving article.")
		return
	}

	c.JSON(http.StatusOK, article)
}

func ListArticles(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "10")

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

	query := gormDB.Model(&models.Article{}).Where("is_published = ?", true)

	var totalCount int64
	query.Count(&totalCount)

	var articles []models.Article
	offset := (pageNum - 1) * limitNum
	err = query.Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&articles).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving articles.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles":    articles,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

func UpdateArticle(c *gin.Context) {
	articleID := c.Param("id")

	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var article models.Article
	if err := gormDB.Where("id = ?", articleID).First(&article).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Article not found.")
		return
	}

	updates := map[string]interface{}{
		"title":        req.Title,
		"slug":         req.Slug,
		"excerpt":      req.Excerpt,
		"is_published": req.IsPublished,
	}
	if content := req.NormalizedContent(); content != "" {
		updates["content_html"] = content
	}

	if err := gormDB.Model(&article).Updates(updates).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update article.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Article updated successfully."})
}

func DeleteArticle(c *gin.Context) {
	articleID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var article models.Article
	if err := gormDB.Where("id = ?", articleID).First(&article).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Article not found.")
		return
	}

	if err := gormDB.Delete(&article).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete article.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Article deleted successfully."})
}
