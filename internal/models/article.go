package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Article struct {
	gorm.Model
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Slug        string    `gorm:"not null;unique" json:"slug"`
	Excerpt     string    `json:"excerpt"`
	ContentHTML string    `gorm:"type:text;not null" json:"content_html"`
	CoverPath   string    `json:"cover_path"`
	IsPublished bool      `gorm:"not null;default:false" json:"is_published"`
	UserID      uuid.UUID `json:"user_id"`
	User        User      `json:"-"`
}

func (article *Article) BeforeCreate(tx *gorm.DB) (err error) {
	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}
	return
}
