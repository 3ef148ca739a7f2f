package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Banner struct {
	gorm.Model
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	ImagePath string    `gorm:"not null" json:"image_path"`
	LinkURL   string    `json:"link_url"`
	Weight    int       `gorm:"not null;default:1" json:"weight"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
}

func (banner *Banner) BeforeCreate(tx *gorm.DB) (err error) {
	if banner.ID == uuid.Nil {
		banner.ID = uuid.New()
	}
	return
}
