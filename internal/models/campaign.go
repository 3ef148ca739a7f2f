package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Campaign struct {
	gorm.Model
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Title        string     `gorm:"not null" json:"title"`
	Slug         string     `gorm:"not null;unique" json:"slug"`
	Description  string     `gorm:"type:text;not null" json:"description"`
	ImagePath    string     `json:"image_path"`
	TargetAmount int        `gorm:"not null" json:"target_amount"`
	RaisedAmount int        `gorm:"not null;default:0" json:"raised_amount"`
	IsPublished  bool       `gorm:"not null;default:false" json:"is_published"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
	UserID       uuid.UUID  `json:"user_id"`
	User         User       `json:"-"`
	Categories   []Category `gorm:"many2many:campaign_categories;" json:"categories"`
	Donations    []Donation `json:"-"`
}

func (campaign *Campaign) BeforeCreate(tx *gorm.DB) (err error) {
	if campaign.ID == uuid.Nil {
		campaign.ID = uuid.New()
	}
	return
}
