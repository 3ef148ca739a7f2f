package donations

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fadhilmh/donasiku/internal/models"
)

// GormStore implements DonationStore on top of the shared database handle.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetPublishedCampaign(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	var campaign models.Campaign
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_published = ?", id, true).
		First(&campaign).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}
	return &campaign, nil
}

func (s *GormStore) CreateDonation(ctx context.Context, donation *models.Donation) error {
	return s.db.WithContext(ctx).Create(donation).Error
}

func (s *GormStore) FindByIdempotencyKey(ctx context.Context, key string) (*models.Donation, error) {
	var donation models.Donation
	err := s.db.WithContext(ctx).
		Where("idempotency_key = ?", key).
		First(&donation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &donation, nil
}

func (s *GormStore) SavePaymentToken(ctx context.Context, id uuid.UUID, token string) error {
	return s.db.WithContext(ctx).
		Model(&models.Donation{}).
		Where("id = ?", id).
		Update("payment_token", token).Error
}

func (s *GormStore) GetDonation(ctx context.Context, id uuid.UUID) (*models.Donation, error) {
	var donation models.Donation
	err := s.db.WithContext(ctx).First(&donation, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &donation, nil
}
