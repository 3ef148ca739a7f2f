package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DonationStatusPending = "pending"
	DonationStatusPaid    = "paid"
	DonationStatusFailed  = "failed"
)

const (
	DonationChannelQris    = "qris"
	DonationChannelEwallet = "ewallet"
	DonationChannelBank    = "bank"
)

// MinDonationAmount is the smallest accepted donation in whole rupiah.
const MinDonationAmount = 5000

type Donation struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	CampaignID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"campaign_id"`
	Campaign       *Campaign  `gorm:"foreignKey:CampaignID" json:"campaign,omitempty"`
	Amount         int        `gorm:"not null;check:amount > 0" json:"amount"`
	DonorName      *string    `json:"donor_name,omitempty"`
	DonorEmail     *string    `json:"donor_email,omitempty"`
	DonorPhone     *string    `json:"donor_phone,omitempty"`
	IsAnonymous    bool       `gorm:"not null;default:false" json:"is_anonymous"`
	Message        *string    `gorm:"type:text" json:"message,omitempty"`
	Channel        string     `gorm:"type:varchar(20);not null" json:"channel"`
	Status         string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentToken   *string    `gorm:"type:text" json:"-"`
	IdempotencyKey *string    `gorm:"type:varchar(100);uniqueIndex" json:"-"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (donation *Donation) BeforeCreate(tx *gorm.DB) (err error) {
	if donation.ID == uuid.Nil {
		donation.ID = uuid.New()
	}
	return
}

// OrderID is the identifier sent to the payment gateway. It is always the
// donation's own id; store and gateway must agree on it for reconciliation.
func (donation *Donation) OrderID() string {
	return donation.ID.String()
}

// IsTerminal reports whether no further status transition is expected.
func (donation *Donation) IsTerminal() bool {
	return donation.Status == DonationStatusPaid || donation.Status == DonationStatusFailed
}

func ValidChannel(channel string) bool {
	switch channel {
	case DonationChannelQris, DonationChannelEwallet, DonationChannelBank:
		return true
	}
	return false
}
