package donations

import (
	"time"

	"gorm.io/gorm"

	"github.com/fadhilmh/donasiku/internal/models"
)

// ApplyGatewayStatus moves a donation to the status reported by the payment
// gateway. Transitions are forward-only: rows already paid or failed are
// left untouched, and a pending report is a no-op. On the paid transition
// the campaign's raised amount is incremented in the same transaction.
func ApplyGatewayStatus(db *gorm.DB, donation *models.Donation, status string) error {
	if status != models.DonationStatusPaid && status != models.DonationStatusFailed {
		return nil
	}
	if donation.IsTerminal() {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": status}
		if status == models.DonationStatusPaid {
			now := time.Now()
			updates["paid_at"] = &now
		}

		result := tx.Model(&models.Donation{}).
			Where("id = ? AND status = ?", donation.ID, models.DonationStatusPending).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		// Another writer won the transition; nothing left to do.
		if result.RowsAffected == 0 {
			return nil
		}

		if status == models.DonationStatusPaid {
			if err := tx.Model(&models.Campaign{}).
				Where("id = ?", donation.CampaignID).
				UpdateColumn("raised_amount", gorm.Expr("raised_amount + ?", donation.Amount)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
