package worker

import (
	"context"
	"log"
	"net/http"
	"time"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"gorm.io/gorm"

	"github.com/fadhilmh/donasiku/internal/donations"
	"github.com/fadhilmh/donasiku/internal/models"
	"github.com/fadhilmh/donasiku/internal/payment"
)

// TransactionChecker is the slice of the gateway's core API the reconciler
// needs.
type TransactionChecker interface {
	CheckTransaction(orderID string) (*coreapi.TransactionStatusResponse, *midtrans.Error)
}

// Reconciler periodically resolves stale pending donations against the
// gateway's transaction-status API. It covers donations whose webhook
// notification never arrived.
type Reconciler struct {
	DB          *gorm.DB
	Gateway     TransactionChecker
	Interval    time.Duration
	GracePeriod time.Duration
	BatchSize   int
}

func NewReconciler(db *gorm.DB, gateway TransactionChecker, interval time.Duration) *Reconciler {
	return &Reconciler{
		DB:          db,
		Gateway:     gateway,
		Interval:    interval,
		GracePeriod: 2 * time.Minute,
		BatchSize:   100,
	}
}

func (r *Reconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	log.Println("Donation reconciliation worker started")
	r.reconcile()

	for {
		select {
		case <-ctx.Done():
			log.Println("Donation reconciliation worker stopped")
			return
		case <-ticker.C:
			r.reconcile()
		}
	}
}

func (r *Reconciler) reconcile() {
	cutoff := time.Now().Add(-r.GracePeriod)

	var pending []models.Donation
	if err := r.DB.
		Where("status = ? AND created_at < ?", models.DonationStatusPending, cutoff).
		Order("created_at ASC").
		Limit(r.BatchSize).
		Find(&pending).Error; err != nil {
		log.Printf("Error querying pending donations: %v", err)
		return
	}

	for i := range pending {
		donation := &pending[i]

		response, midErr := r.Gateway.CheckTransaction(donation.OrderID())
		if midErr != nil {
			// 404 means the donor never reached the gateway's checkout; the
			// row stays pending until the gateway knows about it.
			if midErr.StatusCode == http.StatusNotFound {
				continue
			}
			log.Printf("Failed to check transaction %s: %v", donation.OrderID(), midErr.Message)
			continue
		}
		if response == nil {
			continue
		}

		status := payment.MapTransactionStatus(response.TransactionStatus, response.FraudStatus)
		if status == "" || status == models.DonationStatusPending {
			continue
		}

		if err := donations.ApplyGatewayStatus(r.DB, donation, status); err != nil {
			log.Printf("Failed to reconcile donation %s: %v", donation.ID, err)
			continue
		}
		log.Printf("Reconciled donation %s to %s", donation.ID, status)
	}
}
