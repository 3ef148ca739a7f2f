package handlers

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fadhilmh/donasiku/internal/donations"
	"github.com/fadhilmh/donasiku/internal/helpers"
	"github.com/fadhilmh/donasiku/internal/models"
	"github.com/fadhilmh/donasiku/internal/payment"
)

func NotificationPing(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// PaymentNotification receives the gateway's server-to-server status
// notification and drives the pending -> paid|failed transition.
func PaymentNotification(c *gin.Context) {
	var notification payment.Notification
	if err := c.ShouldBindJSON(&notification); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid notification payload.")
		return
	}

	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	if !notification.VerifySignature(serverKey) {
		helpers.RespondWithError(c, http.StatusForbidden, "Invalid notification signature.")
		return
	}

	status := payment.MapTransactionStatus(notification.TransactionStatus, notification.FraudStatus)
	if status == "" || status == models.DonationStatusPending {
		c.JSON(http.StatusOK, gin.H{"message": "OK"})
		return
	}

	donationID, err := uuid.Parse(notification.OrderID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid order ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var donation models.Donation
	if err := gormDB.First(&donation, "id = ?", donationID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Donation not found.")
		return
	}

	if err := donations.ApplyGatewayStatus(gormDB, &donation, status); err != nil {
		log.Printf("failed to apply gateway status for %s: %v", donation.ID, err)
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update donation status.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OK"})
}
