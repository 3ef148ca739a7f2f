package payment

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"

	"github.com/fadhilmh/donasiku/internal/models"
)

// Notification is the gateway's server-to-server payment notification
// payload, reduced to the fields this service acts on.
type Notification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
	TransactionID     string `json:"transaction_id"`
}

// VerifySignature checks the sha512(order_id + status_code + gross_amount +
// server_key) signature the gateway attaches to every notification.
func (n *Notification) VerifySignature(serverKey string) bool {
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + serverKey))
	expected := hex.EncodeToString(sum[:])
	return hmac.Equal([]byte(expected), []byte(n.SignatureKey))
}

// MapTransactionStatus normalizes the gateway's transaction status
// vocabulary to the donation lifecycle states. It returns an empty string
// for statuses that require no action. The tolerance for gateway-specific
// values lives here and nowhere else.
func MapTransactionStatus(transactionStatus, fraudStatus string) string {
	switch transactionStatus {
	case "settlement":
		return models.DonationStatusPaid
	case "capture":
		if fraudStatus == "challenge" {
			return models.DonationStatusPending
		}
		return models.DonationStatusPaid
	case "deny", "cancel", "expire", "failure":
		return models.DonationStatusFailed
	case "pending":
		return models.DonationStatusPending
	}
	return ""
}
