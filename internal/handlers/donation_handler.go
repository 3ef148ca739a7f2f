package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fadhilmh/donasiku/internal/donations"
	"github.com/fadhilmh/donasiku/internal/helpers"
	"github.com/fadhilmh/donasiku/internal/models"
)

// IntentCreator is the donation intent flow as seen by the HTTP layer.
type IntentCreator interface {
	CreateIntent(ctx context.Context, input donations.IntentInput) (*donations.IntentResult, error)
}

// DonationReader fetches donation snapshots for reconciliation reads.
type DonationReader interface {
	GetDonation(ctx context.Context, id uuid.UUID) (*models.Donation, error)
}

type DonationHandler struct {
	Intent       IntentCreator
	Store        DonationReader
	ClientKey    string
	PollInterval time.Duration
}

func NewDonationHandler(intent IntentCreator, store DonationReader, clientKey string) *DonationHandler {
	return &DonationHandler{
		Intent:       intent,
		Store:        store,
		ClientKey:    clientKey,
		PollInterval: donations.DefaultPollInterval,
	}
}

type DonationRequest struct {
	CampaignID     uuid.UUID `json:"campaign_id" binding:"required"`
	Amount         int       `json:"amount" binding:"required"`
	Channel        string    `json:"channel" binding:"required"`
	DonorName      string    `json:"donor_name"`
	DonorEmail     string    `json:"donor_email"`
	DonorPhone     string    `json:"donor_phone"`
	IsAnonymous    bool      `json:"is_anonymous"`
	Message        string    `json:"message"`
	IdempotencyKey string    `json:"idempotency_key"`
}

func (h *DonationHandler) CreateDonation(c *gin.Context) {
	var req DonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	result, err := h.Intent.CreateIntent(c.Request.Context(), donations.IntentInput{
		CampaignID:     req.CampaignID,
		Amount:         req.Amount,
		Channel:        req.Channel,
		DonorName:      req.DonorName,
		DonorEmail:     req.DonorEmail,
		DonorPhone:     req.DonorPhone,
		Message:        req.Message,
		IsAnonymous:    req.IsAnonymous,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		var validationErr *donations.ValidationError
		if errors.As(err, &validationErr) {
			helpers.RespondWithError(c, http.StatusBadRequest, validationErr.Error())
			return
		}

		var sessionErr *donations.PaymentSessionError
		if errors.As(err, &sessionErr) {
			// The pending row survives a session failure; hand its id back so
			// the client can retry or reconcile later.
			c.JSON(http.StatusBadGateway, gin.H{
				"error":       http.StatusText(http.StatusBadGateway),
				"message":     "Failed to create payment session. Please try again.",
				"donation_id": sessionErr.Donation.ID,
				"status":      sessionErr.Donation.Status,
			})
			return
		}

		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create donation. Please try again.")
		return
	}

	// The token is echoed under both names; older clients read snap_token.
	c.JSON(http.StatusCreated, gin.H{
		"donation_id":  result.Donation.ID,
		"order_id":     result.Donation.OrderID(),
		"token":        result.Token,
		"snap_token":   result.Token,
		"redirect_url": result.RedirectURL,
		"client_key":   h.ClientKey,
		"status":       result.Donation.Status,
		"reused":       result.Reused,
	})
}

func (h *DonationHandler) GetDonation(c *gin.Context) {
	donationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid donation ID.")
		return
	}

	donation, err := h.Store.GetDonation(c.Request.Context(), donationID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Donation not found.")
		return
	}

	c.JSON(http.StatusOK, donation)
}

// AwaitDonationStatus long-polls a donation until it reaches a terminal
// status or the requested timeout elapses. Cancellation follows the request
// context, so a client navigating away tears the poller down immediately.
func (h *DonationHandler) AwaitDonationStatus(c *gin.Context) {
	donationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid donation ID.")
		return
	}

	timeoutSec, err := helpers.StringToInt(c.DefaultQuery("timeout", "30"))
	if err != nil || timeoutSec <= 0 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid timeout.")
		return
	}
	if timeoutSec > 120 {
		timeoutSec = 120
	}

	// A donation that doesn't exist should 404 immediately instead of
	// long-polling until the timeout.
	if _, err := h.Store.GetDonation(c.Request.Context(), donationID); err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Donation not found.")
		return
	}

	poller := donations.StatusPoller{
		Fetch:       h.Store.GetDonation,
		Interval:    h.PollInterval,
		MaxDuration: time.Duration(timeoutSec) * time.Second,
	}

	donation, err := poller.Run(c.Request.Context(), donationID)
	if donation == nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		helpers.RespondWithError(c, http.StatusNotFound, "Donation not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"donation": donation,
		"terminal": donation.IsTerminal(),
	})
}
