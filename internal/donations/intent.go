package donations

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/fadhilmh/donasiku/internal/models"
	"github.com/fadhilmh/donasiku/internal/payment"
)

// ErrCampaignNotFound is reported when the referenced campaign does not
// exist or is not published.
var ErrCampaignNotFound = errors.New("campaign not found")

// ValidationError is a local, pre-network failure. When it is returned no
// donation row has been created and the gateway has not been contacted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// IntentCreationError means the pending donation row could not be inserted.
// The payment session is never requested in that case.
type IntentCreationError struct {
	Err error
}

func (e *IntentCreationError) Error() string {
	return fmt.Sprintf("failed to create donation: %v", e.Err)
}

func (e *IntentCreationError) Unwrap() error { return e.Err }

// PaymentSessionError means the pending row exists but no payment session
// could be obtained. The row is intentionally not rolled back; it can be
// reconciled or abandoned later.
type PaymentSessionError struct {
	Donation *models.Donation
	Err      error
}

func (e *PaymentSessionError) Error() string {
	return fmt.Sprintf("failed to create payment session: %v", e.Err)
}

func (e *PaymentSessionError) Unwrap() error { return e.Err }

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// DonationStore is the persistence surface the intent flow needs.
type DonationStore interface {
	GetPublishedCampaign(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
	CreateDonation(ctx context.Context, donation *models.Donation) error
	FindByIdempotencyKey(ctx context.Context, key string) (*models.Donation, error)
	SavePaymentToken(ctx context.Context, id uuid.UUID, token string) error
	GetDonation(ctx context.Context, id uuid.UUID) (*models.Donation, error)
}

// SessionCreator is the payment relay as seen by the intent flow.
type SessionCreator interface {
	CreateSession(req payment.SessionRequest) (*payment.Session, error)
}

type IntentInput struct {
	CampaignID     uuid.UUID
	Amount         int
	Channel        string
	DonorName      string
	DonorEmail     string
	DonorPhone     string
	Message        string
	IsAnonymous    bool
	IdempotencyKey string
}

type IntentResult struct {
	Donation    *models.Donation
	Token       string
	RedirectURL string
	// Reused is true when an idempotency key matched an earlier intent and
	// its session was returned instead of creating a new one.
	Reused bool
}

type IntentService struct {
	store DonationStore
	relay SessionCreator
}

func NewIntentService(store DonationStore, relay SessionCreator) *IntentService {
	return &IntentService{store: store, relay: relay}
}

// CreateIntent turns a donation form submission into a durable pending row
// and a live payment session. Validation happens before any store or
// gateway contact; an insert failure prevents the relay call entirely; a
// relay failure leaves the pending row in place.
func (s *IntentService) CreateIntent(ctx context.Context, input IntentInput) (*IntentResult, error) {
	if err := validateIntent(input); err != nil {
		return nil, err
	}

	campaign, err := s.store.GetPublishedCampaign(ctx, input.CampaignID)
	if err != nil {
		if errors.Is(err, ErrCampaignNotFound) {
			return nil, &ValidationError{Field: "campaign_id", Reason: "campaign not found or not published"}
		}
		return nil, &IntentCreationError{Err: err}
	}

	if input.IdempotencyKey != "" {
		existing, err := s.store.FindByIdempotencyKey(ctx, input.IdempotencyKey)
		if err != nil {
			return nil, &IntentCreationError{Err: err}
		}
		if existing != nil {
			return s.replayIntent(ctx, existing, campaign)
		}
	}

	donation := buildDonation(input)
	if err := s.store.CreateDonation(ctx, donation); err != nil {
		return nil, &IntentCreationError{Err: err}
	}

	session, err := s.createSession(donation, campaign)
	if err != nil {
		return nil, err
	}

	return &IntentResult{
		Donation:    donation,
		Token:       session.Token,
		RedirectURL: session.RedirectURL,
	}, nil
}

// replayIntent serves a duplicate submission: if the earlier intent already
// holds a session token it is returned as-is, otherwise session creation is
// retried for the same row. At most one live session exists per key.
func (s *IntentService) replayIntent(ctx context.Context, donation *models.Donation, campaign *models.Campaign) (*IntentResult, error) {
	if donation.PaymentToken != nil && *donation.PaymentToken != "" {
		return &IntentResult{
			Donation: donation,
			Token:    *donation.PaymentToken,
			Reused:   true,
		}, nil
	}

	session, err := s.createSession(donation, campaign)
	if err != nil {
		return nil, err
	}
	return &IntentResult{
		Donation:    donation,
		Token:       session.Token,
		RedirectURL: session.RedirectURL,
		Reused:      true,
	}, nil
}

func (s *IntentService) createSession(donation *models.Donation, campaign *models.Campaign) (*payment.Session, error) {
	req := payment.SessionRequest{
		OrderID:       donation.OrderID(),
		Amount:        donation.Amount,
		CampaignTitle: campaign.Title,
	}
	if donation.DonorName != nil {
		req.DonorName = *donation.DonorName
	}
	if donation.DonorEmail != nil {
		req.DonorEmail = *donation.DonorEmail
	}
	if donation.DonorPhone != nil {
		req.DonorPhone = *donation.DonorPhone
	}

	session, err := s.relay.CreateSession(req)
	if err != nil {
		return nil, &PaymentSessionError{Donation: donation, Err: err}
	}

	if session.Token != "" {
		// Best effort: the stored token only serves idempotent replays, a
		// failed write must not fail an otherwise complete intent.
		_ = s.store.SavePaymentToken(context.Background(), donation.ID, session.Token)
		token := session.Token
		donation.PaymentToken = &token
	}
	return session, nil
}

func validateIntent(input IntentInput) error {
	if input.Amount < models.MinDonationAmount {
		return &ValidationError{
			Field:  "amount",
			Reason: fmt.Sprintf("minimum donation is %d", models.MinDonationAmount),
		}
	}
	if !emailPattern.MatchString(input.DonorEmail) {
		return &ValidationError{Field: "donor_email", Reason: "invalid email address"}
	}
	if !input.IsAnonymous && strings.TrimSpace(input.DonorName) == "" {
		return &ValidationError{Field: "donor_name", Reason: "name is required unless donating anonymously"}
	}
	if !models.ValidChannel(input.Channel) {
		return &ValidationError{Field: "channel", Reason: "channel must be one of qris, ewallet, bank"}
	}
	return nil
}

func buildDonation(input IntentInput) *models.Donation {
	donation := &models.Donation{
		CampaignID:  input.CampaignID,
		Amount:      input.Amount,
		Channel:     input.Channel,
		IsAnonymous: input.IsAnonymous,
		Status:      models.DonationStatusPending,
	}

	// Anonymous donations never persist the donor's name.
	if !input.IsAnonymous {
		name := strings.TrimSpace(input.DonorName)
		donation.DonorName = &name
	}
	if input.DonorEmail != "" {
		email := input.DonorEmail
		donation.DonorEmail = &email
	}
	if input.DonorPhone != "" {
		phone := input.DonorPhone
		donation.DonorPhone = &phone
	}
	if input.Message != "" {
		message := input.Message
		donation.Message = &message
	}
	if input.IdempotencyKey != "" {
		key := input.IdempotencyKey
		donation.IdempotencyKey = &key
	}
	return donation
}
