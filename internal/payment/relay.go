package payment

import (
	"errors"
	"fmt"
	"strings"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

var (
	ErrMissingOrderID = errors.New("order_id is required")
	ErrInvalidAmount  = errors.New("amount must be a positive number")
)

// UpstreamError is returned when the payment gateway rejects a
// transaction-creation request. The relay never retries; that decision
// belongs to the caller.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("payment gateway error (%d): %s", e.StatusCode, e.Message)
}

// SnapGateway is the slice of the Snap client the relay needs.
type SnapGateway interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

type SessionRequest struct {
	OrderID       string
	Amount        int
	CampaignTitle string
	DonorName     string
	DonorEmail    string
	DonorPhone    string
}

type Session struct {
	Token       string
	RedirectURL string
	OrderID     string
}

// Relay is the only component holding the gateway server key. It is
// stateless and never touches the database.
type Relay struct {
	gateway SnapGateway
}

func NewRelay(serverKey string, production bool) *Relay {
	client := &snap.Client{}
	if production {
		client.New(serverKey, midtrans.Production)
	} else {
		client.New(serverKey, midtrans.Sandbox)
	}
	return &Relay{gateway: client}
}

// NewRelayWithGateway wires a custom gateway, used in tests.
func NewRelayWithGateway(gateway SnapGateway) *Relay {
	return &Relay{gateway: gateway}
}

// NewStatusClient builds the core API client used to check transaction
// status during reconciliation.
func NewStatusClient(serverKey string, production bool) *coreapi.Client {
	client := &coreapi.Client{}
	if production {
		client.New(serverKey, midtrans.Production)
	} else {
		client.New(serverKey, midtrans.Sandbox)
	}
	return client
}

const (
	defaultDonorName  = "Donatur"
	defaultDonorEmail = "donatur@donasiku.id"
	defaultDonorPhone = "+620000000000"
)

func (r *Relay) CreateSession(req SessionRequest) (*Session, error) {
	if strings.TrimSpace(req.OrderID) == "" {
		return nil, ErrMissingOrderID
	}
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	name := req.DonorName
	if strings.TrimSpace(name) == "" {
		name = defaultDonorName
	}
	email := req.DonorEmail
	if strings.TrimSpace(email) == "" {
		email = defaultDonorEmail
	}
	phone := req.DonorPhone
	if strings.TrimSpace(phone) == "" {
		phone = defaultDonorPhone
	}

	itemName := fmt.Sprintf("Donasi - %s", req.CampaignTitle)
	if req.CampaignTitle == "" {
		itemName = "Donasi"
	}

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderID,
			GrossAmt: int64(req.Amount),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: name,
			Email: email,
			Phone: phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    req.OrderID,
				Price: int64(req.Amount),
				Qty:   1,
				Name:  truncate(itemName, 50),
			},
		},
	}

	resp, midErr := r.gateway.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, &UpstreamError{StatusCode: midErr.StatusCode, Message: midErr.Message}
	}
	if resp == nil || (resp.Token == "" && resp.RedirectURL == "") {
		return nil, &UpstreamError{StatusCode: 502, Message: "gateway returned no usable session token"}
	}

	return &Session{
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
		OrderID:     req.OrderID,
	}, nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
