package payment

import (
	"errors"
	"strings"
	"testing"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

type mockGateway struct {
	response *snap.Response
	err      *midtrans.Error
	calls    int
	lastReq  *snap.Request
}

func (m *mockGateway) CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func TestCreateSessionRejectsMissingOrderID(t *testing.T) {
	gateway := &mockGateway{response: &snap.Response{Token: "abc"}}
	relay := NewRelayWithGateway(gateway)

	_, err := relay.CreateSession(SessionRequest{OrderID: "  ", Amount: 25000})
	if !errors.Is(err, ErrMissingOrderID) {
		t.Fatalf("expected ErrMissingOrderID, got %v", err)
	}
	if gateway.calls != 0 {
		t.Error("gateway must not be contacted on a bad request")
	}
}

func TestCreateSessionRejectsNonPositiveAmount(t *testing.T) {
	gateway := &mockGateway{response: &snap.Response{Token: "abc"}}
	relay := NewRelayWithGateway(gateway)

	for _, amount := range []int{0, -500} {
		_, err := relay.CreateSession(SessionRequest{OrderID: "order-1", Amount: amount})
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("amount %d: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
	if gateway.calls != 0 {
		t.Error("gateway must not be contacted on a bad request")
	}
}

func TestCreateSessionBuildsTransaction(t *testing.T) {
	gateway := &mockGateway{response: &snap.Response{Token: "abc", RedirectURL: "https://app.example/pay"}}
	relay := NewRelayWithGateway(gateway)

	session, err := relay.CreateSession(SessionRequest{
		OrderID:       "order-1",
		Amount:        25000,
		CampaignTitle: "Bantu Korban Banjir",
		DonorName:     "Budi",
		DonorEmail:    "budi@example.com",
		DonorPhone:    "+628123456789",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.Token != "abc" || session.OrderID != "order-1" {
		t.Errorf("unexpected session: %+v", session)
	}
	if session.RedirectURL != "https://app.example/pay" {
		t.Errorf("redirect url not propagated: %q", session.RedirectURL)
	}

	req := gateway.lastReq
	if req.TransactionDetails.OrderID != "order-1" {
		t.Errorf("order id not propagated: %q", req.TransactionDetails.OrderID)
	}
	if req.TransactionDetails.GrossAmt != 25000 {
		t.Errorf("gross amount mismatch: %d", req.TransactionDetails.GrossAmt)
	}
	if req.CustomerDetail.FName != "Budi" || req.CustomerDetail.Email != "budi@example.com" {
		t.Errorf("customer details mismatch: %+v", req.CustomerDetail)
	}
	if req.Items == nil || len(*req.Items) != 1 {
		t.Fatalf("expected a single line item, got %+v", req.Items)
	}
	item := (*req.Items)[0]
	if item.Qty != 1 || item.Price != 25000 {
		t.Errorf("line item mismatch: %+v", item)
	}
	if !strings.Contains(item.Name, "Bantu Korban Banjir") {
		t.Errorf("line item should reference the campaign: %q", item.Name)
	}
}

func TestCreateSessionDefaultsAbsentDonorFields(t *testing.T) {
	gateway := &mockGateway{response: &snap.Response{Token: "abc"}}
	relay := NewRelayWithGateway(gateway)

	if _, err := relay.CreateSession(SessionRequest{OrderID: "order-1", Amount: 25000}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	customer := gateway.lastReq.CustomerDetail
	if customer.FName == "" || customer.Email == "" || customer.Phone == "" {
		t.Errorf("absent donor fields must be defaulted, got %+v", customer)
	}
}

func TestCreateSessionWrapsUpstreamError(t *testing.T) {
	gateway := &mockGateway{err: &midtrans.Error{StatusCode: 401, Message: "Access denied"}}
	relay := NewRelayWithGateway(gateway)

	_, err := relay.CreateSession(SessionRequest{OrderID: "order-1", Amount: 25000})

	var upstreamErr *UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstreamErr.StatusCode != 401 || !strings.Contains(upstreamErr.Message, "Access denied") {
		t.Errorf("upstream diagnostics lost: %+v", upstreamErr)
	}
}

func TestCreateSessionRejectsEmptySession(t *testing.T) {
	gateway := &mockGateway{response: &snap.Response{}}
	relay := NewRelayWithGateway(gateway)

	_, err := relay.CreateSession(SessionRequest{OrderID: "order-1", Amount: 25000})

	var upstreamErr *UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("expected UpstreamError for missing token, got %v", err)
	}
}

func TestCreateSessionAcceptsRedirectOnly(t *testing.T) {
	gateway := &mockGateway{response: &snap.Response{RedirectURL: "https://app.example/pay"}}
	relay := NewRelayWithGateway(gateway)

	session, err := relay.CreateSession(SessionRequest{OrderID: "order-1", Amount: 25000})
	if err != nil {
		t.Fatalf("redirect-only session must be accepted, got %v", err)
	}
	if session.RedirectURL == "" {
		t.Error("redirect url missing")
	}
}
