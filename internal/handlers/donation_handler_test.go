package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fadhilmh/donasiku/internal/donations"
	"github.com/fadhilmh/donasiku/internal/models"
)

type mockIntentCreator struct {
	result *donations.IntentResult
	err    error
	calls  int
}

func (m *mockIntentCreator) CreateIntent(ctx context.Context, input donations.IntentInput) (*donations.IntentResult, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockDonationReader struct {
	donations map[uuid.UUID]*models.Donation
}

func (m *mockDonationReader) GetDonation(ctx context.Context, id uuid.UUID) (*models.Donation, error) {
	donation, ok := m.donations[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return donation, nil
}

func newTestRouter(handler *DonationHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/v1/donations", handler.CreateDonation)
	r.GET("/v1/donations/:id", handler.GetDonation)
	r.GET("/v1/donations/:id/await", handler.AwaitDonationStatus)
	return r
}

func postDonation(t *testing.T, r *gin.Engine, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/donations", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validRequestBody(campaignID uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"campaign_id": campaignID,
		"amount":      25000,
		"channel":     "qris",
		"donor_name":  "Budi",
		"donor_email": "budi@example.com",
	}
}

func TestCreateDonationSuccess(t *testing.T) {
	donation := &models.Donation{
		ID:     uuid.New(),
		Amount: 25000,
		Status: models.DonationStatusPending,
	}
	intent := &mockIntentCreator{result: &donations.IntentResult{
		Donation:    donation,
		Token:       "abc",
		RedirectURL: "https://app.example/pay",
	}}
	handler := NewDonationHandler(intent, &mockDonationReader{}, "client-key-123")
	r := newTestRouter(handler)

	w := postDonation(t, r, validRequestBody(uuid.New()))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp["token"] != "abc" || resp["snap_token"] != "abc" {
		t.Errorf("token must be echoed under both names: %v", resp)
	}
	if resp["order_id"] != donation.ID.String() {
		t.Errorf("order_id mismatch: %v", resp["order_id"])
	}
	if resp["client_key"] != "client-key-123" {
		t.Errorf("client key missing: %v", resp["client_key"])
	}
}

func TestCreateDonationValidationError(t *testing.T) {
	intent := &mockIntentCreator{err: &donations.ValidationError{Field: "amount", Reason: "minimum donation is 5000"}}
	handler := NewDonationHandler(intent, &mockDonationReader{}, "")
	r := newTestRouter(handler)

	body := validRequestBody(uuid.New())
	body["amount"] = 1000
	w := postDonation(t, r, body)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCreateDonationMalformedBody(t *testing.T) {
	intent := &mockIntentCreator{}
	handler := NewDonationHandler(intent, &mockDonationReader{}, "")
	r := newTestRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/v1/donations", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if intent.calls != 0 {
		t.Error("malformed body must not reach the intent service")
	}
}

func TestCreateDonationSessionErrorExposesPendingRow(t *testing.T) {
	donation := &models.Donation{
		ID:     uuid.New(),
		Status: models.DonationStatusPending,
	}
	intent := &mockIntentCreator{err: &donations.PaymentSessionError{
		Donation: donation,
		Err:      errors.New("Midtrans API error"),
	}}
	handler := NewDonationHandler(intent, &mockDonationReader{}, "")
	r := newTestRouter(handler)

	w := postDonation(t, r, validRequestBody(uuid.New()))

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}

	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["donation_id"] != donation.ID.String() {
		t.Errorf("session error response must carry the pending donation id: %v", resp)
	}
	if resp["status"] != models.DonationStatusPending {
		t.Errorf("expected pending status in response, got %v", resp["status"])
	}
}

func TestCreateDonationIntentCreationError(t *testing.T) {
	intent := &mockIntentCreator{err: &donations.IntentCreationError{Err: errors.New("connection reset")}}
	handler := NewDonationHandler(intent, &mockDonationReader{}, "")
	r := newTestRouter(handler)

	w := postDonation(t, r, validRequestBody(uuid.New()))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestGetDonationNotFound(t *testing.T) {
	handler := NewDonationHandler(&mockIntentCreator{}, &mockDonationReader{}, "")
	r := newTestRouter(handler)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v1/donations/%s", uuid.New()), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestAwaitDonationStatusTerminal(t *testing.T) {
	paidAt := time.Now()
	donation := &models.Donation{
		ID:     uuid.New(),
		Status: models.DonationStatusPaid,
		PaidAt: &paidAt,
	}
	reader := &mockDonationReader{donations: map[uuid.UUID]*models.Donation{donation.ID: donation}}
	handler := NewDonationHandler(&mockIntentCreator{}, reader, "")
	handler.PollInterval = time.Millisecond
	r := newTestRouter(handler)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v1/donations/%s/await", donation.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Terminal bool `json:"terminal"`
		Donation struct {
			Status string `json:"status"`
		} `json:"donation"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !resp.Terminal || resp.Donation.Status != models.DonationStatusPaid {
		t.Errorf("unexpected await response: %+v", resp)
	}
}

func TestAwaitDonationStatusInvalidID(t *testing.T) {
	handler := NewDonationHandler(&mockIntentCreator{}, &mockDonationReader{}, "")
	r := newTestRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/v1/donations/not-a-uuid/await", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
