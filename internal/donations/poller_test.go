package donations

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fadhilmh/donasiku/internal/models"
)

func snapshotWithStatus(id uuid.UUID, status string) *models.Donation {
	return &models.Donation{ID: id, Status: status, Amount: 25000}
}

// scriptedFetch returns the given snapshots in order, repeating the last one
// once the script runs out.
func scriptedFetch(calls *int32, script ...func() (*models.Donation, error)) FetchFunc {
	return func(ctx context.Context, id uuid.UUID) (*models.Donation, error) {
		n := int(atomic.AddInt32(calls, 1)) - 1
		if n >= len(script) {
			n = len(script) - 1
		}
		return script[n]()
	}
}

func TestPollerNoopOnNilID(t *testing.T) {
	var calls int32
	poller := StatusPoller{
		Fetch: scriptedFetch(&calls, func() (*models.Donation, error) {
			return snapshotWithStatus(uuid.New(), models.DonationStatusPaid), nil
		}),
	}

	donation, err := poller.Run(context.Background(), uuid.Nil)
	if donation != nil || err != nil {
		t.Fatalf("expected no-op, got %v, %v", donation, err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("poller must not fetch without a donation id")
	}
}

func TestPollerStopsOnTerminal(t *testing.T) {
	id := uuid.New()
	var calls int32
	poller := StatusPoller{
		Interval: 10 * time.Millisecond,
		Fetch: scriptedFetch(&calls,
			func() (*models.Donation, error) { return snapshotWithStatus(id, models.DonationStatusPending), nil },
			func() (*models.Donation, error) { return snapshotWithStatus(id, models.DonationStatusPaid), nil },
		),
	}

	donation, err := poller.Run(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if donation == nil || donation.Status != models.DonationStatusPaid {
		t.Fatalf("expected paid snapshot, got %+v", donation)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected 2 fetches, got %d", got)
	}

	// Run has returned; the ticker is stopped and no further fetch may fire.
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("fetch fired after termination: %d calls", got)
	}
}

func TestPollerImmediateTerminal(t *testing.T) {
	id := uuid.New()
	var calls int32
	poller := StatusPoller{
		Interval: time.Hour, // would hang if the first fetch didn't terminate
		Fetch: scriptedFetch(&calls, func() (*models.Donation, error) {
			return snapshotWithStatus(id, models.DonationStatusFailed), nil
		}),
	}

	donation, err := poller.Run(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if donation.Status != models.DonationStatusFailed {
		t.Errorf("expected failed snapshot, got %q", donation.Status)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("expected a single fetch, got %d", calls)
	}
}

func TestPollerSwallowsFetchErrors(t *testing.T) {
	id := uuid.New()
	var calls int32
	poller := StatusPoller{
		Interval: 5 * time.Millisecond,
		Fetch: scriptedFetch(&calls,
			func() (*models.Donation, error) { return nil, errors.New("network down") },
			func() (*models.Donation, error) { return nil, errors.New("network down") },
			func() (*models.Donation, error) { return snapshotWithStatus(id, models.DonationStatusPaid), nil },
		),
	}

	donation, err := poller.Run(context.Background(), id)
	if err != nil {
		t.Fatalf("poll errors must be swallowed, got %v", err)
	}
	if donation == nil || donation.Status != models.DonationStatusPaid {
		t.Fatalf("expected paid snapshot after transient errors, got %+v", donation)
	}
}

func TestPollerCancellation(t *testing.T) {
	id := uuid.New()
	var calls int32
	poller := StatusPoller{
		Interval: 5 * time.Millisecond,
		Fetch: scriptedFetch(&calls, func() (*models.Donation, error) {
			return snapshotWithStatus(id, models.DonationStatusPending), nil
		}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	donation, err := poller.Run(ctx, id)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if donation == nil || donation.Status != models.DonationStatusPending {
		t.Fatalf("expected last pending snapshot, got %+v", donation)
	}

	after := atomic.LoadInt32(&calls)
	time.Sleep(30 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != after {
		t.Errorf("fetch fired after cancellation: %d -> %d", after, got)
	}
}

func TestPollerTimeout(t *testing.T) {
	id := uuid.New()
	var calls int32
	poller := StatusPoller{
		Interval:    5 * time.Millisecond,
		MaxDuration: 30 * time.Millisecond,
		Fetch: scriptedFetch(&calls, func() (*models.Donation, error) {
			return snapshotWithStatus(id, models.DonationStatusPending), nil
		}),
	}

	donation, err := poller.Run(context.Background(), id)
	if !errors.Is(err, ErrPollTimeout) {
		t.Fatalf("expected ErrPollTimeout, got %v", err)
	}
	if donation == nil {
		t.Fatal("timeout must still return the last snapshot")
	}
}

func TestPollerOnUpdateObservesEverySnapshot(t *testing.T) {
	id := uuid.New()
	var calls int32
	var seen []string
	poller := StatusPoller{
		Interval: 5 * time.Millisecond,
		OnUpdate: func(d *models.Donation) { seen = append(seen, d.Status) },
		Fetch: scriptedFetch(&calls,
			func() (*models.Donation, error) { return snapshotWithStatus(id, models.DonationStatusPending), nil },
			func() (*models.Donation, error) { return snapshotWithStatus(id, models.DonationStatusPaid), nil },
		),
	}

	if _, err := poller.Run(context.Background(), id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seen) != 2 || seen[0] != models.DonationStatusPending || seen[1] != models.DonationStatusPaid {
		t.Errorf("unexpected snapshot sequence: %v", seen)
	}
}
