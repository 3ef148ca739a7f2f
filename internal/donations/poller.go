package donations

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fadhilmh/donasiku/internal/models"
)

const (
	DefaultPollInterval = 3 * time.Second

	// DefaultMaxPollDuration caps how long a donation is watched. Abandoned
	// payments otherwise keep a watcher alive forever.
	DefaultMaxPollDuration = 15 * time.Minute
)

// ErrPollTimeout is returned when the maximum poll duration elapses before
// the donation reaches a terminal status.
var ErrPollTimeout = errors.New("donation status polling timed out")

type FetchFunc func(ctx context.Context, id uuid.UUID) (*models.Donation, error)

// StatusPoller watches a single donation until its status becomes terminal
// or the caller cancels. A single failed fetch is swallowed and the
// previous snapshot retained; only a stall in updates is observable.
type StatusPoller struct {
	Fetch       FetchFunc
	Interval    time.Duration
	MaxDuration time.Duration
	OnUpdate    func(*models.Donation)
}

// Run polls until a terminal status, cancellation or timeout, returning the
// last snapshot observed. A nil donation id is a no-op. The interval timer
// is released exactly once on every exit path; no fetch happens after Run
// returns.
func (p *StatusPoller) Run(ctx context.Context, donationID uuid.UUID) (*models.Donation, error) {
	if p.Fetch == nil || donationID == uuid.Nil {
		return nil, nil
	}

	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	maxDuration := p.MaxDuration
	if maxDuration <= 0 {
		maxDuration = DefaultMaxPollDuration
	}

	var last *models.Donation
	fetch := func() bool {
		snapshot, err := p.Fetch(ctx, donationID)
		if err != nil || snapshot == nil {
			return false
		}
		last = snapshot
		if p.OnUpdate != nil {
			p.OnUpdate(snapshot)
		}
		return snapshot.IsTerminal()
	}

	if fetch() {
		return last, nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	deadline := time.NewTimer(maxDuration)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-deadline.C:
			return last, ErrPollTimeout
		case <-ticker.C:
			if fetch() {
				return last, nil
			}
		}
	}
}
