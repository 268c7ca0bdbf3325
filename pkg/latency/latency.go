// Package latency fakes the round trip of backend calls that do not exist.
package latency

import (
	"context"
	"time"
)

// Delays used by the simulated backend calls
const (
	AdminLogin     = 800 * time.Millisecond
	AdminRegister  = 1000 * time.Millisecond
	OTPRequest     = 1000 * time.Millisecond
	OTPVerify      = 1000 * time.Millisecond
	ElectionList   = 800 * time.Millisecond
	ElectionCreate = 1500 * time.Millisecond
	ReportRefresh  = 1000 * time.Millisecond
	VoteSubmit     = 2000 * time.Millisecond
)

// Simulator sleeps for a fixed duration unless disabled
type Simulator struct {
	enabled bool
}

// New returns a simulator. Disabled simulators return immediately.
func New(enabled bool) Simulator {
	return Simulator{enabled: enabled}
}

// Enabled reports whether delays are applied
func (s Simulator) Enabled() bool {
	return s.enabled
}

// Wait blocks for d or until ctx is done, whichever comes first. A cancelled
// context returns its error so callers drop the pending completion.
func (s Simulator) Wait(ctx context.Context, d time.Duration) error {
	if !s.enabled || d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
