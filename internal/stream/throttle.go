package stream

import (
	"sync"
	"time"

	"github.com/moznion/go-optional"
)

// DefaultThrottle is the minimum spacing between two applied ticks.
const DefaultThrottle = time.Second

// Throttle admits an event only when at least interval has passed since the
// last admitted one. Rejected events do not move the window.
type Throttle struct {
	mu          sync.Mutex
	interval    time.Duration
	lastApplied optional.Option[time.Time]
}

// NewThrottle creates a throttle. A non-positive interval admits everything.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{
		mu:          sync.Mutex{},
		interval:    interval,
		lastApplied: optional.None[time.Time](),
	}
}

// Allow reports whether an event arriving at now is admitted, and records it if so.
func (t *Throttle) Allow(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if last, err := t.lastApplied.Take(); err == nil && now.Sub(last) < t.interval {
		return false
	}

	t.lastApplied = optional.Some(now)

	return true
}

// LastApplied returns the arrival time of the last admitted event, if any.
func (t *Throttle) LastApplied() optional.Option[time.Time] {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.lastApplied
}
