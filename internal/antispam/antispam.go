// Package antispam throttles how fast a single connection may send requests.
package antispam

import (
	"sync"
	"time"
)

// Config holds throttle settings.
type Config struct {
	// MaxMessages is the number of requests allowed per window. 0 disables the throttle.
	MaxMessages int `yaml:"max_messages"`

	// WindowSeconds is the length of the sliding window.
	WindowSeconds int `yaml:"window_seconds"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		MaxMessages:   30,
		WindowSeconds: 10,
	}
}

// Window returns the sliding window as a duration, defaulting to ten seconds.
func (c Config) Window() time.Duration {
	if c.WindowSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.WindowSeconds) * time.Second
}

// Tracker records request times for one connection.
type Tracker struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	times  []time.Time
	now    func() time.Time
}

// NewTracker creates a tracker for one connection.
func NewTracker(cfg Config) *Tracker {
	return newTracker(cfg, time.Now)
}

func newTracker(cfg Config, now func() time.Time) *Tracker {
	return &Tracker{
		max:    cfg.MaxMessages,
		window: cfg.Window(),
		times:  make([]time.Time, 0, cfg.MaxMessages),
		now:    now,
	}
}

// Allow records a request and reports whether it is within the limit. When it is
// not, wait is how long until the oldest request leaves the window. Rejected
// requests are not recorded.
func (t *Tracker) Allow() (ok bool, wait time.Duration) {
	if t.max <= 0 {
		return true, 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	cutoff := now.Add(-t.window)
	kept := t.times[:0]
	for _, ts := range t.times {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	t.times = kept

	if len(t.times) >= t.max {
		return false, t.times[0].Add(t.window).Sub(now)
	}

	t.times = append(t.times, now)
	return true, 0
}
