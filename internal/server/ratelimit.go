package server

import (
	"sync"
	"time"

	"github.com/lawnchairsociety/staminaweight/internal/config"
)

// LoginLimiter locks an address out after repeated failed logins. Each lockout
// doubles the previous one up to the configured maximum.
type LoginLimiter struct {
	mu          sync.Mutex
	entries     map[string]*loginAttempts
	maxAttempts int
	lockout     time.Duration
	maxLockout  time.Duration
	now         func() time.Time
	stop        chan struct{}
	stopOnce    sync.Once
}

type loginAttempts struct {
	failures    int
	lockouts    int
	lockedUntil time.Time
}

// NewLoginLimiter creates a limiter and starts its cleanup loop. Zero values in cfg
// fall back to 5 attempts, 30s and 300s.
func NewLoginLimiter(cfg config.RateLimitConfig) *LoginLimiter {
	l := newLoginLimiter(cfg, time.Now)
	go l.cleanupLoop(5 * time.Minute)
	return l
}

func newLoginLimiter(cfg config.RateLimitConfig, now func() time.Time) *LoginLimiter {
	l := &LoginLimiter{
		entries:     make(map[string]*loginAttempts),
		maxAttempts: cfg.MaxAttempts,
		lockout:     time.Duration(cfg.LockoutSeconds) * time.Second,
		maxLockout:  time.Duration(cfg.MaxLockoutSeconds) * time.Second,
		now:         now,
		stop:        make(chan struct{}),
	}
	if l.maxAttempts <= 0 {
		l.maxAttempts = 5
	}
	if l.lockout <= 0 {
		l.lockout = 30 * time.Second
	}
	if l.maxLockout <= 0 {
		l.maxLockout = 300 * time.Second
	}
	return l
}

// Stop ends the cleanup loop. Safe to call more than once.
func (l *LoginLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// Locked reports whether ip is locked out and for how much longer.
func (l *LoginLimiter) Locked(ip string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[ip]
	if !ok {
		return false, 0
	}
	if remaining := e.lockedUntil.Sub(l.now()); remaining > 0 {
		return true, remaining
	}
	return false, 0
}

// Fail records a failed login. It returns true with the lockout duration when this
// failure locks the address, or when the address was already locked.
func (l *LoginLimiter) Fail(ip string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[ip]
	if !ok {
		e = &loginAttempts{}
		l.entries[ip] = e
	}

	if remaining := e.lockedUntil.Sub(now); remaining > 0 {
		return true, remaining
	}

	e.failures++
	if e.failures < l.maxAttempts {
		return false, 0
	}

	e.lockouts++
	e.failures = 0
	d := l.lockoutFor(e.lockouts)
	e.lockedUntil = now.Add(d)
	return true, d
}

// Succeed clears all state for ip.
func (l *LoginLimiter) Succeed(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, ip)
}

// Failures returns the failures counted toward the next lockout.
func (l *LoginLimiter) Failures(ip string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.entries[ip]; ok {
		return e.failures
	}
	return 0
}

// lockoutFor returns the duration of the nth lockout: lockout * 2^(n-1), capped.
func (l *LoginLimiter) lockoutFor(n int) time.Duration {
	d := l.lockout
	for i := 1; i < n; i++ {
		if d >= l.maxLockout/2 {
			return l.maxLockout
		}
		d *= 2
	}
	if d > l.maxLockout {
		return l.maxLockout
	}
	return d
}

func (l *LoginLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.cleanup(10 * time.Minute)
		}
	}
}

// cleanup drops entries with no pending failures whose lockout ended more than idle ago.
func (l *LoginLimiter) cleanup(idle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-idle)
	for ip, e := range l.entries {
		if e.failures == 0 && e.lockedUntil.Before(cutoff) {
			delete(l.entries, ip)
		}
	}
}
