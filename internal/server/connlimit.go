package server

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/lawnchairsociety/staminaweight/internal/config"
)

var (
	// ErrServerFull is returned when the total connection limit is reached.
	ErrServerFull = errors.New("server connection limit reached")

	// ErrTooManyFromIP is returned when one address holds too many connections.
	ErrTooManyFromIP = errors.New("too many connections from this address")
)

// ConnLimiter caps concurrent websocket connections per IP and in total.
// A limit of 0 means unlimited.
type ConnLimiter struct {
	mu       sync.Mutex
	perIP    map[string]int
	total    int
	maxPerIP int
	maxTotal int
}

// ConnStats is a point-in-time view of the limiter.
type ConnStats struct {
	Total     int
	UniqueIPs int
}

// NewConnLimiter creates a limiter from the server's connection settings.
func NewConnLimiter(cfg config.ConnectionsConfig) *ConnLimiter {
	return &ConnLimiter{
		perIP:    make(map[string]int),
		maxPerIP: cfg.MaxPerIP,
		maxTotal: cfg.MaxTotal,
	}
}

// Acquire reserves a slot for ip. Every successful Acquire must be paired with Release.
func (c *ConnLimiter) Acquire(ip string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxTotal > 0 && c.total >= c.maxTotal {
		return ErrServerFull
	}
	if c.maxPerIP > 0 && c.perIP[ip] >= c.maxPerIP {
		return ErrTooManyFromIP
	}

	c.perIP[ip]++
	c.total++
	return nil
}

// Release frees a slot previously reserved for ip.
func (c *ConnLimiter) Release(ip string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n := c.perIP[ip]; n > 1 {
		c.perIP[ip] = n - 1
	} else if n == 1 {
		delete(c.perIP, ip)
	}
	if c.total > 0 {
		c.total--
	}
}

// Stats returns the current totals.
func (c *ConnLimiter) Stats() ConnStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ConnStats{Total: c.total, UniqueIPs: len(c.perIP)}
}

// Count returns how many slots ip currently holds.
func (c *ConnLimiter) Count(ip string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.perIP[ip]
}

// clientIP returns the originating address of r, honouring X-Forwarded-For and
// X-Real-IP from a reverse proxy before falling back to RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return hostOnly(r.RemoteAddr)
}

// hostOnly strips the port from an ip:port address.
func hostOnly(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
