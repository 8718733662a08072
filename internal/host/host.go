// Package host is the small runtime that owns the threshold table and drives
// lifecycle hooks: load hooks once at startup, session-start hooks per session.
package host

import (
	"sync"

	"github.com/lawnchairsociety/staminaweight/internal/logger"
	"github.com/lawnchairsociety/staminaweight/internal/profile"
	"github.com/lawnchairsociety/staminaweight/internal/stamina"
)

// LoadHook runs once when the host has loaded its configuration.
type LoadHook interface {
	OnLoad(table *stamina.ThresholdTable)
}

// SessionStartHook runs every time a player session starts.
type SessionStartHook interface {
	OnSessionStart(table *stamina.ThresholdTable, p *profile.Profile)
}

// Host owns the live threshold table. Hooks are invoked one at a time and receive
// exclusive access to the table for the duration of the call.
type Host struct {
	mu           sync.Mutex
	table        *stamina.ThresholdTable
	loadHooks    []LoadHook
	sessionHooks []SessionStartHook
	loaded       bool
	sessions     int
}

// New creates a host around the given table.
func New(table *stamina.ThresholdTable) *Host {
	return &Host{table: table}
}

// RegisterLoadHook adds a hook to run on Load.
func (h *Host) RegisterLoadHook(hook LoadHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loadHooks = append(h.loadHooks, hook)
}

// RegisterSessionStartHook adds a hook to run on every StartSession.
func (h *Host) RegisterSessionStartHook(hook SessionStartHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessionHooks = append(h.sessionHooks, hook)
}

// Load runs the load hooks. Only the first call has any effect.
func (h *Host) Load() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.loaded {
		logger.Warning("Host already loaded, skipping load hooks")
		return
	}
	h.loaded = true

	for _, hook := range h.loadHooks {
		hook.OnLoad(h.table)
	}
	logger.Info("Host loaded", "load_hooks", len(h.loadHooks), "session_hooks", len(h.sessionHooks))
}

// StartSession runs the session-start hooks for a profile and returns the
// resulting limits.
func (h *Host) StartSession(p *profile.Profile) map[stamina.Category]stamina.Limits {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sessions++
	logger.Debug("Session start", "nickname", p.Nickname, "level", p.Level, "session", h.sessions)

	for _, hook := range h.sessionHooks {
		hook.OnSessionStart(h.table, p)
	}
	return h.table.Map()
}

// Limits returns a copy of the current table contents.
func (h *Host) Limits() map[stamina.Category]stamina.Limits {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.table.Map()
}

// Sessions returns how many sessions have started.
func (h *Host) Sessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sessions
}

// Inspect runs fn with exclusive access to the table. Use it to read hook state
// that is only safe to touch while hooks are not running.
func (h *Host) Inspect(fn func(table *stamina.ThresholdTable)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(h.table)
}
