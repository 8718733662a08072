// Package server exposes the host over a websocket so clients can log in, start
// sessions and watch the weight limits change.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lawnchairsociety/staminaweight/internal/adjuster"
	"github.com/lawnchairsociety/staminaweight/internal/config"
	"github.com/lawnchairsociety/staminaweight/internal/database"
	"github.com/lawnchairsociety/staminaweight/internal/host"
	"github.com/lawnchairsociety/staminaweight/internal/logger"
	"github.com/lawnchairsociety/staminaweight/internal/namefilter"
	"github.com/lawnchairsociety/staminaweight/internal/stamina"
)

type Server struct {
	host     *host.Host
	adjuster *adjuster.WeightAdjuster
	db       *database.Database
	cfg      *config.ServerConfig

	connLimiter  *ConnLimiter
	loginLimiter *LoginLimiter
	names        *namefilter.Filter

	mu           sync.Mutex
	conns        map[*Conn]struct{}
	httpServer   *http.Server
	shutdownOnce sync.Once
	startTime    time.Time
}

// NewServer wires the host, the adjuster whose state is reported to clients and the
// account store. A nil cfg uses config.DefaultConfig.
func NewServer(h *host.Host, a *adjuster.WeightAdjuster, db *database.Database, cfg *config.ServerConfig) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{
		host:         h,
		adjuster:     a,
		db:           db,
		cfg:          cfg,
		connLimiter:  NewConnLimiter(cfg.Connections),
		loginLimiter: NewLoginLimiter(cfg.RateLimit),
		names:        namefilter.New(cfg.Names),
		conns:        make(map[*Conn]struct{}),
		startTime:    time.Now(),
	}
}

// Handler returns the HTTP handler serving /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocketUpgrade)
	return mux
}

// Start listens on address and serves until Shutdown.
func (s *Server) Start(address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	logger.Info("WebSocket server listening", "address", address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and closes every open session.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.loginLimiter.Stop()

		s.mu.Lock()
		srv := s.httpServer
		for c := range s.conns {
			c.Close()
		}
		s.mu.Unlock()

		if srv != nil {
			err = srv.Shutdown(ctx)
		}
		logger.Info("Server shutdown complete",
			"sessions", s.host.Sessions(),
			"uptime", time.Since(s.startTime).Round(time.Second).String())
	})
	return err
}

// ConnectionCount returns the number of open websocket connections.
func (s *Server) ConnectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	if err := s.connLimiter.Acquire(ip); err != nil {
		logger.Warning("WebSocket connection rejected", "client_ip", ip, "reason", err.Error())
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.cfg.WebSocket.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("WebSocket connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warning("WebSocket upgrade failed", "client_ip", ip, "error", err)
		s.connLimiter.Release(ip)
		return
	}

	conn := NewConn(ws, s.cfg.WebSocket.MaxMessageSize)
	go s.serve(conn, ip)
}

func (s *Server) serve(conn *Conn, ip string) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		s.connLimiter.Release(ip)
		conn.Close()
	}()

	logger.Info("Client connected", "remote_addr", conn.RemoteAddr(), "client_ip", ip)
	newSession(s, conn, ip).run()
}

// status reads the adjuster and table together so the reply is consistent.
func (s *Server) status() Response {
	resp := Response{Type: MsgLimits}
	s.host.Inspect(func(table *stamina.ThresholdTable) {
		resp.Limits = table.Map()
		if s.adjuster == nil {
			return
		}
		resp.Mode = s.adjuster.Mode().String()
		resp.State = s.adjuster.State().String()
		resp.Phase = s.adjuster.Phase().String()
		resp.Multiplier = s.adjuster.LastMultiplier()
	})
	return resp
}
