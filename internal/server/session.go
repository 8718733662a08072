package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lawnchairsociety/staminaweight/internal/antispam"
	"github.com/lawnchairsociety/staminaweight/internal/database"
	"github.com/lawnchairsociety/staminaweight/internal/logger"
	"github.com/lawnchairsociety/staminaweight/internal/namefilter"
	"github.com/lawnchairsociety/staminaweight/internal/profile"
)

// session is the per-connection state machine: anonymous, then logged in, then
// playing a profile.
type session struct {
	srv     *Server
	conn    *Conn
	ip      string
	spam    *antispam.Tracker
	account *database.Account
	profile *profile.Profile
}

func newSession(srv *Server, conn *Conn, ip string) *session {
	return &session{srv: srv, conn: conn, ip: ip, spam: antispam.NewTracker(srv.cfg.Throttle)}
}

func (s *session) run() {
	for {
		req, err := s.conn.ReadRequest()
		if err != nil {
			if errors.Is(err, ErrMalformedRequest) {
				if s.conn.Send(errorResponse(err.Error())) != nil {
					return
				}
				continue
			}
			logger.Info("Client disconnected", "client_ip", s.ip, "profile", s.nickname())
			return
		}

		var resp Response
		if ok, wait := s.spam.Allow(); ok {
			resp = s.handle(req)
		} else {
			logger.Warning("Client throttled", "client_ip", s.ip, "type", req.Type, "event", "throttle")
			resp = errorResponse(fmt.Sprintf("You're sending requests too quickly. Please wait %d seconds.", int(wait.Seconds())+1))
		}
		if err := s.conn.Send(resp); err != nil {
			logger.Info("Failed to send response", "client_ip", s.ip, "error", err)
			return
		}
	}
}

func (s *session) handle(req *Request) Response {
	switch req.Type {
	case MsgRegister:
		return s.handleRegister(req)
	case MsgLogin:
		return s.handleLogin(req)
	case MsgStartSession:
		return s.handleStartSession(req)
	case MsgProgress:
		return s.handleProgress(req)
	case MsgLimits:
		return s.srv.status()
	default:
		return errorResponse(fmt.Sprintf("unknown message type %q", req.Type))
	}
}

func (s *session) handleRegister(req *Request) Response {
	if s.srv.db == nil {
		return errorResponse("registration is unavailable")
	}

	username := strings.TrimSpace(req.Username)
	nickname := strings.TrimSpace(req.Nickname)
	if username == "" || nickname == "" {
		return errorResponse("username and nickname are required")
	}
	if err := s.srv.names.Check(nickname); err != nil {
		return errorResponse(namefilter.Reason(err))
	}
	if problem := s.srv.cfg.Password.ValidatePassword(req.Password); problem != "" {
		return errorResponse(problem)
	}

	account, err := s.srv.db.CreateAccount(username, req.Password)
	if err != nil {
		if errors.Is(err, database.ErrAccountExists) {
			return errorResponse("That username is already taken.")
		}
		logger.Error("Failed to create account", "username", username, "error", err)
		return errorResponse("registration failed")
	}

	if _, err := s.srv.db.CreateProfile(account.ID, nickname); err != nil {
		if errors.Is(err, database.ErrProfileExists) {
			return errorResponse("That nickname is already taken.")
		}
		logger.Error("Failed to create profile", "nickname", nickname, "error", err)
		return errorResponse("registration failed")
	}

	logger.Info("Account registered",
		"username", account.Username,
		"nickname", nickname,
		"ip", s.ip,
		"event", "register")
	s.account = account
	return okResponse(fmt.Sprintf("Welcome, %s!", account.Username))
}

func (s *session) handleLogin(req *Request) Response {
	if s.srv.db == nil {
		return errorResponse("login is unavailable")
	}
	if s.account != nil {
		return errorResponse("already logged in")
	}

	if locked, remaining := s.srv.loginLimiter.Locked(s.ip); locked {
		return errorResponse(fmt.Sprintf("Too many failed login attempts. Please wait %d seconds.", int(remaining.Seconds())+1))
	}

	account, err := s.srv.db.ValidateLogin(req.Username, req.Password, s.ip)
	if err != nil {
		if !errors.Is(err, database.ErrInvalidCredentials) {
			logger.Error("Login failed", "username", req.Username, "error", err)
			return errorResponse("An error occurred. Please try again.")
		}

		logger.Info("Failed login attempt",
			"username", req.Username,
			"ip", s.ip,
			"event", "login_failed")
		if locked, d := s.srv.loginLimiter.Fail(s.ip); locked {
			logger.Warning("IP rate limited after failed logins",
				"ip", s.ip,
				"lockout_seconds", int(d.Seconds()),
				"event", "login_ratelimit")
			return errorResponse(fmt.Sprintf("Invalid username or password. Too many attempts - locked out for %d seconds.", int(d.Seconds())))
		}
		return errorResponse("Invalid username or password.")
	}

	s.srv.loginLimiter.Succeed(s.ip)
	s.account = account

	logger.Info("Successful login",
		"username", account.Username,
		"account_id", account.ID,
		"ip", s.ip,
		"event", "login_success")
	resp := okResponse(fmt.Sprintf("Welcome back, %s!", account.Username))
	profiles, err := s.srv.db.GetProfilesByAccount(account.ID)
	if err != nil {
		logger.Error("Failed to list profiles", "account_id", account.ID, "error", err)
		return resp
	}
	for _, p := range profiles {
		resp.Profiles = append(resp.Profiles, p.Nickname)
	}
	return resp
}

func (s *session) handleStartSession(req *Request) Response {
	if s.account == nil {
		return errorResponse("log in first")
	}

	p, err := s.srv.db.GetProfileByNickname(req.Nickname)
	if err != nil || p.AccountID != s.account.ID {
		if err != nil && !errors.Is(err, database.ErrProfileNotFound) {
			logger.Error("Failed to load profile", "nickname", req.Nickname, "error", err)
		}
		return errorResponse("profile not found")
	}

	s.srv.host.StartSession(p)
	s.profile = p

	if err := s.srv.db.SaveProgress(p); err != nil {
		logger.Error("Failed to record session start", "nickname", p.Nickname, "error", err)
	}

	resp := s.srv.status()
	s.describe(&resp)
	return resp
}

func (s *session) handleProgress(req *Request) Response {
	if s.profile == nil {
		return errorResponse("start a session first")
	}
	if req.Experience < 0 {
		return errorResponse("experience cannot be negative")
	}

	levelled := s.profile.AddExperience(req.Experience)
	if req.StrengthProgress != 0 {
		s.profile.AddSkillProgress(profile.SkillStrength, req.StrengthProgress)
	}

	if err := s.srv.db.SaveProgress(s.profile); err != nil {
		logger.Error("Failed to save progress", "nickname", s.profile.Nickname, "error", err)
		return errorResponse("failed to save progress")
	}

	msg := "Progress saved."
	if levelled {
		msg = fmt.Sprintf("Progress saved. You reached level %d.", s.profile.Level)
	}
	resp := okResponse(msg)
	s.describe(&resp)
	return resp
}

func (s *session) describe(resp *Response) {
	resp.Nickname = s.profile.Nickname
	resp.Level = s.profile.Level
	resp.StrengthProgress = s.profile.StrengthProgress()
}

func (s *session) nickname() string {
	if s.profile == nil {
		return ""
	}
	return s.profile.Nickname
}
