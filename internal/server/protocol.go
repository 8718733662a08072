package server

import "github.com/lawnchairsociety/staminaweight/internal/stamina"

// Request types sent by clients.
const (
	MsgRegister     = "register"
	MsgLogin        = "login"
	MsgStartSession = "start_session"
	MsgProgress     = "progress"
	MsgLimits       = "limits"
)

// Response types sent by the server.
const (
	MsgOK    = "ok"
	MsgError = "error"
)

// Request is a single client message. Fields not used by Type are ignored.
type Request struct {
	Type     string `json:"type"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Nickname string `json:"nickname,omitempty"`

	// progress
	Experience       int     `json:"experience,omitempty"`
	StrengthProgress float64 `json:"strength_progress,omitempty"`
}

// Response is a single server message.
type Response struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`

	// nicknames owned by the account, set on login
	Profiles []string `json:"profiles,omitempty"`

	// profile summary, set on start_session and progress
	Nickname         string  `json:"nickname,omitempty"`
	Level            int     `json:"level,omitempty"`
	StrengthProgress float64 `json:"strength_progress,omitempty"`

	// limits
	Mode       string                              `json:"mode,omitempty"`
	State      string                              `json:"state,omitempty"`
	Phase      string                              `json:"phase,omitempty"`
	Multiplier float64                             `json:"multiplier,omitempty"`
	Limits     map[stamina.Category]stamina.Limits `json:"limits,omitempty"`
}

func okResponse(message string) Response {
	return Response{Type: MsgOK, Message: message}
}

func errorResponse(message string) Response {
	return Response{Type: MsgError, Message: message}
}
