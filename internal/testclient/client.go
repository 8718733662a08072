// Package testclient is a websocket client for driving a running server in
// integration tests.
package testclient

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lawnchairsociety/staminaweight/internal/server"
)

// ErrServer is wrapped around every error reply from the server.
var ErrServer = errors.New("server error")

// TestClient is one websocket connection to the server.
type TestClient struct {
	Name    string
	conn    *websocket.Conn
	timeout time.Duration

	mu        sync.Mutex
	responses []server.Response
}

// Credentials holds login/registration information
type Credentials struct {
	Username string
	Password string
	Nickname string
}

// wsURL accepts host:port or a full ws:// URL.
func wsURL(address string) string {
	if strings.HasPrefix(address, "ws://") || strings.HasPrefix(address, "wss://") {
		return address
	}
	return "ws://" + address + "/ws"
}

// Dial opens an unauthenticated connection.
func Dial(address string) (*TestClient, error) {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(address), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return &TestClient{Name: "RawClient", conn: conn, timeout: 5 * time.Second}, nil
}

// NewTestClient registers a fresh account with one profile named after it.
// The password is derived from the name so it passes the default rules.
func NewTestClient(name string, address string) (*TestClient, error) {
	client, err := Dial(address)
	if err != nil {
		return nil, err
	}
	client.Name = name

	if _, err := client.Register(DefaultCredentials(name)); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// NewTestClientWithLogin logs into an existing account.
func NewTestClientWithLogin(creds Credentials, address string) (*TestClient, error) {
	client, err := Dial(address)
	if err != nil {
		return nil, err
	}
	client.Name = creds.Nickname

	if _, err := client.Login(creds.Username, creds.Password); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// DefaultCredentials returns the credentials NewTestClient registers for name.
func DefaultCredentials(name string) Credentials {
	return Credentials{
		Username: name,
		Password: "Pass" + name + "123",
		Nickname: name,
	}
}

// Register creates an account and profile and leaves the client logged in.
func (c *TestClient) Register(creds Credentials) (server.Response, error) {
	return c.Do(server.Request{
		Type:     server.MsgRegister,
		Username: creds.Username,
		Password: creds.Password,
		Nickname: creds.Nickname,
	})
}

// Login authenticates the connection.
func (c *TestClient) Login(username, password string) (server.Response, error) {
	return c.Do(server.Request{Type: server.MsgLogin, Username: username, Password: password})
}

// StartSession starts a session for one of the account's profiles and returns the
// resulting limits.
func (c *TestClient) StartSession(nickname string) (server.Response, error) {
	return c.Do(server.Request{Type: server.MsgStartSession, Nickname: nickname})
}

// Progress adds experience and Strength progress to the active profile.
func (c *TestClient) Progress(experience int, strengthProgress float64) (server.Response, error) {
	return c.Do(server.Request{Type: server.MsgProgress, Experience: experience, StrengthProgress: strengthProgress})
}

// Limits asks for the current limits and adjuster state.
func (c *TestClient) Limits() (server.Response, error) {
	return c.Do(server.Request{Type: server.MsgLimits})
}

// Do sends req and waits for the matching response. An error reply is returned
// alongside an error wrapping ErrServer.
func (c *TestClient) Do(req server.Request) (server.Response, error) {
	if err := c.conn.WriteJSON(req); err != nil {
		return server.Response{}, fmt.Errorf("failed to send %s: %w", req.Type, err)
	}

	c.conn.SetReadDeadline(time.Now().Add(c.timeout))
	var resp server.Response
	if err := c.conn.ReadJSON(&resp); err != nil {
		return server.Response{}, fmt.Errorf("failed to read %s reply: %w", req.Type, err)
	}

	c.mu.Lock()
	c.responses = append(c.responses, resp)
	c.mu.Unlock()

	if resp.Type == server.MsgError {
		return resp, fmt.Errorf("%w: %s", ErrServer, resp.Message)
	}
	return resp, nil
}

// GetResponses returns every response received so far.
func (c *TestClient) GetResponses() []server.Response {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]server.Response, len(c.responses))
	copy(result, c.responses)
	return result
}

// GetLastResponse returns the most recent response, or the zero value.
func (c *TestClient) GetLastResponse() server.Response {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.responses) == 0 {
		return server.Response{}
	}
	return c.responses[len(c.responses)-1]
}

// Close closes the client connection
func (c *TestClient) Close() error {
	return c.conn.Close()
}
