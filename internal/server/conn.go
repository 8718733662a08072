package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

// ErrMalformedRequest wraps a message that is not a valid JSON request.
var ErrMalformedRequest = errors.New("malformed request")

// Conn wraps a websocket connection speaking the JSON request/response protocol.
type Conn struct {
	ws      *websocket.Conn
	writeMu sync.Mutex
}

// NewConn wraps ws and applies the inbound message size limit when positive.
func NewConn(ws *websocket.Conn, maxMessageSize int64) *Conn {
	if maxMessageSize > 0 {
		ws.SetReadLimit(maxMessageSize)
	}
	return &Conn{ws: ws}
}

// ReadRequest blocks until the next non-blank message arrives and decodes it.
// A decode failure returns ErrMalformedRequest; the connection stays usable.
func (c *Conn) ReadRequest() (*Request, error) {
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return nil, err
		}

		data = bytes.TrimSpace(data)
		if len(data) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
		}
		if req.Type == "" {
			return nil, fmt.Errorf("%w: missing type", ErrMalformedRequest)
		}
		return &req, nil
	}
}

// Send writes a response as a single text message.
func (c *Conn) Send(resp Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.ws.Close()
}

// RemoteAddr returns the peer address for logging.
func (c *Conn) RemoteAddr() string {
	return c.ws.RemoteAddr().String()
}
