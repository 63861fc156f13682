package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/seiwell/gomokuhub/internal/model"
	"github.com/seiwell/gomokuhub/internal/ws"
)

const responseTimeout = 10 * time.Second

// Client is a websocket client for the server's message protocol
type Client struct {
	conn *websocket.Conn
}

// Dial connects to the server. The initial rooms_list snapshot sent on
// connect stays in the read buffer until consumed.
func Dial(serverURL string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(serverURL, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", serverURL, err)
	}
	return &Client{conn: conn}, nil
}

// Close closes the connection
func (c *Client) Close() error {
	return c.conn.Close()
}

// Send writes one typed message to the server
func (c *Client) Send(msgType string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling %s payload: %w", msgType, err)
	}
	env := ws.Envelope{Type: msgType, Data: payload}
	if err := c.conn.WriteJSON(env); err != nil {
		return fmt.Errorf("sending %s: %w", msgType, err)
	}
	return nil
}

// Register binds this connection to a user identity
func (c *Client) Register(userID, userName string) error {
	return c.Send(ws.MsgRegister, ws.RegisterPayload{
		UserID:   model.UserID(userID),
		UserName: userName,
	})
}

// Next reads the next message from the server
func (c *Client) Next() (*ws.Envelope, error) {
	var env ws.Envelope
	if err := c.conn.ReadJSON(&env); err != nil {
		return nil, err
	}
	return &env, nil
}

// WaitFor reads messages until one of the given type arrives,
// discarding others. Returns an error after the response timeout.
func (c *Client) WaitFor(msgType string) (json.RawMessage, error) {
	deadline := time.Now().Add(responseTimeout)
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}
	defer func() { _ = c.conn.SetReadDeadline(time.Time{}) }()

	for {
		env, err := c.Next()
		if err != nil {
			return nil, fmt.Errorf("waiting for %s: %w", msgType, err)
		}
		if env.Type == msgType {
			return env.Data, nil
		}
	}
}
