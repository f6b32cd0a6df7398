package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"carduel/models"
)

// Client represents one WebSocket channel. A channel starts anonymous and is
// bound to a user by the auth handshake; UserID stays empty until then.
type Client struct {
	ChannelID string
	UserID    string
	Username  string
	Conn      *websocket.Conn
	Send      chan []byte

	mu     sync.Mutex
	closed bool
}

// ReadPump reads envelopes off the wire and hands them to handleMessage.
// onClose runs exactly once when the channel dies, whatever the reason.
func (c *Client) ReadPump(handleMessage func(*Client, models.WSMessage), onClose func(*Client)) {
	defer func() {
		c.Close()
		onClose(c)
	}()

	for {
		var msg models.WSMessage
		if err := c.Conn.ReadJSON(&msg); err != nil {
			break
		}
		handleMessage(c, msg)
	}
}

// WritePump drains the send channel onto the wire.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// SendEvent marshals an envelope and queues it without blocking. A full send
// buffer means the peer has stopped reading; the message is dropped and the
// read pump will notice the dead connection on its own.
func (c *Client) SendEvent(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[WS] marshal %s payload: %v", event, err)
		return
	}
	envelope, err := json.Marshal(models.WSMessage{Type: event, Payload: data})
	if err != nil {
		log.Printf("[WS] marshal %s envelope: %v", event, err)
		return
	}
	c.SendRaw(envelope)
}

// SendRaw queues pre-marshaled bytes without blocking. Sends after Close are
// dropped; the game side may still hold this channel briefly while the
// disconnect is being processed.
func (c *Client) SendRaw(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

// SendError is a shorthand for the error envelope every handler uses.
func (c *Client) SendError(event, code, message string) {
	c.SendEvent(event, models.ErrorMessage{Code: code, Message: message})
}

// Close shuts the channel down. Safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
	c.mu.Unlock()
	c.Conn.Close()
}
