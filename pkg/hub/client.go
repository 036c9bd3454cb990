package hub

import (
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/holoview/go-window/pkg/protocol"
)

const (
	// writeWait is how long to wait for a write to complete
	writeWait = 10 * time.Second

	// pongWait is how long to wait for a pong response
	pongWait = 60 * time.Second

	// pingPeriod must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize is the maximum message size allowed; projection
	// and pose messages are small JSON documents
	maxMessageSize = 4 * 1024
)

// Client represents a single websocket connection
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan Message

	// pongs carries replies to application-level pings. Separate from
	// send: the hub closes send when it drops a client, and the read
	// pump must never write to a channel the hub may have closed.
	pongs chan Message
}

// NewClient creates a new client and registers it with the hub
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	client := &Client{
		hub:   hub,
		conn:  conn,
		send:  make(chan Message, 256), // Buffered channel for backpressure
		pongs: make(chan Message, 4),
	}
	hub.register <- client
	return client
}

// Run starts the client's read and write pumps
// This should be called in the websocket handler
func (c *Client) Run() {
	go c.writePump()
	c.readPump() // Blocks until connection closes
}

// readPump reads messages from the websocket connection
// It keeps the connection alive and detects disconnection
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, payload, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		// Renderers may probe liveness with an application-level ping;
		// everything else from clients is ignored.
		if msgType != websocket.TextMessage {
			continue
		}
		if reply, ok := pongFor(payload); ok {
			select {
			case c.pongs <- reply:
			default:
			}
		}
	}
}

// pongFor returns the encoded reply if payload is an application-level
// ping message.
func pongFor(payload []byte) (Message, bool) {
	msg, err := protocol.ParseMessage(payload)
	if err != nil || msg.Type != protocol.TypePing {
		return Message{}, false
	}
	pong, err := protocol.NewMessage(protocol.TypePong, nil)
	if err != nil {
		return Message{}, false
	}
	raw, err := pong.Bytes()
	if err != nil {
		return Message{}, false
	}
	return NewJSONMessage(raw), true
}

// writePump writes messages to the websocket connection
// Only this goroutine writes to the connection - no race conditions!
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel - send close frame
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message.Data); err != nil {
				return
			}

		case reply := <-c.pongs:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, reply.Data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
