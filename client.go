package main

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 120
)

// binaryMarker prefixes queued binary frames so WritePump can tell them from text
const binaryMarker = 0xFF

// Client represents a WebSocket connection and its arena session
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	id         string
	remoteAddr string
	binary     bool
	msgCount   int
	msgResetAt time.Time
	log        *zap.Logger
}

// NewClient creates a new Client with a fresh session id
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string, binary bool) *Client {
	id := uuid.NewString()
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		id:         id,
		remoteAddr: remoteAddr,
		binary:     binary,
		log:        hub.log.With(zap.String("player", id)),
	}
}

// ReadPump reads messages from the WebSocket connection. Any read error,
// including a missed pong, ends the session through the disconnect path.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
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
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("ws read error", zap.Error(err))
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			c.log.Warn("rate limit exceeded, disconnecting", zap.String("ip", c.remoteAddr))
			break
		}

		if msgType != websocket.TextMessage {
			continue
		}
		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
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
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			var err error
			if len(message) > 0 && message[0] == binaryMarker {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
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

// SendRaw queues pre-marshaled bytes as a text message
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary queues pre-marshaled bytes as a binary message
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = binaryMarker
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

// WantsBinary reports whether the client asked for msgpack state frames
func (c *Client) WantsBinary() bool {
	return c.binary
}

// handleMessage validates an inbound envelope and forwards it to the game.
// Anything malformed is dropped without a reply.
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.log.Debug("unmarshal error", zap.Error(err))
		return
	}

	switch env.T {
	case MsgJoin:
		c.hub.game.Post(Join{ID: c.id, Name: decodeJoinName(env.D)})
	case MsgUpdate:
		if x, y, r, ok := decodeIntent(env.D); ok {
			c.hub.game.Post(Update{ID: c.id, X: x, Y: y, Angle: r})
		}
	case MsgShoot:
		if x, y, r, ok := decodeIntent(env.D); ok {
			c.hub.game.Post(Shoot{ID: c.id, X: x, Y: y, Angle: r})
		}
	}
}

func decodeIntent(raw json.RawMessage) (x, y, rotation float64, ok bool) {
	if len(raw) == 0 {
		return 0, 0, 0, false
	}
	var msg IntentMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return 0, 0, 0, false
	}
	return msg.Validate()
}
