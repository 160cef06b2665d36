package hub

import (
	"sync"
	"time"

	"github.com/collabify/relay/src/frame"
	"github.com/collabify/relay/src/gate"
	"github.com/collabify/relay/src/metrics"
	"github.com/collabify/relay/src/types"
	"github.com/rs/zerolog"
)

// Client is one live connection bound to exactly one session and one
// identity for its whole lifetime.
type Client struct {
	ID        string
	SessionID string
	UserData  types.UserData

	conn        types.Conn
	hub         *Hub
	send        chan []byte
	gate        *gate.Gate
	connectedAt time.Time
	logger      zerolog.Logger

	mu     sync.Mutex
	done   chan struct{}
	closed bool
}

// Info returns metadata about this connection.
func (c *Client) Info() types.ClientInfo {
	return types.ClientInfo{
		ID:          c.ID,
		SessionID:   c.SessionID,
		UserData:    c.UserData,
		ConnectedAt: c.connectedAt,
	}
}

// enqueue offers a frame to the outbound queue without blocking.
// It reports false when the client is closed or the queue is full;
// the caller decides whether that counts as a delivery failure.
func (c *Client) enqueue(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// ReadPump reads frames from the transport until it fails, routing each
// decoded message. Runs on the connection's goroutine; its exit removes
// the client from the hub.
func (c *Client) ReadPump() {
	defer func() {
		c.conn.Close()
		c.hub.Remove(c)
	}()

	for {
		raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		msgs, err := frame.Decode(raw)
		if err != nil {
			metrics.MalformedFrames.Inc()
			c.logger.Warn().Err(err).Msg("malformed frame")
		}
		for _, m := range msgs {
			c.route(m)
		}
	}
}

func (c *Client) route(m frame.Decoded) {
	switch m.Envelope.Type {
	case types.TypeContent, types.TypeDrawingUpdate:
		// Re-encode so egress is always one strict object per frame,
		// even when the inbound frame needed legacy recovery.
		data, err := frame.Encode(m.Envelope)
		if err != nil {
			c.logger.Error().Err(err).Msg("re-encode failed")
			return
		}
		if !c.gate.Offer(data) {
			metrics.CoalescedUpdates.Inc()
		}
	case types.TypeUserData, types.TypeUserAdded, types.TypeUserRemoved:
		// Presence frames are server-assigned; inbound ones are noise.
		c.logger.Debug().Str("type", m.Envelope.Type).Msg("ignoring client presence frame")
	default:
		metrics.UnknownMessages.Inc()
		c.logger.Warn().Str("type", m.Envelope.Type).Msg("unknown message type")
	}
}

// WritePump drains the outbound queue to the transport and sends
// keepalive probes. A write failure ends only this connection.
func (c *Client) WritePump() {
	interval := c.hub.cfg.PingInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data := <-c.send:
			if err := c.conn.WriteMessage(data); err != nil {
				c.logger.Debug().Err(err).Msg("write failed")
				c.hub.Remove(c)
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(); err != nil {
				c.hub.Remove(c)
				return
			}
		case <-c.done:
			return
		}
	}
}

// close stops the pumps and the rate gate. Idempotent.
func (c *Client) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.done)
	c.mu.Unlock()

	c.gate.Close()
	c.conn.Close()
}
