package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/collabify/relay/config"
	"github.com/collabify/relay/src/gate"
	"github.com/collabify/relay/src/metrics"
	"github.com/collabify/relay/src/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MessageBridge publishes frames to other relay instances.
// Defined here to avoid circular imports with the bridge package.
type MessageBridge interface {
	Publish(sessionID, originUserID string, data []byte) error
	Available() bool
}

// Hub is the connection registry: it admits connections into sessions,
// removes them idempotently, and routes broadcasts between them.
type Hub struct {
	cfg    *config.Config
	logger zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	bridge    MessageBridge
	onConnect []func(types.ClientInfo)
	onDisconn []func(types.ClientInfo)
}

// New creates a hub. Sessions are created implicitly on first join and
// reclaimed as soon as their last connection leaves.
func New(cfg *config.Config, logger zerolog.Logger) *Hub {
	return &Hub{
		cfg:      cfg,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// SetBridge attaches a cross-instance message bridge to the hub.
// When set, relayed frames are also forwarded to other instances.
func (h *Hub) SetBridge(b MessageBridge) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bridge = b
}

// Admit registers a new connection under (sessionID, identity) and
// starts presence handling. If the same user is already active in the
// session the stale connection is replaced: closed and announced as
// departed before the new one is announced, so presence transitions
// stay strictly alternating.
//
// The caller owns starting the pumps: WritePump in a goroutine, then
// ReadPump on the connection's goroutine.
func (h *Hub) Admit(sessionID string, identity types.UserData, conn types.Conn) *Client {
	c := &Client{
		ID:          uuid.New().String(),
		SessionID:   sessionID,
		UserData:    identity,
		conn:        conn,
		hub:         h,
		send:        make(chan []byte, h.cfg.SendQueueDepth),
		connectedAt: time.Now(),
		done:        make(chan struct{}),
		logger: h.logger.With().
			Str("session", sessionID).
			Str("user", ShortLabel(identity.UserID)).
			Logger(),
	}
	c.gate = gate.New(h.cfg.MinUpdateInterval, func(data []byte) {
		h.relayFrom(c, data)
	})

	h.mu.Lock()
	s, ok := h.sessions[sessionID]
	if !ok {
		s = newSession(sessionID)
		h.sessions[sessionID] = s
		metrics.ActiveSessions.Inc()
		h.logger.Info().Str("session", sessionID).Msg("session created")
	}
	replaced := s.add(c)
	connectCbs := h.onConnect
	disconnCbs := h.onDisconn
	h.mu.Unlock()

	if replaced != nil {
		replaced.close()
		metrics.ActiveConnections.Dec()
		h.announceLeave(s, replaced)
		for _, cb := range disconnCbs {
			cb(replaced.Info())
		}
		c.logger.Info().Msg("replaced stale connection for reconnecting user")
	}

	metrics.ActiveConnections.Inc()
	h.announceJoin(s, c)
	for _, cb := range connectCbs {
		cb(c.Info())
	}

	c.logger.Info().Str("conn_id", c.ID).Msg("client admitted")
	return c
}

// Remove takes a connection out of its session and, if it was still a
// member, broadcasts its departure. Idempotent: safe to call from both
// the close and error paths.
func (h *Hub) Remove(c *Client) {
	c.close()

	h.mu.Lock()
	s, ok := h.sessions[c.SessionID]
	if !ok {
		h.mu.Unlock()
		return
	}
	present := s.remove(c)
	if present && s.empty() {
		delete(h.sessions, c.SessionID)
		metrics.ActiveSessions.Dec()
		h.logger.Info().Str("session", c.SessionID).Msg("session reclaimed")
	}
	disconnCbs := h.onDisconn
	h.mu.Unlock()

	if !present {
		return
	}

	metrics.ActiveConnections.Dec()
	h.announceLeave(s, c)
	for _, cb := range disconnCbs {
		cb(c.Info())
	}
	c.logger.Info().Str("conn_id", c.ID).Msg("client removed")
}

// relayFrom fans one gated update frame out to the origin's session,
// excluding the origin itself, and forwards it across the bridge.
func (h *Hub) relayFrom(origin *Client, data []byte) {
	var head struct {
		Type string `json:"type"`
	}
	_ = json.Unmarshal(data, &head)
	metrics.MessagesRelayed.WithLabelValues(head.Type).Inc()

	s := h.session(origin.SessionID)
	if s == nil {
		return
	}
	s.Broadcast(origin, data)
	h.publishToBridge(s.ID, origin.UserData.UserID, data)
}

// BroadcastToLocal delivers a frame from the bridge to local members of
// the session, excluding any local connection of the origin user. It
// never re-publishes, preventing loops between instances.
func (h *Hub) BroadcastToLocal(sessionID, originUserID string, data []byte) {
	s := h.session(sessionID)
	if s == nil {
		return
	}
	s.broadcastFromUser(originUserID, data)
}

func (h *Hub) publishToBridge(sessionID, originUserID string, data []byte) {
	h.mu.RLock()
	b := h.bridge
	h.mu.RUnlock()

	if b == nil || !b.Available() {
		return
	}
	if err := b.Publish(sessionID, originUserID, data); err != nil {
		h.logger.Error().Err(err).Msg("bridge publish failed")
	}
}

func (h *Hub) session(id string) *Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sessions[id]
}

// Shutdown closes every connection and empties the registry.
func (h *Hub) Shutdown() {
	h.mu.RLock()
	clients := make([]*Client, 0)
	for _, s := range h.sessions {
		clients = append(clients, s.snapshot(nil)...)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.Remove(c)
	}
}
