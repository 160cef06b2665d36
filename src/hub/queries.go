package hub

import (
	"github.com/collabify/relay/src/types"
)

// OnConnection registers a callback invoked after each admission.
func (h *Hub) OnConnection(cb func(types.ClientInfo)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onConnect = append(h.onConnect, cb)
}

// OnDisconnection registers a callback invoked after each removal.
func (h *Hub) OnDisconnection(cb func(types.ClientInfo)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onDisconn = append(h.onDisconn, cb)
}

// Sessions returns live session ids with their member counts.
func (h *Hub) Sessions() map[string]int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	result := make(map[string]int, len(h.sessions))
	for id, s := range h.sessions {
		result[id] = s.size()
	}
	return result
}

// SessionCount returns the number of live sessions.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// ClientCount returns the number of connected clients across sessions.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, s := range h.sessions {
		n += s.size()
	}
	return n
}

// ConnectionsInSession returns a snapshot of the session's members.
// The slice is a copy; mutating it never affects routing.
func (h *Hub) ConnectionsInSession(sessionID string) []types.ClientInfo {
	s := h.session(sessionID)
	if s == nil {
		return nil
	}
	members := s.snapshot(nil)
	infos := make([]types.ClientInfo, 0, len(members))
	for _, c := range members {
		infos = append(infos, c.Info())
	}
	return infos
}

// FindClient returns info for the active connection of a user within a
// session, or nil when absent.
func (h *Hub) FindClient(sessionID, userID string) *types.ClientInfo {
	s := h.session(sessionID)
	if s == nil {
		return nil
	}
	s.mu.RLock()
	c, ok := s.byUser[userID]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	info := c.Info()
	return &info
}
