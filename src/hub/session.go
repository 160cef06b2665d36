package hub

import (
	"sync"

	"github.com/collabify/relay/src/metrics"
)

// Session is one isolated collaboration room. It owns the membership
// maps; broadcast routing never crosses session boundaries.
type Session struct {
	ID string

	mu     sync.RWMutex
	byConn map[string]*Client // connection id -> client
	byUser map[string]*Client // user id -> client
}

func newSession(id string) *Session {
	return &Session{
		ID:     id,
		byConn: make(map[string]*Client),
		byUser: make(map[string]*Client),
	}
}

// add registers a client. If the same user is already active the stale
// client is evicted from the maps and returned so the caller can close
// it (replace policy for wallet reconnects).
func (s *Session) add(c *Client) (replaced *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.byUser[c.UserData.UserID]; ok {
		delete(s.byConn, old.ID)
		delete(s.byUser, old.UserData.UserID)
		replaced = old
	}
	s.byConn[c.ID] = c
	s.byUser[c.UserData.UserID] = c
	return replaced
}

// remove drops a client from the membership maps. Reports whether the
// client was still a member, making removal idempotent for callers.
func (s *Session) remove(c *Client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byConn[c.ID]; !ok {
		return false
	}
	delete(s.byConn, c.ID)
	// Only unmap the user slot if it still points at this connection;
	// under the replace policy it may already belong to a successor.
	if cur, ok := s.byUser[c.UserData.UserID]; ok && cur.ID == c.ID {
		delete(s.byUser, c.UserData.UserID)
	}
	return true
}

func (s *Session) empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byConn) == 0
}

func (s *Session) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byConn)
}

// snapshot copies the current membership, excluding one client. The
// copy keeps broadcast iteration safe against concurrent joins/leaves.
func (s *Session) snapshot(exclude *Client) []*Client {
	s.mu.RLock()
	defer s.mu.RUnlock()

	targets := make([]*Client, 0, len(s.byConn))
	for _, c := range s.byConn {
		if exclude != nil && c.ID == exclude.ID {
			continue
		}
		targets = append(targets, c)
	}
	return targets
}

// Broadcast fans data out to every member except origin. Delivery is
// best effort per target: a full or closed queue isolates to that
// target, which is then removed from the registry.
func (s *Session) Broadcast(origin *Client, data []byte) {
	for _, target := range s.snapshot(origin) {
		if !target.enqueue(data) {
			metrics.DeliveryFailures.Inc()
			target.logger.Warn().Msg("send queue full, dropping connection")
			target.hub.Remove(target)
		}
	}
}

// broadcastFromUser delivers data to every member whose user id differs
// from originUserID. Used for frames relayed from other instances,
// where no local origin connection exists.
func (s *Session) broadcastFromUser(originUserID string, data []byte) {
	for _, target := range s.snapshot(nil) {
		if target.UserData.UserID == originUserID {
			continue
		}
		if !target.enqueue(data) {
			metrics.DeliveryFailures.Inc()
			target.hub.Remove(target)
		}
	}
}
