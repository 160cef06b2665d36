package service

import (
	"fmt"

	"github.com/collabify/relay/src/hub"
	"github.com/collabify/relay/src/types"
	"github.com/rs/zerolog"
)

// Service provides the high-level relay API consumed by the HTTP layer
// and by embedders.
type Service struct {
	hub    *hub.Hub
	logger zerolog.Logger
}

// New creates a relay service backed by the given hub.
func New(h *hub.Hub, logger zerolog.Logger) *Service {
	return &Service{hub: h, logger: logger}
}

// Hub returns the underlying hub.
func (s *Service) Hub() *hub.Hub { return s.hub }

// Sessions returns live session ids with their member counts.
func (s *Service) Sessions() map[string]int {
	return s.hub.Sessions()
}

// Roster returns a snapshot of the participants of one session.
func (s *Service) Roster(sessionID string) ([]types.ClientInfo, error) {
	infos := s.hub.ConnectionsInSession(sessionID)
	if infos == nil {
		return nil, fmt.Errorf("session %s not found", sessionID)
	}
	s.logger.Debug().
		Str("session", sessionID).
		Int("users", len(infos)).
		Msg("roster queried")
	return infos, nil
}

// ClientInfo returns info for the active connection of a user within a
// session.
func (s *Service) ClientInfo(sessionID, userID string) (*types.ClientInfo, error) {
	info := s.hub.FindClient(sessionID, userID)
	if info == nil {
		return nil, fmt.Errorf("user %s not active in session %s", userID, sessionID)
	}
	return info, nil
}

// Counts returns the number of live sessions and connected clients.
func (s *Service) Counts() (sessions, clients int) {
	return s.hub.SessionCount(), s.hub.ClientCount()
}

// OnConnection registers a callback for new admissions.
func (s *Service) OnConnection(cb func(types.ClientInfo)) {
	s.hub.OnConnection(cb)
}

// OnDisconnection registers a callback for removals.
func (s *Service) OnDisconnection(cb func(types.ClientInfo)) {
	s.hub.OnDisconnection(cb)
}
