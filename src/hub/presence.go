package hub

import (
	"github.com/collabify/relay/src/frame"
	"github.com/collabify/relay/src/types"
)

// Presence transitions are Absent -> Active on admission and
// Active -> Absent on removal, with exactly one announcement each.
// Replacing a stale connection passes through Absent, announcing the
// departure before the new arrival so the sequence stays alternating.

// announceJoin sends the joiner its canonical identity, replays the
// current roster to it, and announces it to everyone else.
func (h *Hub) announceJoin(s *Session, c *Client) {
	// 1. Canonical identity to the joiner itself.
	if data, err := frame.EncodeUserEvent(types.TypeUserData, c.UserData); err == nil {
		c.enqueue(data)
	}

	// 2. Roster replay: one user-added per existing member, directly to
	// the joiner, so its user list is consistent without waiting for
	// re-announcements.
	for _, member := range s.snapshot(c) {
		data, err := frame.EncodeUserEvent(types.TypeUserAdded, member.UserData)
		if err != nil {
			continue
		}
		c.enqueue(data)
	}

	// 3. Announce the joiner to everyone else. A user is never told
	// about itself.
	data, err := frame.EncodeUserEvent(types.TypeUserAdded, c.UserData)
	if err != nil {
		h.logger.Error().Err(err).Msg("encode user-added")
		return
	}
	s.Broadcast(c, data)
	h.publishToBridge(s.ID, c.UserData.UserID, data)
}

// announceLeave broadcasts the departure to the remaining members.
// The subject is already out of the membership maps; exclusion by user
// id additionally keeps a replacing connection of the same user from
// hearing about itself.
func (h *Hub) announceLeave(s *Session, c *Client) {
	data, err := frame.EncodeUserEvent(types.TypeUserRemoved, c.UserData)
	if err != nil {
		h.logger.Error().Err(err).Msg("encode user-removed")
		return
	}
	s.broadcastFromUser(c.UserData.UserID, data)
	h.publishToBridge(s.ID, c.UserData.UserID, data)
}
