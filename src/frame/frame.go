// Package frame converts raw transport frames to typed envelopes and back.
//
// The server always writes exactly one JSON object per frame. Reads are
// lenient: some clients coalesce several logical messages into a single
// physical frame, producing concatenated objects with a literal "}{"
// boundary. Decode recovers those by splitting and re-attaching braces.
package frame

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/collabify/relay/src/types"
)

var (
	// ErrMalformedFrame marks a frame or fragment that failed JSON
	// parsing after all recovery attempts.
	ErrMalformedFrame = errors.New("malformed frame")

	// ErrUnknownMessageType marks a well-formed envelope whose type is
	// not in the enumerated set.
	ErrUnknownMessageType = errors.New("unknown message type")
)

// Kind records which parse path produced an envelope.
type Kind int

const (
	// StrictFrame parsed directly as a single JSON object.
	StrictFrame Kind = iota
	// LegacyConcatenatedFrame was recovered from a coalesced frame by
	// splitting on the "}{" boundary.
	LegacyConcatenatedFrame
)

// Decoded is one envelope extracted from a raw frame.
type Decoded struct {
	Envelope types.Envelope
	Kind     Kind
}

// Decode parses one raw frame into one or more envelopes.
//
// A frame that parses as a single object yields one StrictFrame result.
// Otherwise the frame is split on "}{" and each fragment is parsed
// independently; fragments that still fail are dropped and reported via
// the returned error, but the surviving envelopes are always returned.
// One bad fragment never discards the whole batch.
func Decode(raw []byte) ([]Decoded, error) {
	var env types.Envelope
	if err := json.Unmarshal(raw, &env); err == nil {
		return []Decoded{{Envelope: env, Kind: StrictFrame}}, nil
	}

	parts := strings.Split(string(raw), "}{")
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: %.64s", ErrMalformedFrame, raw)
	}

	msgs := make([]Decoded, 0, len(parts))
	dropped := 0
	for i, part := range parts {
		if i > 0 {
			part = "{" + part
		}
		if i < len(parts)-1 {
			part = part + "}"
		}
		var env types.Envelope
		if err := json.Unmarshal([]byte(part), &env); err != nil {
			dropped++
			continue
		}
		msgs = append(msgs, Decoded{Envelope: env, Kind: LegacyConcatenatedFrame})
	}

	if dropped > 0 {
		return msgs, fmt.Errorf("%w: dropped %d of %d fragments", ErrMalformedFrame, dropped, len(parts))
	}
	return msgs, nil
}

// Encode serializes one envelope as exactly one JSON object. Frames
// produced here never need the legacy recovery path on the other end.
func Encode(env types.Envelope) ([]byte, error) {
	return json.Marshal(env)
}

// EncodeUserEvent builds and serializes a presence frame.
func EncodeUserEvent(msgType string, user types.UserData) ([]byte, error) {
	data, err := json.Marshal(types.UserEvent{UserData: user})
	if err != nil {
		return nil, err
	}
	return Encode(types.Envelope{Type: msgType, Data: data})
}
