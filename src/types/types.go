package types

import (
	"encoding/json"
	"time"
)

// Message type values carried in the wire envelope.
const (
	TypeContent       = "content"
	TypeUserData      = "user-data"
	TypeUserAdded     = "user-added"
	TypeUserRemoved   = "user-removed"
	TypeDrawingUpdate = "drawing-update"
)

// KnownType reports whether t is one of the enumerated message types.
func KnownType(t string) bool {
	switch t {
	case TypeContent, TypeUserData, TypeUserAdded, TypeUserRemoved, TypeDrawingUpdate:
		return true
	}
	return false
}

// Envelope is the wire format: one JSON object per transport frame.
// Data stays opaque so the relay forwards payloads byte-for-byte.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// UserData identifies a session participant. Assigned at admission and
// immutable for the lifetime of the connection.
type UserData struct {
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	UserColor string `json:"userColor"`
}

// UserEvent is the payload of user-data, user-added and user-removed frames.
type UserEvent struct {
	UserData UserData `json:"userData"`
}

// Position is a cursor location inside the shared document.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ContentData is the payload of a content frame.
type ContentData struct {
	Content  string   `json:"content"`
	Position Position `json:"position"`
	UserData UserData `json:"userData"`
}

// DrawingData is the payload of a drawing-update frame. Elements and
// app state are opaque editor JSON; clients strip the collaborator map
// from the app state before sending.
type DrawingData struct {
	Elements  json.RawMessage `json:"elements"`
	AppState  json.RawMessage `json:"appState"`
	UserData  UserData        `json:"userData"`
	SessionID string          `json:"sessionId"`
}

// ClientInfo holds metadata about a connected client.
type ClientInfo struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	UserData    UserData  `json:"user_data"`
	ConnectedAt time.Time `json:"connected_at"`
}

// Conn abstracts a WebSocket connection for testability.
type Conn interface {
	// ReadMessage blocks until the next raw frame arrives.
	ReadMessage() ([]byte, error)
	// WriteMessage writes one raw frame.
	WriteMessage(data []byte) error
	// Ping sends a transport-level keepalive probe.
	Ping() error
	Close() error
}
