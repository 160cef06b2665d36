package bridge

// Bridge defines the interface for cross-instance frame relaying.
// Implementations let several relay instances serve one session
// population.
type Bridge interface {
	// Publish sends a frame to all other instances.
	Publish(sessionID, originUserID string, data []byte) error

	// Start begins listening for frames from other instances.
	Start() error

	// Stop shuts down the bridge connection.
	Stop() error

	// Available reports whether the bridge is connected and operational.
	Available() bool
}

// BroadcastTarget is implemented by the hub to receive frames relayed
// from other instances.
type BroadcastTarget interface {
	BroadcastToLocal(sessionID, originUserID string, data []byte)
}
