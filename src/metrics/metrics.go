// Package metrics exposes the relay's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveConnections tracks currently admitted connections.
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relay_active_connections",
		Help: "Number of currently connected clients.",
	})

	// ActiveSessions tracks sessions with at least one connection.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relay_active_sessions",
		Help: "Number of live collaboration sessions.",
	})

	// MessagesRelayed counts broadcast fan-outs by message type.
	MessagesRelayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_messages_relayed_total",
		Help: "Messages accepted for broadcast, by type.",
	}, []string{"type"})

	// MalformedFrames counts frames or fragments dropped by the parser.
	MalformedFrames = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_malformed_frames_total",
		Help: "Inbound frames or fragments that failed parsing.",
	})

	// UnknownMessages counts well-formed envelopes with an unknown type.
	UnknownMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_unknown_messages_total",
		Help: "Envelopes ignored because of an unrecognized type.",
	})

	// CoalescedUpdates counts updates held back by the rate gate.
	CoalescedUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_coalesced_updates_total",
		Help: "Updates coalesced by the per-connection rate gate.",
	})

	// DeliveryFailures counts per-target broadcast write failures.
	DeliveryFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_delivery_failures_total",
		Help: "Broadcast deliveries dropped due to a full or dead target.",
	})
)
