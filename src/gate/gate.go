// Package gate bounds the update frequency of a single connection.
//
// Clients throttle content and drawing updates themselves, but the
// relay does not trust that. Each connection gets a Gate enforcing a
// minimum inter-arrival interval; updates arriving inside the window
// are coalesced keep-latest, so the newest state always wins and is
// flushed as soon as the window reopens.
package gate

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Gate applies a minimum interval between delivered updates for one
// connection. Zero interval disables gating entirely.
type Gate struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	deliver func([]byte)
	pending []byte
	timer   *time.Timer
	closed  bool
}

// New creates a gate delivering admitted frames through deliver.
// deliver is called either inline from Offer or from a timer goroutine,
// never with the gate's lock held by the caller.
func New(minInterval time.Duration, deliver func([]byte)) *Gate {
	g := &Gate{deliver: deliver}
	if minInterval > 0 {
		g.limiter = rate.NewLimiter(rate.Every(minInterval), 1)
	}
	return g
}

// Offer submits one update frame. It returns true when the frame was
// delivered immediately and false when it was coalesced: stored as the
// pending frame (replacing any previous one) and flushed when the
// interval allows. Superseded frames are silently dropped; ephemeral
// updates carry no value once newer state exists.
func (g *Gate) Offer(data []byte) bool {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return false
	}
	if g.limiter == nil {
		g.mu.Unlock()
		g.deliver(data)
		return true
	}
	if g.pending == nil && g.limiter.Allow() {
		g.mu.Unlock()
		g.deliver(data)
		return true
	}

	g.pending = data
	if g.timer == nil {
		delay := g.limiter.Reserve().Delay()
		g.timer = time.AfterFunc(delay, g.flush)
	}
	g.mu.Unlock()
	return false
}

func (g *Gate) flush() {
	g.mu.Lock()
	data := g.pending
	g.pending = nil
	g.timer = nil
	closed := g.closed
	g.mu.Unlock()

	if closed || data == nil {
		return
	}
	g.deliver(data)
}

// Close drops any pending frame and stops the flush timer. Offers after
// Close are discarded.
func (g *Gate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	g.pending = nil
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}
