package network

import (
	"context"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Sender is the outbound half of the transport.
type Sender interface {
	SendData(kind string, payload ...any)
}

// ShouldEmit decides whether a state change is reported to the server: only
// the local player's changes are, and never in offline mode.
func ShouldEmit(local, offline bool) bool {
	return local && !offline
}

// Gate filters state mutations before they reach the transport.
type Gate struct {
	sender  Sender
	offline atomic.Bool
	log     *zap.Logger

	emitted    metric.Int64Counter
	suppressed metric.Int64Counter
}

// NewGate creates a gate in front of sender. A nil sender behaves like
// offline mode.
func NewGate(sender Sender, offline bool, log *zap.Logger) (*Gate, error) {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Gate{
		sender: sender,
		log:    log,
	}
	g.offline.Store(offline || sender == nil)

	m := meter()
	var err error
	g.emitted, err = m.Int64Counter(
		"sync.messages.emitted",
		metric.WithDescription("State changes forwarded to the server"),
	)
	if err != nil {
		return nil, err
	}
	g.suppressed, err = m.Int64Counter(
		"sync.messages.suppressed",
		metric.WithDescription("State changes kept local"),
	)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Offline reports whether the gate drops everything.
func (g *Gate) Offline() bool {
	return g.offline.Load()
}

// SetOffline switches the gate to dropping everything, or back to
// forwarding. A gate without a sender stays offline.
func (g *Gate) SetOffline(offline bool) {
	g.offline.Store(offline || g.sender == nil)
}

// Sync forwards the message when ShouldEmit allows it.
func (g *Gate) Sync(local bool, kind string, payload ...any) bool {
	attrs := metric.WithAttributes(attribute.String("kind", kind))
	if !ShouldEmit(local, g.offline.Load()) {
		g.suppressed.Add(context.Background(), 1, attrs)
		return false
	}
	g.sender.SendData(kind, payload...)
	g.emitted.Add(context.Background(), 1, attrs)
	g.log.Debug("state synced", zap.String("kind", kind), zap.Any("payload", payload))
	return true
}
