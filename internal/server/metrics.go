package server

import "sync/atomic"

// Metrics holds the service-wide counters. All access is atomic so the hot
// paths never take a lock for bookkeeping.
type Metrics struct {
	MatchesCreated int64
	MatchesEnded   int64
	TurnsResolved  int64
	OrdersRejected int64
	WSClients      int64 // currently connected
	BytesOut       int64
}

func (m *Metrics) IncMatchesCreated() { atomic.AddInt64(&m.MatchesCreated, 1) }
func (m *Metrics) IncMatchesEnded()   { atomic.AddInt64(&m.MatchesEnded, 1) }
func (m *Metrics) IncTurnsResolved()  { atomic.AddInt64(&m.TurnsResolved, 1) }
func (m *Metrics) IncOrdersRejected() { atomic.AddInt64(&m.OrdersRejected, 1) }
func (m *Metrics) ClientConnected()   { atomic.AddInt64(&m.WSClients, 1) }
func (m *Metrics) ClientGone()        { atomic.AddInt64(&m.WSClients, -1) }
func (m *Metrics) AddBytesOut(n int)  { atomic.AddInt64(&m.BytesOut, int64(n)) }

// Snapshot returns a read-only copy for the /metricsz endpoint.
func (m *Metrics) Snapshot() map[string]any {
	return map[string]any{
		"matches_created": atomic.LoadInt64(&m.MatchesCreated),
		"matches_ended":   atomic.LoadInt64(&m.MatchesEnded),
		"turns_resolved":  atomic.LoadInt64(&m.TurnsResolved),
		"orders_rejected": atomic.LoadInt64(&m.OrdersRejected),
		"ws_clients":      atomic.LoadInt64(&m.WSClients),
		"bytes_out":       atomic.LoadInt64(&m.BytesOut),
	}
}
