// Package connectivity turns store health probes into an online/offline signal.
package connectivity

import (
	"context"
	"log/slog"
	"sync"
	"time"

	portssvc "github.com/SscSPs/casa_ledger/internal/core/ports/services"
	"github.com/SscSPs/casa_ledger/internal/middleware"
)

const subscriberBuffer = 4

// Pinger is the health probe the monitor polls.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor tracks whether the backing store is reachable and broadcasts every transition.
type Monitor struct {
	pinger   Pinger
	interval time.Duration

	mu     sync.Mutex
	online bool
	subs   map[int]chan bool
	next   int
}

// NewMonitor starts in the given state; Run corrects it on the first probe.
func NewMonitor(pinger Pinger, interval time.Duration, initiallyOnline bool) *Monitor {
	return &Monitor{
		pinger:   pinger,
		interval: interval,
		online:   initiallyOnline,
		subs:     map[int]chan bool{},
	}
}

var _ portssvc.Connectivity = (*Monitor)(nil)

func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Subscribe delivers transitions until ctx is done. A slow subscriber only misses
// intermediate states, never the latest one.
func (m *Monitor) Subscribe(ctx context.Context) <-chan bool {
	ch := make(chan bool, subscriberBuffer)
	m.mu.Lock()
	id := m.next
	m.next++
	m.subs[id] = ch
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.subs, id)
		close(ch)
		m.mu.Unlock()
	}()
	return ch
}

// Set overrides the current state. It is a no-op when nothing changes.
func (m *Monitor) Set(online bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.online == online {
		return
	}
	m.online = online
	for _, ch := range m.subs {
		select {
		case ch <- online:
		default:
			// drop the oldest so the newest state always lands
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- online:
			default:
			}
		}
	}
}

// Probe pings once and records the outcome.
func (m *Monitor) Probe(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, m.interval)
	defer cancel()
	err := m.pinger.Ping(probeCtx)
	online := err == nil

	if online != m.Online() {
		logger := middleware.GetLoggerFromCtx(ctx)
		if online {
			logger.Info("Store reachable, going online")
		} else {
			logger.Warn("Store unreachable, going offline", slog.String("error", err.Error()))
		}
	}
	m.Set(online)
	return online
}

// Run probes immediately and then every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	ctx = middleware.WithLogger(ctx, middleware.GetLoggerFromCtx(ctx).With("component", "connectivity"))
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Probe(ctx)
		}
	}
}
