// Package realtime keeps the register's catalog fresh. Push
// notifications from the backend are debounced into refreshes; when the
// push channel drops, a fixed-interval poll takes over until it comes
// back.
package realtime

import (
	"sync"
	"time"
)

type EventType string

const (
	EventSaleCreated       EventType = "sale_created"
	EventInventoryMovement EventType = "inventory_movement"
)

// Event is a change notification. Key identifies the changed aggregate;
// the bridge never interprets payloads, identity is enough to justify a
// refresh.
type Event struct {
	Type EventType
	Key  string
}

type State int

const (
	StateConnected State = iota
	StateDisconnected
)

const (
	defaultDebounce     = 300 * time.Millisecond
	defaultPollInterval = 30 * time.Second
)

// Bridge is the two-state refresh machine. Each state owns at most one
// timer: the debounce timer while connected, the poll ticker while
// disconnected, both always cancelled on transition and on Close.
type Bridge struct {
	refresh      func()
	debounce     time.Duration
	pollInterval time.Duration

	mu            sync.Mutex
	state         State
	closed        bool
	debounceTimer *time.Timer
	debounceGen   uint64
	pollTicker    *time.Ticker
	pollDone      chan struct{}
}

type Option func(*Bridge)

func WithDebounce(d time.Duration) Option {
	return func(b *Bridge) { b.debounce = d }
}

func WithPollInterval(d time.Duration) Option {
	return func(b *Bridge) { b.pollInterval = d }
}

// NewBridge starts in the connected state with no timers running; the
// feed drives transitions from there.
func NewBridge(refresh func(), opts ...Option) *Bridge {
	b := &Bridge{
		refresh:      refresh,
		debounce:     defaultDebounce,
		pollInterval: defaultPollInterval,
		state:        StateConnected,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Notify coalesces change notifications: bursts within the debounce
// window collapse into a single refresh. At most one refresh is ever
// scheduled per window. The generation counter handles the race where
// a timer fires while Notify holds the lock: Stop() returns false, the
// stale callback still runs, and without the check it would clobber
// the freshly armed timer handle and fire a second refresh.
func (b *Bridge) Notify(Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	if b.debounceTimer != nil {
		b.debounceTimer.Stop()
	}
	b.debounceGen++
	gen := b.debounceGen
	b.debounceTimer = time.AfterFunc(b.debounce, func() { b.fireRefresh(gen) })
}

func (b *Bridge) fireRefresh(gen uint64) {
	b.mu.Lock()
	if b.closed || gen != b.debounceGen {
		// Superseded by a later Notify or by Close.
		b.mu.Unlock()
		return
	}
	b.debounceTimer = nil
	b.mu.Unlock()

	b.refresh()
}

// SetConnected moves the machine between its two states. Entering
// disconnected starts the polling fallback; returning to connected
// stops it. Redundant transitions are no-ops, so flapping feeds can
// never stack timers.
func (b *Bridge) SetConnected(connected bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	switch {
	case connected && b.state == StateDisconnected:
		b.state = StateConnected
		b.stopPollingLocked()
	case !connected && b.state == StateConnected:
		b.state = StateDisconnected
		b.startPollingLocked()
	}
}

func (b *Bridge) startPollingLocked() {
	ticker := time.NewTicker(b.pollInterval)
	done := make(chan struct{})
	b.pollTicker = ticker
	b.pollDone = done

	go func() {
		for {
			select {
			case <-ticker.C:
				b.refresh()
			case <-done:
				return
			}
		}
	}()
}

func (b *Bridge) stopPollingLocked() {
	if b.pollTicker == nil {
		return
	}
	b.pollTicker.Stop()
	close(b.pollDone)
	b.pollTicker = nil
	b.pollDone = nil
}

func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Close cancels whichever timer is live. Idempotent, and safe to call
// even if the feed never established a subscription.
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	if b.debounceTimer != nil {
		b.debounceTimer.Stop()
		b.debounceTimer = nil
	}
	b.stopPollingLocked()
}

// polling reports whether the fallback ticker is live. Test hook.
func (b *Bridge) polling() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pollTicker != nil
}
