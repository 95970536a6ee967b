package engine

import (
	"sync"
	"time"
)

// TickInterval is the spacing between countdown ticks.
const TickInterval = time.Second

// Timer is a pending one-shot tick that can be cancelled.
type Timer interface {
	Stop() bool
}

// TickSource schedules one-shot callbacks. It exists so tests can fire ticks
// on demand instead of waiting on the wall clock.
type TickSource interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemTicks is the TickSource backed by time.AfterFunc.
var SystemTicks TickSource = systemTicks{}

type systemTicks struct{}

func (systemTicks) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualTicks is a TickSource whose callbacks only run when Fire is called.
//
// Thread-safety: safe for concurrent use. Callbacks run on the goroutine
// that calls Fire, outside the internal lock.
type ManualTicks struct {
	mu      sync.Mutex
	pending []*manualTimer
	armed   int
}

// NewManualTicks creates an empty manual tick source.
func NewManualTicks() *ManualTicks {
	return &ManualTicks{}
}

type manualTimer struct {
	owner   *ManualTicks
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// AfterFunc registers f. The duration is ignored.
func (m *ManualTicks) AfterFunc(_ time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{owner: m, f: f}
	m.pending = append(m.pending, t)
	m.armed++
	return t
}

// Fire runs every live callback registered so far and returns how many ran.
// Stopped timers are discarded without running.
func (m *ManualTicks) Fire() int {
	m.mu.Lock()
	var live []*manualTimer
	for _, t := range m.pending {
		if !t.stopped && !t.fired {
			t.fired = true
			live = append(live, t)
		}
	}
	m.pending = nil
	m.mu.Unlock()

	for _, t := range live {
		t.f()
	}
	return len(live)
}

// FireStopped runs callbacks even for timers that were stopped, simulating a
// timer that fired concurrently with its cancellation.
func (m *ManualTicks) FireStopped() int {
	m.mu.Lock()
	all := m.pending
	m.pending = nil
	for _, t := range all {
		t.fired = true
	}
	m.mu.Unlock()

	for _, t := range all {
		t.f()
	}
	return len(all)
}

// Live returns the number of armed timers that have neither fired nor been
// stopped.
func (m *ManualTicks) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.pending {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Armed returns the total number of timers ever registered.
func (m *ManualTicks) Armed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.armed
}
