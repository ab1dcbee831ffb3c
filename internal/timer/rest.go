package timer

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultRestSeconds is used when a countdown is started without a duration.
const DefaultRestSeconds = 60

// State is the phase of a rest countdown.
type State int

const (
	Stopped State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(b []byte) error {
	switch string(b) {
	case "stopped":
		*s = Stopped
	case "running":
		*s = Running
	case "paused":
		*s = Paused
	default:
		return fmt.Errorf("unknown timer state %q", b)
	}
	return nil
}

// Snapshot is the observable state of a Rest timer.
type Snapshot struct {
	State     State `json:"state"`
	Remaining int   `json:"remaining"`
	Duration  int   `json:"duration"`
}

// Label renders the countdown the way the workout screen shows it.
func (s Snapshot) Label() string {
	if s.State == Stopped {
		return "Start Rest"
	}
	return fmt.Sprintf("%ds", s.Remaining)
}

// Rest is a one-second resolution countdown. It is safe for concurrent use;
// the change callback runs after the internal lock is released.
type Rest struct {
	mu        sync.Mutex
	state     State
	remaining int
	duration  int
	onChange  func(Snapshot)
}

// NewRest returns a stopped timer.
func NewRest() *Rest {
	return &Rest{}
}

// OnChange registers fn to receive every state or remaining-time change.
func (r *Rest) OnChange(fn func(Snapshot)) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}

// Snapshot returns the current state.
func (r *Rest) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Rest) snapshotLocked() Snapshot {
	return Snapshot{State: r.state, Remaining: r.remaining, Duration: r.duration}
}

// update applies fn under the lock and notifies the observer if fn reports a
// change.
func (r *Rest) update(fn func() bool) bool {
	r.mu.Lock()
	changed := fn()
	snap := r.snapshotLocked()
	cb := r.onChange
	r.mu.Unlock()
	if changed && cb != nil {
		cb(snap)
	}
	return changed
}

// Start begins a countdown of seconds (DefaultRestSeconds when <= 0). A
// timer that is already running or paused is left alone.
func (r *Rest) Start(seconds int) bool {
	if seconds <= 0 {
		seconds = DefaultRestSeconds
	}
	return r.update(func() bool {
		if r.state != Stopped {
			return false
		}
		r.duration = seconds
		r.remaining = seconds
		r.state = Running
		return true
	})
}

// Pause freezes a running countdown.
func (r *Rest) Pause() bool {
	return r.update(func() bool {
		if r.state != Running {
			return false
		}
		r.state = Paused
		return true
	})
}

// Resume continues a paused countdown from where it stopped.
func (r *Rest) Resume() bool {
	return r.update(func() bool {
		if r.state != Paused {
			return false
		}
		r.state = Running
		return true
	})
}

// AddTime extends a running countdown by seconds. Paused and stopped timers
// are left alone.
func (r *Rest) AddTime(seconds int) bool {
	return r.update(func() bool {
		if r.state != Running || seconds == 0 {
			return false
		}
		r.remaining += seconds
		if r.remaining <= 0 {
			r.stopLocked()
		}
		return true
	})
}

// Restart resets the countdown to its full duration and runs it. A timer
// that has never been started restarts with DefaultRestSeconds.
func (r *Rest) Restart() bool {
	return r.update(func() bool {
		if r.duration <= 0 {
			r.duration = DefaultRestSeconds
		}
		r.remaining = r.duration
		r.state = Running
		return true
	})
}

// Stop ends the countdown and clears the remaining time.
func (r *Rest) Stop() bool {
	return r.update(func() bool {
		if r.state == Stopped && r.remaining == 0 {
			return false
		}
		r.stopLocked()
		return true
	})
}

// Skip is Stop under the name the workout screen uses.
func (r *Rest) Skip() bool {
	return r.Stop()
}

func (r *Rest) stopLocked() {
	r.state = Stopped
	r.remaining = 0
}

// Tick advances a running countdown by one second and stops it when it
// reaches zero. It does nothing unless the timer is running.
func (r *Rest) Tick() bool {
	return r.update(func() bool {
		if r.state != Running {
			return false
		}
		r.remaining--
		if r.remaining <= 0 {
			r.stopLocked()
		}
		return true
	})
}

// Run ticks the timer once a second until ctx is done.
func (r *Rest) Run(ctx context.Context) {
	t := Every(time.Second, func(time.Time) { r.Tick() })
	<-ctx.Done()
	t.Stop()
}
