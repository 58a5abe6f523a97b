// Package timer implements the countdown controller used by timed playback
// steps. A countdown never owns a free-running interval: each simulated
// second is a single-shot callback on a Scheduler, re-armed after it fires
// and cancelled on pause, reset, expiry or discard.
package timer

import (
	"sync"
	"time"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

// step is the simulated time removed by one tick.
const step = time.Second

// Option configures a countdown.
type Option func(*Countdown)

// WithTimeScale makes ticks fire scale times per real second. Values <= 0
// are ignored.
func WithTimeScale(scale float64) Option {
	return func(c *Countdown) {
		if scale > 0 {
			c.scale = scale
		}
	}
}

// WithOnExpire registers a callback run once when the countdown reaches zero.
func WithOnExpire(fn func()) Option {
	return func(c *Countdown) {
		c.onExpire = fn
	}
}

// WithOnTick registers a callback run after every scheduled tick.
func WithOnTick(fn func(Snapshot)) Option {
	return func(c *Countdown) {
		c.onTick = fn
	}
}

// WithLabel names the countdown in log lines.
func WithLabel(label string) Option {
	return func(c *Countdown) {
		c.label = label
	}
}

// Snapshot is a point-in-time copy of a countdown's state.
type Snapshot struct {
	Original  time.Duration
	Remaining time.Duration
	Running   bool
}

// Status derives the timer status from the snapshot.
func (s Snapshot) Status() domain.TimerStatus {
	switch {
	case s.Running:
		return domain.TimerRunning
	case s.Remaining <= 0:
		return domain.TimerExpired
	case s.Remaining == s.Original:
		return domain.TimerIdle
	default:
		return domain.TimerPaused
	}
}

// CanReset reports whether a reset would change anything.
func (s Snapshot) CanReset() bool { return s.Remaining != s.Original }

// Countdown is a pausable, resettable, time-scaled countdown. All methods
// are safe for concurrent use; scheduled ticks arrive on scheduler
// goroutines.
type Countdown struct {
	mu        sync.Mutex
	label     string
	original  time.Duration
	remaining time.Duration
	running   bool
	scale     float64
	sched     Scheduler
	pending   Handle
	gen       uint64
	discarded bool
	onExpire  func()
	onTick    func(Snapshot)
	log       *logger.Logger
}

// New creates a stopped countdown at original.
func New(original time.Duration, sched Scheduler, log *logger.Logger, opts ...Option) *Countdown {
	c := &Countdown{
		label:     "timer",
		original:  original,
		remaining: original,
		scale:     1,
		sched:     sched,
		log:       log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Interval is the real time between two ticks.
func (c *Countdown) Interval() time.Duration {
	return time.Duration(float64(step) / c.scale)
}

// Toggle flips between running and paused and returns the new running
// state. A countdown at zero stays stopped.
func (c *Countdown) Toggle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.discarded || c.remaining <= 0 {
		return false
	}
	c.running = !c.running
	if c.running {
		c.arm()
		c.log.Debug("%s started at %s", c.label, domain.FormatClock(c.remaining))
	} else {
		c.disarm()
		c.log.Debug("%s paused at %s", c.label, domain.FormatClock(c.remaining))
	}
	return c.running
}

// Tick removes one simulated second while running. At zero it clamps,
// stops, and fires the expiry callback.
func (c *Countdown) Tick() {
	c.mu.Lock()
	if c.discarded || !c.running {
		c.mu.Unlock()
		return
	}
	expired := c.decrement()
	if expired {
		c.disarm()
	}
	c.mu.Unlock()

	if expired && c.onExpire != nil {
		c.onExpire()
	}
}

// Reset restores the original duration and stops the countdown.
func (c *Countdown) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.discarded {
		return
	}
	c.disarm()
	c.remaining = c.original
	c.running = false
	c.log.Debug("%s reset to %s", c.label, domain.FormatClock(c.original))
}

// Discard cancels any pending tick and makes every later call a no-op.
func (c *Countdown) Discard() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.discarded {
		return
	}
	c.disarm()
	c.running = false
	c.discarded = true
}

// Snapshot returns the current state.
func (c *Countdown) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Countdown) snapshot() Snapshot {
	return Snapshot{Original: c.original, Remaining: c.remaining, Running: c.running}
}

// decrement must be called with mu held. It reports whether the
// countdown just expired.
func (c *Countdown) decrement() bool {
	c.remaining -= step
	if c.remaining > 0 {
		return false
	}
	c.remaining = 0
	c.running = false
	c.log.Debug("%s expired", c.label)
	return true
}

// arm schedules the next tick under a fresh generation. mu must be held.
func (c *Countdown) arm() {
	if c.pending != nil {
		c.pending.Cancel()
	}
	c.gen++
	gen := c.gen
	c.pending = c.sched.Schedule(c.Interval(), func() { c.fire(gen) })
}

// disarm cancels the pending tick and invalidates its generation. mu must
// be held.
func (c *Countdown) disarm() {
	if c.pending != nil {
		c.pending.Cancel()
		c.pending = nil
	}
	c.gen++
}

// fire is the scheduled callback. A callback whose generation no longer
// matches belongs to a paused, reset or discarded run and does nothing.
func (c *Countdown) fire(gen uint64) {
	c.mu.Lock()
	if c.discarded || gen != c.gen || !c.running {
		c.mu.Unlock()
		c.log.Debug("%s: %v (gen %d)", c.label, domain.ErrStaleTick, gen)
		return
	}
	c.pending = nil
	expired := c.decrement()
	if c.running {
		c.arm()
	} else {
		c.gen++
	}
	snap := c.snapshot()
	c.mu.Unlock()

	if c.onTick != nil {
		c.onTick(snap)
	}
	if expired && c.onExpire != nil {
		c.onExpire()
	}
}
