package timer

import (
	"sort"
	"sync"
	"time"
)

// Handle cancels a scheduled callback. Cancel is idempotent and safe to
// call after the callback has run.
type Handle interface {
	Cancel()
}

// Scheduler runs single-shot callbacks after a delay.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Handle
}

// RealScheduler schedules on the wall clock via time.AfterFunc.
type RealScheduler struct{}

// NewRealScheduler returns a wall-clock scheduler.
func NewRealScheduler() *RealScheduler { return &RealScheduler{} }

// Schedule runs fn on its own goroutine after d.
func (RealScheduler) Schedule(d time.Duration, fn func()) Handle {
	return realHandle{t: time.AfterFunc(d, fn)}
}

type realHandle struct{ t *time.Timer }

func (h realHandle) Cancel() { h.t.Stop() }

// ManualScheduler is a virtual clock for deterministic tests and demos.
// Nothing runs until Advance or Fire is called.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	due       time.Duration
	seq       int
	fn        func()
	cancelled bool
}

// NewManualScheduler returns a scheduler whose clock starts at zero.
func NewManualScheduler() *ManualScheduler { return &ManualScheduler{} }

// Schedule registers fn to run once the virtual clock reaches now+d.
func (s *ManualScheduler) Schedule(d time.Duration, fn func()) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTask{due: s.now + d, seq: s.seq, fn: fn}
	s.tasks = append(s.tasks, t)
	return &manualHandle{s: s, t: t}
}

type manualHandle struct {
	s *ManualScheduler
	t *manualTask
}

func (h *manualHandle) Cancel() {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	h.t.cancelled = true
}

// Advance moves the virtual clock forward by d, running every callback
// that comes due, including ones scheduled by earlier callbacks.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		t := s.popDue(target)
		if t == nil {
			break
		}
		t.fn()
	}

	s.mu.Lock()
	s.now = target
	s.mu.Unlock()
}

// Fire runs the earliest pending callback regardless of its due time and
// reports whether one ran.
func (s *ManualScheduler) Fire() bool {
	t := s.popDue(-1)
	if t == nil {
		return false
	}
	t.fn()
	return true
}

// Pending returns the number of live callbacks.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// popDue removes and returns the earliest live task due at or before
// limit; a negative limit matches any task.
func (s *ManualScheduler) popDue(limit time.Duration) *manualTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	s.tasks = live
	if len(s.tasks) == 0 {
		return nil
	}
	sort.Slice(s.tasks, func(i, j int) bool {
		if s.tasks[i].due != s.tasks[j].due {
			return s.tasks[i].due < s.tasks[j].due
		}
		return s.tasks[i].seq < s.tasks[j].seq
	})
	next := s.tasks[0]
	if limit >= 0 && next.due > limit {
		return nil
	}
	s.tasks = s.tasks[1:]
	if next.due > s.now {
		s.now = next.due
	}
	return next
}
