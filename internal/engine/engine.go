// Package engine implements the playback state machine: a cursor over a
// finalized step sequence, step-kind dispatch, and the lifecycle of the
// countdown attached to cooking steps.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/present"
	"github.com/hammamikhairi/recipebox/internal/timer"
)

// Option configures the engine.
type Option func(*Engine)

// WithTimeScale sets the simulated-seconds-per-real-second factor used by
// every countdown the engine creates.
func WithTimeScale(scale float64) Option {
	return func(e *Engine) {
		if scale > 0 && !math.IsInf(scale, 1) {
			e.timeScale = scale
		}
	}
}

// WithOnChange registers a callback run after any asynchronous change to a
// session (timer ticks and expiry). Sessions can override it.
func WithOnChange(fn func()) Option {
	return func(e *Engine) {
		e.onChange = fn
	}
}

// Engine opens playback sessions. It depends only on interfaces and is
// fully testable with a manual scheduler.
type Engine struct {
	recipes   domain.PlaybackFetcher
	notifier  domain.Notifier
	sched     timer.Scheduler
	log       *logger.Logger
	timeScale float64
	onChange  func()
}

// New creates a playback engine with the given dependencies and options.
func New(recipes domain.PlaybackFetcher, notifier domain.Notifier, sched timer.Scheduler, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		recipes:   recipes,
		notifier:  notifier,
		sched:     sched,
		log:       log,
		timeScale: 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Open fetches a recipe and starts a session at its first step.
func (e *Engine) Open(ctx context.Context, recipeID string) (*Session, error) {
	recipe, err := e.recipes.FetchForPlayback(ctx, recipeID)
	if err != nil {
		return nil, &domain.CollaboratorError{Op: "fetching recipe for playback", Err: err}
	}
	if len(recipe.Steps) == 0 {
		return nil, domain.ErrEmptyRecipe
	}

	// The session works on its own copy; nothing is written back.
	steps := make([]domain.Step, len(recipe.Steps))
	copy(steps, recipe.Steps)

	s := &Session{
		id:        generateID(),
		recipeID:  recipe.ID,
		title:     recipe.Title,
		steps:     steps,
		status:    domain.SessionActive,
		startedAt: time.Now(),
		eng:       e,
		onChange:  e.onChange,
	}
	s.mu.Lock()
	s.enterStep()
	s.mu.Unlock()

	e.log.Info("started playback %s for recipe %q (%s, %d steps)", s.id, s.title, s.recipeID, len(steps))
	return s, nil
}

// Session is one playback run over a fixed step sequence.
type Session struct {
	mu        sync.Mutex
	id        string
	recipeID  string
	title     string
	steps     []domain.Step
	cursor    int
	status    domain.SessionStatus
	countdown *timer.Countdown
	epoch     uint64
	startedAt time.Time
	eng       *Engine
	onChange  func()
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Title returns the recipe title.
func (s *Session) Title() string { return s.title }

// Len returns the number of steps.
func (s *Session) Len() int { return len(s.steps) }

// SetOnChange replaces the change callback for this session.
func (s *Session) SetOnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Cursor returns the current step index.
func (s *Session) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Status returns the session status.
func (s *Session) Status() domain.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Finished reports whether the session has been exited.
func (s *Session) Finished() bool {
	return s.Status() == domain.SessionFinished
}

// Current returns the step under the cursor.
func (s *Session) Current() domain.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.steps[s.cursor]
}

// CanRetreat reports whether Retreat would move the cursor.
func (s *Session) CanRetreat() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status == domain.SessionActive && s.cursor > 0
}

// IsLast reports whether the cursor is on the last step, where the
// natural action is Finish rather than Advance.
func (s *Session) IsLast() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor == len(s.steps)-1
}

// Advance moves to the next step. At the last step it is a no-op and
// returns false; use Finish to leave playback.
func (s *Session) Advance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != domain.SessionActive || s.cursor >= len(s.steps)-1 {
		return false
	}
	s.cursor++
	s.enterStep()
	s.eng.log.Debug("playback %s advanced to step %d/%d", s.id, s.cursor+1, len(s.steps))
	return true
}

// Retreat moves to the previous step. At the first step it is a no-op and
// returns false.
func (s *Session) Retreat() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != domain.SessionActive || s.cursor == 0 {
		return false
	}
	s.cursor--
	s.enterStep()
	s.eng.log.Debug("playback %s went back to step %d/%d", s.id, s.cursor+1, len(s.steps))
	return true
}

// Finish exits playback. The countdown, if any, is discarded.
func (s *Session) Finish(ctx context.Context) {
	s.mu.Lock()
	if s.status == domain.SessionFinished {
		s.mu.Unlock()
		return
	}
	s.dropCountdown()
	s.status = domain.SessionFinished
	elapsed := time.Since(s.startedAt).Round(time.Second)
	s.mu.Unlock()

	s.eng.log.Info("playback %s finished after %s", s.id, elapsed)
	if err := s.eng.notifier.Notify(ctx, present.LinePlaybackDone(s.title)); err != nil {
		s.eng.log.Error("playback: finish notify: %v", err)
	}
}

// ToggleTimer starts or pauses the current step's countdown and returns
// the new running state.
func (s *Session) ToggleTimer() (bool, error) {
	c, err := s.currentCountdown()
	if err != nil {
		return false, err
	}
	return c.Toggle(), nil
}

// ResetTimer restores the current countdown to its original duration.
// It does nothing when the countdown is already at its original value.
func (s *Session) ResetTimer() error {
	c, err := s.currentCountdown()
	if err != nil {
		return err
	}
	if c.Snapshot().CanReset() {
		c.Reset()
	}
	return nil
}

// TickTimer applies one tick to the current countdown by hand, as if its
// scheduled callback had fired.
func (s *Session) TickTimer() error {
	c, err := s.currentCountdown()
	if err != nil {
		return err
	}
	c.Tick()
	return nil
}

// Timer returns the current countdown state, if the step has one.
func (s *Session) Timer() (timer.Snapshot, bool) {
	s.mu.Lock()
	c := s.countdown
	s.mu.Unlock()
	if c == nil {
		return timer.Snapshot{}, false
	}
	return c.Snapshot(), true
}

// View renders the current step.
func (s *Session) View() present.StepView {
	s.mu.Lock()
	step, idx, c := s.steps[s.cursor], s.cursor, s.countdown
	s.mu.Unlock()

	var snap timer.Snapshot
	if c != nil {
		snap = c.Snapshot()
	}
	return present.Step(step, idx, len(s.steps), snap, c != nil)
}

func (s *Session) currentCountdown() (*timer.Countdown, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != domain.SessionActive {
		return nil, domain.ErrSessionFinished
	}
	if s.countdown == nil {
		return nil, domain.ErrNoTimer
	}
	return s.countdown, nil
}

// enterStep discards the previous countdown before building the one for
// the step under the cursor. mu must be held.
func (s *Session) enterStep() {
	s.dropCountdown()
	s.epoch++

	step := s.steps[s.cursor]
	cooking, ok := step.Variant.(domain.Cooking)
	if !ok {
		return
	}
	d, err := domain.ParseClock(cooking.Duration)
	if err != nil {
		s.eng.log.Error("playback %s: step %d has a bad duration: %v", s.id, s.cursor+1, err)
		return
	}

	epoch := s.epoch
	s.countdown = timer.New(d, s.eng.sched, s.eng.log,
		timer.WithTimeScale(s.eng.timeScale),
		timer.WithLabel(step.Title),
		timer.WithOnTick(func(timer.Snapshot) { s.changed(epoch) }),
		timer.WithOnExpire(func() { s.expired(epoch, step.Title) }),
	)
	s.eng.log.Debug("created countdown %s for step %s", cooking.Duration, step.ID)
}

// dropCountdown must be called with mu held.
func (s *Session) dropCountdown() {
	if s.countdown != nil {
		s.countdown.Discard()
		s.countdown = nil
	}
}

func (s *Session) changed(epoch uint64) {
	s.mu.Lock()
	fn := s.onChange
	stale := epoch != s.epoch
	s.mu.Unlock()
	if stale || fn == nil {
		return
	}
	fn()
}

func (s *Session) expired(epoch uint64, title string) {
	s.mu.Lock()
	stale := epoch != s.epoch || s.status != domain.SessionActive
	s.mu.Unlock()
	if stale {
		s.eng.log.Debug("playback %s: %v", s.id, domain.ErrStaleTick)
		return
	}

	if err := s.eng.notifier.NotifyUrgent(context.Background(), present.LineTimerDone(title)); err != nil {
		s.eng.log.Error("playback: notifying timer expiry: %v", err)
	}
	s.changed(epoch)
}

// IsNotFound reports whether err means the recipe does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

// String implements fmt.Stringer for log lines.
func (s *Session) String() string {
	return fmt.Sprintf("playback %s (%s, step %d/%d)", s.id, s.title, s.Cursor()+1, len(s.steps))
}
