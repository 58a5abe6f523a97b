// Package sequence implements the ordered, identity-stable collection of
// recipe steps edited by the authoring wizard. Steps live in an arena keyed
// by id; order is a separate slice of ids, so a reorder builds a new order
// and swaps it in whole.
package sequence

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

// Validator checks a step before it enters the sequence.
type Validator func(domain.Step) error

// Option configures a Manager.
type Option func(*Manager)

// WithIDGenerator overrides how fresh step ids are minted.
func WithIDGenerator(gen func() string) Option {
	return func(m *Manager) {
		m.newID = gen
	}
}

// Manager owns one recipe's step sequence. It is not safe for concurrent
// use; the wizard drives it from a single event loop.
type Manager struct {
	arena    map[string]domain.Step
	order    []string
	validate Validator
	newID    func() string
	frozen   bool
	log      *logger.Logger
}

// New creates an empty sequence. A nil validator accepts every step.
func New(validate Validator, log *logger.Logger, opts ...Option) *Manager {
	m := &Manager{
		arena:    make(map[string]domain.Step),
		validate: validate,
		newID:    uuid.NewString,
		log:      log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Append validates step, assigns an id if it has none, and adds it at the end.
func (m *Manager) Append(step domain.Step) (domain.Step, error) {
	if m.frozen {
		return domain.Step{}, domain.ErrSequenceFrozen
	}
	if m.validate != nil {
		if err := m.validate(step); err != nil {
			return domain.Step{}, err
		}
	}
	if step.ID == "" {
		step.ID = m.newID()
	}
	if _, exists := m.arena[step.ID]; exists {
		return domain.Step{}, fmt.Errorf("%w: %s", domain.ErrDuplicateStepID, step.ID)
	}

	m.arena[step.ID] = step
	m.order = append(m.order, step.ID)
	m.log.Debug("appended %s step %s at %d", step.Kind(), step.ID, len(m.order)-1)
	return step, nil
}

// Remove deletes the step with the given id. It reports whether a step was
// removed; an unknown id is a no-op.
func (m *Manager) Remove(id string) bool {
	if m.frozen {
		return false
	}
	idx := m.IndexOf(id)
	if idx < 0 {
		return false
	}
	delete(m.arena, id)
	m.order = append(m.order[:idx:idx], m.order[idx+1:]...)
	m.log.Debug("removed step %s from %d", id, idx)
	return true
}

// Reorder moves the step with the given id to target, shifting the steps in
// between by one. On an unknown id or an out-of-range target it returns a
// *domain.ReorderError and leaves the sequence untouched.
func (m *Manager) Reorder(id string, target int) error {
	if m.frozen {
		return domain.ErrSequenceFrozen
	}
	from := m.IndexOf(id)
	if from < 0 {
		return m.reorderFailed(id, target, domain.ErrUnknownStep)
	}
	if target < 0 || target >= len(m.order) {
		return m.reorderFailed(id, target, domain.ErrTargetOutOfRange)
	}
	if from == target {
		return nil
	}

	next := make([]string, 0, len(m.order))
	for i, sid := range m.order {
		if i == from {
			continue
		}
		if len(next) == target {
			next = append(next, id)
		}
		next = append(next, sid)
	}
	if len(next) == target {
		next = append(next, id)
	}

	m.order = next
	m.log.Debug("moved step %s from %d to %d", id, from, target)
	return nil
}

func (m *Manager) reorderFailed(id string, target int, cause error) error {
	err := &domain.ReorderError{ID: id, Target: target, Err: cause}
	m.log.Warn("%v", err)
	return err
}

// Replace edits a step in place. The replacement keeps the id and must have
// the same kind as the step it replaces.
func (m *Manager) Replace(id string, step domain.Step) error {
	if m.frozen {
		return domain.ErrSequenceFrozen
	}
	cur, ok := m.arena[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownStep, id)
	}
	next, err := cur.WithVariant(step.Variant)
	if err != nil {
		return err
	}
	next.Title = step.Title
	if m.validate != nil {
		if err := m.validate(next); err != nil {
			return err
		}
	}
	m.arena[id] = next
	return nil
}

// Get returns the step with the given id.
func (m *Manager) Get(id string) (domain.Step, bool) {
	s, ok := m.arena[id]
	return s, ok
}

// IndexOf returns the position of id, or -1.
func (m *Manager) IndexOf(id string) int {
	if _, ok := m.arena[id]; !ok {
		return -1
	}
	for i, sid := range m.order {
		if sid == id {
			return i
		}
	}
	return -1
}

// Len returns the number of steps.
func (m *Manager) Len() int { return len(m.order) }

// IDs returns the step ids in order.
func (m *Manager) IDs() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Steps returns a copy of the steps in order.
func (m *Manager) Steps() []domain.Step {
	out := make([]domain.Step, len(m.order))
	for i, id := range m.order {
		out[i] = m.arena[id]
	}
	return out
}

// Freeze makes the sequence read-only. Called once it has been submitted.
func (m *Manager) Freeze() { m.frozen = true }

// Frozen reports whether the sequence is read-only.
func (m *Manager) Frozen() bool { return m.frozen }
