package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used across layers.
var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrNotDeletable       = errors.New("ingredient is referenced by a step")
	ErrVariantKindChanged = errors.New("step kind cannot change")
	ErrDuplicateStepID    = errors.New("duplicate step id")
	ErrSequenceFrozen     = errors.New("step sequence is submitted and read-only")
	ErrUnknownStep        = errors.New("unknown step id")
	ErrTargetOutOfRange   = errors.New("target index out of range")
	ErrCatalogNotSynced   = errors.New("ingredient catalog not synced yet")
	ErrWrongStage         = errors.New("not available at this stage")
	ErrEmptyRecipe        = errors.New("recipe has no steps")
	ErrNoTimer            = errors.New("current step has no timer")
	ErrSessionFinished    = errors.New("playback session is finished")
	ErrStaleTick          = errors.New("tick for a discarded timer")
)

// ValidationError reports every rule a step, stage or submission broke.
// It is local and recoverable: it blocks one transition and nothing else.
type ValidationError struct {
	Subject string
	Reasons []string
}

func (e *ValidationError) Error() string {
	if e.Subject == "" {
		return "invalid: " + strings.Join(e.Reasons, "; ")
	}
	return fmt.Sprintf("invalid %s: %s", e.Subject, strings.Join(e.Reasons, "; "))
}

// NewValidationError returns nil when there are no reasons.
func NewValidationError(subject string, reasons []string) error {
	if len(reasons) == 0 {
		return nil
	}
	return &ValidationError{Subject: subject, Reasons: reasons}
}

// ReorderError is returned when a reorder cannot be applied. The sequence
// is left unchanged.
type ReorderError struct {
	ID     string
	Target int
	Err    error
}

func (e *ReorderError) Error() string {
	return fmt.Sprintf("reorder %s to %d: %v", e.ID, e.Target, e.Err)
}

func (e *ReorderError) Unwrap() error { return e.Err }

// CollaboratorError wraps a failure from an external collaborator
// (ingredient catalog, recipe store). The stage that triggered the call
// keeps its state so the user can retry.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }
