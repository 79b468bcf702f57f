package types

import (
	"errors"
	"fmt"
)

// ErrInconsistent matches every ConsistencyError via errors.Is.
var ErrInconsistent = errors.New("inconsistent statement")

// ConstructionError reports a factory or builder call that could not produce a node.
type ConstructionError struct {
	Op     string
	Reason string
}

func (e *ConstructionError) Error() string {
	return e.Op + " " + e.Reason
}

// Rejectf creates a ConstructionError for op.
func Rejectf(op, format string, args ...any) error {
	return &ConstructionError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// Phase names the check that produced a violation.
type Phase string

const (
	PhaseConsistency Phase = "consistency"
	PhasePrepare     Phase = "prepare"
)

// ConsistencyError wraps a violation found by a statement check.
type ConsistencyError struct {
	Violation Violation
	Phase     Phase
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s check failed: %s", e.Phase, e.Violation)
}

// Is reports whether target is ErrInconsistent.
func (e *ConsistencyError) Is(target error) bool {
	return target == ErrInconsistent
}
