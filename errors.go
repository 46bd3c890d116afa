package recurrence

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers match them with errors.Is; every failure from
// Resolve is a *ResolutionError wrapping one of these plus its cause.
var (
	// ErrNonHomogeneous indicates the relation is not a linear homogeneous
	// combination of lagged terms with n-free coefficients.
	ErrNonHomogeneous = errors.New("recurrence: relation is not linear homogeneous with constant coefficients")

	// ErrRootFinding indicates the characteristic polynomial cannot be
	// factored in closed form.
	ErrRootFinding = errors.New("recurrence: characteristic roots not found")

	// ErrInconsistentInitialConditions indicates the starting values do not
	// fix the free coefficients uniquely.
	ErrInconsistentInitialConditions = errors.New("recurrence: inconsistent initial conditions")

	// ErrNoRelation indicates Resolve was called before SetRelation.
	ErrNoRelation = errors.New("recurrence: no relation set")

	// ErrNoInitialTerms indicates Resolve was called with no starting values.
	ErrNoInitialTerms = errors.New("recurrence: no initial terms")

	// ErrPositionOutOfRange indicates a write past the next unused position
	// or a negative position.
	ErrPositionOutOfRange = errors.New("recurrence: position out of range")

	// ErrOrderTooLarge indicates a lag or starting-value count above the
	// configured maximum order.
	ErrOrderTooLarge = errors.New("recurrence: order too large")

	// ErrInvalidInput indicates a tool call whose parameters do not describe
	// a recurrence.
	ErrInvalidInput = errors.New("recurrence: invalid input")

	// ErrInvalidName indicates an empty or clashing sequence or index name.
	ErrInvalidName = errors.New("recurrence: invalid name")
)

// Stage names the pipeline step a ResolutionError came from.
type Stage string

const (
	StageInput          Stage = "input"
	StageValidate       Stage = "validate"
	StageCharacteristic Stage = "characteristic"
	StageRoots          Stage = "roots"
	StageTemplate       Stage = "template"
	StageInitial        Stage = "initial"
)

// ResolutionError reports which stage failed, the sentinel kind and the
// underlying cause.
type ResolutionError struct {
	Stage Stage
	Kind  error
	Err   error
}

func (e *ResolutionError) Error() string {
	switch {
	case e.Err == nil:
		return fmt.Sprintf("%s: %v", e.Stage, e.Kind)
	case errors.Is(e.Err, e.Kind):
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %v: %v", e.Stage, e.Kind, e.Err)
}

func (e *ResolutionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func fail(stage Stage, kind, cause error) error {
	return &ResolutionError{Stage: stage, Kind: kind, Err: cause}
}
