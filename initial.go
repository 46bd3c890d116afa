package recurrence

import (
	"fmt"

	"github.com/njchilds90/gorecurrence/symbol"
)

// SolveInitial fixes the unknowns of template so that it reproduces every
// starting value: template(index := i) = starting[i]. It returns the
// solved coefficients and the closed form, which is checked exactly
// against each starting value.
func SolveInitial(template symbol.Expr, index *symbol.Sym, unknowns, starting []symbol.Expr) ([]symbol.Assignment, symbol.Expr, error) {
	if len(starting) < len(unknowns) {
		return nil, nil, fmt.Errorf("%w: %d starting values for %d unknowns: %w",
			ErrInconsistentInitialConditions, len(starting), len(unknowns), symbol.ErrUnderdetermined)
	}
	equations := make([]symbol.Expr, len(starting))
	for i, v := range starting {
		at := template.Sub(index, symbol.N(int64(i)))
		equations[i] = symbol.Expand(symbol.AddOf(at, symbol.MulOf(symbol.N(-1), v)))
	}
	solution, err := symbol.SolveLinearSystem(equations, unknowns)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInconsistentInitialConditions, err)
	}
	closed := symbol.Expand(symbol.SubsAll(template, solution))
	for i, v := range starting {
		got, err := Evaluate(closed, index, int64(i))
		if err != nil {
			return nil, nil, err
		}
		if !symbol.IsZero(symbol.AddOf(got, symbol.MulOf(symbol.N(-1), v))) {
			return nil, nil, fmt.Errorf("%w: closed form gives %s at %d, want %s",
				ErrInconsistentInitialConditions, got, i, v)
		}
	}
	return solution, closed, nil
}

// Evaluate returns the exact value of form with index replaced by at. The
// position must lie in [0, symbol.MaxFoldExponent] so that every power of
// a root folds into a constant.
func Evaluate(form symbol.Expr, index *symbol.Sym, at int64) (symbol.Expr, error) {
	if at < 0 || at > symbol.MaxFoldExponent {
		return nil, fmt.Errorf("%w: %s = %d not in [0, %d]", ErrPositionOutOfRange, index, at, symbol.MaxFoldExponent)
	}
	return symbol.Expand(form.Sub(index, symbol.N(at))), nil
}
