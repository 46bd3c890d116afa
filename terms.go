package recurrence

import (
	"fmt"

	"github.com/njchilds90/gorecurrence/symbol"
)

// Terms unrolls the relation from the starting values and returns
// a[0..count-1]. Written starting values are used as given.
func (r *Recurrence) Terms(count int) ([]symbol.Expr, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: count %d", ErrPositionOutOfRange, count)
	}
	if count <= len(r.starting) {
		return r.Starting()[:count], nil
	}
	dep, err := Dependencies(r)
	if err != nil {
		return nil, err
	}
	k := dep.Order()
	if len(r.starting) < k {
		return nil, fmt.Errorf("%w: order %d needs %d starting values, have %d",
			ErrInconsistentInitialConditions, k, k, len(r.starting))
	}
	// a[m] = -(sum_{j>=1} c_j a[m-j]) / c_0
	scale := symbol.MulOf(symbol.N(-1), symbol.PowOf(dep[0], symbol.N(-1)))
	out := r.Starting()
	for m := len(out); m < count; m++ {
		sum := make([]symbol.Expr, 0, k)
		for _, lag := range dep.Lags() {
			if lag == 0 {
				continue
			}
			sum = append(sum, symbol.MulOf(dep[lag], out[m-lag]))
		}
		out = append(out, symbol.Expand(symbol.MulOf(scale, symbol.AddOf(sum...))))
	}
	return out, nil
}
