package recurrence

import (
	"fmt"

	"github.com/njchilds90/gorecurrence/symbol"
)

// Characteristic is the characteristic polynomial sum_j c_j * r^(k-j) of a
// recurrence of order k.
type Characteristic struct {
	Variable *symbol.Sym
	Poly     symbol.Expr
	// Coeffs[j] multiplies Variable^(k-j); Coeffs[0] is the a[n] coefficient.
	Coeffs []symbol.Expr
}

// Degree equals the order the polynomial was built for.
func (c *Characteristic) Degree() int { return len(c.Coeffs) - 1 }

// String prints the polynomial highest degree first.
func (c *Characteristic) String() string {
	collected, err := symbol.Collect(c.Poly, c.Variable.Name())
	if err != nil {
		return c.Poly.String()
	}
	return collected.String()
}

func (c *Characteristic) LaTeX() string {
	collected, err := symbol.Collect(c.Poly, c.Variable.Name())
	if err != nil {
		return c.Poly.LaTeX()
	}
	return collected.LaTeX()
}

// CharacteristicPolynomial builds sum_j c_j * variable^(order-j). An order
// above the largest lag multiplies in variable^(order-lag), one zero root
// per starting value beyond the lag.
func CharacteristicPolynomial(dep Dependency, order int, variable *symbol.Sym) (*Characteristic, error) {
	if dep.Order() < 1 {
		return nil, fmt.Errorf("%w: order %d", ErrNonHomogeneous, dep.Order())
	}
	if order < dep.Order() {
		return nil, fmt.Errorf("order %d is below the largest lag %d", order, dep.Order())
	}
	if order > symbol.MaxRootDegree {
		return nil, fmt.Errorf("order %d exceeds %d: %w", order, symbol.MaxRootDegree, ErrOrderTooLarge)
	}
	for _, c := range dep {
		if symbol.Has(c, variable.Name()) {
			return nil, fmt.Errorf("characteristic variable %s occurs in coefficient %s", variable, c)
		}
	}
	coeffs := make([]symbol.Expr, order+1)
	terms := make([]symbol.Expr, 0, len(dep))
	for j := 0; j <= order; j++ {
		c := dep.Coefficient(j)
		coeffs[j] = c
		if symbol.IsZero(c) {
			continue
		}
		terms = append(terms, symbol.MulOf(c, symbol.PowOf(variable, symbol.N(int64(order-j)))))
	}
	return &Characteristic{Variable: variable, Poly: symbol.AddOf(terms...), Coeffs: coeffs}, nil
}
