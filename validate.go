package recurrence

import (
	"fmt"
	"sort"
	"strings"

	"github.com/njchilds90/gorecurrence/symbol"
)

// Dependency maps a lag j to the coefficient of a[n-j] in
// sum_j c_j * a[n-j] = 0. Lag 0 holds -1 plus any a[n] coefficient found
// on the right-hand side.
type Dependency map[int]symbol.Expr

// Order is the largest lag.
func (d Dependency) Order() int {
	k := 0
	for lag := range d {
		if lag > k {
			k = lag
		}
	}
	return k
}

// Lags returns the lags in ascending order.
func (d Dependency) Lags() []int {
	lags := make([]int, 0, len(d))
	for lag := range d {
		lags = append(lags, lag)
	}
	sort.Ints(lags)
	return lags
}

// Coefficient returns c_j, zero for an absent lag.
func (d Dependency) Coefficient(lag int) symbol.Expr {
	if c, ok := d[lag]; ok {
		return c
	}
	return symbol.N(0)
}

func (d Dependency) String() string {
	parts := make([]string, 0, len(d))
	for _, lag := range d.Lags() {
		parts = append(parts, fmt.Sprintf("%d: %s", lag, d[lag]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Dependencies validates the relation of r and returns its lag
// coefficients. Every additive term must be c * a[n-j] for this sequence
// with j a non-negative integer and c free of n and of indexed terms.
func Dependencies(r *Recurrence) (Dependency, error) {
	if r.nth == nil {
		return nil, ErrNoRelation
	}
	dep := Dependency{}
	for _, term := range symbol.CoefficientsDict(r.nth) {
		lag, err := r.lagOf(term)
		if err != nil {
			return nil, err
		}
		if existing, ok := dep[lag]; ok {
			dep[lag] = symbol.AddOf(existing, term.Coeff)
		} else {
			dep[lag] = term.Coeff
		}
	}
	dep[0] = symbol.Expand(symbol.AddOf(dep.Coefficient(0), symbol.N(-1)))
	if symbol.IsZero(dep[0]) {
		return nil, fmt.Errorf("%w: %s cancels out of the relation", ErrNonHomogeneous, r.base.At(r.index))
	}
	for lag, c := range dep {
		if symbol.IsZero(c) {
			delete(dep, lag)
		}
	}
	if dep.Order() < 1 {
		return nil, fmt.Errorf("%w: relation has no lagged terms", ErrNonHomogeneous)
	}
	return dep, nil
}

// lagOf checks one coefficient-dictionary entry and returns its lag.
func (r *Recurrence) lagOf(term symbol.Term) (int, error) {
	ref, ok := term.Factor.(*symbol.Indexed)
	if !ok {
		if _, isNum := term.Factor.(*symbol.Num); isNum {
			return 0, fmt.Errorf("%w: constant term %s", ErrNonHomogeneous, term.Coeff)
		}
		return 0, fmt.Errorf("%w: non-linear term %s", ErrNonHomogeneous, term.Factor)
	}
	if ref.Base() != r.base {
		return 0, fmt.Errorf("%w: foreign sequence %s", ErrNonHomogeneous, ref)
	}
	if symbol.Has(term.Coeff, r.index.Name()) {
		return 0, fmt.Errorf("%w: coefficient %s of %s depends on %s", ErrNonHomogeneous, term.Coeff, ref, r.index)
	}
	offset := symbol.Expand(symbol.AddOf(r.index, symbol.MulOf(symbol.N(-1), ref.Index())))
	k, ok := offset.(*symbol.Num)
	if !ok {
		return 0, fmt.Errorf("%w: index of %s is not %s minus a constant", ErrNonHomogeneous, ref, r.index)
	}
	lag, ok := k.Int64()
	if !ok || lag < 0 {
		return 0, fmt.Errorf("%w: %s refers to a later or fractional position", ErrNonHomogeneous, ref)
	}
	return int(lag), nil
}
