package recurrence

import (
	"github.com/njchilds90/gorecurrence/symbol"
)

// UnknownAllocator hands out the fresh unknowns x[0], x[1], ... of a
// general-solution template.
type UnknownAllocator struct {
	base     symbol.IndexedBase
	unknowns []symbol.Expr
}

func NewUnknownAllocator(base symbol.IndexedBase) *UnknownAllocator {
	return &UnknownAllocator{base: base}
}

// Next returns the next unused unknown.
func (a *UnknownAllocator) Next() symbol.Expr {
	u := a.base.At(symbol.N(int64(len(a.unknowns))))
	a.unknowns = append(a.unknowns, u)
	return u
}

// Unknowns returns every unknown handed out so far, in order.
func (a *UnknownAllocator) Unknowns() []symbol.Expr {
	out := make([]symbol.Expr, len(a.unknowns))
	copy(out, a.unknowns)
	return out
}

// Template returns the general solution
// sum over roots rho of (x[c] + x[c+1]*n + ... + x[c+m-1]*n^(m-1)) * rho^n,
// drawing one unknown per unit of multiplicity from alloc. A zero root of
// multiplicity m contributes x[c]*0^n + x[c+1]*0^((n-1)^2) + ..., one term
// per position it can fix, since n^i * 0^n vanishes everywhere for i > 0.
func Template(roots []symbol.Root, index *symbol.Sym, alloc *UnknownAllocator) symbol.Expr {
	terms := make([]symbol.Expr, 0, len(roots))
	for _, root := range roots {
		if symbol.IsZero(root.Value) {
			for j := 0; j < root.Multiplicity; j++ {
				terms = append(terms, symbol.MulOf(alloc.Next(), zeroPower(index, j)))
			}
			continue
		}
		poly := make([]symbol.Expr, root.Multiplicity)
		for i := range poly {
			poly[i] = symbol.MulOf(alloc.Next(), symbol.PowOf(index, symbol.N(int64(i))))
		}
		terms = append(terms, symbol.MulOf(symbol.AddOf(poly...), symbol.PowOf(root.Value, index)))
	}
	return symbol.AddOf(terms...)
}

// zeroPower is 0^n for j = 0 and 0^((n-j)^2) otherwise: 1 at n = j, 0 at
// every other integer.
func zeroPower(index *symbol.Sym, j int) symbol.Expr {
	if j == 0 {
		return symbol.PowOf(symbol.N(0), index)
	}
	shifted := symbol.AddOf(index, symbol.N(int64(-j)))
	return symbol.PowOf(symbol.N(0), symbol.PowOf(shifted, symbol.N(2)))
}
