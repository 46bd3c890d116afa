package symbol

import (
	"fmt"
)

// ============================================================
// Linear systems
// ============================================================

// Assignment binds an unknown to its solved value.
type Assignment struct {
	Unknown Expr
	Value   Expr
}

func (a Assignment) String() string { return a.Unknown.String() + " = " + a.Value.String() }

// AugmentedMatrix builds [A | b] for the system A·u = b described by
// equations of the form expr = 0 in the given unknowns.
func AugmentedMatrix(equations []Expr, unknowns []Expr) (*Matrix, error) {
	m := NewMatrix(len(equations), len(unknowns)+1)
	for i, eq := range equations {
		constant := []Expr{}
		coeffs := make([][]Expr, len(unknowns))
		for _, term := range AddTerms(Expand(eq)) {
			col, coeff, err := linearTerm(term, unknowns)
			if err != nil {
				return nil, fmt.Errorf("equation %d (%s = 0): %w", i, eq, err)
			}
			if col < 0 {
				constant = append(constant, term)
				continue
			}
			coeffs[col] = append(coeffs[col], coeff)
		}
		for j, cs := range coeffs {
			if len(cs) > 0 {
				m.data[i][j] = Expand(AddOf(cs...))
			}
		}
		if len(constant) > 0 {
			m.data[i][len(unknowns)] = Expand(MulOf(N(-1), AddOf(constant...)))
		}
	}
	return m, nil
}

// linearTerm returns the unknown column of term and its coefficient, or -1
// for a term free of unknowns.
func linearTerm(term Expr, unknowns []Expr) (int, Expr, error) {
	col := -1
	var rest []Expr
	for _, f := range MulFactors(term) {
		idx := unknownIndex(f, unknowns)
		switch {
		case idx >= 0 && col < 0:
			col = idx
		case idx >= 0 || containsAny(f, unknowns):
			return 0, nil, fmt.Errorf("term %s: %w", term, ErrNonLinear)
		default:
			rest = append(rest, f)
		}
	}
	if col < 0 {
		return -1, nil, nil
	}
	coeff := Expr(N(1))
	if len(rest) > 0 {
		coeff = MulOf(rest...)
	}
	return col, coeff, nil
}

func unknownIndex(e Expr, unknowns []Expr) int {
	for i, u := range unknowns {
		if e.Equal(u) {
			return i
		}
	}
	return -1
}

func containsAny(e Expr, unknowns []Expr) bool {
	if unknownIndex(e, unknowns) >= 0 {
		return true
	}
	switch v := e.(type) {
	case *Add:
		for _, t := range v.terms {
			if containsAny(t, unknowns) {
				return true
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if containsAny(f, unknowns) {
				return true
			}
		}
	case *Pow:
		return containsAny(v.base, unknowns) || containsAny(v.exp, unknowns)
	case *Indexed:
		return containsAny(v.index, unknowns)
	}
	return false
}

// SolveLinearSystem solves equations (each meaning expr = 0) for the
// unknowns by exact Gauss–Jordan elimination. Pivots with a known non-zero
// value are preferred; symbolic pivots are assumed non-zero. The system
// must have exactly one solution: a contradictory row yields
// ErrInconsistent and a free unknown yields ErrUnderdetermined.
func SolveLinearSystem(equations []Expr, unknowns []Expr) ([]Assignment, error) {
	m, err := AugmentedMatrix(equations, unknowns)
	if err != nil {
		return nil, err
	}
	return solveAugmented(m, unknowns)
}

func solveAugmented(m *Matrix, unknowns []Expr) ([]Assignment, error) {
	n := len(unknowns)
	pivotRow := make([]int, n)
	row := 0
	for col := 0; col < n; col++ {
		pivotRow[col] = -1
		p := choosePivot(m, row, col)
		if p < 0 {
			continue
		}
		m.swapRows(row, p)
		m.scaleRow(row, PowOf(m.data[row][col], N(-1)))
		for r := 0; r < m.rows; r++ {
			if r == row || IsZero(m.data[r][col]) {
				continue
			}
			m.addRowMultiple(r, row, m.data[r][col])
		}
		pivotRow[col] = row
		row++
	}

	for r := row; r < m.rows; r++ {
		if !IsZero(m.data[r][n]) {
			return nil, fmt.Errorf("row %d reduces to 0 = %s: %w", r, m.data[r][n], ErrInconsistent)
		}
	}
	out := make([]Assignment, n)
	for col, r := range pivotRow {
		if r < 0 {
			return nil, fmt.Errorf("no equation determines %s: %w", unknowns[col], ErrUnderdetermined)
		}
		out[col] = Assignment{Unknown: unknowns[col], Value: m.data[r][n]}
	}
	return out, nil
}

// choosePivot returns the first row at or below start with a known non-zero
// entry in col, falling back to a symbolic entry that does not expand to zero.
func choosePivot(m *Matrix, start, col int) int {
	symbolic := -1
	for r := start; r < m.rows; r++ {
		e := m.data[r][col]
		if IsZero(e) {
			continue
		}
		if _, ok := e.Eval(); ok {
			return r
		}
		if symbolic < 0 {
			symbolic = r
		}
	}
	return symbolic
}

// SubsAll substitutes every assignment into e.
func SubsAll(e Expr, assignments []Assignment) Expr {
	for _, a := range assignments {
		e = e.Sub(a.Unknown, a.Value)
	}
	return e.Simplify()
}
