package symbol

import "errors"

// Sentinel errors. Callers match them with errors.Is; functions wrap them
// with context using %w.
var (
	// ErrDivisionByZero is returned when an exact inverse of zero is requested.
	ErrDivisionByZero = errors.New("symbol: division by zero")

	// ErrNotPolynomial is returned when an expression is not a polynomial in
	// the requested variable.
	ErrNotPolynomial = errors.New("symbol: not a polynomial")

	// ErrRootNotFound is returned when some root of a polynomial cannot be
	// expressed exactly.
	ErrRootNotFound = errors.New("symbol: root not found")

	// ErrDegreeTooLarge is returned for polynomials above MaxRootDegree.
	ErrDegreeTooLarge = errors.New("symbol: polynomial degree too large")

	// ErrNonLinear is returned when an equation is not linear in the unknowns.
	ErrNonLinear = errors.New("symbol: equation is not linear in the unknowns")

	// ErrInconsistent is returned when a linear system has no solution.
	ErrInconsistent = errors.New("symbol: inconsistent system")

	// ErrUnderdetermined is returned when a linear system has no unique solution.
	ErrUnderdetermined = errors.New("symbol: underdetermined system")

	// ErrBadJSON is returned when an expression tree cannot be decoded.
	ErrBadJSON = errors.New("symbol: malformed expression JSON")

	// ErrParse is returned for malformed expression text.
	ErrParse = errors.New("symbol: cannot parse expression")
)
