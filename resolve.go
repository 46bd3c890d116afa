package recurrence

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/njchilds90/gorecurrence/symbol"
)

const (
	charVariable = "r"
	unknownBase  = "x"
)

// MaxOrder is the default bound on the order a Resolver accepts.
const MaxOrder = 64

// Solution is every intermediate result of one resolution.
type Solution struct {
	Dependency     Dependency
	Characteristic *Characteristic
	Roots          []symbol.Root
	Template       symbol.Expr
	Unknowns       []symbol.Expr
	Coefficients   []symbol.Assignment
	ClosedForm     symbol.Expr
}

// Order is the number of starting values the closed form was fitted to. It
// is at least the largest lag of the relation.
func (s *Solution) Order() int { return s.Characteristic.Degree() }

// Resolver runs the resolution pipeline. It holds no per-call state and is
// safe for concurrent use.
type Resolver struct {
	logger   *slog.Logger
	maxTerms int
	maxOrder int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for per-stage debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMaxTerms bounds the count accepted by the terms tool.
func WithMaxTerms(max int) Option {
	return func(r *Resolver) {
		if max > 0 {
			r.maxTerms = max
		}
	}
}

// WithMaxOrder bounds the largest lag and the number of starting values a
// resolution accepts. Values above symbol.MaxRootDegree are clamped.
func WithMaxOrder(max int) Option {
	return func(r *Resolver) {
		if max > 0 {
			r.maxOrder = min(max, symbol.MaxRootDegree)
		}
	}
}

func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{logger: slog.New(slog.DiscardHandler), maxTerms: MaxTerms, maxOrder: MaxOrder}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Solve resolves rec into a closed form. Every error is a *ResolutionError.
func (rs *Resolver) Solve(rec *Recurrence) (*Solution, error) {
	start := time.Now()
	log := rs.logger.With("sequence", rec.Name())

	if rec.nth == nil {
		return nil, fail(StageInput, ErrNoRelation, nil)
	}
	if len(rec.starting) == 0 {
		return nil, fail(StageInput, ErrNoInitialTerms, nil)
	}

	dep, err := Dependencies(rec)
	if err != nil {
		return nil, fail(StageValidate, ErrNonHomogeneous, err)
	}
	log.Debug("dependency", "relation", rec.nth.String(), "lags", dep.String(), "order", dep.Order())
	if err := rs.checkOrder(dep.Order()); err != nil {
		return nil, fail(StageValidate, ErrOrderTooLarge, err)
	}

	if len(rec.starting) < dep.Order() {
		return nil, fail(StageInitial, ErrInconsistentInitialConditions,
			fmt.Errorf("order %d needs %d starting values, have %d: %w",
				dep.Order(), dep.Order(), len(rec.starting), symbol.ErrUnderdetermined))
	}
	// Every starting value is fitted; values past the largest lag add zero
	// roots to the characteristic polynomial.
	order := len(rec.starting)
	if err := rs.checkOrder(order); err != nil {
		return nil, fail(StageValidate, ErrOrderTooLarge, err)
	}

	used := rec.usedNames()
	variable := symbol.S(freshName(charVariable, used))
	char, err := CharacteristicPolynomial(dep, order, variable)
	if err != nil {
		return nil, fail(StageCharacteristic, ErrNonHomogeneous, err)
	}
	log.Debug("characteristic polynomial", "poly", char.String())

	roots, err := symbol.Roots(char.Poly, variable.Name())
	if err != nil {
		return nil, fail(StageRoots, ErrRootFinding, err)
	}
	log.Debug("roots", "roots", fmt.Sprint(roots))

	alloc := NewUnknownAllocator(symbol.NewIndexedBase(freshName(unknownBase, used)))
	template := Template(roots, rec.index, alloc)
	unknowns := alloc.Unknowns()
	if len(unknowns) != order {
		return nil, fail(StageTemplate, ErrRootFinding,
			fmt.Errorf("roots account for %d of %d unknowns", len(unknowns), order))
	}
	log.Debug("template", "template", template.String())

	coeffs, closed, err := SolveInitial(template, rec.index, unknowns, rec.starting)
	if err != nil {
		if !errors.Is(err, ErrInconsistentInitialConditions) {
			err = fmt.Errorf("%w: %w", ErrInconsistentInitialConditions, err)
		}
		return nil, fail(StageInitial, ErrInconsistentInitialConditions, err)
	}
	log.Debug("solution", "closed_form", closed.String(), "elapsed", time.Since(start))

	return &Solution{
		Dependency:     dep,
		Characteristic: char,
		Roots:          roots,
		Template:       template,
		Unknowns:       unknowns,
		Coefficients:   coeffs,
		ClosedForm:     closed,
	}, nil
}

func (rs *Resolver) checkOrder(order int) error {
	if order > rs.maxOrder {
		return fmt.Errorf("order %d exceeds %d: %w", order, rs.maxOrder, ErrOrderTooLarge)
	}
	return nil
}
