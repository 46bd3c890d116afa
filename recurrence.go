// Package recurrence resolves linear homogeneous recurrence relations with
// constant coefficients into closed forms.
//
// A Recurrence holds the relation for a[n] and the starting values
// a[0..k-1]. Resolve extracts the characteristic polynomial, expands its
// roots into a general solution and fixes the free coefficients from the
// starting values, all in exact arithmetic:
//
//	r, _ := recurrence.New("a", "n")
//	r.SetRelation(symbol.MustParse("a[n-1] + a[n-2]"))
//	r.SetInitialTerm(0, symbol.N(0))
//	r.SetInitialTerm(1, symbol.N(1))
//	closed, err := r.Resolve()
//
// A Recurrence is owned by one goroutine at a time; it has no locks.
package recurrence

import (
	"fmt"
	"strings"

	"github.com/njchilds90/gorecurrence/symbol"
)

// Recurrence is a sequence definition: a relation for base[index] in terms
// of earlier terms, plus the known starting values.
type Recurrence struct {
	index    *symbol.Sym
	base     symbol.IndexedBase
	starting []symbol.Expr
	nth      symbol.Expr
}

// New returns an empty recurrence for the sequence name indexed by index.
func New(name, index string) (*Recurrence, error) {
	if !isIdentifier(name) || !isIdentifier(index) {
		return nil, fmt.Errorf("%w: sequence %q, index %q", ErrInvalidName, name, index)
	}
	if name == index {
		return nil, fmt.Errorf("%w: sequence and index are both %q", ErrInvalidName, name)
	}
	return &Recurrence{index: symbol.S(index), base: symbol.NewIndexedBase(name)}, nil
}

func isIdentifier(s string) bool {
	if s == "" || s == "I" || s == "sqrt" {
		return false
	}
	for i, c := range s {
		letter := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if !letter && (i == 0 || c < '0' || c > '9') {
			return false
		}
	}
	return true
}

func (r *Recurrence) Name() string             { return r.base.Name() }
func (r *Recurrence) Base() symbol.IndexedBase { return r.base }
func (r *Recurrence) Index() *symbol.Sym       { return r.index }

// SetInitialTerm writes a[i]. Writing at len(starting) appends; writing
// below it overwrites.
func (r *Recurrence) SetInitialTerm(i int, value symbol.Expr) error {
	if i < 0 || i > len(r.starting) {
		return fmt.Errorf("%w: a[%d] with %d starting values", ErrPositionOutOfRange, i, len(r.starting))
	}
	if value == nil {
		return fmt.Errorf("%w: nil value for a[%d]", ErrInvalidInput, i)
	}
	v := value.Simplify()
	if i == len(r.starting) {
		r.starting = append(r.starting, v)
		return nil
	}
	r.starting[i] = v
	return nil
}

// InitialTerm returns a[i] if it has been written.
func (r *Recurrence) InitialTerm(i int) (symbol.Expr, bool) {
	if i < 0 || i >= len(r.starting) {
		return nil, false
	}
	return r.starting[i], true
}

// Starting returns a copy of the starting values.
func (r *Recurrence) Starting() []symbol.Expr {
	out := make([]symbol.Expr, len(r.starting))
	copy(out, r.starting)
	return out
}

// SetRelation sets the expression a[n] equals. A nil relation clears it.
func (r *Recurrence) SetRelation(nth symbol.Expr) {
	if nth == nil {
		r.nth = nil
		return
	}
	r.nth = nth.Simplify()
}

// Relation returns the expression a[n] equals, or nil.
func (r *Recurrence) Relation() symbol.Expr { return r.nth }

// At looks up a term: the index symbol yields the relation, a written
// starting position yields its value, anything else the unresolved a[at].
func (r *Recurrence) At(at symbol.Expr) symbol.Expr {
	at = at.Simplify()
	if at.Equal(r.index) && r.nth != nil {
		return r.nth
	}
	if k, ok := at.(*symbol.Num); ok {
		if i, ok := k.Int64(); ok && i >= 0 && i < int64(len(r.starting)) {
			return r.starting[i]
		}
	}
	return r.base.At(at)
}

// Resolve returns the closed form of a[n] using a default Resolver.
func (r *Recurrence) Resolve() (symbol.Expr, error) {
	sol, err := NewResolver().Solve(r)
	if err != nil {
		return nil, err
	}
	return sol.ClosedForm, nil
}

func (r *Recurrence) String() string {
	var sb strings.Builder
	sb.WriteString(r.base.At(r.index).String())
	sb.WriteString(" = ")
	if r.nth == nil {
		sb.WriteString("?")
	} else {
		sb.WriteString(r.nth.String())
	}
	for i, v := range r.starting {
		if i == 0 {
			sb.WriteString("; ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("%s = %s", r.base.At(symbol.N(int64(i))), v))
	}
	return sb.String()
}

// usedNames collects every symbol and sequence name appearing in r.
func (r *Recurrence) usedNames() map[string]struct{} {
	used := map[string]struct{}{r.index.Name(): {}, r.base.Name(): {}}
	exprs := append([]symbol.Expr{}, r.starting...)
	if r.nth != nil {
		exprs = append(exprs, r.nth)
	}
	for _, e := range exprs {
		for s := range symbol.FreeSymbols(e) {
			used[s] = struct{}{}
		}
		for b := range symbol.IndexedBases(e) {
			used[b] = struct{}{}
		}
	}
	return used
}

// freshName returns preferred, or preferred_1, preferred_2, ... avoiding used.
func freshName(preferred string, used map[string]struct{}) string {
	if _, taken := used[preferred]; !taken {
		return preferred
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s_%d", preferred, i)
		if _, taken := used[name]; !taken {
			return name
		}
	}
}
