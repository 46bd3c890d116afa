// Package symbol is the exact symbolic kernel behind the recurrence solver.
//
// Design goals:
//   - Exact arithmetic only: rationals, square roots and the imaginary unit
//   - Deterministic simplification and stable output
//   - Indexed symbols (a[n-1]) as first-class terms
//   - JSON and LaTeX renderings for tool and agent callers
package symbol

import (
	"math/big"
	"sort"
	"strings"
)

// ============================================================
// Core Interface
// ============================================================

type Expr interface {
	Simplify() Expr
	String() string
	LaTeX() string
	// Sub replaces every subterm equal to old with value.
	Sub(old, value Expr) Expr
	// Eval returns the exact value of a constant expression.
	Eval() (*Num, bool)
	Equal(other Expr) bool
	exprType() string
	toJSON() map[string]interface{}
}

// MaxFoldExponent bounds the integer powers folded into exact constants.
// Larger powers of numbers other than 0 and 1 stay as unevaluated Pow nodes.
const MaxFoldExponent = 4096

// ============================================================
// Num: exact algebraic number
// ============================================================

type Num struct{ val algebraic }

func N(n int64) *Num { return &Num{val: intAlgebraic(n)} }
func F(p, q int64) *Num {
	if q == 0 {
		panic("symbol: denominator is zero")
	}
	return &Num{val: ratAlgebraic(big.NewRat(p, q))}
}
func NRat(r *big.Rat) *Num { return &Num{val: ratAlgebraic(r)} }

// Sqrt returns the exact principal square root of n.
func Sqrt(n int64) *Num { return &Num{val: sqrtRat(new(big.Rat).SetInt64(n))} }

// SqrtRat returns the exact principal square root of q.
func SqrtRat(q *big.Rat) *Num { return &Num{val: sqrtRat(q)} }

// I is the imaginary unit.
func I() *Num { return &Num{val: imagUnit()} }

func (n *Num) Simplify() Expr     { return n }
func (n *Num) Sub(old, value Expr) Expr {
	if n.Equal(old) {
		return value
	}
	return n
}
func (n *Num) Eval() (*Num, bool)    { return n, true }
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val.equal(o.val) }
func (n *Num) exprType() string      { return "num" }
func (n *Num) IsZero() bool          { return n.val.isZero() }
func (n *Num) IsOne() bool           { r, ok := n.val.rat(); return ok && r.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsNegOne() bool        { r, ok := n.val.rat(); return ok && r.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Num) IsRational() bool      { _, ok := n.val.rat(); return ok }
func (n *Num) IsReal() bool          { return n.val.isReal() }

// Rat returns the value as a rational when it is one.
func (n *Num) Rat() (*big.Rat, bool) { return n.val.rat() }

func (n *Num) IsInteger() bool {
	r, ok := n.val.rat()
	return ok && r.IsInt()
}

// Int64 returns the value when it is an integer that fits in an int64.
func (n *Num) Int64() (int64, bool) {
	r, ok := n.val.rat()
	if !ok || !r.IsInt() || !r.Num().IsInt64() {
		return 0, false
	}
	return r.Num().Int64(), true
}

// compound reports whether the printed form needs grouping inside a product.
func (n *Num) compound() bool { return len(n.val.terms) > 1 }

func (n *Num) String() string { return n.val.String() }
func (n *Num) LaTeX() string  { return n.val.LaTeX() }

func numAdd(a, b *Num) *Num { return &Num{val: a.val.add(b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: a.val.mul(b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: a.val.neg()} }

func numPow(a *Num, e int64) (*Num, bool) {
	if a.IsZero() && e < 0 {
		return nil, false
	}
	v, err := a.val.pow(e)
	if err != nil {
		return nil, false
	}
	return &Num{val: v}, true
}

// ============================================================
// Sym: symbolic variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym      { return &Sym{name: name} }
func (s *Sym) Simplify() Expr { return s }
func (s *Sym) String() string { return s.name }
func (s *Sym) LaTeX() string  { return s.name }
func (s *Sym) Eval() (*Num, bool) {
	return nil, false
}
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) exprType() string      { return "sym" }
func (s *Sym) Name() string          { return s.name }
func (s *Sym) Sub(old, value Expr) Expr {
	if s.Equal(old) {
		return value
	}
	return s
}

// ============================================================
// Indexed: base[index]
// ============================================================

// IndexedBase names a family of indexed terms such as a[0], a[n-1].
type IndexedBase struct{ name string }

func NewIndexedBase(name string) IndexedBase { return IndexedBase{name: name} }
func (b IndexedBase) Name() string           { return b.name }

// At returns the indexed term b[index].
func (b IndexedBase) At(index Expr) Expr { return &Indexed{base: b, index: index.Simplify()} }

type Indexed struct {
	base  IndexedBase
	index Expr
}

func (x *Indexed) Simplify() Expr { return &Indexed{base: x.base, index: x.index.Simplify()} }
func (x *Indexed) String() string { return x.base.name + "[" + x.index.String() + "]" }
func (x *Indexed) LaTeX() string  { return x.base.name + "_{" + x.index.LaTeX() + "}" }
func (x *Indexed) Eval() (*Num, bool) {
	return nil, false
}
func (x *Indexed) Equal(other Expr) bool {
	o, ok := other.(*Indexed)
	return ok && x.base == o.base && x.index.Equal(o.index)
}
func (x *Indexed) Sub(old, value Expr) Expr {
	if x.Equal(old) {
		return value
	}
	return x.base.At(x.index.Sub(old, value))
}
func (x *Indexed) exprType() string  { return "indexed" }
func (x *Indexed) Base() IndexedBase { return x.base }
func (x *Indexed) Index() Expr       { return x.index }

// ============================================================
// Add: sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// Simplify flattens nested sums, folds constants and collects like terms.
func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}
	constant := N(0)
	type like struct {
		coeff *Num
		rest  Expr
	}
	groups := map[string]*like{}
	keys := []string{}
	for _, t := range flat {
		if v, ok := t.(*Num); ok {
			constant = numAdd(constant, v)
			continue
		}
		coeff, rest := extractCoefficient(t)
		key := rest.String()
		if g, seen := groups[key]; seen {
			g.coeff = numAdd(g.coeff, coeff)
			continue
		}
		groups[key] = &like{coeff: coeff, rest: rest}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	result := make([]Expr, 0, len(keys)+1)
	for _, k := range keys {
		g := groups[k]
		switch {
		case g.coeff.IsZero():
		case g.coeff.IsOne():
			result = append(result, g.rest)
		default:
			result = append(result, MulOf(g.coeff, g.rest))
		}
	}
	if !constant.IsZero() {
		result = append(result, constant)
	}
	switch len(result) {
	case 0:
		return N(0)
	case 1:
		return result[0]
	}
	return &Add{terms: result}
}

func (a *Add) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	parts := make([]string, len(a.terms))
	for i, t := range a.terms {
		parts[i] = t.String()
	}
	return joinSigned(parts)
}

func (a *Add) LaTeX() string {
	parts := make([]string, len(a.terms))
	for i, t := range a.terms {
		parts[i] = t.LaTeX()
	}
	return joinSigned(parts)
}

// joinSigned joins summands, folding a leading minus into the operator.
func joinSigned(parts []string) string {
	var sb strings.Builder
	for i, p := range parts {
		switch {
		case i == 0:
			sb.WriteString(p)
		case strings.HasPrefix(p, "-"):
			sb.WriteString(" - ")
			sb.WriteString(p[1:])
		default:
			sb.WriteString(" + ")
			sb.WriteString(p)
		}
	}
	return sb.String()
}

func (a *Add) Sub(old, value Expr) Expr {
	if a.Equal(old) {
		return value
	}
	newTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		newTerms[i] = t.Sub(old, value)
	}
	return AddOf(newTerms...)
}

func (a *Add) Eval() (*Num, bool) {
	acc := N(0)
	for _, t := range a.terms {
		v, ok := t.Eval()
		if !ok {
			return nil, false
		}
		acc = numAdd(acc, v)
	}
	return acc, true
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

func (a *Add) exprType() string { return "add" }

// ============================================================
// Mul: product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// Simplify flattens nested products, folds constants and merges powers of
// a common base.
func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}
	coeff := N(1)
	type power struct {
		base Expr
		exp  Expr
	}
	powers := map[string]*power{}
	keys := []string{}
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		base, exp := f, Expr(N(1))
		if p, ok := f.(*Pow); ok {
			base, exp = p.base, p.exp
		}
		key := base.String()
		if p, seen := powers[key]; seen {
			p.exp = AddOf(p.exp, exp)
			continue
		}
		powers[key] = &power{base: base, exp: exp}
		keys = append(keys, key)
	}
	if coeff.IsZero() {
		return N(0)
	}

	others := make([]Expr, 0, len(keys))
	for _, k := range keys {
		p := powers[k]
		f := PowOf(p.base, p.exp)
		switch v := f.(type) {
		case *Num:
			coeff = numMul(coeff, v)
		case *Mul:
			for _, g := range v.factors {
				if gn, ok := g.(*Num); ok {
					coeff = numMul(coeff, gn)
				} else {
					others = append(others, g)
				}
			}
		default:
			others = append(others, f)
		}
	}
	if coeff.IsZero() {
		return N(0)
	}
	if len(others) == 0 {
		return coeff
	}

	// Precompute sort keys to avoid repeated String() calls in comparator.
	type keyed struct {
		e   Expr
		key string
	}
	ks := make([]keyed, len(others))
	for i, e := range others {
		ks[i] = keyed{e: e, key: e.String()}
	}
	sort.Slice(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
	sorted := make([]Expr, len(ks))
	for i := range ks {
		sorted[i] = ks[i].e
	}

	if coeff.IsOne() {
		if len(sorted) == 1 {
			return sorted[0]
		}
		return &Mul{factors: sorted}
	}
	return &Mul{factors: append([]Expr{coeff}, sorted...)}
}

func (m *Mul) String() string {
	if len(m.factors) == 0 {
		return "1"
	}
	factors := m.factors
	sign := ""
	if n, ok := factors[0].(*Num); ok && n.IsNegOne() && len(factors) > 1 {
		sign, factors = "-", factors[1:]
	}
	parts := make([]string, len(factors))
	for i, f := range factors {
		parts[i] = groupString(f)
	}
	return sign + strings.Join(parts, "*")
}

func (m *Mul) LaTeX() string {
	if len(m.factors) == 0 {
		return "1"
	}
	factors := m.factors
	sign := ""
	if n, ok := factors[0].(*Num); ok && n.IsNegOne() && len(factors) > 1 {
		sign, factors = "-", factors[1:]
	}
	parts := make([]string, len(factors))
	for i, f := range factors {
		if needsGrouping(f) {
			parts[i] = "\\left(" + f.LaTeX() + "\\right)"
		} else {
			parts[i] = f.LaTeX()
		}
	}
	return sign + strings.Join(parts, " ")
}

func (m *Mul) Sub(old, value Expr) Expr {
	if m.Equal(old) {
		return value
	}
	newFactors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		newFactors[i] = f.Sub(old, value)
	}
	return MulOf(newFactors...)
}

func (m *Mul) Eval() (*Num, bool) {
	acc := N(1)
	for _, f := range m.factors {
		v, ok := f.Eval()
		if !ok {
			return nil, false
		}
		acc = numMul(acc, v)
	}
	return acc, true
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

func (m *Mul) exprType() string { return "mul" }

func needsGrouping(e Expr) bool {
	switch v := e.(type) {
	case *Add:
		return true
	case *Num:
		return v.compound()
	}
	return false
}

func groupString(e Expr) string {
	if needsGrouping(e) {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// ============================================================
// Pow: base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	en, expIsNum := exp.(*Num)
	if expIsNum && en.IsZero() {
		return N(1)
	}
	if expIsNum && en.IsOne() {
		return base
	}

	if bn, ok := base.(*Num); ok {
		if bn.IsOne() {
			return N(1)
		}
		if expIsNum {
			if folded, ok := foldNumPow(bn, en); ok {
				return folded
			}
			return &Pow{base: base, exp: exp}
		}
		// 0^n stays put: it is 1 at n = 0.
		if bn.IsZero() {
			return &Pow{base: base, exp: exp}
		}
		// rho^(e + k) = rho^k * rho^e for an integer offset k.
		if sum, ok := exp.(*Add); ok {
			last := sum.terms[len(sum.terms)-1]
			if k, ok := last.(*Num); ok {
				if kv, ok := k.Int64(); ok && kv >= -MaxFoldExponent && kv <= MaxFoldExponent {
					rest := AddOf(sum.terms[:len(sum.terms)-1]...)
					return MulOf(PowOf(bn, k), &Pow{base: bn, exp: rest})
				}
			}
		}
		return &Pow{base: base, exp: exp}
	}

	if expIsNum && en.IsInteger() {
		switch b := base.(type) {
		case *Pow:
			return PowOf(b.base, MulOf(b.exp, en))
		case *Mul:
			factors := make([]Expr, len(b.factors))
			for i, f := range b.factors {
				factors[i] = PowOf(f, en)
			}
			return MulOf(factors...)
		}
	}
	return &Pow{base: base, exp: exp}
}

// foldNumPow evaluates b^e exactly for integer e and for rational b with a
// half-integer e.
func foldNumPow(b, e *Num) (Expr, bool) {
	if ev, ok := e.Int64(); ok {
		if b.IsZero() && ev > 0 {
			return N(0), true
		}
		if ev < -MaxFoldExponent || ev > MaxFoldExponent {
			return nil, false
		}
		v, ok := numPow(b, ev)
		if !ok {
			return nil, false
		}
		return v, true
	}
	er, ok := e.Rat()
	if !ok || er.Denom().Cmp(big.NewInt(2)) != 0 || !er.Num().IsInt64() {
		return nil, false
	}
	br, ok := b.Rat()
	if !ok {
		return nil, false
	}
	root := SqrtRat(br)
	k := er.Num().Int64()
	if k < -MaxFoldExponent || k > MaxFoldExponent {
		return nil, false
	}
	v, ok := numPow(root, k)
	if !ok {
		return nil, false
	}
	return v, true
}

// atomicNum reports whether n prints without operators, as 3, I or sqrt(5) do.
func atomicNum(n *Num) bool { return !strings.ContainsAny(n.String(), " +-*/") }

func (p *Pow) String() string {
	baseStr := p.base.String()
	switch b := p.base.(type) {
	case *Add, *Mul, *Pow:
		baseStr = "(" + baseStr + ")"
	case *Num:
		if !atomicNum(b) {
			baseStr = "(" + baseStr + ")"
		}
	}
	expStr := p.exp.String()
	switch e := p.exp.(type) {
	case *Add, *Mul, *Pow:
		expStr = "(" + expStr + ")"
	case *Num:
		if !atomicNum(e) {
			expStr = "(" + expStr + ")"
		}
	}
	return baseStr + "^" + expStr
}

func (p *Pow) LaTeX() string {
	baseStr := p.base.LaTeX()
	switch b := p.base.(type) {
	case *Add, *Mul, *Pow:
		baseStr = "\\left(" + baseStr + "\\right)"
	case *Num:
		if !atomicNum(b) {
			baseStr = "\\left(" + baseStr + "\\right)"
		}
	}
	return baseStr + "^{" + p.exp.LaTeX() + "}"
}

func (p *Pow) Sub(old, value Expr) Expr {
	if p.Equal(old) {
		return value
	}
	return PowOf(p.base.Sub(old, value), p.exp.Sub(old, value))
}

func (p *Pow) Eval() (*Num, bool) {
	b, ok1 := p.base.Eval()
	e, ok2 := p.exp.Eval()
	if !ok1 || !ok2 {
		return nil, false
	}
	v, ok := foldNumPow(b, e)
	if !ok {
		return nil, false
	}
	return v.(*Num), true
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) exprType() string { return "pow" }

// ============================================================
// Equation
// ============================================================

type Equation struct{ LHS, RHS Expr }

func Eq(lhs, rhs Expr) *Equation { return &Equation{LHS: lhs, RHS: rhs} }
func (e *Equation) String() string {
	return e.LHS.String() + " = " + e.RHS.String()
}
func (e *Equation) LaTeX() string { return e.LHS.LaTeX() + " = " + e.RHS.LaTeX() }

// Residual returns LHS - RHS, expanded.
func (e *Equation) Residual() Expr {
	return Expand(AddOf(e.LHS, MulOf(N(-1), e.RHS)))
}

// ============================================================
// Helpers
// ============================================================

// extractCoefficient splits a simplified term into its numeric coefficient
// and the remaining factors.
func extractCoefficient(e Expr) (*Num, Expr) {
	if m, ok := e.(*Mul); ok && len(m.factors) >= 2 {
		if coeff, ok2 := m.factors[0].(*Num); ok2 {
			rest := m.factors[1:]
			if len(rest) == 1 {
				return coeff, rest[0]
			}
			return coeff, &Mul{factors: rest}
		}
	}
	return N(1), e
}

// AddTerms returns the additive terms of e.
func AddTerms(e Expr) []Expr {
	if a, ok := e.(*Add); ok {
		return a.terms
	}
	if n, ok := e.(*Num); ok && n.IsZero() {
		return nil
	}
	return []Expr{e}
}

// MulFactors returns the multiplicative factors of e.
func MulFactors(e Expr) []Expr {
	if m, ok := e.(*Mul); ok {
		return m.factors
	}
	return []Expr{e}
}

// IsZero reports whether e expands to the constant 0.
func IsZero(e Expr) bool {
	n, ok := Expand(e).(*Num)
	return ok && n.IsZero()
}

func Simplify(e Expr) Expr { return e.Simplify() }
func String(e Expr) string { return e.String() }
func LaTeX(e Expr) string  { return e.LaTeX() }

// Sub substitutes value for old and simplifies.
func Sub(expr, old, value Expr) Expr { return expr.Sub(old, value).Simplify() }
