package symbol

import (
	"fmt"
	"math/big"
	"sort"
)

// ============================================================
// radical: I^imag * sqrt(m), m square-free and positive
// ============================================================

type radical struct {
	imag bool
	m    string // decimal radicand, "1" for the rational unit
}

var unitRadical = radical{m: "1"}

func (r radical) radicand() *big.Int {
	v, _ := new(big.Int).SetString(r.m, 10)
	return v
}

func (r radical) isUnit() bool { return !r.imag && r.m == "1" }

// contains reports whether r carries the generator g, which is either the
// imaginary unit or a square-free integer coprime to every other generator.
func (r radical) contains(g generator) bool {
	if g.imag {
		return r.imag
	}
	return new(big.Int).Rem(r.radicand(), g.q).Sign() == 0
}

func radicalLess(a, b radical) bool {
	if a.imag != b.imag {
		return !a.imag
	}
	return a.radicand().Cmp(b.radicand()) < 0
}

// mulRadicals returns the radical and rational factor of a*b.
func mulRadicals(a, b radical) (radical, *big.Rat) {
	ma, mb := a.radicand(), b.radicand()
	g := new(big.Int).GCD(nil, nil, ma, mb)
	m := new(big.Int).Mul(new(big.Int).Quo(ma, g), new(big.Int).Quo(mb, g))
	coeff := new(big.Rat).SetInt(g)
	imag := a.imag != b.imag
	if a.imag && b.imag {
		coeff.Neg(coeff)
	}
	return radical{imag: imag, m: m.String()}, coeff
}

// ============================================================
// algebraic: exact element of Q(I, sqrt(2), sqrt(3), ...)
// ============================================================

// algebraic is a finite sum of rational multiples of distinct radicals.
// The radicals are linearly independent over Q, so the representation is
// canonical and zero is the empty sum.
type algebraic struct {
	terms map[radical]*big.Rat
}

func ratAlgebraic(r *big.Rat) algebraic {
	a := algebraic{terms: map[radical]*big.Rat{}}
	if r.Sign() != 0 {
		a.terms[unitRadical] = new(big.Rat).Set(r)
	}
	return a
}

func intAlgebraic(n int64) algebraic { return ratAlgebraic(new(big.Rat).SetInt64(n)) }

func imagUnit() algebraic {
	return algebraic{terms: map[radical]*big.Rat{{imag: true, m: "1"}: big.NewRat(1, 1)}}
}

func (a algebraic) isZero() bool { return len(a.terms) == 0 }

func (a algebraic) rat() (*big.Rat, bool) {
	switch len(a.terms) {
	case 0:
		return new(big.Rat), true
	case 1:
		if v, ok := a.terms[unitRadical]; ok {
			return new(big.Rat).Set(v), true
		}
	}
	return nil, false
}

func (a algebraic) isReal() bool {
	for r := range a.terms {
		if r.imag {
			return false
		}
	}
	return true
}

func (a algebraic) keys() []radical {
	ks := make([]radical, 0, len(a.terms))
	for r := range a.terms {
		ks = append(ks, r)
	}
	sort.Slice(ks, func(i, j int) bool { return radicalLess(ks[i], ks[j]) })
	return ks
}

func (a algebraic) accumulate(r radical, v *big.Rat) {
	if cur, ok := a.terms[r]; ok {
		cur.Add(cur, v)
		if cur.Sign() == 0 {
			delete(a.terms, r)
		}
		return
	}
	if v.Sign() != 0 {
		a.terms[r] = new(big.Rat).Set(v)
	}
}

func (a algebraic) add(b algebraic) algebraic {
	out := algebraic{terms: make(map[radical]*big.Rat, len(a.terms)+len(b.terms))}
	for r, v := range a.terms {
		out.accumulate(r, v)
	}
	for r, v := range b.terms {
		out.accumulate(r, v)
	}
	return out
}

func (a algebraic) neg() algebraic {
	out := algebraic{terms: make(map[radical]*big.Rat, len(a.terms))}
	for r, v := range a.terms {
		out.terms[r] = new(big.Rat).Neg(v)
	}
	return out
}

func (a algebraic) sub(b algebraic) algebraic { return a.add(b.neg()) }

func (a algebraic) scale(q *big.Rat) algebraic {
	out := algebraic{terms: make(map[radical]*big.Rat, len(a.terms))}
	if q.Sign() == 0 {
		return out
	}
	for r, v := range a.terms {
		out.terms[r] = new(big.Rat).Mul(v, q)
	}
	return out
}

func (a algebraic) mul(b algebraic) algebraic {
	out := algebraic{terms: map[radical]*big.Rat{}}
	for ra, va := range a.terms {
		for rb, vb := range b.terms {
			r, c := mulRadicals(ra, rb)
			c.Mul(c, va)
			c.Mul(c, vb)
			out.accumulate(r, c)
		}
	}
	return out
}

func (a algebraic) equal(b algebraic) bool {
	if len(a.terms) != len(b.terms) {
		return false
	}
	for r, v := range a.terms {
		w, ok := b.terms[r]
		if !ok || v.Cmp(w) != 0 {
			return false
		}
	}
	return true
}

// generator is one field generator: the imaginary unit or sqrt(q).
type generator struct {
	imag bool
	q    *big.Int
}

// generators returns a pairwise-coprime base for the radicands of a, plus
// the imaginary unit when a has an imaginary part.
func (a algebraic) generators() []generator {
	var base []*big.Int
	hasImag := false
	for r := range a.terms {
		if r.imag {
			hasImag = true
		}
		if m := r.radicand(); m.Cmp(big.NewInt(1)) > 0 {
			base = refineCoprime(base, m)
		}
	}
	sort.Slice(base, func(i, j int) bool { return base[i].Cmp(base[j]) < 0 })
	gens := make([]generator, 0, len(base)+1)
	for _, q := range base {
		gens = append(gens, generator{q: q})
	}
	if hasImag {
		gens = append(gens, generator{imag: true})
	}
	return gens
}

func refineCoprime(base []*big.Int, m *big.Int) []*big.Int {
	one := big.NewInt(1)
	pending := []*big.Int{new(big.Int).Set(m)}
	for len(pending) > 0 {
		n := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if n.Cmp(one) == 0 {
			continue
		}
		split := false
		for i, b := range base {
			g := new(big.Int).GCD(nil, nil, b, n)
			if g.Cmp(one) == 0 {
				continue
			}
			base = append(base[:i], base[i+1:]...)
			pending = append(pending, g, new(big.Int).Quo(b, g), new(big.Int).Quo(n, g))
			split = true
			break
		}
		if !split {
			base = append(base, n)
		}
	}
	return base
}

// conjugate flips the sign of every term carrying g.
func (a algebraic) conjugate(g generator) algebraic {
	out := algebraic{terms: make(map[radical]*big.Rat, len(a.terms))}
	for r, v := range a.terms {
		if r.contains(g) {
			out.terms[r] = new(big.Rat).Neg(v)
		} else {
			out.terms[r] = new(big.Rat).Set(v)
		}
	}
	return out
}

// inv multiplies a by the conjugate over one generator at a time until the
// norm is rational, then divides the accumulated conjugates by it.
func (a algebraic) inv() (algebraic, error) {
	if a.isZero() {
		return algebraic{}, ErrDivisionByZero
	}
	num := intAlgebraic(1)
	d := a
	for {
		if q, ok := d.rat(); ok {
			return num.scale(new(big.Rat).Inv(q)), nil
		}
		g := d.generators()[0]
		c := d.conjugate(g)
		num = num.mul(c)
		d = d.mul(c)
	}
}

func (a algebraic) pow(e int64) (algebraic, error) {
	base := a
	if e < 0 {
		inv, err := a.inv()
		if err != nil {
			return algebraic{}, err
		}
		base = inv
		e = -e
	}
	result := intAlgebraic(1)
	for e > 0 {
		if e&1 == 1 {
			result = result.mul(base)
		}
		e >>= 1
		if e > 0 {
			base = base.mul(base)
		}
	}
	return result, nil
}

// ============================================================
// Square roots of rationals
// ============================================================

// trialLimit bounds the trial division used to split off square factors.
// A cofactor left over after the limit is treated as square-free unless it
// is itself a perfect square.
const trialLimit = 1 << 20

// squareFree splits n > 0 into s^2 * m with m square-free.
func squareFree(n *big.Int) (s, m *big.Int) {
	s, m = big.NewInt(1), big.NewInt(1)
	rest := new(big.Int).Set(n)
	d := big.NewInt(2)
	sq := new(big.Int)
	r := new(big.Int)
	for d.Int64() <= trialLimit {
		sq.Mul(d, d)
		if sq.Cmp(rest) > 0 {
			break
		}
		for {
			q, rm := new(big.Int).QuoRem(rest, sq, r)
			if rm.Sign() != 0 {
				break
			}
			rest = q
			s.Mul(s, d)
		}
		if q, rm := new(big.Int).QuoRem(rest, d, r); rm.Sign() == 0 {
			rest = q
			m.Mul(m, d)
		}
		if d.Int64() == 2 {
			d.SetInt64(3)
		} else {
			d.Add(d, big.NewInt(2))
		}
	}
	if rest.Cmp(big.NewInt(1)) > 0 {
		root := new(big.Int).Sqrt(rest)
		if new(big.Int).Mul(root, root).Cmp(rest) == 0 {
			s.Mul(s, root)
		} else {
			m.Mul(m, rest)
		}
	}
	return s, m
}

// sqrtRat returns the principal square root of q; negative q yields I*sqrt(-q).
func sqrtRat(q *big.Rat) algebraic {
	if q.Sign() == 0 {
		return algebraic{terms: map[radical]*big.Rat{}}
	}
	// sqrt(p/d) = sqrt(p*d)/d
	pd := new(big.Int).Mul(q.Num(), q.Denom())
	imag := pd.Sign() < 0
	pd.Abs(pd)
	s, m := squareFree(pd)
	coeff := new(big.Rat).SetFrac(s, q.Denom())
	return algebraic{terms: map[radical]*big.Rat{{imag: imag, m: m.String()}: coeff}}
}

// ============================================================
// Formatting
// ============================================================

func (r radical) String() string {
	switch {
	case r.isUnit():
		return "1"
	case r.m == "1":
		return "I"
	case r.imag:
		return "sqrt(" + r.m + ")*I"
	}
	return "sqrt(" + r.m + ")"
}

func (r radical) LaTeX() string {
	switch {
	case r.isUnit():
		return "1"
	case r.m == "1":
		return "i"
	case r.imag:
		return "\\sqrt{" + r.m + "} i"
	}
	return "\\sqrt{" + r.m + "}"
}

func ratString(v *big.Rat) string {
	if v.IsInt() {
		return v.Num().String()
	}
	return v.RatString()
}

func ratLaTeX(v *big.Rat) string {
	if v.IsInt() {
		return v.Num().String()
	}
	sign := ""
	w := new(big.Rat).Set(v)
	if w.Sign() < 0 {
		sign = "-"
		w.Neg(w)
	}
	return fmt.Sprintf("%s\\frac{%s}{%s}", sign, w.Num().String(), w.Denom().String())
}

func (a algebraic) String() string {
	if a.isZero() {
		return "0"
	}
	parts := make([]string, 0, len(a.terms))
	for _, r := range a.keys() {
		v := a.terms[r]
		switch {
		case r.isUnit():
			parts = append(parts, ratString(v))
		case v.Cmp(big.NewRat(1, 1)) == 0:
			parts = append(parts, r.String())
		case v.Cmp(big.NewRat(-1, 1)) == 0:
			parts = append(parts, "-"+r.String())
		default:
			parts = append(parts, ratString(v)+"*"+r.String())
		}
	}
	return joinSigned(parts)
}

func (a algebraic) LaTeX() string {
	if a.isZero() {
		return "0"
	}
	parts := make([]string, 0, len(a.terms))
	for _, r := range a.keys() {
		v := a.terms[r]
		switch {
		case r.isUnit():
			parts = append(parts, ratLaTeX(v))
		case v.Cmp(big.NewRat(1, 1)) == 0:
			parts = append(parts, r.LaTeX())
		case v.Cmp(big.NewRat(-1, 1)) == 0:
			parts = append(parts, "-"+r.LaTeX())
		default:
			parts = append(parts, ratLaTeX(v)+" "+r.LaTeX())
		}
	}
	return joinSigned(parts)
}
