package symbol

import (
	"fmt"
	"math/big"
	"sort"
)

// ============================================================
// Roots
// ============================================================

// Root is a distinct root of a polynomial and its multiplicity.
type Root struct {
	Value        Expr
	Multiplicity int
}

func (r Root) String() string { return fmt.Sprintf("%s (x%d)", r.Value, r.Multiplicity) }

// MaxRootDegree is the largest degree Roots accepts.
const MaxRootDegree = 256

// Roots returns the distinct roots of poly in varName with multiplicities.
// Polynomials with rational coefficients are solved exactly whenever each
// square-free factor splits over Q into linear and quadratic pieces, found
// by the rational root test, a rational quadratic split of quartics, or the
// substitution t = varName^2. Linear polynomials are solved for any
// coefficients. Anything else fails with ErrRootNotFound.
func Roots(poly Expr, varName string) ([]Root, error) {
	coeffs, err := PolyCoeffs(poly, varName)
	if err != nil {
		return nil, err
	}
	deg := -1
	for d := range coeffs {
		if d > deg {
			deg = d
		}
	}
	if deg < 0 {
		return nil, fmt.Errorf("zero polynomial: %w", ErrRootNotFound)
	}
	if deg == 0 {
		return nil, nil
	}
	if deg > MaxRootDegree {
		return nil, fmt.Errorf("degree %d exceeds %d: %w", deg, MaxRootDegree, ErrDegreeTooLarge)
	}

	if p, ok := toRatPoly(coeffs, deg); ok {
		return ratRoots(p)
	}
	if deg == 1 {
		c0, ok := coeffs[0]
		if !ok {
			return []Root{{Value: N(0), Multiplicity: 1}}, nil
		}
		value := MulOf(N(-1), c0, PowOf(coeffs[1], N(-1)))
		return []Root{{Value: value, Multiplicity: 1}}, nil
	}
	return nil, fmt.Errorf("degree %d polynomial with non-rational coefficients: %w", deg, ErrRootNotFound)
}

func toRatPoly(coeffs PolyCoeffsResult, deg int) (ratPoly, bool) {
	p := make(ratPoly, deg+1)
	for i := range p {
		p[i] = new(big.Rat)
	}
	for d, c := range coeffs {
		n, ok := c.Eval()
		if !ok {
			return nil, false
		}
		q, ok := n.Rat()
		if !ok {
			return nil, false
		}
		p[d] = q
	}
	return p, true
}

func ratRoots(p ratPoly) ([]Root, error) {
	var roots []Root

	zeros := 0
	for zeros < len(p)-1 && p[zeros].Sign() == 0 {
		zeros++
	}
	if zeros > 0 {
		roots = append(roots, Root{Value: N(0), Multiplicity: zeros})
		p = p[zeros:]
	}

	for mult, factor := range squareFreeDecomposition(p) {
		if factor.degree() < 1 {
			continue
		}
		values, err := squareFreeRoots(factor)
		if err != nil {
			return nil, err
		}
		for _, v := range values {
			roots = append(roots, Root{Value: v, Multiplicity: mult + 1})
		}
	}
	sortRoots(roots)
	return roots, nil
}

// sortRoots orders rational roots ascending, then the rest by printed form.
func sortRoots(roots []Root) {
	sort.SliceStable(roots, func(i, j int) bool {
		ri, iRat := rootRat(roots[i].Value)
		rj, jRat := rootRat(roots[j].Value)
		switch {
		case iRat && jRat:
			return ri.Cmp(rj) < 0
		case iRat != jRat:
			return iRat
		}
		return roots[i].Value.String() < roots[j].Value.String()
	})
}

func rootRat(e Expr) (*big.Rat, bool) {
	n, ok := e.(*Num)
	if !ok {
		return nil, false
	}
	return n.Rat()
}

// squareFreeRoots finds the roots of a square-free polynomial.
func squareFreeRoots(p ratPoly) ([]Expr, error) {
	var out []Expr
	for _, r := range rationalRoots(p) {
		out = append(out, NRat(r))
		p = p.divLinear(r)
	}
	switch p.degree() {
	case 0:
		return out, nil
	case 1:
		return append(out, NRat(new(big.Rat).Neg(new(big.Rat).Quo(p[0], p[1])))), nil
	case 2:
		return append(out, quadraticRoots(p)...), nil
	case 3:
		return nil, fmt.Errorf("cubic factor without a rational root needs cube roots, which are not supported: %w", ErrRootNotFound)
	case 4:
		if f, g, ok := p.quadraticSplit(); ok {
			out = append(out, quadraticRoots(f)...)
			return append(out, quadraticRoots(g)...), nil
		}
	}
	if q, ok := p.evenPart(); ok {
		ts, err := squareFreeRoots(q)
		if err != nil {
			return nil, err
		}
		for _, t := range ts {
			tr, ok := rootRat(t)
			if !ok {
				return nil, fmt.Errorf("square root of %s: %w", t, ErrRootNotFound)
			}
			s := SqrtRat(tr)
			out = append(out, s, numNeg(s))
		}
		return out, nil
	}
	return nil, fmt.Errorf("degree %d factor does not split into rational linear or quadratic factors by the supported methods: %w", p.degree(), ErrRootNotFound)
}

// quadraticRoots applies the quadratic formula exactly.
func quadraticRoots(p ratPoly) []Expr {
	a, b, c := p[2], p[1], p[0]
	disc := new(big.Rat).Mul(b, b)
	disc.Sub(disc, new(big.Rat).Mul(big.NewRat(4, 1), new(big.Rat).Mul(a, c)))
	twoA := new(big.Rat).Mul(big.NewRat(2, 1), a)
	negB := NRat(new(big.Rat).Neg(b))
	root := SqrtRat(disc)
	den := NRat(new(big.Rat).Inv(twoA))
	return []Expr{
		numMul(numAdd(negB, root), den),
		numMul(numAdd(negB, numNeg(root)), den),
	}
}

// rationalRoots lists the distinct rational roots of p by the rational root
// theorem, ascending.
func rationalRoots(p ratPoly) []*big.Rat {
	ints := p.primitive()
	lead := new(big.Int).Abs(ints[len(ints)-1])
	var out []*big.Rat
	if ints[0].Sign() == 0 {
		out = append(out, new(big.Rat))
	}
	constant := new(big.Int).Abs(ints[0])
	if constant.Sign() == 0 {
		// Only zero can be found this way; callers strip zero roots first.
		return out
	}
	seen := map[string]bool{}
	for _, num := range divisors(constant) {
		for _, den := range divisors(lead) {
			for _, sign := range []int64{1, -1} {
				cand := new(big.Rat).SetFrac(new(big.Int).Mul(num, big.NewInt(sign)), den)
				key := cand.RatString()
				if seen[key] {
					continue
				}
				seen[key] = true
				if p.eval(cand).Sign() == 0 {
					out = append(out, cand)
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cmp(out[j]) < 0 })
	return out
}

// divisors returns the positive divisors of n > 0. Prime factors above the
// trial-division limit are treated as prime.
func divisors(n *big.Int) []*big.Int {
	rest := new(big.Int).Set(n)
	type primePower struct {
		p *big.Int
		k int
	}
	var factors []primePower
	one := big.NewInt(1)
	d := big.NewInt(2)
	r := new(big.Int)
	for d.Int64() <= trialLimit && new(big.Int).Mul(d, d).Cmp(rest) <= 0 {
		k := 0
		for {
			q, rm := new(big.Int).QuoRem(rest, d, r)
			if rm.Sign() != 0 {
				break
			}
			rest = q
			k++
		}
		if k > 0 {
			factors = append(factors, primePower{p: new(big.Int).Set(d), k: k})
		}
		d.Add(d, one)
	}
	if rest.Cmp(one) > 0 {
		factors = append(factors, primePower{p: rest, k: 1})
	}
	out := []*big.Int{big.NewInt(1)}
	for _, f := range factors {
		next := make([]*big.Int, 0, len(out)*(f.k+1))
		for _, base := range out {
			v := new(big.Int).Set(base)
			next = append(next, new(big.Int).Set(v))
			for i := 0; i < f.k; i++ {
				v.Mul(v, f.p)
				next = append(next, new(big.Int).Set(v))
			}
		}
		out = next
	}
	return out
}

// squareFreeDecomposition returns Yun's factors: the polynomial equals the
// product of factors[i]^(i+1) up to a constant.
func squareFreeDecomposition(f ratPoly) []ratPoly {
	if f.degree() < 1 {
		return nil
	}
	df := f.derivative()
	a := ratPolyGCD(f, df)
	b, _ := f.divMod(a)
	c, _ := df.divMod(a)
	d := c.sub(b.derivative())
	var factors []ratPoly
	for b.degree() >= 1 {
		ai := ratPolyGCD(b, d)
		factors = append(factors, ai)
		b, _ = b.divMod(ai)
		c, _ = d.divMod(ai)
		d = c.sub(b.derivative())
	}
	return factors
}

// ============================================================
// ratPoly: dense polynomial over Q, lowest degree first
// ============================================================

type ratPoly []*big.Rat

func (p ratPoly) degree() int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].Sign() != 0 {
			return i
		}
	}
	return -1
}

func (p ratPoly) trim() ratPoly { return p[:p.degree()+1] }

func (p ratPoly) eval(x *big.Rat) *big.Rat {
	acc := new(big.Rat)
	for i := len(p) - 1; i >= 0; i-- {
		acc.Mul(acc, x)
		acc.Add(acc, p[i])
	}
	return acc
}

func (p ratPoly) derivative() ratPoly {
	if len(p) <= 1 {
		return ratPoly{}
	}
	out := make(ratPoly, len(p)-1)
	for i := 1; i < len(p); i++ {
		out[i-1] = new(big.Rat).Mul(p[i], new(big.Rat).SetInt64(int64(i)))
	}
	return out.trim()
}

func (p ratPoly) sub(q ratPoly) ratPoly {
	n := len(p)
	if len(q) > n {
		n = len(q)
	}
	out := make(ratPoly, n)
	for i := range out {
		out[i] = new(big.Rat)
		if i < len(p) {
			out[i].Add(out[i], p[i])
		}
		if i < len(q) {
			out[i].Sub(out[i], q[i])
		}
	}
	return out.trim()
}

// divMod returns quotient and remainder of p / q; q must be non-zero.
func (p ratPoly) divMod(q ratPoly) (ratPoly, ratPoly) {
	q = q.trim()
	dq := q.degree()
	rem := make(ratPoly, len(p))
	for i := range p {
		rem[i] = new(big.Rat).Set(p[i])
	}
	rem = rem.trim()
	if rem.degree() < dq {
		return ratPoly{}, rem
	}
	quo := make(ratPoly, rem.degree()-dq+1)
	for i := range quo {
		quo[i] = new(big.Rat)
	}
	lead := q[dq]
	for rem.degree() >= dq {
		dr := rem.degree()
		factor := new(big.Rat).Quo(rem[dr], lead)
		quo[dr-dq] = factor
		for i := 0; i <= dq; i++ {
			rem[dr-dq+i].Sub(rem[dr-dq+i], new(big.Rat).Mul(factor, q[i]))
		}
		rem = rem.trim()
	}
	return quo.trim(), rem
}

func (p ratPoly) monic() ratPoly {
	d := p.degree()
	out := make(ratPoly, d+1)
	for i := 0; i <= d; i++ {
		out[i] = new(big.Rat).Quo(p[i], p[d])
	}
	return out
}

func ratPolyGCD(a, b ratPoly) ratPoly {
	a, b = a.trim(), b.trim()
	for b.degree() >= 0 {
		_, r := a.divMod(b)
		a, b = b, r
	}
	if a.degree() < 0 {
		return ratPoly{big.NewRat(1, 1)}
	}
	return a.monic()
}

// divLinear divides p by (x - r), which must be a factor.
func (p ratPoly) divLinear(r *big.Rat) ratPoly {
	q, _ := p.divMod(ratPoly{new(big.Rat).Neg(r), big.NewRat(1, 1)})
	return q
}

// primitive scales p to integer coefficients.
func (p ratPoly) primitive() []*big.Int {
	lcm := big.NewInt(1)
	for _, c := range p {
		den := c.Denom()
		g := new(big.Int).GCD(nil, nil, lcm, den)
		lcm.Mul(lcm, new(big.Int).Quo(den, g))
	}
	out := make([]*big.Int, len(p))
	for i, c := range p {
		v := new(big.Rat).Mul(c, new(big.Rat).SetInt(lcm))
		out[i] = new(big.Int).Set(v.Num())
	}
	return out
}

// evenPart returns q with p(x) = q(x^2) when p has only even powers.
func (p ratPoly) evenPart() (ratPoly, bool) {
	p = p.trim()
	if len(p) < 3 {
		return nil, false
	}
	for i := 1; i < len(p); i += 2 {
		if p[i].Sign() != 0 {
			return nil, false
		}
	}
	q := make(ratPoly, 0, len(p)/2+1)
	for i := 0; i < len(p); i += 2 {
		q = append(q, p[i])
	}
	return q, true
}

// quadraticSplit writes a quartic as a product of two monic quadratics with
// rational coefficients. For x^4 + a x^3 + b x^2 + c x + d = (x^2 + p x + q)(x^2 + r x + s)
// the sum q + s is a rational root of the resolvent cubic
// y^3 - b y^2 + (ac - 4d) y - (a^2 d - 4bd + c^2).
func (p ratPoly) quadraticSplit() (ratPoly, ratPoly, bool) {
	m := p.monic()
	if m.degree() != 4 {
		return nil, nil, false
	}
	a, b, c, d := m[3], m[2], m[1], m[0]
	mul := func(x, y *big.Rat) *big.Rat { return new(big.Rat).Mul(x, y) }
	four := big.NewRat(4, 1)

	constant := mul(mul(a, a), d)
	constant.Sub(constant, mul(four, mul(b, d)))
	constant.Add(constant, mul(c, c))
	linear := new(big.Rat).Sub(mul(a, c), mul(four, d))
	resolvent := ratPoly{new(big.Rat).Neg(constant), linear, new(big.Rat).Neg(b), big.NewRat(1, 1)}

	ys := rationalRoots(resolvent)
	if resolvent[0].Sign() == 0 {
		ys = append(ys, rationalRoots(resolvent[1:])...)
	}
	for _, y := range ys {
		qs, ok := ratPair(y, d)
		if !ok {
			continue
		}
		prs, ok := ratPair(a, new(big.Rat).Sub(b, y))
		if !ok {
			continue
		}
		for _, q := range qs {
			for _, pr := range prs {
				f := ratPoly{q, pr, big.NewRat(1, 1)}
				g, rem := m.divMod(f)
				if rem.degree() < 0 {
					return f, g, true
				}
			}
		}
	}
	return nil, nil, false
}

// ratPair returns the rational u, v with u + v = sum and u*v = prod.
func ratPair(sum, prod *big.Rat) ([]*big.Rat, bool) {
	disc := new(big.Rat).Mul(sum, sum)
	disc.Sub(disc, new(big.Rat).Mul(big.NewRat(4, 1), prod))
	root, ok := ratSqrt(disc)
	if !ok {
		return nil, false
	}
	half := big.NewRat(1, 2)
	u := new(big.Rat).Mul(new(big.Rat).Add(sum, root), half)
	v := new(big.Rat).Mul(new(big.Rat).Sub(sum, root), half)
	return []*big.Rat{u, v}, true
}

// ratSqrt returns the rational square root of q when there is one.
func ratSqrt(q *big.Rat) (*big.Rat, bool) {
	if q.Sign() < 0 {
		return nil, false
	}
	num, den := q.Num(), q.Denom()
	sn, sd := new(big.Int).Sqrt(num), new(big.Int).Sqrt(den)
	if new(big.Int).Mul(sn, sn).Cmp(num) != 0 || new(big.Int).Mul(sd, sd).Cmp(den) != 0 {
		return nil, false
	}
	return new(big.Rat).SetFrac(sn, sd), true
}
