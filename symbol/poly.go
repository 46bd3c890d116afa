package symbol

import (
	"fmt"
	"sort"
)

// ============================================================
// Expansion
// ============================================================

// maxExpandPower bounds the integer powers of sums that Expand multiplies out.
const maxExpandPower = 64

// Expand distributes products over sums and multiplies out small integer
// powers of sums.
func Expand(e Expr) Expr { return expandExpr(e.Simplify()).Simplify() }

func expandExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Mul:
		expanded := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			expanded[i] = expandExpr(f)
		}
		for i, f := range expanded {
			if a, ok := f.(*Add); ok {
				rest := make([]Expr, 0, len(expanded)-1)
				for j, ef := range expanded {
					if j != i {
						rest = append(rest, ef)
					}
				}
				terms := make([]Expr, len(a.terms))
				for k, t := range a.terms {
					terms[k] = expandExpr(MulOf(append([]Expr{t}, rest...)...))
				}
				return AddOf(terms...)
			}
		}
		return MulOf(expanded...)
	case *Add:
		newTerms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			newTerms[i] = expandExpr(t)
		}
		return AddOf(newTerms...)
	case *Pow:
		base := expandExpr(v.base)
		if n, ok := v.exp.(*Num); ok {
			if exp, ok := n.Int64(); ok && exp >= 2 && exp <= maxExpandPower {
				if _, isAdd := base.(*Add); isAdd {
					result := base
					for i := int64(1); i < exp; i++ {
						result = mulExpanded(result, base)
					}
					return result
				}
			}
		}
		return PowOf(base, expandExpr(v.exp))
	case *Indexed:
		return v.base.At(expandExpr(v.index))
	}
	return e
}

// mulExpanded multiplies two expanded sums term by term. Building the
// product with MulOf would fold equal sums back into a power.
func mulExpanded(a, b Expr) Expr {
	var terms []Expr
	for _, ta := range AddTerms(a) {
		for _, tb := range AddTerms(b) {
			terms = append(terms, expandExpr(MulOf(ta, tb)))
		}
	}
	return AddOf(terms...)
}

// ============================================================
// Free Symbols
// ============================================================

// FreeSymbols returns the names of all symbols in e, including those inside
// indices.
func FreeSymbols(e Expr) map[string]struct{} {
	result := map[string]struct{}{}
	collectSymbols(e, result)
	return result
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Indexed:
		collectSymbols(v.index, out)
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	}
}

// Has reports whether the symbol name occurs anywhere in e.
func Has(e Expr, name string) bool {
	_, ok := FreeSymbols(e)[name]
	return ok
}

// IndexedBases returns the names of all indexed bases used in e.
func IndexedBases(e Expr) map[string]struct{} {
	result := map[string]struct{}{}
	collectBases(e, result)
	return result
}

func collectBases(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Indexed:
		out[v.base.name] = struct{}{}
		collectBases(v.index, out)
	case *Add:
		for _, t := range v.terms {
			collectBases(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectBases(f, out)
		}
	case *Pow:
		collectBases(v.base, out)
		collectBases(v.exp, out)
	}
}

// HasIndexed reports whether e contains any indexed term.
func HasIndexed(e Expr) bool { return len(IndexedBases(e)) > 0 }

// ============================================================
// Term → coefficient decomposition
// ============================================================

// Term is one entry of CoefficientsDict: Coeff * Factor.
type Term struct {
	Factor Expr
	Coeff  Expr
}

// CoefficientsDict expands e and splits every additive term into the
// product of its indexed factors and the remaining coefficient. Terms
// sharing the same indexed part are combined. The constant part, if any,
// is reported with Factor equal to 1.
func CoefficientsDict(e Expr) []Term {
	byKey := map[string]*Term{}
	keys := []string{}
	for _, t := range AddTerms(Expand(e)) {
		var indexed, coeff []Expr
		for _, f := range MulFactors(t) {
			if HasIndexed(f) {
				indexed = append(indexed, f)
			} else {
				coeff = append(coeff, f)
			}
		}
		factor := MulOf(indexed...)
		if len(indexed) == 0 {
			factor = N(1)
		}
		c := MulOf(coeff...)
		if len(coeff) == 0 {
			c = N(1)
		}
		key := factor.String()
		if existing, ok := byKey[key]; ok {
			existing.Coeff = AddOf(existing.Coeff, c)
			continue
		}
		byKey[key] = &Term{Factor: factor, Coeff: c}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]Term, 0, len(keys))
	for _, k := range keys {
		t := byKey[k]
		if IsZero(t.Coeff) {
			continue
		}
		out = append(out, *t)
	}
	return out
}

// ============================================================
// Polynomial utilities
// ============================================================

// PolyCoeffsResult maps degree to coefficient.
type PolyCoeffsResult map[int]Expr

// PolyCoeffs returns the coefficients of expr as a polynomial in varName.
// Zero coefficients are omitted.
func PolyCoeffs(expr Expr, varName string) (PolyCoeffsResult, error) {
	result := PolyCoeffsResult{}
	for _, term := range AddTerms(Expand(expr)) {
		deg := 0
		coeffFactors := []Expr{}
		for _, f := range MulFactors(term) {
			d, ok := monomialDegree(f, varName)
			switch {
			case ok:
				deg += d
			case Has(f, varName):
				return nil, fmt.Errorf("term %s in %s: %w", f, varName, ErrNotPolynomial)
			default:
				coeffFactors = append(coeffFactors, f)
			}
		}
		coeff := Expr(N(1))
		if len(coeffFactors) > 0 {
			coeff = MulOf(coeffFactors...)
		}
		addCoeff(result, deg, coeff)
	}
	for d, c := range result {
		if IsZero(c) {
			delete(result, d)
		}
	}
	return result, nil
}

// monomialDegree recognises varName and varName^k for a non-negative integer k.
func monomialDegree(f Expr, varName string) (int, bool) {
	switch v := f.(type) {
	case *Sym:
		if v.name == varName {
			return 1, true
		}
	case *Pow:
		if sym, ok := v.base.(*Sym); ok && sym.name == varName {
			if n, ok2 := v.exp.(*Num); ok2 {
				if k, ok3 := n.Int64(); ok3 && k >= 0 {
					return int(k), true
				}
			}
		}
	}
	return 0, false
}

func addCoeff(out PolyCoeffsResult, deg int, val Expr) {
	if existing, ok := out[deg]; ok {
		out[deg] = AddOf(existing, val)
	} else {
		out[deg] = val.Simplify()
	}
}

// Degree returns the degree of expr in varName, or -1 when expr is zero or
// not a polynomial in varName.
func Degree(expr Expr, varName string) int {
	coeffs, err := PolyCoeffs(expr, varName)
	if err != nil {
		return -1
	}
	maxDeg := -1
	for d := range coeffs {
		if d > maxDeg {
			maxDeg = d
		}
	}
	return maxDeg
}

// Collect groups terms by powers of varName, highest degree first. The
// result keeps that order for display; Simplify restores canonical order.
func Collect(expr Expr, varName string) (Expr, error) {
	coeffs, err := PolyCoeffs(expr, varName)
	if err != nil {
		return nil, err
	}
	if len(coeffs) == 0 {
		return N(0), nil
	}
	degrees := make([]int, 0, len(coeffs))
	for d := range coeffs {
		degrees = append(degrees, d)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(degrees)))
	terms := make([]Expr, 0, len(degrees))
	for _, d := range degrees {
		c := coeffs[d]
		switch d {
		case 0:
			terms = append(terms, c)
		case 1:
			terms = append(terms, MulOf(c, S(varName)))
		default:
			terms = append(terms, MulOf(c, PowOf(S(varName), N(int64(d)))))
		}
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return &Add{terms: terms}, nil
}
