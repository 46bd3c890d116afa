package symbol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gorecurrence/symbol"
)

func poly(t *testing.T, src string) symbol.Expr {
	t.Helper()
	e, err := symbol.Parse(src)
	require.NoError(t, err)
	return e
}

// requireRoot asserts that want occurs among roots with the given multiplicity.
func requireRoot(t *testing.T, roots []symbol.Root, want symbol.Expr, mult int) {
	t.Helper()
	for _, r := range roots {
		if r.Value.Equal(want) {
			assert.Equal(t, mult, r.Multiplicity, "multiplicity of %s", want)
			return
		}
	}
	t.Fatalf("root %s not found in %v", want, roots)
}

func TestRoots_Rational(t *testing.T) {
	roots, err := symbol.Roots(poly(t, "x^2 - 5*x + 6"), "x")
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.True(t, roots[0].Value.Equal(symbol.N(2)))
	assert.True(t, roots[1].Value.Equal(symbol.N(3)))
}

func TestRoots_RepeatedRoot(t *testing.T) {
	// (x-1)^2 (x+2)
	roots, err := symbol.Roots(poly(t, "x^3 - 3*x + 2"), "x")
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.True(t, roots[0].Value.Equal(symbol.N(-2)))
	assert.Equal(t, 1, roots[0].Multiplicity)
	assert.True(t, roots[1].Value.Equal(symbol.N(1)))
	assert.Equal(t, 2, roots[1].Multiplicity)
}

func TestRoots_ZeroRoot(t *testing.T) {
	roots, err := symbol.Roots(poly(t, "x^3 - x^2"), "x")
	require.NoError(t, err)
	require.Len(t, roots, 2)
	requireRoot(t, roots, symbol.N(0), 2)
	requireRoot(t, roots, symbol.N(1), 1)
}

func TestRoots_RationalCoefficients(t *testing.T) {
	roots, err := symbol.Roots(poly(t, "2*x^2 - 3*x + 1"), "x")
	require.NoError(t, err)
	require.Len(t, roots, 2)
	requireRoot(t, roots, symbol.F(1, 2), 1)
	requireRoot(t, roots, symbol.N(1), 1)
}

func TestRoots_GoldenRatio(t *testing.T) {
	roots, err := symbol.Roots(poly(t, "x^2 - x - 1"), "x")
	require.NoError(t, err)
	require.Len(t, roots, 2)
	half := symbol.F(1, 2)
	requireRoot(t, roots, symbol.AddOf(half, symbol.MulOf(half, symbol.Sqrt(5))), 1)
	requireRoot(t, roots, symbol.AddOf(half, symbol.MulOf(symbol.F(-1, 2), symbol.Sqrt(5))), 1)
}

func TestRoots_Complex(t *testing.T) {
	roots, err := symbol.Roots(poly(t, "x^4 - 1"), "x")
	require.NoError(t, err)
	require.Len(t, roots, 4)
	assert.True(t, roots[0].Value.Equal(symbol.N(-1)))
	assert.True(t, roots[1].Value.Equal(symbol.N(1)))
	requireRoot(t, roots, symbol.I(), 1)
	requireRoot(t, roots, symbol.MulOf(symbol.N(-1), symbol.I()), 1)
}

func TestRoots_RepeatedComplex(t *testing.T) {
	// (x^2+1)^2
	roots, err := symbol.Roots(poly(t, "x^4 + 2*x^2 + 1"), "x")
	require.NoError(t, err)
	require.Len(t, roots, 2)
	requireRoot(t, roots, symbol.I(), 2)
	requireRoot(t, roots, symbol.MulOf(symbol.N(-1), symbol.I()), 2)
}

func TestRoots_EvenPolynomial(t *testing.T) {
	// (x^2-2)(x^2-3)
	roots, err := symbol.Roots(poly(t, "x^4 - 5*x^2 + 6"), "x")
	require.NoError(t, err)
	require.Len(t, roots, 4)
	for _, m := range []int64{2, 3} {
		requireRoot(t, roots, symbol.Sqrt(m), 1)
		requireRoot(t, roots, symbol.MulOf(symbol.N(-1), symbol.Sqrt(m)), 1)
	}
}

func TestRoots_QuarticSplit(t *testing.T) {
	// (x^2 + 1)(x^2 + x + 1)
	roots, err := symbol.Roots(poly(t, "x^4 + x^3 + 2*x^2 + x + 1"), "x")
	require.NoError(t, err)
	require.Len(t, roots, 4)
	requireRoot(t, roots, symbol.I(), 1)
	requireRoot(t, roots, symbol.MulOf(symbol.N(-1), symbol.I()), 1)
	w := symbol.AddOf(symbol.F(-1, 2), symbol.MulOf(symbol.F(1, 2), symbol.Sqrt(3), symbol.I()))
	requireRoot(t, roots, w, 1)

	// (2x^2 - 3)(x^2 + 2x + 5) with a leading coefficient and no even substitution
	roots, err = symbol.Roots(poly(t, "2*x^4 + 4*x^3 + 7*x^2 - 6*x - 15"), "x")
	require.NoError(t, err)
	require.Len(t, roots, 4)
	requireRoot(t, roots, symbol.AddOf(symbol.N(-1), symbol.MulOf(symbol.N(2), symbol.I())), 1)
}

func TestRoots_DegreeBound(t *testing.T) {
	_, err := symbol.Roots(poly(t, "x^20000000 - 1"), "x")
	assert.ErrorIs(t, err, symbol.ErrDegreeTooLarge)

	roots, err := symbol.Roots(poly(t, "x^256 - x^255"), "x")
	require.NoError(t, err)
	requireRoot(t, roots, symbol.N(0), 255)
	requireRoot(t, roots, symbol.N(1), 1)
}

func TestRoots_SymbolicLinear(t *testing.T) {
	roots, err := symbol.Roots(poly(t, "-r + s"), "r")
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, "s", roots[0].Value.String())
}

func TestRoots_Constant(t *testing.T) {
	roots, err := symbol.Roots(symbol.N(4), "x")
	require.NoError(t, err)
	assert.Empty(t, roots)
}

func TestRoots_NotFound(t *testing.T) {
	cases := map[string]string{
		"cubic":               "x^3 - 2",
		"symbolic quadratic":  "x^2 - s",
		"irrational even sub": "x^4 - 2*x^2 - 1",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := symbol.Roots(poly(t, src), "x")
			assert.ErrorIs(t, err, symbol.ErrRootNotFound)
			assert.NotContains(t, err.Error(), "irreducible")
		})
	}

	_, err := symbol.Roots(poly(t, "x^3 - x^2 - x - 1"), "x")
	assert.ErrorIs(t, err, symbol.ErrRootNotFound)
	assert.Contains(t, err.Error(), "cube roots")
}

func TestRoots_NotPolynomial(t *testing.T) {
	_, err := symbol.Roots(poly(t, "2^x - 1"), "x")
	assert.ErrorIs(t, err, symbol.ErrNotPolynomial)
}
