package symbol_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gorecurrence/symbol"
)

func TestExpand_DistributesProducts(t *testing.T) {
	lhs := symbol.MulOf(symbol.AddOf(x, symbol.N(1)), symbol.AddOf(x, symbol.N(-1)))
	want := symbol.AddOf(symbol.PowOf(x, symbol.N(2)), symbol.N(-1))
	assert.True(t, symbol.Expand(lhs).Equal(want), "got %s", symbol.Expand(lhs))

	sq := symbol.PowOf(symbol.AddOf(x, y), symbol.N(2))
	assert.Equal(t, "2*x*y + x^2 + y^2", symbol.Expand(sq).String())
}

func TestFreeSymbols_IncludesIndices(t *testing.T) {
	a := symbol.NewIndexedBase("a")
	e := symbol.MulOf(symbol.S("s"), a.At(symbol.AddOf(n, symbol.N(-2))))
	syms := symbol.FreeSymbols(e)
	assert.Contains(t, syms, "s")
	assert.Contains(t, syms, "n")
	assert.True(t, symbol.Has(e, "n"))
	assert.False(t, symbol.Has(e, "a"))
	assert.Contains(t, symbol.IndexedBases(e), "a")
	assert.True(t, symbol.HasIndexed(e))
	assert.False(t, symbol.HasIndexed(symbol.AddOf(x, y)))
}

func TestCoefficientsDict(t *testing.T) {
	a := symbol.NewIndexedBase("a")
	lag1 := a.At(symbol.AddOf(n, symbol.N(-1)))
	lag2 := a.At(symbol.AddOf(n, symbol.N(-2)))
	e := symbol.AddOf(lag1, lag1, symbol.MulOf(symbol.S("s"), lag2), symbol.N(3))

	terms := symbol.CoefficientsDict(e)
	require.Len(t, terms, 3)
	assert.Equal(t, "1", terms[0].Factor.String())
	assert.Equal(t, "3", terms[0].Coeff.String())
	assert.True(t, terms[1].Factor.Equal(lag1))
	assert.Equal(t, "2", terms[1].Coeff.String())
	assert.True(t, terms[2].Factor.Equal(lag2))
	assert.Equal(t, "s", terms[2].Coeff.String())
}

func TestCoefficientsDict_ProductOfIndexed(t *testing.T) {
	a := symbol.NewIndexedBase("a")
	e := symbol.MulOf(symbol.N(5), a.At(symbol.AddOf(n, symbol.N(-1))), a.At(symbol.AddOf(n, symbol.N(-2))))
	terms := symbol.CoefficientsDict(e)
	require.Len(t, terms, 1)
	assert.Len(t, symbol.MulFactors(terms[0].Factor), 2)
	assert.Equal(t, "5", terms[0].Coeff.String())
}

func TestPolyCoeffs(t *testing.T) {
	p := symbol.AddOf(symbol.PowOf(x, symbol.N(2)), symbol.MulOf(symbol.N(-3), x), symbol.N(2))
	coeffs, err := symbol.PolyCoeffs(p, "x")
	require.NoError(t, err)
	require.Len(t, coeffs, 3)
	assert.Equal(t, "1", coeffs[2].String())
	assert.Equal(t, "-3", coeffs[1].String())
	assert.Equal(t, "2", coeffs[0].String())
	assert.Equal(t, 2, symbol.Degree(p, "x"))
}

func TestPolyCoeffs_NotPolynomial(t *testing.T) {
	_, err := symbol.PolyCoeffs(symbol.PowOf(symbol.N(2), x), "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, symbol.ErrNotPolynomial))

	_, err = symbol.PolyCoeffs(symbol.PowOf(x, symbol.N(-1)), "x")
	assert.ErrorIs(t, err, symbol.ErrNotPolynomial)
	assert.Equal(t, -1, symbol.Degree(symbol.PowOf(x, symbol.N(-1)), "x"))
}

func TestCollect_DescendingDegree(t *testing.T) {
	r := symbol.S("r")
	p := symbol.AddOf(symbol.N(-1), symbol.MulOf(symbol.N(-1), r), symbol.PowOf(r, symbol.N(2)))
	got, err := symbol.Collect(p, "r")
	require.NoError(t, err)
	assert.Equal(t, "r^2 - r - 1", got.String())
	assert.True(t, got.Simplify().Equal(p))
}
