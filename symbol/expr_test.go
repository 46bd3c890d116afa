package symbol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gorecurrence/symbol"
)

var (
	x = symbol.S("x")
	y = symbol.S("y")
	n = symbol.S("n")
)

// ============================================================
// Num tests
// ============================================================

func TestNum_Formatting(t *testing.T) {
	cases := []struct {
		name  string
		num   *symbol.Num
		str   string
		latex string
	}{
		{"integer", symbol.N(42), "42", "42"},
		{"rational", symbol.F(1, 3), "1/3", `\frac{1}{3}`},
		{"negative rational", symbol.F(-2, 5), "-2/5", `-\frac{2}{5}`},
		{"square root", symbol.Sqrt(8), "2*sqrt(2)", `2 \sqrt{2}`},
		{"imaginary", symbol.Sqrt(-4), "2*I", "2 i"},
		{"unit", symbol.I(), "I", "i"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.str, tc.num.String())
			assert.Equal(t, tc.latex, tc.num.LaTeX())
		})
	}
}

func TestNum_RadicalArithmetic(t *testing.T) {
	assert.True(t, symbol.MulOf(symbol.Sqrt(2), symbol.Sqrt(2)).Equal(symbol.N(2)))
	assert.True(t, symbol.MulOf(symbol.Sqrt(2), symbol.Sqrt(6)).Equal(symbol.MulOf(symbol.N(2), symbol.Sqrt(3))))
	assert.True(t, symbol.MulOf(symbol.I(), symbol.I()).Equal(symbol.N(-1)))
	assert.True(t, symbol.PowOf(symbol.I(), symbol.N(4)).Equal(symbol.N(1)))
}

func TestNum_Inverse(t *testing.T) {
	// 1/(1+sqrt(5)) = (sqrt(5)-1)/4
	inv := symbol.PowOf(symbol.AddOf(symbol.N(1), symbol.Sqrt(5)), symbol.N(-1))
	want := symbol.AddOf(symbol.F(-1, 4), symbol.MulOf(symbol.F(1, 4), symbol.Sqrt(5)))
	assert.True(t, inv.Equal(want), "got %s", inv)

	// 1/(sqrt(2)+sqrt(3)) = sqrt(3)-sqrt(2)
	inv = symbol.PowOf(symbol.AddOf(symbol.Sqrt(2), symbol.Sqrt(3)), symbol.N(-1))
	want = symbol.AddOf(symbol.Sqrt(3), symbol.MulOf(symbol.N(-1), symbol.Sqrt(2)))
	assert.True(t, inv.Equal(want), "got %s", inv)

	// 1/(1+I) = (1-I)/2
	inv = symbol.PowOf(symbol.AddOf(symbol.N(1), symbol.I()), symbol.N(-1))
	want = symbol.AddOf(symbol.F(1, 2), symbol.MulOf(symbol.F(-1, 2), symbol.I()))
	assert.True(t, inv.Equal(want), "got %s", inv)
}

func TestNum_Accessors(t *testing.T) {
	v, ok := symbol.N(-7).Int64()
	require.True(t, ok)
	assert.Equal(t, int64(-7), v)

	_, ok = symbol.F(1, 2).Int64()
	assert.False(t, ok)
	assert.True(t, symbol.F(1, 2).IsRational())
	assert.False(t, symbol.Sqrt(3).IsRational())
	assert.True(t, symbol.Sqrt(3).IsReal())
	assert.False(t, symbol.I().IsReal())
}

// ============================================================
// Add / Mul / Pow simplification
// ============================================================

func TestAdd_CollectsLikeTerms(t *testing.T) {
	assert.Equal(t, "2*x + y", symbol.AddOf(x, x, y).String())
	assert.Equal(t, "x - 1", symbol.AddOf(x, symbol.N(-1)).String())
	assert.Equal(t, "0", symbol.AddOf(x, symbol.MulOf(symbol.N(-1), x)).String())
}

func TestMul_MergesPowers(t *testing.T) {
	assert.Equal(t, "x^2", symbol.MulOf(x, x).String())
	assert.Equal(t, "-x", symbol.MulOf(symbol.N(-1), x).String())
	assert.Equal(t, "1", symbol.MulOf(x, symbol.PowOf(x, symbol.N(-1))).String())
	assert.Equal(t, "0", symbol.MulOf(symbol.N(0), x).String())
}

func TestPow_Folding(t *testing.T) {
	assert.True(t, symbol.PowOf(symbol.N(2), symbol.N(10)).Equal(symbol.N(1024)))
	assert.True(t, symbol.PowOf(symbol.F(1, 4), symbol.F(1, 2)).Equal(symbol.F(1, 2)))
	assert.True(t, symbol.PowOf(symbol.N(2), symbol.F(-1, 2)).Equal(symbol.MulOf(symbol.F(1, 2), symbol.Sqrt(2))))
	assert.Equal(t, "4*x^2", symbol.PowOf(symbol.MulOf(symbol.N(2), x), symbol.N(2)).String())
	assert.Equal(t, "x^6", symbol.PowOf(symbol.PowOf(x, symbol.N(2)), symbol.N(3)).String())
}

func TestPow_SplitsIntegerOffset(t *testing.T) {
	e := symbol.PowOf(symbol.N(2), symbol.AddOf(n, symbol.N(1)))
	assert.Equal(t, "2*2^n", e.String())
	assert.True(t, symbol.Sub(e, n, symbol.N(3)).Equal(symbol.N(16)))
}

func TestPow_ZeroBaseSymbolicExponent(t *testing.T) {
	e := symbol.PowOf(symbol.N(0), n)
	assert.Equal(t, "0^n", e.String())
	assert.True(t, symbol.Sub(e, n, symbol.N(0)).Equal(symbol.N(1)))
	assert.True(t, symbol.Sub(e, n, symbol.N(2)).Equal(symbol.N(0)))
	assert.True(t, symbol.Sub(e, n, symbol.N(symbol.MaxFoldExponent*2)).Equal(symbol.N(0)))
	unfolded := symbol.Sub(symbol.PowOf(symbol.N(2), n), n, symbol.N(symbol.MaxFoldExponent+1))
	assert.Equal(t, "pow", symbol.JSONTree(unfolded)["type"])
}

func TestPow_ComplexBaseString(t *testing.T) {
	e := symbol.AddOf(
		symbol.MulOf(symbol.F(1, 2), symbol.PowOf(symbol.I(), n)),
		symbol.MulOf(symbol.F(1, 2), symbol.PowOf(symbol.MulOf(symbol.N(-1), symbol.I()), n)),
	)
	assert.Contains(t, e.String(), "1/2*I^n")
	assert.Contains(t, e.String(), "1/2*(-I)^n")
}

// ============================================================
// Indexed / Sub / Eval
// ============================================================

func TestIndexed_SubstitutesInsideIndex(t *testing.T) {
	a := symbol.NewIndexedBase("a")
	e := a.At(symbol.AddOf(n, symbol.N(-1)))
	assert.Equal(t, "a[n - 1]", e.String())
	assert.Equal(t, "a_{n - 1}", e.LaTeX())
	assert.Equal(t, "a[2]", symbol.Sub(e, n, symbol.N(3)).String())
	assert.True(t, e.Equal(a.At(symbol.AddOf(symbol.N(-1), n))))
	assert.False(t, e.Equal(symbol.NewIndexedBase("b").At(symbol.AddOf(n, symbol.N(-1)))))
}

func TestSub_WholeSubtree(t *testing.T) {
	a := symbol.NewIndexedBase("a")
	e := symbol.AddOf(a.At(n), symbol.MulOf(symbol.N(3), a.At(n)))
	got := symbol.Sub(e, a.At(n), symbol.N(2))
	assert.True(t, got.Equal(symbol.N(8)), "got %s", got)
}

func TestEval(t *testing.T) {
	v, ok := symbol.AddOf(symbol.F(1, 2), symbol.F(1, 3)).Eval()
	require.True(t, ok)
	assert.True(t, v.Equal(symbol.F(5, 6)))

	_, ok = symbol.AddOf(x, symbol.N(1)).Eval()
	assert.False(t, ok)
}

func TestEquation_Residual(t *testing.T) {
	eq := symbol.Eq(symbol.AddOf(x, symbol.N(2)), symbol.N(5))
	assert.Equal(t, "x + 2 = 5", eq.String())
	assert.Equal(t, "x - 3", eq.Residual().String())
}
