package symbol_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gorecurrence/symbol"
)

func TestJSON_AlgebraicAndIndexed(t *testing.T) {
	a := symbol.NewIndexedBase("a")
	half := symbol.F(1, 2)
	phi := symbol.AddOf(half, symbol.MulOf(half, symbol.Sqrt(5)), symbol.I())
	e := symbol.AddOf(symbol.MulOf(phi, a.At(symbol.AddOf(n, symbol.N(-1)))), symbol.PowOf(symbol.N(3), n))

	s, err := symbol.ToJSON(e)
	require.NoError(t, err)
	assert.Contains(t, s, `"type":"indexed"`)
	assert.Contains(t, s, `"radicand":"5"`)

	back, err := symbol.ParseJSON(s)
	require.NoError(t, err)
	assert.True(t, back.Equal(e), "%s != %s", back, e)
}

func TestJSON_RationalNum(t *testing.T) {
	tree := symbol.JSONTree(symbol.F(-3, 4))
	assert.Equal(t, map[string]interface{}{"type": "num", "value": "-3/4"}, tree)
}

func TestFromJSON_Errors(t *testing.T) {
	cases := []string{
		`{}`,
		`{"type":"bogus"}`,
		`{"type":"num","value":"abc"}`,
		`{"type":"indexed","base":"a"}`,
		`{"type":"add","terms":[1]}`,
		`{"type":"num","terms":[{"coeff":"1","radicand":"-2"}]}`,
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			var data map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(src), &data))
			_, err := symbol.FromJSON(data)
			assert.ErrorIs(t, err, symbol.ErrBadJSON)
		})
	}

	_, err := symbol.ParseJSON("not json")
	assert.ErrorIs(t, err, symbol.ErrBadJSON)
}
