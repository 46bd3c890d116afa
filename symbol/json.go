package symbol

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// ============================================================
// JSON Serialization
// ============================================================

func (n *Num) toJSON() map[string]interface{} {
	if r, ok := n.val.rat(); ok {
		return map[string]interface{}{"type": "num", "value": ratString(r)}
	}
	terms := make([]interface{}, 0, len(n.val.terms))
	for _, r := range n.val.keys() {
		terms = append(terms, map[string]interface{}{
			"coeff":    ratString(n.val.terms[r]),
			"radicand": r.m,
			"imag":     r.imag,
		})
	}
	return map[string]interface{}{"type": "num", "terms": terms}
}

func (s *Sym) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "sym", "name": s.name}
}

func (x *Indexed) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "indexed", "base": x.base.name, "index": x.index.toJSON()}
}

func (a *Add) toJSON() map[string]interface{} {
	terms := make([]interface{}, len(a.terms))
	for i, t := range a.terms {
		terms[i] = t.toJSON()
	}
	return map[string]interface{}{"type": "add", "terms": terms}
}

func (m *Mul) toJSON() map[string]interface{} {
	factors := make([]interface{}, len(m.factors))
	for i, f := range m.factors {
		factors[i] = f.toJSON()
	}
	return map[string]interface{}{"type": "mul", "factors": factors}
}

func (p *Pow) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "pow", "base": p.base.toJSON(), "exp": p.exp.toJSON()}
}

// JSONTree returns the generic JSON object form of e.
func JSONTree(e Expr) map[string]interface{} { return e.toJSON() }

func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(e.toJSON())
	return string(b), err
}

// ParseJSON decodes the string form produced by ToJSON.
func ParseJSON(s string) (Expr, error) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(s), &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadJSON, err)
	}
	return FromJSON(data)
}

func FromJSON(data map[string]interface{}) (Expr, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: expression must be an object", ErrBadJSON)
	}
	typAny, ok := data["type"]
	if !ok {
		return nil, fmt.Errorf("%w: missing 'type' field", ErrBadJSON)
	}
	typ, ok := typAny.(string)
	if !ok || typ == "" {
		return nil, fmt.Errorf("%w: field 'type' must be a non-empty string", ErrBadJSON)
	}

	subObj := func(field string) (map[string]interface{}, error) {
		v, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%w: %s: missing %q", ErrBadJSON, typ, field)
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: %s: %q must be an object", ErrBadJSON, typ, field)
		}
		return m, nil
	}

	subObjArray := func(field string) ([]map[string]interface{}, error) {
		v, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%w: %s: missing %q", ErrBadJSON, typ, field)
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: %s: %q must be an array", ErrBadJSON, typ, field)
		}
		out := make([]map[string]interface{}, len(raw))
		for i, it := range raw {
			m, ok := it.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("%w: %s: %q[%d] must be an object", ErrBadJSON, typ, field, i)
			}
			out[i] = m
		}
		return out, nil
	}

	subString := func(field string) (string, error) {
		v, ok := data[field]
		if !ok {
			return "", fmt.Errorf("%w: %s: missing %q", ErrBadJSON, typ, field)
		}
		s, ok := v.(string)
		if !ok || s == "" {
			return "", fmt.Errorf("%w: %s: %q must be a non-empty string", ErrBadJSON, typ, field)
		}
		return s, nil
	}

	subExprs := func(field string) ([]Expr, error) {
		objs, err := subObjArray(field)
		if err != nil {
			return nil, err
		}
		out := make([]Expr, len(objs))
		for i, o := range objs {
			e, err := FromJSON(o)
			if err != nil {
				return nil, fmt.Errorf("%s: %s[%d]: %w", typ, field, i, err)
			}
			out[i] = e
		}
		return out, nil
	}

	switch typ {
	case "num":
		if _, ok := data["terms"]; ok {
			return numFromTerms(subObjArray)
		}
		val, err := subString("value")
		if err != nil {
			return nil, err
		}
		r, ok := new(big.Rat).SetString(val)
		if !ok {
			return nil, fmt.Errorf("%w: invalid num value: %s", ErrBadJSON, val)
		}
		return NRat(r), nil

	case "sym":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		return S(name), nil

	case "indexed":
		base, err := subString("base")
		if err != nil {
			return nil, err
		}
		idxM, err := subObj("index")
		if err != nil {
			return nil, err
		}
		idx, err := FromJSON(idxM)
		if err != nil {
			return nil, fmt.Errorf("indexed: index: %w", err)
		}
		return NewIndexedBase(base).At(idx), nil

	case "add":
		terms, err := subExprs("terms")
		if err != nil {
			return nil, err
		}
		return AddOf(terms...), nil

	case "mul":
		factors, err := subExprs("factors")
		if err != nil {
			return nil, err
		}
		return MulOf(factors...), nil

	case "pow":
		baseM, err := subObj("base")
		if err != nil {
			return nil, err
		}
		expM, err := subObj("exp")
		if err != nil {
			return nil, err
		}
		base, err := FromJSON(baseM)
		if err != nil {
			return nil, fmt.Errorf("pow: base: %w", err)
		}
		exp, err := FromJSON(expM)
		if err != nil {
			return nil, fmt.Errorf("pow: exp: %w", err)
		}
		return PowOf(base, exp), nil
	}
	return nil, fmt.Errorf("%w: unknown expression type: %s", ErrBadJSON, typ)
}

func numFromTerms(subObjArray func(string) ([]map[string]interface{}, error)) (Expr, error) {
	objs, err := subObjArray("terms")
	if err != nil {
		return nil, err
	}
	acc := N(0)
	for i, o := range objs {
		coeffStr, _ := o["coeff"].(string)
		coeff, ok := new(big.Rat).SetString(coeffStr)
		if !ok {
			return nil, fmt.Errorf("%w: num: terms[%d]: invalid coeff %q", ErrBadJSON, i, coeffStr)
		}
		radStr, _ := o["radicand"].(string)
		m, ok := new(big.Int).SetString(radStr, 10)
		if !ok || m.Sign() <= 0 {
			return nil, fmt.Errorf("%w: num: terms[%d]: invalid radicand %q", ErrBadJSON, i, radStr)
		}
		imag, _ := o["imag"].(bool)
		term := numMul(NRat(coeff), SqrtRat(new(big.Rat).SetInt(m)))
		if imag {
			term = numMul(term, I())
		}
		acc = numAdd(acc, term)
	}
	return acc, nil
}
