package symbol

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// Parse reads the infix form printed by String: numbers, symbols, indexed
// terms such as a[n-1], the imaginary unit I, sqrt(...), parentheses and the
// operators + - * / ^ (** is accepted for ^).
func Parse(src string) (Expr, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	e, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrParse, p.toks[p.pos].text, p.toks[p.pos].off)
	}
	return e, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

type tokenKind int

const (
	tokNum tokenKind = iota
	tokIdent
	tokOp
)

type token struct {
	kind tokenKind
	text string
	off  int
}

func tokenize(src string) ([]token, error) {
	var toks []token
	rs := []rune(src)
	for i := 0; i < len(rs); {
		c := rs[i]
		switch {
		case unicode.IsSpace(c):
			i++
		case unicode.IsDigit(c) || c == '.':
			j := i
			for j < len(rs) && (unicode.IsDigit(rs[j]) || rs[j] == '.') {
				j++
			}
			toks = append(toks, token{kind: tokNum, text: string(rs[i:j]), off: i})
			i = j
		case unicode.IsLetter(c) || c == '_':
			j := i
			for j < len(rs) && (unicode.IsLetter(rs[j]) || unicode.IsDigit(rs[j]) || rs[j] == '_') {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: string(rs[i:j]), off: i})
			i = j
		case c == '*' && i+1 < len(rs) && rs[i+1] == '*':
			toks = append(toks, token{kind: tokOp, text: "^", off: i})
			i += 2
		case strings.ContainsRune("+-*/^()[]", c):
			toks = append(toks, token{kind: tokOp, text: string(c), off: i})
			i++
		default:
			return nil, fmt.Errorf("%w: unexpected character %q at offset %d", ErrParse, c, i)
		}
	}
	return toks, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peekOp(ops ...string) (string, bool) {
	if p.pos >= len(p.toks) || p.toks[p.pos].kind != tokOp {
		return "", false
	}
	for _, op := range ops {
		if p.toks[p.pos].text == op {
			return op, true
		}
	}
	return "", false
}

func (p *parser) expect(op string) error {
	if _, ok := p.peekOp(op); !ok {
		if p.pos >= len(p.toks) {
			return fmt.Errorf("%w: expected %q at end of input", ErrParse, op)
		}
		return fmt.Errorf("%w: expected %q at offset %d", ErrParse, op, p.toks[p.pos].off)
	}
	p.pos++
	return nil
}

func (p *parser) parseSum() (Expr, error) {
	first, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	terms := []Expr{first}
	for {
		op, ok := p.peekOp("+", "-")
		if !ok {
			break
		}
		p.pos++
		t, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		if op == "-" {
			t = MulOf(N(-1), t)
		}
		terms = append(terms, t)
	}
	if len(terms) == 1 {
		return first, nil
	}
	return AddOf(terms...), nil
}

func (p *parser) parseProduct() (Expr, error) {
	first, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	factors := []Expr{first}
	for {
		op, ok := p.peekOp("*", "/")
		if !ok {
			break
		}
		p.pos++
		f, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op == "/" {
			if n, ok := f.(*Num); ok && n.IsZero() {
				return nil, fmt.Errorf("%w: %w", ErrParse, ErrDivisionByZero)
			}
			f = PowOf(f, N(-1))
		}
		factors = append(factors, f)
	}
	if len(factors) == 1 {
		return first, nil
	}
	return MulOf(factors...), nil
}

func (p *parser) parseUnary() (Expr, error) {
	if op, ok := p.peekOp("-", "+"); ok {
		p.pos++
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op == "-" {
			return MulOf(N(-1), e), nil
		}
		return e, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if _, ok := p.peekOp("^"); ok {
		p.pos++
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil
	}
	return base, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	if p.pos >= len(p.toks) {
		return nil, fmt.Errorf("%w: unexpected end of input", ErrParse)
	}
	tok := p.toks[p.pos]
	p.pos++
	switch tok.kind {
	case tokNum:
		r, ok := new(big.Rat).SetString(tok.text)
		if !ok {
			return nil, fmt.Errorf("%w: bad number %q at offset %d", ErrParse, tok.text, tok.off)
		}
		return NRat(r), nil
	case tokIdent:
		if _, ok := p.peekOp("["); ok {
			p.pos++
			idx, err := p.parseSum()
			if err != nil {
				return nil, err
			}
			if err := p.expect("]"); err != nil {
				return nil, err
			}
			return NewIndexedBase(tok.text).At(idx), nil
		}
		if tok.text == "sqrt" {
			if err := p.expect("("); err != nil {
				return nil, err
			}
			arg, err := p.parseSum()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			return PowOf(arg, F(1, 2)), nil
		}
		if tok.text == "I" {
			return I(), nil
		}
		return S(tok.text), nil
	}
	if tok.text == "(" {
		e, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return e, nil
	}
	return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrParse, tok.text, tok.off)
}
