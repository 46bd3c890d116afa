package recurrence

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/mitchellh/mapstructure"

	"github.com/njchilds90/gorecurrence/symbol"
)

// ============================================================
// Tool Interface
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// recurrenceParams describes a recurrence in a tool call. Relation and the
// initial values are expression strings or JSON expression trees.
type recurrenceParams struct {
	Name     string        `mapstructure:"name"`
	Index    string        `mapstructure:"index"`
	Relation interface{}   `mapstructure:"relation"`
	Initial  []interface{} `mapstructure:"initial"`
	Count    int           `mapstructure:"count"`
}

type rootsParams struct {
	Polynomial interface{} `mapstructure:"polynomial"`
	Variable   string      `mapstructure:"variable"`
}

type evaluateParams struct {
	Expression interface{} `mapstructure:"expression"`
	Index      string      `mapstructure:"index"`
	At         int64       `mapstructure:"at"`
}

// MaxTerms is the default bound on the count accepted by the terms tool.
const MaxTerms = 500

func decodeParams(in map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

// ParseExpr accepts an expression string, a JSON expression tree or a number.
func ParseExpr(v interface{}) (symbol.Expr, error) {
	switch e := v.(type) {
	case nil:
		return nil, fmt.Errorf("missing expression")
	case string:
		return symbol.Parse(e)
	case float64:
		return symbol.Parse(strconv.FormatFloat(e, 'f', -1, 64))
	case int:
		return symbol.N(int64(e)), nil
	case int64:
		return symbol.N(e), nil
	case map[string]interface{}:
		return symbol.FromJSON(e)
	}
	return nil, fmt.Errorf("unsupported expression value of type %T", v)
}

// Build turns tool parameters into a Recurrence.
func (p recurrenceParams) Build() (*Recurrence, error) {
	name, index := p.Name, p.Index
	if name == "" {
		name = "a"
	}
	if index == "" {
		index = "n"
	}
	rec, err := New(name, index)
	if err != nil {
		return nil, err
	}
	nth, err := ParseExpr(p.Relation)
	if err != nil {
		return nil, fmt.Errorf("relation: %w", err)
	}
	rec.SetRelation(nth)
	for i, raw := range p.Initial {
		v, err := ParseExpr(raw)
		if err != nil {
			return nil, fmt.Errorf("initial[%d]: %w", i, err)
		}
		if err := rec.SetInitialTerm(i, v); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// ParseDefinition decodes name, index, relation and initial from a generic
// parameter map, as sent by the HTTP and MCP adapters.
func ParseDefinition(params map[string]interface{}) (*Recurrence, error) {
	var p recurrenceParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return p.Build()
}

// ResolveParams decodes a recurrence from params and resolves it. Decoding
// failures are reported as a StageInput ResolutionError of kind
// ErrInvalidInput.
func (rs *Resolver) ResolveParams(params map[string]interface{}) (*Solution, error) {
	rec, err := ParseDefinition(params)
	if err != nil {
		return nil, fail(StageInput, ErrInvalidInput, err)
	}
	return rs.Solve(rec)
}

// Outcome names the result of a resolution for metrics labels: "ok", the
// failing Stage, or "error" for anything else.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var re *ResolutionError
	if errors.As(err, &re) {
		return string(re.Stage)
	}
	return "error"
}

// FromDefinition builds a Recurrence from expression strings.
func FromDefinition(name, index, relation string, initial []string) (*Recurrence, error) {
	raw := make([]interface{}, len(initial))
	for i, v := range initial {
		raw[i] = v
	}
	return recurrenceParams{Name: name, Index: index, Relation: relation, Initial: raw}.Build()
}

// SolutionResult is the JSON shape of a resolved recurrence.
type SolutionResult struct {
	ClosedForm     string                 `json:"closed_form"`
	Tree           map[string]interface{} `json:"tree"`
	Characteristic string                 `json:"characteristic"`
	Roots          []RootResult           `json:"roots"`
	Coefficients   map[string]string      `json:"coefficients"`
	Order          int                    `json:"order"`
}

type RootResult struct {
	Value        string `json:"value"`
	Multiplicity int    `json:"multiplicity"`
}

// NewSolutionResult converts a Solution to its JSON shape.
func NewSolutionResult(sol *Solution) SolutionResult {
	coeffs := make(map[string]string, len(sol.Coefficients))
	for _, a := range sol.Coefficients {
		coeffs[a.Unknown.String()] = a.Value.String()
	}
	return SolutionResult{
		ClosedForm:     sol.ClosedForm.String(),
		Tree:           symbol.JSONTree(sol.ClosedForm),
		Characteristic: sol.Characteristic.String(),
		Roots:          rootResults(sol.Roots),
		Coefficients:   coeffs,
		Order:          sol.Order(),
	}
}

// SolutionResponse is the tool response carrying sol.
func SolutionResponse(sol *Solution) ToolResponse {
	return ToolResponse{
		Result: NewSolutionResult(sol),
		LaTeX:  sol.ClosedForm.LaTeX(),
		String: sol.ClosedForm.String(),
	}
}

func rootResults(roots []symbol.Root) []RootResult {
	out := make([]RootResult, len(roots))
	for i, r := range roots {
		out[i] = RootResult{Value: r.Value.String(), Multiplicity: r.Multiplicity}
	}
	return out
}

// HandleToolCall dispatches one tool call with the default Resolver.
func HandleToolCall(req ToolRequest) ToolResponse {
	return NewResolver().HandleToolCall(req)
}

// HandleToolCall dispatches one tool call using rs for resolution.
func (rs *Resolver) HandleToolCall(req ToolRequest) ToolResponse {
	errResp := func(err error) ToolResponse { return ToolResponse{Error: err.Error()} }
	respond := func(e symbol.Expr) ToolResponse {
		return ToolResponse{Result: symbol.JSONTree(e), LaTeX: symbol.LaTeX(e), String: symbol.String(e)}
	}
	recurrenceFrom := func() (*Recurrence, recurrenceParams, error) {
		var p recurrenceParams
		if err := decodeParams(req.Params, &p); err != nil {
			return nil, p, err
		}
		rec, err := p.Build()
		return rec, p, err
	}

	switch req.Tool {
	case "resolve":
		sol, err := rs.ResolveParams(req.Params)
		if err != nil {
			return errResp(err)
		}
		return SolutionResponse(sol)

	case "characteristic_polynomial":
		rec, _, err := recurrenceFrom()
		if err != nil {
			return errResp(err)
		}
		dep, err := Dependencies(rec)
		if err != nil {
			return errResp(err)
		}
		order := max(dep.Order(), len(rec.starting))
		if err := rs.checkOrder(order); err != nil {
			return errResp(err)
		}
		char, err := CharacteristicPolynomial(dep, order, symbol.S(freshName(charVariable, rec.usedNames())))
		if err != nil {
			return errResp(err)
		}
		coeffs := make([]string, len(char.Coeffs))
		for i, c := range char.Coeffs {
			coeffs[i] = c.String()
		}
		return ToolResponse{
			Result: map[string]interface{}{
				"polynomial":   char.String(),
				"variable":     char.Variable.Name(),
				"coefficients": coeffs,
				"order":        order,
			},
			LaTeX:  char.LaTeX(),
			String: char.String(),
		}

	case "roots":
		var p rootsParams
		if err := decodeParams(req.Params, &p); err != nil {
			return errResp(err)
		}
		if p.Variable == "" {
			p.Variable = charVariable
		}
		poly, err := ParseExpr(p.Polynomial)
		if err != nil {
			return errResp(fmt.Errorf("polynomial: %w", err))
		}
		roots, err := symbol.Roots(poly, p.Variable)
		if err != nil {
			return errResp(err)
		}
		res := rootResults(roots)
		b, _ := json.Marshal(res)
		return ToolResponse{Result: res, String: string(b)}

	case "terms":
		rec, p, err := recurrenceFrom()
		if err != nil {
			return errResp(err)
		}
		if p.Count <= 0 || p.Count > rs.maxTerms {
			return errResp(fmt.Errorf("count must be between 1 and %d", rs.maxTerms))
		}
		if dep, err := Dependencies(rec); err == nil {
			if err := rs.checkOrder(dep.Order()); err != nil {
				return errResp(err)
			}
		}
		terms, err := rec.Terms(p.Count)
		if err != nil {
			return errResp(err)
		}
		strs := make([]string, len(terms))
		for i, t := range terms {
			strs[i] = t.String()
		}
		b, _ := json.Marshal(strs)
		return ToolResponse{Result: strs, String: string(b)}

	case "evaluate":
		var p evaluateParams
		if err := decodeParams(req.Params, &p); err != nil {
			return errResp(err)
		}
		if p.Index == "" {
			p.Index = "n"
		}
		form, err := ParseExpr(p.Expression)
		if err != nil {
			return errResp(fmt.Errorf("expression: %w", err))
		}
		v, err := Evaluate(form, symbol.S(p.Index), p.At)
		if err != nil {
			return errResp(err)
		}
		return respond(v)

	case "tool_spec":
		return ToolResponse{Result: ToolSpec(), String: "tool specification"}
	}

	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

// IsTool reports whether name is a tool HandleToolCall dispatches.
func IsTool(name string) bool {
	switch name {
	case "resolve", "characteristic_polynomial", "roots", "terms", "evaluate", "tool_spec":
		return true
	}
	return false
}

// ============================================================
// Tool spec
// ============================================================

func ToolSpec() string {
	recurrenceProps := map[string]string{"name": "string", "index": "string", "relation": "string", "initial": "array"}
	termsProps := map[string]string{"name": "string", "index": "string", "relation": "string", "initial": "array", "count": "integer"}
	tools := []map[string]interface{}{
		ts("resolve", "Closed form of a linear homogeneous constant-coefficient recurrence. relation is the right-hand side of a[n] = ..., e.g. \"a[n-1] + a[n-2]\"; initial lists a[0], a[1], ...", []string{"relation", "initial"}, recurrenceProps),
		ts("characteristic_polynomial", "Characteristic polynomial of a recurrence relation", []string{"relation"}, recurrenceProps),
		ts("roots", "Exact roots with multiplicity of a polynomial", []string{"polynomial"}, map[string]string{"polynomial": "string", "variable": "string"}),
		ts("terms", "First count terms by unrolling the recurrence", []string{"relation", "initial", "count"}, termsProps),
		ts("evaluate", "Exact value of a closed form at an integer index", []string{"expression", "at"}, map[string]string{"expression": "string", "index": "string", "at": "integer"}),
		ts("tool_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
